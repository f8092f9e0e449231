// AngelaMos | 2026
// client.go

package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/angelamos/storefront/internal/config"
	"github.com/angelamos/storefront/internal/core"
)

type ChargeRequest struct {
	AmountCents    int64  `json:"amount"`
	Currency       string `json:"currency"`
	SourceToken    string `json:"source"`
	IdempotencyKey string `json:"-"`
}

// Charge is the gateway's record of a captured payment. AmountCents is
// authoritative for what was actually charged.
type Charge struct {
	ID          string `json:"id"`
	AmountCents int64  `json:"amount"`
}

type gatewayError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Gateway submits charges to the payment processor.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*Charge, error)
}

// Client is an HTTP charge-gateway client. Charge issues exactly one
// POST per call; retrying after a transport fault is the caller's
// decision, never this client's.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

func NewClient(cfg config.PaymentConfig) *Client {
	timeout := cfg.ChargeTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		secretKey:  cfg.SecretKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) Charge(
	ctx context.Context,
	req ChargeRequest,
) (*Charge, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(req); err != nil {
		return nil, fmt.Errorf("encode charge request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/charges",
		&buf,
	)
	if err != nil {
		return nil, fmt.Errorf("build charge request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)
	httpReq.Header.Set("Content-Type", "application/json")
	if req.IdempotencyKey != "" {
		httpReq.Header.Set("Idempotency-Key", req.IdempotencyKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("submit charge: %w", core.ErrPaymentGateway)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	switch {
	case resp.StatusCode == http.StatusOK ||
		resp.StatusCode == http.StatusCreated:
		var charge Charge
		if err := json.NewDecoder(resp.Body).Decode(&charge); err != nil {
			return nil, fmt.Errorf(
				"decode charge response: %w",
				core.ErrPaymentGateway,
			)
		}
		if charge.ID == "" {
			return nil, fmt.Errorf(
				"charge response missing id: %w",
				core.ErrPaymentGateway,
			)
		}
		return &charge, nil

	case resp.StatusCode == http.StatusPaymentRequired ||
		resp.StatusCode == http.StatusUnprocessableEntity:
		var gwErr gatewayError
		//nolint:errcheck // decline body is advisory
		_ = json.NewDecoder(resp.Body).Decode(&gwErr)
		if gwErr.Error.Message != "" {
			return nil, fmt.Errorf(
				"%s: %w",
				gwErr.Error.Message,
				core.ErrPaymentDeclined,
			)
		}
		return nil, fmt.Errorf("charge declined: %w", core.ErrPaymentDeclined)

	default:
		return nil, fmt.Errorf(
			"gateway returned %s: %w",
			resp.Status,
			core.ErrPaymentGateway,
		)
	}
}

var _ Gateway = (*Client)(nil)
