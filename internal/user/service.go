// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelamos/storefront/internal/core"
	"github.com/angelamos/storefront/internal/mail"
	"github.com/angelamos/storefront/internal/permission"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

const resetTokenTTL = time.Hour

// TokenIssuer mints a signed session token for a user id.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

type Service struct {
	repo        Repository
	tokens      TokenIssuer
	mailer      mail.Mailer
	mailFrom    string
	frontendURL string
	now         func() time.Time
}

func NewService(
	repo Repository,
	tokens TokenIssuer,
	mailer mail.Mailer,
	mailFrom, frontendURL string,
) *Service {
	return &Service{
		repo:        repo,
		tokens:      tokens,
		mailer:      mailer,
		mailFrom:    mailFrom,
		frontendURL: frontendURL,
		now:         time.Now,
	}
}

// Signup creates a user with the default permission set and returns a
// fresh session token alongside the record.
func (s *Service) Signup(
	ctx context.Context,
	req SignupRequest,
) (*User, string, error) {
	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(req.Email),
		PasswordHash: passwordHash,
		Name:         req.Name,
		Permissions:  permission.Default(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue session: %w", err)
	}

	return user, token, nil
}

func (s *Service) Signin(
	ctx context.Context,
	req SigninRequest,
) (*User, string, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		return nil, "", err
	}

	valid, err := core.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, "", fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue session: %w", err)
	}

	return user, token, nil
}

// RequestReset persists a one-hour reset token and dispatches the reset
// email. The token survives a failed dispatch; delivery is best-effort
// once the token is committed.
func (s *Service) RequestReset(ctx context.Context, email string) error {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return err
	}

	token, err := core.GenerateResetToken()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}

	expiry := s.now().Add(resetTokenTTL)
	if err := s.repo.SetResetToken(ctx, user.ID, token, expiry); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset?resetToken=%s", s.frontendURL, token)
	msg := mail.ResetEmail(s.mailFrom, user.Email, resetURL)

	if err := s.mailer.Send(ctx, msg); err != nil {
		slog.Warn("reset email dispatch failed",
			"error", err,
			"user_id", user.ID,
		)
	}

	return nil
}

// ResetPassword consumes a reset token: the stored expiry decides
// validity, the token pair is cleared on success, and a fresh session
// is issued.
func (s *Service) ResetPassword(
	ctx context.Context,
	req ResetPasswordRequest,
) (*User, string, error) {
	if req.Password != req.ConfirmPassword {
		return nil, "", fmt.Errorf(
			"passwords do not match: %w",
			core.ErrInvalidInput,
		)
	}

	user, err := s.repo.GetByResetToken(ctx, req.ResetToken, s.now())
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, "", fmt.Errorf(
				"reset password: %w",
				core.ErrResetTokenInvalid,
			)
		}
		return nil, "", err
	}

	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	if err := s.repo.ResetPassword(ctx, user.ID, passwordHash); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue session: %w", err)
	}

	user.PasswordHash = passwordHash
	user.ResetToken = nil
	user.ResetTokenExpiry = nil

	return user, token, nil
}

// UpdatePermissions replaces a user's permission set. The acting user
// needs ADMIN or PERMISSIONUPDATE.
func (s *Service) UpdatePermissions(
	ctx context.Context,
	actorPerms permission.List,
	targetID string,
	rawPerms []string,
) (*User, error) {
	if err := actorPerms.Require(
		permission.Admin,
		permission.PermissionUpdate,
	); err != nil {
		return nil, fmt.Errorf("update permissions: %w", err)
	}

	perms, err := permission.FromStrings(rawPerms)
	if err != nil {
		return nil, err
	}

	return s.repo.UpdatePermissions(ctx, targetID, perms)
}

// ListUsers requires ADMIN or PERMISSIONUPDATE.
func (s *Service) ListUsers(
	ctx context.Context,
	actorPerms permission.List,
	params ListUsersParams,
) ([]User, int, error) {
	if err := actorPerms.Require(
		permission.Admin,
		permission.PermissionUpdate,
	); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	return s.repo.List(ctx, params)
}

func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// LoadPermissions backs per-request actor resolution.
func (s *Service) LoadPermissions(
	ctx context.Context,
	userID string,
) (permission.List, error) {
	return s.repo.GetPermissions(ctx, userID)
}
