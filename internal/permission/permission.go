// AngelaMos | 2026
// permission.go

package permission

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/angelamos/storefront/internal/core"
)

// Permission is a fixed enumerated capability attached to a user.
type Permission string

const (
	User             Permission = "USER"
	Admin            Permission = "ADMIN"
	ItemDelete       Permission = "ITEMDELETE"
	PermissionUpdate Permission = "PERMISSIONUPDATE"
)

var all = map[Permission]struct{}{
	User:             {},
	Admin:            {},
	ItemDelete:       {},
	PermissionUpdate: {},
}

func (p Permission) Valid() bool {
	_, ok := all[p]
	return ok
}

func Parse(s string) (Permission, error) {
	p := Permission(strings.ToUpper(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("unknown permission %q: %w", s, core.ErrInvalidInput)
	}
	return p, nil
}

// Default is the permission set every newly created user receives.
func Default() List {
	return List{User}
}

// List is a user's permission set, stored as a Postgres text[] column.
type List []Permission

// Has reports whether the set intersects any of the required
// permissions. Pure; no side effects.
func (l List) Has(required ...Permission) bool {
	for _, have := range l {
		for _, want := range required {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Require returns ErrForbidden unless the set intersects the required
// permissions.
func (l List) Require(required ...Permission) error {
	if l.Has(required...) {
		return nil
	}

	names := make([]string, 0, len(required))
	for _, p := range required {
		names = append(names, string(p))
	}

	return fmt.Errorf(
		"requires one of [%s]: %w",
		strings.Join(names, ", "),
		core.ErrForbidden,
	)
}

// Value encodes the list as a Postgres array literal.
func (l List) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "{}", nil
	}

	parts := make([]string, 0, len(l))
	for _, p := range l {
		if !p.Valid() {
			return nil, fmt.Errorf("invalid permission %q", p)
		}
		parts = append(parts, string(p))
	}

	return "{" + strings.Join(parts, ",") + "}", nil
}

// Scan decodes a Postgres array literal. Permission names contain no
// quotes or commas, so the simple split is sufficient.
func (l *List) Scan(src any) error {
	var raw string

	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("scan permissions: unsupported type %T", src)
	}

	raw = strings.TrimPrefix(raw, "{")
	raw = strings.TrimSuffix(raw, "}")
	if raw == "" {
		*l = List{}
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make(List, 0, len(parts))
	for _, part := range parts {
		p := Permission(strings.Trim(strings.TrimSpace(part), `"`))
		if !p.Valid() {
			return fmt.Errorf("scan permissions: unknown permission %q", p)
		}
		out = append(out, p)
	}

	*l = out
	return nil
}

func (l List) Strings() []string {
	out := make([]string, 0, len(l))
	for _, p := range l {
		out = append(out, string(p))
	}
	return out
}

// FromStrings validates and converts raw permission names, rejecting
// duplicates so the set invariant holds before it reaches storage.
func FromStrings(raw []string) (List, error) {
	seen := make(map[Permission]struct{}, len(raw))
	out := make(List, 0, len(raw))

	for _, s := range raw {
		p, err := Parse(s)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf(
			"permission set must not be empty: %w",
			core.ErrInvalidInput,
		)
	}

	return out, nil
}
