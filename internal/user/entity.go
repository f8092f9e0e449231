// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/angelamos/storefront/internal/permission"
)

type User struct {
	ID           string          `db:"id"`
	Email        string          `db:"email"`
	PasswordHash string          `db:"password_hash"`
	Name         string          `db:"name"`
	Permissions  permission.List `db:"permissions"`

	// ResetToken and ResetTokenExpiry are set and cleared together.
	ResetToken       *string    `db:"reset_token"`
	ResetTokenExpiry *time.Time `db:"reset_token_expiry"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Permissions.Has(permission.Admin)
}

func (u *User) HasActiveResetToken(now time.Time) bool {
	return u.ResetToken != nil &&
		u.ResetTokenExpiry != nil &&
		!now.After(*u.ResetTokenExpiry)
}
