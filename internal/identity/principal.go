// Package identity owns the local user/account entity. The external identity
// provider is treated strictly as an authentication oracle; the role column
// on the locally-owned users row is the source of truth for authorization.
package identity

import (
	"context"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ValidRole reports whether r is one of the roles this system assigns.
func ValidRole(r string) bool { return r == RoleUser || r == RoleAdmin }

// Principal is the authenticated entity making a request.
type Principal struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	SignedUpAt  time.Time `json:"signed_up_at"`
}

// Store is the account collaborator. UpdateRole must be a single atomic
// update: a concurrent reader observes either the old role or the new one,
// never a partial state. Setting a role to its current value is a no-op
// success.
type Store interface {
	Get(ctx context.Context, id string) (Principal, error)
	GetByEmail(ctx context.Context, email string) (Principal, error)
	List(ctx context.Context) ([]Principal, error)
	UpdateRole(ctx context.Context, id, role string) error
	Delete(ctx context.Context, id string) error
	Upsert(ctx context.Context, p Principal, passwordHash string) error
}

// Authenticator verifies local credentials and returns the stored principal.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (Principal, error)
}
