// Package authz decides whether the current principal may perform an action.
// The Guard enforces the protection invariants around privileged accounts;
// the Checker maps roles onto route permissions.
package authz

import (
	"context"

	"github.com/ridgecrew/trainhub/internal/identity"
)

// Action is an admin-scoped operation evaluated by the Guard.
type Action string

const (
	ActionPromote Action = "promote"
	ActionDemote  Action = "demote"
	ActionDelete  Action = "delete"
)

// destructive actions are the ones the protection rules apply to.
func (a Action) destructive() bool { return a == ActionDemote || a == ActionDelete }

// Deny reasons. Callers render different messages per reason, so the exact
// strings are part of the contract.
const (
	ReasonUnauthenticated = "unauthenticated"
	ReasonNotAdmin        = "not-admin"
	ReasonSelf            = "cannot act on self"
	ReasonProtected       = "cannot demote/delete primary admin"
)

// Decision is the typed Allow/Deny outcome of an authorization check.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision             { return Decision{Allowed: true} }
func deny(reason string) Decision { return Decision{Reason: reason} }

// Predicate marks a principal as protected from demotion and deletion.
// Protection rules are configuration data, not inlined literals.
type Predicate func(p identity.Principal) bool

// ProtectedID protects the principal with the given identifier.
func ProtectedID(id string) Predicate {
	return func(p identity.Principal) bool { return id != "" && p.ID == id }
}

// ProtectedEmail protects the principal with the given email.
func ProtectedEmail(email string) Predicate {
	return func(p identity.Principal) bool { return email != "" && p.Email == email }
}

// Guard evaluates admin actions against the rule chain. Rules run in order
// and the first match wins, so a protected admin acting on itself is denied
// with the self reason, not the protected-account reason.
type Guard struct {
	protected []Predicate
}

func NewGuard(protected ...Predicate) *Guard {
	return &Guard{protected: protected}
}

// Authorize applies the rule chain. target may be nil for actions without a
// target principal.
func (g *Guard) Authorize(actor *identity.Principal, action Action, target *identity.Principal) Decision {
	if actor == nil {
		return deny(ReasonUnauthenticated)
	}
	if actor.Role != identity.RoleAdmin {
		return deny(ReasonNotAdmin)
	}
	if action.destructive() && target != nil {
		if target.ID == actor.ID {
			return deny(ReasonSelf)
		}
		for _, match := range g.protected {
			if match(*target) {
				return deny(ReasonProtected)
			}
		}
	}
	return allow()
}

// AuthorizeAdmin evaluates only the authentication and role rules, for
// callers that need to reject before resolving a target.
func (g *Guard) AuthorizeAdmin(actor *identity.Principal) Decision {
	if actor == nil {
		return deny(ReasonUnauthenticated)
	}
	if actor.Role != identity.RoleAdmin {
		return deny(ReasonNotAdmin)
	}
	return allow()
}

// SetRole authorizes the role change and, on Allow, writes the new role
// through the identity store. The write is a single atomic update and is
// idempotent: setting a role to its current value is a no-op success.
func (g *Guard) SetRole(ctx context.Context, store identity.Store, actor *identity.Principal, target identity.Principal, role string) (Decision, error) {
	action := ActionPromote
	if role != identity.RoleAdmin {
		action = ActionDemote
	}
	d := g.Authorize(actor, action, &target)
	if !d.Allowed {
		return d, nil
	}
	if err := store.UpdateRole(ctx, target.ID, role); err != nil {
		return d, err
	}
	return d, nil
}

// DeletePrincipal authorizes the deletion and, on Allow, removes the account.
func (g *Guard) DeletePrincipal(ctx context.Context, store identity.Store, actor *identity.Principal, target identity.Principal) (Decision, error) {
	d := g.Authorize(actor, ActionDelete, &target)
	if !d.Allowed {
		return d, nil
	}
	if err := store.Delete(ctx, target.ID); err != nil {
		return d, err
	}
	return d, nil
}
