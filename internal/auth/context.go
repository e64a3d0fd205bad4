package auth

import (
	"context"

	"github.com/wargadigital/rukem/internal/model"
)

type contextKey struct{}

// AuthContext carries the authenticated user through a request.
type AuthContext struct {
	UserID    int64
	Email     string
	Name      string
	Role      model.Role
	SessionID int64
}

func WithAuth(ctx context.Context, ac AuthContext) context.Context {
	return context.WithValue(ctx, contextKey{}, ac)
}

func FromContext(ctx context.Context) (AuthContext, bool) {
	ac, ok := ctx.Value(contextKey{}).(AuthContext)
	return ac, ok
}

func UserID(ctx context.Context) int64 {
	ac, ok := FromContext(ctx)
	if !ok {
		return 0
	}
	return ac.UserID
}

// Identity returns the display identity recorded on approvals and
// verifications: the user's name, falling back to email.
func Identity(ctx context.Context) string {
	ac, ok := FromContext(ctx)
	if !ok {
		return ""
	}
	if ac.Name != "" {
		return ac.Name
	}
	return ac.Email
}

func IsAdmin(ctx context.Context) bool {
	ac, ok := FromContext(ctx)
	if !ok {
		return false
	}
	return ac.Role == model.RoleAdmin
}

// CanManageRecords reports whether the user may mutate the registry, death
// records, claims, and ledger.
func CanManageRecords(ctx context.Context) bool {
	ac, ok := FromContext(ctx)
	if !ok {
		return false
	}
	return ac.Role == model.RoleAdmin || ac.Role == model.RoleOperator
}
