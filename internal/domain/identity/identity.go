package identity

import "context"

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleEmployee Role = "EMPLOYEE"
)

func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleEmployee
}

// Identity is the verified caller attached to a request.
type Identity struct {
	UserID string
	Role   Role
}

func (i Identity) IsEmployee() bool {
	return i.Role == RoleEmployee
}

type contextKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok && id.UserID != ""
}
