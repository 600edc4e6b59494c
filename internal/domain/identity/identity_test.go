package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextRoundTrip(t *testing.T) {
	ctx := WithIdentity(context.Background(), Identity{UserID: "u-1", Role: RoleEmployee})

	got, ok := FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "u-1", got.UserID)
	assert.True(t, got.IsEmployee())
}

func TestFromContextMissing(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	_, ok = FromContext(WithIdentity(context.Background(), Identity{Role: RoleCustomer}))
	assert.False(t, ok, "identity without a user id is not usable")
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleCustomer.Valid())
	assert.True(t, RoleEmployee.Valid())
	assert.False(t, Role("ADMIN").Valid())
}
