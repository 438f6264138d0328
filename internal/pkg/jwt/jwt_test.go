package jwt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret-key-for-jwt", "1h")
	orgID := "org-1"

	token, expiresAt, err := svc.GenerateAccessToken("user-1", "a@b.cd", &orgID, "OWNER")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Greater(t, expiresAt, int64(0))

	ctx, err := svc.NewContext(context.Background(), token)
	require.NoError(t, err)

	claims, err := ClaimsFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "a@b.cd", claims.Email)
	assert.Equal(t, "org-1", claims.OrganizationID)
	assert.Equal(t, "OWNER", claims.Role)

	got, err := OrganizationIDFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "org-1", got)
}

func TestOrganizationIDFromContext_NoOrganization(t *testing.T) {
	svc := NewJWTService("test-secret-key-for-jwt", "1h")
	token, _, err := svc.GenerateAccessToken("user-1", "a@b.cd", nil, "MEMBER")
	require.NoError(t, err)

	ctx, err := svc.NewContext(context.Background(), token)
	require.NoError(t, err)

	_, err = OrganizationIDFromContext(ctx)
	assert.ErrorIs(t, err, ErrOrganizationMissing)
}

func TestNewContext_RejectsForeignToken(t *testing.T) {
	issuer := NewJWTService("secret-a", "1h")
	verifier := NewJWTService("secret-b", "1h")

	token, _, err := issuer.GenerateAccessToken("user-1", "a@b.cd", nil, "MEMBER")
	require.NoError(t, err)

	_, err = verifier.NewContext(context.Background(), token)
	assert.Error(t, err)
}

func TestClaimsFromContext_Empty(t *testing.T) {
	_, err := ClaimsFromContext(context.Background())
	assert.Error(t, err)
}
