package auth

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/workforce-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	jwtService := jwt.NewJWTService("test-secret", "1h")
	svc := NewAuthService(memory.NewStore().Users(), jwtService)

	user, err := svc.Register(ctx, auth.RegisterRequest{Email: " Ada@Example.com ", Password: "correct-horse", Name: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, string(auth.RoleMember), user.Role)
	assert.Nil(t, user.OrganizationID)

	_, err = svc.Register(ctx, auth.RegisterRequest{Email: "ada@example.com", Password: "another-pass", Name: "Ada"})
	assert.ErrorIs(t, err, auth.ErrEmailExists)

	tokens, err := svc.Login(ctx, auth.LoginRequest{Email: "ADA@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.Equal(t, user.ID, tokens.User.ID)

	authed, err := jwtService.NewContext(ctx, tokens.AccessToken)
	require.NoError(t, err)
	me, err := svc.Me(authed)
	require.NoError(t, err)
	assert.Equal(t, "Ada", me.Name)

	_, err = jwt.OrganizationIDFromContext(authed)
	assert.ErrorIs(t, err, jwt.ErrOrganizationMissing)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(memory.NewStore().Users(), jwt.NewJWTService("test-secret", "1h"))

	_, err := svc.Register(ctx, auth.RegisterRequest{Email: "bo@example.com", Password: "correct-horse", Name: "Bo"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, auth.LoginRequest{Email: "bo@example.com", Password: "wrong-horse"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = svc.Login(ctx, auth.LoginRequest{Email: "nobody@example.com", Password: "correct-horse"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestRegister_Validation(t *testing.T) {
	svc := NewAuthService(memory.NewStore().Users(), jwt.NewJWTService("test-secret", "1h"))

	_, err := svc.Register(context.Background(), auth.RegisterRequest{Email: "not-an-email", Password: "short"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 3)
}
