package organization

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/organization"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/workforce-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store      *memory.Store
	jwtService jwt.Service
	svc        organization.OrganizationService
}

func newFixture() *fixture {
	store := memory.NewStore()
	jwtService := jwt.NewJWTService("test-secret", "1h")
	return &fixture{
		store:      store,
		jwtService: jwtService,
		svc:        NewOrganizationService(store.Transactor(), store.Organizations(), store.Users(), jwtService),
	}
}

func (f *fixture) user(t *testing.T, email string) (auth.User, context.Context) {
	t.Helper()
	u, err := f.store.Users().Create(context.Background(), auth.User{Email: email, Name: email, Role: auth.RoleMember})
	require.NoError(t, err)
	return u, f.contextFor(t, u.ID, email, nil, string(auth.RoleMember))
}

func (f *fixture) contextFor(t *testing.T, userID, email string, orgID *string, role string) context.Context {
	t.Helper()
	token, _, err := f.jwtService.GenerateAccessToken(userID, email, orgID, role)
	require.NoError(t, err)
	ctx, err := f.jwtService.NewContext(context.Background(), token)
	require.NoError(t, err)
	return ctx
}

func TestCreate_MakesCallerOwner(t *testing.T) {
	f := newFixture()
	owner, ctx := f.user(t, "owner@example.com")

	resp, err := f.svc.Create(ctx, organization.UpsertOrganizationRequest{Name: "  North Hub "})
	require.NoError(t, err)
	assert.Equal(t, "North Hub", resp.Organization.Name)

	stored, err := f.store.Users().GetByID(context.Background(), owner.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.OrganizationID)
	assert.Equal(t, resp.Organization.ID, *stored.OrganizationID)
	assert.Equal(t, auth.RoleOwner, stored.Role)

	// The returned token carries the new organization.
	ownerCtx, err := f.jwtService.NewContext(context.Background(), resp.AccessToken)
	require.NoError(t, err)
	mine, err := f.svc.GetMine(ownerCtx)
	require.NoError(t, err)
	assert.Equal(t, resp.Organization.ID, mine.ID)

	_, err = f.svc.Create(ctx, organization.UpsertOrganizationRequest{Name: "Second"})
	assert.ErrorIs(t, err, organization.ErrAlreadyMember)

	updated, err := f.svc.UpdateMine(ownerCtx, organization.UpsertOrganizationRequest{Name: "South Hub"})
	require.NoError(t, err)
	assert.Equal(t, "South Hub", updated.Name)
}

func TestAddMember(t *testing.T) {
	f := newFixture()
	_, ctx := f.user(t, "owner@example.com")
	created, err := f.svc.Create(ctx, organization.UpsertOrganizationRequest{Name: "North Hub"})
	require.NoError(t, err)
	ownerCtx, err := f.jwtService.NewContext(context.Background(), created.AccessToken)
	require.NoError(t, err)

	member, _ := f.user(t, "member@example.com")
	resp, err := f.svc.AddMember(ownerCtx, organization.AddMemberRequest{Email: "Member@example.com", Role: "manager"})
	require.NoError(t, err)
	assert.Equal(t, member.ID, resp.UserID)
	assert.Equal(t, "MANAGER", resp.Role)

	_, err = f.svc.AddMember(ownerCtx, organization.AddMemberRequest{Email: "member@example.com", Role: "MEMBER"})
	assert.ErrorIs(t, err, organization.ErrAlreadyMember)

	_, err = f.svc.AddMember(ownerCtx, organization.AddMemberRequest{Email: "ghost@example.com", Role: "MEMBER"})
	assert.ErrorIs(t, err, auth.ErrUserNotFound)

	orgID := created.Organization.ID
	managerCtx := f.contextFor(t, member.ID, member.Email, &orgID, "MANAGER")
	f.user(t, "third@example.com")
	_, err = f.svc.AddMember(managerCtx, organization.AddMemberRequest{Email: "third@example.com", Role: "MEMBER"})
	assert.ErrorIs(t, err, auth.ErrOwnerRequired)
}
