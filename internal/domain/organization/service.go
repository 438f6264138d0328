package organization

import "context"

type OrganizationService interface {
	// Create makes the caller the OWNER of a new organization and returns a re-issued token.
	Create(ctx context.Context, req UpsertOrganizationRequest) (CreateOrganizationResponse, error)
	GetMine(ctx context.Context) (OrganizationResponse, error)
	UpdateMine(ctx context.Context, req UpsertOrganizationRequest) (OrganizationResponse, error)
	// AddMember attaches a registered user without an organization to the caller's organization.
	AddMember(ctx context.Context, req AddMemberRequest) (MemberResponse, error)
}
