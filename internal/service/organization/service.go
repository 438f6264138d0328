package organization

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/organization"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/jwt"
)

type OrganizationServiceImpl struct {
	db         database.Transactor
	orgRepo    organization.OrganizationRepository
	userRepo   auth.UserRepository
	jwtService jwt.Service
}

func NewOrganizationService(db database.Transactor, orgRepo organization.OrganizationRepository, userRepo auth.UserRepository, jwtService jwt.Service) organization.OrganizationService {
	return &OrganizationServiceImpl{
		db:         db,
		orgRepo:    orgRepo,
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

func toOrganizationResponse(o organization.Organization) organization.OrganizationResponse {
	return organization.OrganizationResponse{
		ID:        o.ID,
		Name:      o.Name,
		CreatedAt: o.CreatedAt.Format(time.RFC3339),
		UpdatedAt: o.UpdatedAt.Format(time.RFC3339),
	}
}

// Create implements organization.OrganizationService.
func (s *OrganizationServiceImpl) Create(ctx context.Context, req organization.UpsertOrganizationRequest) (organization.CreateOrganizationResponse, error) {
	if err := req.Validate(); err != nil {
		return organization.CreateOrganizationResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return organization.CreateOrganizationResponse{}, err
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return organization.CreateOrganizationResponse{}, fmt.Errorf("failed to get user: %w", err)
	}
	if user.OrganizationID != nil {
		return organization.CreateOrganizationResponse{}, organization.ErrAlreadyMember
	}

	var created organization.Organization
	err = s.db.WithinTransaction(ctx, func(txCtx context.Context) error {
		created, err = s.orgRepo.Create(txCtx, organization.Organization{Name: req.Name})
		if err != nil {
			return fmt.Errorf("failed to create organization: %w", err)
		}
		if err := s.userRepo.SetOrganization(txCtx, user.ID, created.ID, auth.RoleOwner); err != nil {
			return fmt.Errorf("failed to set organization owner: %w", err)
		}
		return nil
	})
	if err != nil {
		return organization.CreateOrganizationResponse{}, err
	}

	// The caller's token has no organization yet; hand out one that does.
	token, expiresAt, err := s.jwtService.GenerateAccessToken(user.ID, user.Email, &created.ID, string(auth.RoleOwner))
	if err != nil {
		return organization.CreateOrganizationResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	return organization.CreateOrganizationResponse{
		Organization: toOrganizationResponse(created),
		AccessToken:  token,
		ExpiresAt:    expiresAt,
	}, nil
}

// GetMine implements organization.OrganizationService.
func (s *OrganizationServiceImpl) GetMine(ctx context.Context) (organization.OrganizationResponse, error) {
	orgID, err := jwt.OrganizationIDFromContext(ctx)
	if err != nil {
		return organization.OrganizationResponse{}, err
	}

	org, err := s.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		if errors.Is(err, organization.ErrOrganizationNotFound) {
			return organization.OrganizationResponse{}, organization.ErrOrganizationNotFound
		}
		return organization.OrganizationResponse{}, fmt.Errorf("failed to get organization: %w", err)
	}

	return toOrganizationResponse(org), nil
}

// UpdateMine implements organization.OrganizationService.
func (s *OrganizationServiceImpl) UpdateMine(ctx context.Context, req organization.UpsertOrganizationRequest) (organization.OrganizationResponse, error) {
	if err := req.Validate(); err != nil {
		return organization.OrganizationResponse{}, err
	}

	orgID, err := jwt.OrganizationIDFromContext(ctx)
	if err != nil {
		return organization.OrganizationResponse{}, err
	}

	updated, err := s.orgRepo.Update(ctx, organization.Organization{ID: orgID, Name: req.Name})
	if err != nil {
		if errors.Is(err, organization.ErrOrganizationNotFound) {
			return organization.OrganizationResponse{}, organization.ErrOrganizationNotFound
		}
		return organization.OrganizationResponse{}, fmt.Errorf("failed to update organization: %w", err)
	}

	return toOrganizationResponse(updated), nil
}

// AddMember implements organization.OrganizationService.
func (s *OrganizationServiceImpl) AddMember(ctx context.Context, req organization.AddMemberRequest) (organization.MemberResponse, error) {
	if err := req.Validate(); err != nil {
		return organization.MemberResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return organization.MemberResponse{}, err
	}
	if claims.OrganizationID == "" {
		return organization.MemberResponse{}, jwt.ErrOrganizationMissing
	}
	if auth.Role(claims.Role) != auth.RoleOwner {
		return organization.MemberResponse{}, auth.ErrOwnerRequired
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return organization.MemberResponse{}, auth.ErrUserNotFound
		}
		return organization.MemberResponse{}, fmt.Errorf("failed to get user: %w", err)
	}
	if user.OrganizationID != nil {
		return organization.MemberResponse{}, organization.ErrAlreadyMember
	}

	role := auth.Role(req.Role)
	if err := s.userRepo.SetOrganization(ctx, user.ID, claims.OrganizationID, role); err != nil {
		return organization.MemberResponse{}, fmt.Errorf("failed to add member: %w", err)
	}

	return organization.MemberResponse{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   string(role),
	}, nil
}
