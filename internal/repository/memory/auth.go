package memory

import (
	"context"
	"strings"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/organization"
	"github.com/google/uuid"
)

type userRepository struct{ *Store }

func (s *Store) Users() auth.UserRepository { return userRepository{s} }

func (r userRepository) Create(ctx context.Context, user auth.User) (auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.data.users {
		if strings.EqualFold(u.Email, user.Email) {
			return auth.User{}, auth.ErrEmailExists
		}
	}
	user.ID = uuid.NewString()
	user.CreatedAt = r.now()
	user.UpdatedAt = user.CreatedAt
	r.data.users[user.ID] = user
	return user, nil
}

func (r userRepository) GetByID(ctx context.Context, id string) (auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.data.users[id]
	if !ok {
		return auth.User{}, auth.ErrUserNotFound
	}
	return u, nil
}

func (r userRepository) GetByEmail(ctx context.Context, email string) (auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.data.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return auth.User{}, auth.ErrUserNotFound
}

func (r userRepository) SetOrganization(ctx context.Context, userID, organizationID string, role auth.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.data.users[userID]
	if !ok {
		return auth.ErrUserNotFound
	}
	u.OrganizationID = &organizationID
	u.Role = role
	u.UpdatedAt = r.now()
	r.data.users[userID] = u
	return nil
}

type organizationRepository struct{ *Store }

func (s *Store) Organizations() organization.OrganizationRepository {
	return organizationRepository{s}
}

func (r organizationRepository) Create(ctx context.Context, org organization.Organization) (organization.Organization, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	org.ID = uuid.NewString()
	org.CreatedAt = r.now()
	org.UpdatedAt = org.CreatedAt
	r.data.organizations[org.ID] = org
	return org, nil
}

func (r organizationRepository) GetByID(ctx context.Context, id string) (organization.Organization, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	org, ok := r.data.organizations[id]
	if !ok {
		return organization.Organization{}, organization.ErrOrganizationNotFound
	}
	return org, nil
}

func (r organizationRepository) Update(ctx context.Context, org organization.Organization) (organization.Organization, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.data.organizations[org.ID]
	if !ok {
		return organization.Organization{}, organization.ErrOrganizationNotFound
	}
	existing.Name = org.Name
	existing.UpdatedAt = r.now()
	r.data.organizations[org.ID] = existing
	return existing, nil
}
