package services

import (
	"errors"
	"fmt"

	"github.com/softdesk/softdesk-api/internal/authz"
	"github.com/softdesk/softdesk-api/internal/models"
	"github.com/softdesk/softdesk-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrContributorNotFound = errors.New("contributor not found")
)

// ContributorService manages project membership. The lifecycle invariants
// (creator uniqueness and immutability, manager uniqueness, one role per
// user) are enforced by the store; this service resolves users and passes
// the store's typed errors through to the handlers.
type ContributorService struct {
	store    authz.ContributorStore
	userRepo repository.UserRepository
}

// NewContributorService creates a new ContributorService.
func NewContributorService(store authz.ContributorStore, userRepo repository.UserRepository) *ContributorService {
	return &ContributorService{
		store:    store,
		userRepo: userRepo,
	}
}

// ListContributors returns all contributors of a project.
func (s *ContributorService) ListContributors(projectID uint64) ([]models.Contributor, error) {
	contributors, err := s.store.ListContributors(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contributors: %w", err)
	}
	return contributors, nil
}

// GetContributor returns one contributor by the target user's id.
func (s *ContributorService) GetContributor(projectID, userID uint64) (*models.Contributor, error) {
	contributor, err := s.store.FindContributor(projectID, userID)
	if err != nil {
		if errors.Is(err, authz.ErrNotFound) {
			return nil, ErrContributorNotFound
		}
		return nil, fmt.Errorf("failed to find contributor: %w", err)
	}
	return contributor, nil
}

// AddContributorInput represents parameters to add a contributor.
type AddContributorInput struct {
	ProjectID uint64
	UserID    uint64
	Role      string
}

// AddContributor adds a user to a project. Store errors
// (*authz.ConflictError, *authz.ForbiddenError, *authz.InvalidRoleError)
// surface unchanged for the handler to map.
func (s *ContributorService) AddContributor(input AddContributorInput) (*models.Contributor, error) {
	role, err := authz.ParseRole(input.Role)
	if err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByID(input.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	contributor, err := s.store.InsertContributor(input.ProjectID, input.UserID, role)
	if err != nil {
		return nil, err
	}

	return contributor, nil
}

// ChangeRole changes a contributor's role.
func (s *ContributorService) ChangeRole(projectID, userID uint64, rawRole string) (*models.Contributor, error) {
	role, err := authz.ParseRole(rawRole)
	if err != nil {
		return nil, err
	}

	contributor, err := s.store.UpdateContributorRole(projectID, userID, role)
	if err != nil {
		if errors.Is(err, authz.ErrNotFound) {
			return nil, ErrContributorNotFound
		}
		return nil, err
	}

	return contributor, nil
}

// RemoveContributor removes a user from a project.
func (s *ContributorService) RemoveContributor(projectID, userID uint64) error {
	err := s.store.DeleteContributor(projectID, userID)
	if err != nil {
		if errors.Is(err, authz.ErrNotFound) {
			return ErrContributorNotFound
		}
		return err
	}
	return nil
}
