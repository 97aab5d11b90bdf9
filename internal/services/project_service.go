package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/softdesk/softdesk-api/internal/models"
	"github.com/softdesk/softdesk-api/internal/repository"
	"github.com/softdesk/softdesk-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound    = errors.New("project not found")
	ErrProjectTitleEmpty  = errors.New("project title cannot be empty")
	ErrInvalidProjectType = errors.New("invalid project type")
)

// ProjectService provides business logic for project operations.
type ProjectService struct {
	projectRepo repository.ProjectRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
	}
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Title       string
	Description string
	Type        models.ProjectType
	AuthorID    uint64
}

// CreateProject creates a project; its author becomes the Creator
// contributor in the same transaction.
func (s *ProjectService) CreateProject(input CreateProjectInput) (*models.Project, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrProjectTitleEmpty
	}
	if !validProjectType(input.Type) {
		return nil, ErrInvalidProjectType
	}

	project := &models.Project{
		Title:       input.Title,
		Description: input.Description,
		Type:        input.Type,
		AuthorID:    input.AuthorID,
	}

	if err := s.projectRepo.CreateWithCreator(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// ListProjectsForUser returns the projects the user contributes to.
func (s *ProjectService) ListProjectsForUser(userID uint64, params utils.PaginationParams) ([]models.Project, int64, error) {
	projects, total, err := s.projectRepo.ListForUser(userID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, total, nil
}

// GetProject returns a project with its author loaded.
func (s *ProjectService) GetProject(projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID, "Author")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// UpdateProjectInput represents a partial project update.
type UpdateProjectInput struct {
	Title       *string
	Description *string
	Type        *models.ProjectType
}

// UpdateProject applies a partial update to a project.
func (s *ProjectService) UpdateProject(projectID uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrProjectTitleEmpty
		}
		project.Title = *input.Title
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.Type != nil {
		if !validProjectType(*input.Type) {
			return nil, ErrInvalidProjectType
		}
		project.Type = *input.Type
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// DeleteProject removes a project and everything it owns.
func (s *ProjectService) DeleteProject(projectID uint64) error {
	if _, err := s.projectRepo.FindByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to find project: %w", err)
	}

	if err := s.projectRepo.Delete(projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return nil
}

func validProjectType(t models.ProjectType) bool {
	switch t {
	case models.ProjectTypeBackEnd, models.ProjectTypeFrontEnd, models.ProjectTypeIOS, models.ProjectTypeAndroid:
		return true
	}
	return false
}
