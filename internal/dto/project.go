package dto

import (
	"time"

	"github.com/softdesk/softdesk-api/internal/models"
	"github.com/softdesk/softdesk-api/internal/utils"
)

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID          uint64             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Type        models.ProjectType `json:"type"`
	AuthorID    uint64             `json:"author_id"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Author      *UserDTO           `json:"author,omitempty"`
}

// ProjectListResponse represents a paginated list of projects
type ProjectListResponse struct {
	Projects   []ProjectDTO             `json:"projects"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ContributorDTO represents a contributor in API responses
type ContributorDTO struct {
	ProjectID uint64                 `json:"project_id"`
	UserID    uint64                 `json:"user_id"`
	Role      models.ContributorRole `json:"role"`
	CreatedAt time.Time              `json:"created_at"`
	User      *UserDTO               `json:"user,omitempty"`
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	dto := ProjectDTO{
		ID:          project.ID,
		Title:       project.Title,
		Description: project.Description,
		Type:        project.Type,
		AuthorID:    project.AuthorID,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}

	// Include author if preloaded
	if project.Author.ID != 0 {
		author := ToUserDTO(project.Author)
		dto.Author = &author
	}

	return dto
}

// ToContributorDTO converts a Contributor model to ContributorDTO
func ToContributorDTO(contributor models.Contributor) ContributorDTO {
	dto := ContributorDTO{
		ProjectID: contributor.ProjectID,
		UserID:    contributor.UserID,
		Role:      contributor.Role,
		CreatedAt: contributor.CreatedAt,
	}

	if contributor.User.ID != 0 {
		user := ToUserDTO(contributor.User)
		dto.User = &user
	}

	return dto
}
