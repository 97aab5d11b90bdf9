package repository

import (
	"github.com/softdesk/softdesk-api/internal/models"
	"github.com/softdesk/softdesk-api/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// CreateWithCreator creates a project and its Creator contributor row
	// within a single transaction.
	CreateWithCreator(project *models.Project) error

	// FindByID finds a project by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Project, error)

	// ListForUser lists projects the user contributes to
	ListForUser(userID uint64, params utils.PaginationParams) ([]models.Project, int64, error)

	// Update updates a project
	Update(project *models.Project) error

	// Delete deletes a project and cascades to contributors, issues and comments
	Delete(id uint64) error
}

// IssueFilter holds filtering options for listing issues
type IssueFilter struct {
	ProjectID  uint64
	Status     *models.IssueStatus
	Tag        *models.IssueTag
	Priority   *models.IssuePriority
	AuthorID   *uint64
	AssigneeID *uint64
	Page       int
	PageSize   int
}

// IssueRepository defines the interface for issue data access
type IssueRepository interface {
	// Create creates a new issue
	Create(issue *models.Issue) error

	// FindInProject finds an issue scoped to a project
	FindInProject(projectID, issueID uint64, preload ...string) (*models.Issue, error)

	// List retrieves issues with filtering and pagination
	List(filter IssueFilter) ([]models.Issue, int64, error)

	// Update updates an issue
	Update(issue *models.Issue) error

	// Delete soft deletes an issue and its comments
	Delete(id uint64) error
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	// Create creates a new comment
	Create(comment *models.Comment) error

	// FindInIssue finds a comment scoped to an issue
	FindInIssue(issueID, commentID uint64, preload ...string) (*models.Comment, error)

	// ListByIssue lists an issue's comments with pagination
	ListByIssue(issueID uint64, params utils.PaginationParams) ([]models.Comment, int64, error)

	// Update updates a comment
	Update(comment *models.Comment) error

	// Delete soft deletes a comment
	Delete(id uint64) error
}
