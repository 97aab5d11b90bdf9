package dto

import (
	"time"

	"github.com/softdesk/softdesk-api/internal/models"
	"github.com/softdesk/softdesk-api/internal/utils"
)

// IssueDTO represents an issue in API responses
type IssueDTO struct {
	ID          uint64               `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Tag         models.IssueTag      `json:"tag"`
	Priority    models.IssuePriority `json:"priority"`
	Status      models.IssueStatus   `json:"status"`
	ProjectID   uint64               `json:"project_id"`
	AuthorID    uint64               `json:"author_id"`
	AssigneeID  *uint64              `json:"assignee_id"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	Author      *UserDTO             `json:"author,omitempty"`
	Assignee    *UserDTO             `json:"assignee,omitempty"`
}

// IssueListResponse represents a paginated list of issues
type IssueListResponse struct {
	Issues     []IssueDTO               `json:"issues"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// CommentDTO represents a comment in API responses
type CommentDTO struct {
	ID          uint64    `json:"id"`
	Description string    `json:"description"`
	AuthorID    uint64    `json:"author_id"`
	IssueID     uint64    `json:"issue_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Author      *UserDTO  `json:"author,omitempty"`
}

// CommentListResponse represents a paginated list of comments
type CommentListResponse struct {
	Comments   []CommentDTO             `json:"comments"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToIssueDTO converts an Issue model to IssueDTO
func ToIssueDTO(issue models.Issue) IssueDTO {
	dto := IssueDTO{
		ID:          issue.ID,
		Title:       issue.Title,
		Description: issue.Description,
		Tag:         issue.Tag,
		Priority:    issue.Priority,
		Status:      issue.Status,
		ProjectID:   issue.ProjectID,
		AuthorID:    issue.AuthorID,
		AssigneeID:  issue.AssigneeID,
		CreatedAt:   issue.CreatedAt,
		UpdatedAt:   issue.UpdatedAt,
	}

	if issue.Author.ID != 0 {
		author := ToUserDTO(issue.Author)
		dto.Author = &author
	}
	if issue.Assignee != nil && issue.Assignee.ID != 0 {
		assignee := ToUserDTO(*issue.Assignee)
		dto.Assignee = &assignee
	}

	return dto
}

// ToCommentDTO converts a Comment model to CommentDTO
func ToCommentDTO(comment models.Comment) CommentDTO {
	dto := CommentDTO{
		ID:          comment.ID,
		Description: comment.Description,
		AuthorID:    comment.AuthorID,
		IssueID:     comment.IssueID,
		CreatedAt:   comment.CreatedAt,
		UpdatedAt:   comment.UpdatedAt,
	}

	if comment.Author.ID != 0 {
		author := ToUserDTO(comment.Author)
		dto.Author = &author
	}

	return dto
}
