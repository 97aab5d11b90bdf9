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
	ErrCommentNotFound = errors.New("comment not found")
	ErrCommentEmpty    = errors.New("comment description cannot be empty")
)

// CommentService handles comment business logic
type CommentService struct {
	commentRepo repository.CommentRepository
	issueRepo   repository.IssueRepository
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repository.CommentRepository, issueRepo repository.IssueRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		issueRepo:   issueRepo,
	}
}

// ListComments lists an issue's comments
func (s *CommentService) ListComments(projectID, issueID uint64, params utils.PaginationParams) ([]models.Comment, int64, error) {
	if err := s.ensureIssue(projectID, issueID); err != nil {
		return nil, 0, err
	}

	comments, total, err := s.commentRepo.ListByIssue(issueID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list comments: %w", err)
	}

	return comments, total, nil
}

// GetComment returns one comment of an issue
func (s *CommentService) GetComment(projectID, issueID, commentID uint64) (*models.Comment, error) {
	if err := s.ensureIssue(projectID, issueID); err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.FindInIssue(issueID, commentID, "Author")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to find comment: %w", err)
	}

	return comment, nil
}

// CreateCommentInput represents input for creating a comment
type CreateCommentInput struct {
	ProjectID   uint64
	IssueID     uint64
	AuthorID    uint64
	Description string
}

// CreateComment adds a comment to an issue
func (s *CommentService) CreateComment(input CreateCommentInput) (*models.Comment, error) {
	if strings.TrimSpace(input.Description) == "" {
		return nil, ErrCommentEmpty
	}

	if err := s.ensureIssue(input.ProjectID, input.IssueID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Description: input.Description,
		AuthorID:    input.AuthorID,
		IssueID:     input.IssueID,
	}

	if err := s.commentRepo.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	return comment, nil
}

// UpdateComment changes a comment's description
func (s *CommentService) UpdateComment(projectID, issueID, commentID uint64, description string) (*models.Comment, error) {
	if strings.TrimSpace(description) == "" {
		return nil, ErrCommentEmpty
	}

	if err := s.ensureIssue(projectID, issueID); err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.FindInIssue(issueID, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to find comment: %w", err)
	}

	comment.Description = description
	if err := s.commentRepo.Update(comment); err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}

	return comment, nil
}

// DeleteComment removes a comment
func (s *CommentService) DeleteComment(projectID, issueID, commentID uint64) error {
	if err := s.ensureIssue(projectID, issueID); err != nil {
		return err
	}

	comment, err := s.commentRepo.FindInIssue(issueID, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("failed to find comment: %w", err)
	}

	if err := s.commentRepo.Delete(comment.ID); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	return nil
}

func (s *CommentService) ensureIssue(projectID, issueID uint64) error {
	if _, err := s.issueRepo.FindInProject(projectID, issueID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrIssueNotFound
		}
		return fmt.Errorf("failed to find issue: %w", err)
	}
	return nil
}
