package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/softdesk/softdesk-api/internal/authz"
	"github.com/softdesk/softdesk-api/internal/models"
	"github.com/softdesk/softdesk-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrIssueNotFound        = errors.New("issue not found")
	ErrIssueTitleEmpty      = errors.New("issue title cannot be empty")
	ErrInvalidIssueTag      = errors.New("invalid issue tag")
	ErrInvalidIssuePrio     = errors.New("invalid issue priority")
	ErrInvalidIssueStatus   = errors.New("invalid issue status")
	ErrAssigneeNotInProject = errors.New("assignee is not a contributor of the project")
)

// IssueService handles issue business logic
type IssueService struct {
	issueRepo repository.IssueRepository
	members   authz.MembershipStore
}

// NewIssueService creates a new IssueService
func NewIssueService(issueRepo repository.IssueRepository, members authz.MembershipStore) *IssueService {
	return &IssueService{
		issueRepo: issueRepo,
		members:   members,
	}
}

// ListIssuesInput represents filters for listing a project's issues
type ListIssuesInput struct {
	ProjectID  uint64
	Status     *models.IssueStatus
	Tag        *models.IssueTag
	Priority   *models.IssuePriority
	AuthorID   *uint64
	AssigneeID *uint64
	Page       int
	PageSize   int
}

// CreateIssueInput represents input for creating an issue
type CreateIssueInput struct {
	ProjectID   uint64
	AuthorID    uint64
	Title       string
	Description string
	Tag         models.IssueTag
	Priority    models.IssuePriority
	Status      models.IssueStatus
	AssigneeID  *uint64
}

// UpdateIssueInput represents a partial issue update
type UpdateIssueInput struct {
	Title         *string
	Description   *string
	Tag           *models.IssueTag
	Priority      *models.IssuePriority
	Status        *models.IssueStatus
	AssigneeID    *uint64
	ClearAssignee bool
}

// ListIssues returns a project's issues matching the filters
func (s *IssueService) ListIssues(input ListIssuesInput) ([]models.Issue, int64, error) {
	filter := repository.IssueFilter{
		ProjectID:  input.ProjectID,
		Status:     input.Status,
		Tag:        input.Tag,
		Priority:   input.Priority,
		AuthorID:   input.AuthorID,
		AssigneeID: input.AssigneeID,
		Page:       input.Page,
		PageSize:   input.PageSize,
	}

	issues, total, err := s.issueRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list issues: %w", err)
	}

	return issues, total, nil
}

// GetIssue returns an issue with related data
func (s *IssueService) GetIssue(projectID, issueID uint64) (*models.Issue, error) {
	issue, err := s.issueRepo.FindInProject(projectID, issueID, "Author", "Assignee")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIssueNotFound
		}
		return nil, fmt.Errorf("failed to find issue: %w", err)
	}

	return issue, nil
}

// CreateIssue creates a new issue with validation
func (s *IssueService) CreateIssue(input CreateIssueInput) (*models.Issue, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrIssueTitleEmpty
	}
	if !validIssueTag(input.Tag) {
		return nil, ErrInvalidIssueTag
	}
	if !validIssuePriority(input.Priority) {
		return nil, ErrInvalidIssuePrio
	}
	if input.Status == "" {
		input.Status = models.IssueStatusTodo
	}
	if !validIssueStatus(input.Status) {
		return nil, ErrInvalidIssueStatus
	}

	if input.AssigneeID != nil {
		if err := s.ensureContributor(input.ProjectID, *input.AssigneeID); err != nil {
			return nil, err
		}
	}

	issue := &models.Issue{
		Title:       input.Title,
		Description: input.Description,
		Tag:         input.Tag,
		Priority:    input.Priority,
		Status:      input.Status,
		ProjectID:   input.ProjectID,
		AuthorID:    input.AuthorID,
		AssigneeID:  input.AssigneeID,
	}

	if err := s.issueRepo.Create(issue); err != nil {
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}

	return issue, nil
}

// UpdateIssue applies a partial update to an issue
func (s *IssueService) UpdateIssue(projectID, issueID uint64, input UpdateIssueInput) (*models.Issue, error) {
	issue, err := s.issueRepo.FindInProject(projectID, issueID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIssueNotFound
		}
		return nil, fmt.Errorf("failed to find issue: %w", err)
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrIssueTitleEmpty
		}
		issue.Title = *input.Title
	}
	if input.Description != nil {
		issue.Description = *input.Description
	}
	if input.Tag != nil {
		if !validIssueTag(*input.Tag) {
			return nil, ErrInvalidIssueTag
		}
		issue.Tag = *input.Tag
	}
	if input.Priority != nil {
		if !validIssuePriority(*input.Priority) {
			return nil, ErrInvalidIssuePrio
		}
		issue.Priority = *input.Priority
	}
	if input.Status != nil {
		if !validIssueStatus(*input.Status) {
			return nil, ErrInvalidIssueStatus
		}
		issue.Status = *input.Status
	}
	if input.ClearAssignee {
		issue.AssigneeID = nil
	} else if input.AssigneeID != nil {
		if err := s.ensureContributor(projectID, *input.AssigneeID); err != nil {
			return nil, err
		}
		issue.AssigneeID = input.AssigneeID
	}

	if err := s.issueRepo.Update(issue); err != nil {
		return nil, fmt.Errorf("failed to update issue: %w", err)
	}

	return issue, nil
}

// DeleteIssue removes an issue and its comments
func (s *IssueService) DeleteIssue(projectID, issueID uint64) error {
	issue, err := s.issueRepo.FindInProject(projectID, issueID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrIssueNotFound
		}
		return fmt.Errorf("failed to find issue: %w", err)
	}

	if err := s.issueRepo.Delete(issue.ID); err != nil {
		return fmt.Errorf("failed to delete issue: %w", err)
	}

	return nil
}

func (s *IssueService) ensureContributor(projectID, userID uint64) error {
	if _, err := s.members.FindContributor(projectID, userID); err != nil {
		if errors.Is(err, authz.ErrNotFound) {
			return ErrAssigneeNotInProject
		}
		return fmt.Errorf("failed to verify assignee membership: %w", err)
	}
	return nil
}

func validIssueTag(t models.IssueTag) bool {
	switch t {
	case models.IssueTagBug, models.IssueTagFeature, models.IssueTagTask:
		return true
	}
	return false
}

func validIssuePriority(p models.IssuePriority) bool {
	switch p {
	case models.IssuePriorityLow, models.IssuePriorityMedium, models.IssuePriorityHigh:
		return true
	}
	return false
}

func validIssueStatus(st models.IssueStatus) bool {
	switch st {
	case models.IssueStatusTodo, models.IssueStatusHandled, models.IssueStatusClosed:
		return true
	}
	return false
}
