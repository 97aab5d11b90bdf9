package repository

import (
	"github.com/softdesk/softdesk-api/internal/models"
	"gorm.io/gorm"
)

// GormIssueRepository is a GORM implementation of IssueRepository
type GormIssueRepository struct {
	db *gorm.DB
}

// NewIssueRepository creates a new IssueRepository
func NewIssueRepository(db *gorm.DB) IssueRepository {
	return &GormIssueRepository{db: db}
}

// Create creates a new issue
func (r *GormIssueRepository) Create(issue *models.Issue) error {
	return r.db.Create(issue).Error
}

// FindInProject finds an issue scoped to a project
func (r *GormIssueRepository) FindInProject(projectID, issueID uint64, preload ...string) (*models.Issue, error) {
	query := r.db
	for _, relation := range preload {
		query = query.Preload(relation)
	}

	var issue models.Issue
	if err := query.Where("project_id = ?", projectID).
		First(&issue, issueID).Error; err != nil {
		return nil, err
	}
	return &issue, nil
}

// List retrieves issues with filtering and pagination
func (r *GormIssueRepository) List(filter IssueFilter) ([]models.Issue, int64, error) {
	query := r.db.Model(&models.Issue{}).Where("project_id = ?", filter.ProjectID)

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Tag != nil {
		query = query.Where("tag = ?", *filter.Tag)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}
	if filter.AuthorID != nil {
		query = query.Where("author_id = ?", *filter.AuthorID)
	}
	if filter.AssigneeID != nil {
		query = query.Where("assignee_id = ?", *filter.AssigneeID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		if offset < 0 {
			offset = 0
		}
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var issues []models.Issue
	if err := query.Preload("Author").
		Preload("Assignee").
		Order("created_at DESC").
		Find(&issues).Error; err != nil {
		return nil, 0, err
	}

	return issues, total, nil
}

// Update updates an issue
func (r *GormIssueRepository) Update(issue *models.Issue) error {
	return r.db.Save(issue).Error
}

// Delete soft deletes an issue and its comments in a transaction
func (r *GormIssueRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("issue_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Issue{}, id).Error; err != nil {
			return err
		}
		return nil
	})
}
