package repository

import (
	"github.com/softdesk/softdesk-api/internal/database"
	"github.com/softdesk/softdesk-api/internal/models"
	"github.com/softdesk/softdesk-api/internal/utils"
	"gorm.io/gorm"
)

// GormCommentRepository is a GORM implementation of CommentRepository
type GormCommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &GormCommentRepository{db: db}
}

// Create creates a new comment
func (r *GormCommentRepository) Create(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// FindInIssue finds a comment scoped to an issue
func (r *GormCommentRepository) FindInIssue(issueID, commentID uint64, preload ...string) (*models.Comment, error) {
	query := r.db
	for _, relation := range preload {
		query = query.Preload(relation)
	}

	var comment models.Comment
	if err := query.Where("issue_id = ?", issueID).
		First(&comment, commentID).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByIssue lists an issue's comments with pagination
func (r *GormCommentRepository) ListByIssue(issueID uint64, params utils.PaginationParams) ([]models.Comment, int64, error) {
	base := r.db.Model(&models.Comment{}).Where("issue_id = ?", issueID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []models.Comment
	if err := base.Scopes(database.Paginate(params)).
		Preload("Author").
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}

// Update updates a comment
func (r *GormCommentRepository) Update(comment *models.Comment) error {
	return r.db.Save(comment).Error
}

// Delete soft deletes a comment
func (r *GormCommentRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Comment{}, id).Error
}
