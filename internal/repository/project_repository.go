package repository

import (
	"github.com/softdesk/softdesk-api/internal/database"
	"github.com/softdesk/softdesk-api/internal/models"
	"github.com/softdesk/softdesk-api/internal/utils"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// CreateWithCreator creates the project and its Creator contributor row in
// one transaction. This is the only path that produces a Creator role.
func (r *GormProjectRepository) CreateWithCreator(project *models.Project) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}

		creator := &models.Contributor{
			ProjectID: project.ID,
			UserID:    project.AuthorID,
			Role:      models.RoleCreator,
		}
		if err := tx.Create(creator).Error; err != nil {
			return err
		}

		return nil
	})
}

// FindByID finds a project by ID with optional preloading
func (r *GormProjectRepository) FindByID(id uint64, preload ...string) (*models.Project, error) {
	query := r.db
	for _, relation := range preload {
		query = query.Preload(relation)
	}

	var project models.Project
	if err := query.First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// ListForUser lists projects the user contributes to
func (r *GormProjectRepository) ListForUser(userID uint64, params utils.PaginationParams) ([]models.Project, int64, error) {
	base := r.db.Model(&models.Project{}).
		Joins("JOIN contributors ON contributors.project_id = projects.id").
		Where("contributors.user_id = ?", userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []models.Project
	if err := base.Scopes(database.Paginate(params)).
		Order("projects.created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// Update updates a project
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// Delete deletes a project and all related data in a transaction
func (r *GormProjectRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var issueIDs []uint64
		if err := tx.Model(&models.Issue{}).
			Where("project_id = ?", id).
			Pluck("id", &issueIDs).Error; err != nil {
			return err
		}

		if len(issueIDs) > 0 {
			if err := tx.Where("issue_id IN ?", issueIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("project_id = ?", id).Delete(&models.Issue{}).Error; err != nil {
			return err
		}

		// Contributor rows go with the project, the Creator row included.
		if err := tx.Where("project_id = ?", id).Delete(&models.Contributor{}).Error; err != nil {
			return err
		}

		if err := tx.Delete(&models.Project{}, id).Error; err != nil {
			return err
		}

		return nil
	})
}
