package repository

import (
	"errors"
	"fmt"

	"github.com/softdesk/softdesk-api/internal/authz"
	"github.com/softdesk/softdesk-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormMembershipStore is the GORM implementation of authz.ContributorStore.
// Each write runs its invariant checks and the mutation in one transaction.
// The composite unique index on (project_id, user_id) backs the
// check-then-insert against concurrent pair inserts; Manager uniqueness is
// held by a locking read on the project's Manager rows (MySQL next-key
// locks cover the empty range) plus, on Postgres, the partial unique index
// created in database.AddIndexes. A violation that still races through
// surfaces as gorm.ErrDuplicatedKey and maps to a ConflictError.
type GormMembershipStore struct {
	db *gorm.DB
}

// NewMembershipStore creates a new membership store
func NewMembershipStore(db *gorm.DB) authz.ContributorStore {
	return &GormMembershipStore{db: db}
}

// FindContributor resolves the contributor row for a user in a project
func (s *GormMembershipStore) FindContributor(projectID, userID uint64) (*models.Contributor, error) {
	var contributor models.Contributor
	err := s.db.Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&contributor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, authz.ErrNotFound
		}
		return nil, err
	}
	return &contributor, nil
}

// ListContributors returns all contributor rows of a project
func (s *GormMembershipStore) ListContributors(projectID uint64) ([]models.Contributor, error) {
	var contributors []models.Contributor
	if err := s.db.Preload("User").
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&contributors).Error; err != nil {
		return nil, err
	}
	return contributors, nil
}

// FindIssueOwner returns the author user id of an issue. The lookup is
// scoped to the project, so an issue id from another project is a miss.
func (s *GormMembershipStore) FindIssueOwner(projectID, issueID uint64) (uint64, error) {
	var issue models.Issue
	err := s.db.Select("author_id").
		Where("id = ? AND project_id = ?", issueID, projectID).
		First(&issue).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, authz.ErrNotFound
		}
		return 0, err
	}
	return issue.AuthorID, nil
}

// FindCommentOwner returns the author user id of a comment, scoped to its
// project/issue path via a join on the issue row.
func (s *GormMembershipStore) FindCommentOwner(projectID, issueID, commentID uint64) (uint64, error) {
	var comment models.Comment
	err := s.db.Select("comments.author_id").
		Joins("JOIN issues ON issues.id = comments.issue_id AND issues.deleted_at IS NULL").
		Where("comments.id = ? AND comments.issue_id = ? AND issues.project_id = ?",
			commentID, issueID, projectID).
		First(&comment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, authz.ErrNotFound
		}
		return 0, err
	}
	return comment.AuthorID, nil
}

// InsertContributor adds a user to a project after the lifecycle checks
func (s *GormMembershipStore) InsertContributor(projectID, userID uint64, role models.ContributorRole) (*models.Contributor, error) {
	var contributor *models.Contributor

	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := findContributorTx(tx, projectID, userID)
		if err != nil {
			return err
		}

		managerTaken, err := managerExistsTx(tx, projectID, 0)
		if err != nil {
			return err
		}

		if err := authz.CheckInsert(existing, managerTaken, role); err != nil {
			return err
		}

		contributor = &models.Contributor{
			ProjectID: projectID,
			UserID:    userID,
			Role:      role,
		}
		if err := tx.Create(contributor).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return duplicateConflict(role)
			}
			return fmt.Errorf("failed to insert contributor: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return contributor, nil
}

// UpdateContributorRole changes an existing contributor's role
func (s *GormMembershipStore) UpdateContributorRole(projectID, userID uint64, role models.ContributorRole) (*models.Contributor, error) {
	var contributor *models.Contributor

	err := s.db.Transaction(func(tx *gorm.DB) error {
		target, err := findContributorTx(tx, projectID, userID)
		if err != nil {
			return err
		}
		if target == nil {
			return authz.ErrNotFound
		}

		managerTaken, err := managerExistsTx(tx, projectID, target.ID)
		if err != nil {
			return err
		}

		if err := authz.CheckRoleChange(target, managerTaken, role); err != nil {
			return err
		}

		target.Role = role
		if err := tx.Save(target).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return duplicateConflict(role)
			}
			return fmt.Errorf("failed to update contributor role: %w", err)
		}

		contributor = target
		return nil
	})
	if err != nil {
		return nil, err
	}

	return contributor, nil
}

// DeleteContributor removes a contributor unless it is the Creator row
func (s *GormMembershipStore) DeleteContributor(projectID, userID uint64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		target, err := findContributorTx(tx, projectID, userID)
		if err != nil {
			return err
		}
		if target == nil {
			return authz.ErrNotFound
		}

		if err := authz.CheckDelete(target); err != nil {
			return err
		}

		if err := tx.Delete(&models.Contributor{}, target.ID).Error; err != nil {
			return fmt.Errorf("failed to delete contributor: %w", err)
		}

		return nil
	})
}

func findContributorTx(tx *gorm.DB, projectID, userID uint64) (*models.Contributor, error) {
	var contributor models.Contributor
	err := tx.Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&contributor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &contributor, nil
}

// managerExistsTx reports whether the project already has a Manager,
// ignoring the row with id excludeID (for role changes on that row). The
// read is locking (FOR UPDATE) so two transactions cannot both observe an
// empty Manager slot and both fill it; the sqlite driver drops the clause,
// where the single writer makes it redundant anyway.
func managerExistsTx(tx *gorm.DB, projectID, excludeID uint64) (bool, error) {
	var managers []models.Contributor
	query := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("project_id = ? AND role = ?", projectID, models.RoleManager)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Find(&managers).Error; err != nil {
		return false, err
	}
	return len(managers) > 0, nil
}

// duplicateConflict maps a unique-index violation that raced past the
// in-transaction checks to the invariant the index protects. With the
// Manager rows locked, a duplicate on a Manager write means the Postgres
// partial index fired; any other role can only have lost the pair index.
func duplicateConflict(role models.ContributorRole) error {
	if role == models.RoleManager {
		return &authz.ConflictError{Reason: authz.ReasonManagerExists}
	}
	return &authz.ConflictError{Reason: authz.ReasonAlreadyContributor}
}
