package services

import (
	"testing"

	"github.com/softdesk/softdesk-api/internal/models"
	"github.com/softdesk/softdesk-api/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type issueTestEnv struct {
	db      *gorm.DB
	service *IssueService
	project *models.Project
	creator *models.User
}

func setupIssueTestEnv(t *testing.T) issueTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Contributor{},
		&models.Issue{},
		&models.Comment{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	creator := &models.User{Username: "creator", PasswordHash: "hashed"}
	require.NoError(t, db.Create(creator).Error)

	projectRepo := repository.NewProjectRepository(db)
	project := &models.Project{
		Title:    "Tracker",
		Type:     models.ProjectTypeBackEnd,
		AuthorID: creator.ID,
	}
	require.NoError(t, projectRepo.CreateWithCreator(project))

	service := NewIssueService(
		repository.NewIssueRepository(db),
		repository.NewMembershipStore(db),
	)

	return issueTestEnv{
		db:      db,
		service: service,
		project: project,
		creator: creator,
	}
}

func TestIssueService_CreateIssue_DefaultsStatusToTodo(t *testing.T) {
	env := setupIssueTestEnv(t)

	issue, err := env.service.CreateIssue(CreateIssueInput{
		ProjectID: env.project.ID,
		AuthorID:  env.creator.ID,
		Title:     "Crash on save",
		Tag:       models.IssueTagBug,
		Priority:  models.IssuePriorityHigh,
	})
	require.NoError(t, err)
	require.Equal(t, models.IssueStatusTodo, issue.Status)
}

func TestIssueService_CreateIssue_Validation(t *testing.T) {
	env := setupIssueTestEnv(t)

	_, err := env.service.CreateIssue(CreateIssueInput{
		ProjectID: env.project.ID,
		AuthorID:  env.creator.ID,
		Title:     "  ",
		Tag:       models.IssueTagBug,
		Priority:  models.IssuePriorityLow,
	})
	require.ErrorIs(t, err, ErrIssueTitleEmpty)

	_, err = env.service.CreateIssue(CreateIssueInput{
		ProjectID: env.project.ID,
		AuthorID:  env.creator.ID,
		Title:     "Crash on save",
		Tag:       "Incident",
		Priority:  models.IssuePriorityLow,
	})
	require.ErrorIs(t, err, ErrInvalidIssueTag)

	_, err = env.service.CreateIssue(CreateIssueInput{
		ProjectID: env.project.ID,
		AuthorID:  env.creator.ID,
		Title:     "Crash on save",
		Tag:       models.IssueTagBug,
		Priority:  "Urgent",
	})
	require.ErrorIs(t, err, ErrInvalidIssuePrio)
}

func TestIssueService_CreateIssue_AssigneeMustBeContributor(t *testing.T) {
	env := setupIssueTestEnv(t)

	outsider := &models.User{Username: "outsider", PasswordHash: "hashed"}
	require.NoError(t, env.db.Create(outsider).Error)

	_, err := env.service.CreateIssue(CreateIssueInput{
		ProjectID:  env.project.ID,
		AuthorID:   env.creator.ID,
		Title:      "Crash on save",
		Tag:        models.IssueTagBug,
		Priority:   models.IssuePriorityHigh,
		AssigneeID: &outsider.ID,
	})
	require.ErrorIs(t, err, ErrAssigneeNotInProject)

	// Self-assignment by a contributor works.
	issue, err := env.service.CreateIssue(CreateIssueInput{
		ProjectID:  env.project.ID,
		AuthorID:   env.creator.ID,
		Title:      "Crash on save",
		Tag:        models.IssueTagBug,
		Priority:   models.IssuePriorityHigh,
		AssigneeID: &env.creator.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, issue.AssigneeID)
	require.Equal(t, env.creator.ID, *issue.AssigneeID)
}

func TestIssueService_UpdateIssue(t *testing.T) {
	env := setupIssueTestEnv(t)

	issue, err := env.service.CreateIssue(CreateIssueInput{
		ProjectID:  env.project.ID,
		AuthorID:   env.creator.ID,
		Title:      "Crash on save",
		Tag:        models.IssueTagBug,
		Priority:   models.IssuePriorityHigh,
		AssigneeID: &env.creator.ID,
	})
	require.NoError(t, err)

	status := models.IssueStatusClosed
	updated, err := env.service.UpdateIssue(env.project.ID, issue.ID, UpdateIssueInput{
		Status:        &status,
		ClearAssignee: true,
	})
	require.NoError(t, err)
	require.Equal(t, models.IssueStatusClosed, updated.Status)
	require.Nil(t, updated.AssigneeID)

	badStatus := models.IssueStatus("Abandoned")
	_, err = env.service.UpdateIssue(env.project.ID, issue.ID, UpdateIssueInput{
		Status: &badStatus,
	})
	require.ErrorIs(t, err, ErrInvalidIssueStatus)
}

func TestIssueService_GetIssue_ScopedToProject(t *testing.T) {
	env := setupIssueTestEnv(t)

	issue, err := env.service.CreateIssue(CreateIssueInput{
		ProjectID: env.project.ID,
		AuthorID:  env.creator.ID,
		Title:     "Crash on save",
		Tag:       models.IssueTagBug,
		Priority:  models.IssuePriorityHigh,
	})
	require.NoError(t, err)

	found, err := env.service.GetIssue(env.project.ID, issue.ID)
	require.NoError(t, err)
	require.Equal(t, issue.ID, found.ID)

	// The same issue id under another project does not resolve.
	_, err = env.service.GetIssue(env.project.ID+1, issue.ID)
	require.ErrorIs(t, err, ErrIssueNotFound)
}

func TestIssueService_DeleteIssue_RemovesComments(t *testing.T) {
	env := setupIssueTestEnv(t)

	issue, err := env.service.CreateIssue(CreateIssueInput{
		ProjectID: env.project.ID,
		AuthorID:  env.creator.ID,
		Title:     "Crash on save",
		Tag:       models.IssueTagBug,
		Priority:  models.IssuePriorityHigh,
	})
	require.NoError(t, err)

	comment := &models.Comment{
		Description: "Reproduced on main",
		AuthorID:    env.creator.ID,
		IssueID:     issue.ID,
	}
	require.NoError(t, env.db.Create(comment).Error)

	require.NoError(t, env.service.DeleteIssue(env.project.ID, issue.ID))

	_, err = env.service.GetIssue(env.project.ID, issue.ID)
	require.ErrorIs(t, err, ErrIssueNotFound)

	var count int64
	require.NoError(t, env.db.Model(&models.Comment{}).
		Where("issue_id = ?", issue.ID).Count(&count).Error)
	require.Zero(t, count)
}
