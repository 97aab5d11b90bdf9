package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/softdesk/softdesk-api/internal/dto"
	"github.com/softdesk/softdesk-api/internal/models"
	"github.com/softdesk/softdesk-api/internal/repository"
	"github.com/softdesk/softdesk-api/internal/services"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type issueHandlerTestEnv struct {
	db      *gorm.DB
	handler *IssueHandler
	service *services.IssueService
	project *models.Project
	creator *models.User
}

func setupIssueHandlerTestEnv(t *testing.T) issueHandlerTestEnv {
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

	creator := createProjectTestUser(t, db, "creator")

	project := &models.Project{
		Title:    "Tracker",
		Type:     models.ProjectTypeBackEnd,
		AuthorID: creator.ID,
	}
	require.NoError(t, repository.NewProjectRepository(db).CreateWithCreator(project))

	service := services.NewIssueService(
		repository.NewIssueRepository(db),
		repository.NewMembershipStore(db),
	)

	return issueHandlerTestEnv{
		db:      db,
		handler: NewIssueHandler(service),
		service: service,
		project: project,
		creator: creator,
	}
}

func (env issueHandlerTestEnv) createIssue(t *testing.T, authorID uint64, title string) *models.Issue {
	t.Helper()
	issue, err := env.service.CreateIssue(services.CreateIssueInput{
		ProjectID: env.project.ID,
		AuthorID:  authorID,
		Title:     title,
		Tag:       models.IssueTagBug,
		Priority:  models.IssuePriorityMedium,
	})
	require.NoError(t, err)
	return issue
}

func TestIssueHandler_ListIssues_FilterByAuthor(t *testing.T) {
	env := setupIssueHandlerTestEnv(t)

	other := createProjectTestUser(t, env.db, "other")
	_, err := repository.NewMembershipStore(env.db).
		InsertContributor(env.project.ID, other.ID, models.RoleAuthor)
	require.NoError(t, err)

	env.createIssue(t, env.creator.ID, "Crash on save")
	env.createIssue(t, other.ID, "Typo in footer")

	c, w := projectTestContext(http.MethodGet, "/api/projects/1/issues?author_id=2", nil, env.creator.ID)
	c.Params = gin.Params{{Key: "project_id", Value: "1"}}

	env.handler.ListIssues(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.IssueListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Issues, 1)
	require.Equal(t, other.ID, response.Issues[0].AuthorID)
	require.Equal(t, "Typo in footer", response.Issues[0].Title)
}

func TestIssueHandler_ListIssues_InvalidAuthorFilter(t *testing.T) {
	env := setupIssueHandlerTestEnv(t)

	c, w := projectTestContext(http.MethodGet, "/api/projects/1/issues?author_id=bob", nil, env.creator.ID)
	c.Params = gin.Params{{Key: "project_id", Value: "1"}}

	env.handler.ListIssues(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
