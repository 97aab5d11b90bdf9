package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/softdesk/softdesk-api/internal/authz"
	"github.com/softdesk/softdesk-api/internal/constants"
	"github.com/softdesk/softdesk-api/internal/models"
	"github.com/softdesk/softdesk-api/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type authorizeTestEnv struct {
	db        *gorm.DB
	evaluator *authz.Evaluator
	store     authz.ContributorStore
}

func setupAuthorizeTestEnv(t *testing.T) authorizeTestEnv {
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

	store := repository.NewMembershipStore(db)

	return authorizeTestEnv{
		db:        db,
		evaluator: authz.NewEvaluator(store),
		store:     store,
	}
}

// newAuthorizeRouter builds a router whose routes run the authorization
// middleware in front of a handler that just reports 200.
func newAuthorizeRouter(env authorizeTestEnv, userID uint64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	})

	ok := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}

	authorize := func(action authz.Action, kind authz.ResourceKind) gin.HandlerFunc {
		return Authorize(env.evaluator, action, kind)
	}

	router.GET("/projects/:project_id",
		authorize(authz.ActionRetrieve, authz.KindProject), ok)
	router.POST("/projects/:project_id/users",
		authorize(authz.ActionCreate, authz.KindContributor), ok)
	router.GET("/projects/:project_id/issues",
		authorize(authz.ActionList, authz.KindIssue), ok)
	router.DELETE("/projects/:project_id/issues/:issue_id",
		authorize(authz.ActionDelete, authz.KindIssue), ok)

	return router
}

func denyReason(t *testing.T, body []byte) string {
	t.Helper()
	var response struct {
		Reason string `json:"reason"`
	}
	require.NoError(t, json.Unmarshal(body, &response))
	return response.Reason
}

// seedAuthorizeProject creates two users, a project owned by the first and
// a Manager membership for the second.
func seedAuthorizeProject(t *testing.T, env authorizeTestEnv) (project *models.Project, creator, manager *models.User) {
	t.Helper()

	creator = &models.User{Username: "creator", PasswordHash: "hashed"}
	require.NoError(t, env.db.Create(creator).Error)
	manager = &models.User{Username: "manager", PasswordHash: "hashed"}
	require.NoError(t, env.db.Create(manager).Error)

	project = &models.Project{
		Title:    "Tracker",
		Type:     models.ProjectTypeBackEnd,
		AuthorID: creator.ID,
	}
	require.NoError(t, env.db.Create(project).Error)
	require.NoError(t, env.db.Create(&models.Contributor{
		ProjectID: project.ID,
		UserID:    creator.ID,
		Role:      models.RoleCreator,
	}).Error)

	_, err := env.store.InsertContributor(project.ID, manager.ID, models.RoleManager)
	require.NoError(t, err)

	return project, creator, manager
}

func TestAuthorize_NonContributorDenied(t *testing.T) {
	env := setupAuthorizeTestEnv(t)
	_, _, _ = seedAuthorizeProject(t, env)

	outsider := &models.User{Username: "outsider", PasswordHash: "hashed"}
	require.NoError(t, env.db.Create(outsider).Error)

	router := newAuthorizeRouter(env, outsider.ID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/projects/1", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, string(authz.ReasonNotAContributor), denyReason(t, w.Body.Bytes()))
}

func TestAuthorize_NonContributorDeniedOnMissingProject(t *testing.T) {
	env := setupAuthorizeTestEnv(t)

	outsider := &models.User{Username: "outsider", PasswordHash: "hashed"}
	require.NoError(t, env.db.Create(outsider).Error)

	router := newAuthorizeRouter(env, outsider.ID)

	// A project that does not exist looks the same as one the caller is
	// not a member of.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/projects/999", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, string(authz.ReasonNotAContributor), denyReason(t, w.Body.Bytes()))
}

func TestAuthorize_ContributorAllowed(t *testing.T) {
	env := setupAuthorizeTestEnv(t)
	project, creator, _ := seedAuthorizeProject(t, env)

	router := newAuthorizeRouter(env, creator.ID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/projects/1", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/projects/1/issues", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	_ = project
}

func TestAuthorize_ContributorCreateRequiresAdmin(t *testing.T) {
	env := setupAuthorizeTestEnv(t)
	project, _, _ := seedAuthorizeProject(t, env)

	author := &models.User{Username: "author", PasswordHash: "hashed"}
	require.NoError(t, env.db.Create(author).Error)
	_, err := env.store.InsertContributor(project.ID, author.ID, models.RoleAuthor)
	require.NoError(t, err)

	router := newAuthorizeRouter(env, author.ID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/projects/1/users", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, string(authz.ReasonRequiresAdminRole), denyReason(t, w.Body.Bytes()))
}

func TestAuthorize_IssueDeleteAuthorOnly(t *testing.T) {
	env := setupAuthorizeTestEnv(t)
	project, creator, manager := seedAuthorizeProject(t, env)

	issue := &models.Issue{
		Title:     "Crash on save",
		Tag:       models.IssueTagBug,
		Priority:  models.IssuePriorityHigh,
		Status:    models.IssueStatusTodo,
		ProjectID: project.ID,
		AuthorID:  creator.ID,
	}
	require.NoError(t, env.db.Create(issue).Error)

	// A Manager may not delete another contributor's issue.
	router := newAuthorizeRouter(env, manager.ID)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/projects/1/issues/1", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, string(authz.ReasonNotAuthor), denyReason(t, w.Body.Bytes()))

	// Its author may.
	router = newAuthorizeRouter(env, creator.ID)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/projects/1/issues/1", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAuthorize_MissingIssueIsNotFoundForMember(t *testing.T) {
	env := setupAuthorizeTestEnv(t)
	_, creator, _ := seedAuthorizeProject(t, env)

	router := newAuthorizeRouter(env, creator.ID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/projects/1/issues/999", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuthorize_MalformedIDRejected(t *testing.T) {
	env := setupAuthorizeTestEnv(t)
	_, creator, _ := seedAuthorizeProject(t, env)

	router := newAuthorizeRouter(env, creator.ID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/projects/abc", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
