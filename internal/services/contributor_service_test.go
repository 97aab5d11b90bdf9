package services

import (
	"errors"
	"testing"

	"github.com/softdesk/softdesk-api/internal/authz"
	"github.com/softdesk/softdesk-api/internal/models"
	"github.com/softdesk/softdesk-api/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type contributorTestEnv struct {
	db      *gorm.DB
	service *ContributorService
	project *models.Project
	creator *models.User
}

func setupContributorTestEnv(t *testing.T) contributorTestEnv {
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

	project := &models.Project{
		Title:    "Tracker",
		Type:     models.ProjectTypeBackEnd,
		AuthorID: creator.ID,
	}
	require.NoError(t, repository.NewProjectRepository(db).CreateWithCreator(project))

	service := NewContributorService(
		repository.NewMembershipStore(db),
		repository.NewUserRepository(db),
	)

	return contributorTestEnv{
		db:      db,
		service: service,
		project: project,
		creator: creator,
	}
}

func createContributorTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, PasswordHash: "hashed"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestContributorService_AddContributor(t *testing.T) {
	env := setupContributorTestEnv(t)

	user := createContributorTestUser(t, env.db, "alice")

	contributor, err := env.service.AddContributor(AddContributorInput{
		ProjectID: env.project.ID,
		UserID:    user.ID,
		Role:      "Author",
	})
	require.NoError(t, err)
	require.Equal(t, models.RoleAuthor, contributor.Role)

	contributors, err := env.service.ListContributors(env.project.ID)
	require.NoError(t, err)
	require.Len(t, contributors, 2)
}

func TestContributorService_AddContributor_UnknownUser(t *testing.T) {
	env := setupContributorTestEnv(t)

	_, err := env.service.AddContributor(AddContributorInput{
		ProjectID: env.project.ID,
		UserID:    999,
		Role:      "Author",
	})
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestContributorService_AddContributor_InvalidRole(t *testing.T) {
	env := setupContributorTestEnv(t)

	user := createContributorTestUser(t, env.db, "alice")

	_, err := env.service.AddContributor(AddContributorInput{
		ProjectID: env.project.ID,
		UserID:    user.ID,
		Role:      "Admin",
	})

	var invalidRole *authz.InvalidRoleError
	require.True(t, errors.As(err, &invalidRole))
	require.Equal(t, "Admin", invalidRole.Value)
}

func TestContributorService_AddContributor_CreatorNotAssignable(t *testing.T) {
	env := setupContributorTestEnv(t)

	user := createContributorTestUser(t, env.db, "alice")

	_, err := env.service.AddContributor(AddContributorInput{
		ProjectID: env.project.ID,
		UserID:    user.ID,
		Role:      "Creator",
	})

	var forbidden *authz.ForbiddenError
	require.True(t, errors.As(err, &forbidden))
	require.Equal(t, authz.ReasonCreatorNotAssignable, forbidden.Reason)
}

func TestContributorService_AddContributor_Duplicate(t *testing.T) {
	env := setupContributorTestEnv(t)

	user := createContributorTestUser(t, env.db, "alice")

	_, err := env.service.AddContributor(AddContributorInput{
		ProjectID: env.project.ID,
		UserID:    user.ID,
		Role:      "Author",
	})
	require.NoError(t, err)

	_, err = env.service.AddContributor(AddContributorInput{
		ProjectID: env.project.ID,
		UserID:    user.ID,
		Role:      "Manager",
	})

	var conflict *authz.ConflictError
	require.True(t, errors.As(err, &conflict))
	require.Equal(t, authz.ReasonAlreadyContributor, conflict.Reason)
}

func TestContributorService_ChangeRole(t *testing.T) {
	env := setupContributorTestEnv(t)

	user := createContributorTestUser(t, env.db, "alice")

	_, err := env.service.AddContributor(AddContributorInput{
		ProjectID: env.project.ID,
		UserID:    user.ID,
		Role:      "Author",
	})
	require.NoError(t, err)

	contributor, err := env.service.ChangeRole(env.project.ID, user.ID, "Manager")
	require.NoError(t, err)
	require.Equal(t, models.RoleManager, contributor.Role)
}

func TestContributorService_ChangeRole_CreatorImmutable(t *testing.T) {
	env := setupContributorTestEnv(t)

	_, err := env.service.ChangeRole(env.project.ID, env.creator.ID, "Author")

	var forbidden *authz.ForbiddenError
	require.True(t, errors.As(err, &forbidden))
	require.Equal(t, authz.ReasonCreatorImmutable, forbidden.Reason)
}

func TestContributorService_RemoveContributor(t *testing.T) {
	env := setupContributorTestEnv(t)

	user := createContributorTestUser(t, env.db, "alice")

	_, err := env.service.AddContributor(AddContributorInput{
		ProjectID: env.project.ID,
		UserID:    user.ID,
		Role:      "Author",
	})
	require.NoError(t, err)

	require.NoError(t, env.service.RemoveContributor(env.project.ID, user.ID))

	_, err = env.service.GetContributor(env.project.ID, user.ID)
	require.ErrorIs(t, err, ErrContributorNotFound)

	err = env.service.RemoveContributor(env.project.ID, user.ID)
	require.ErrorIs(t, err, ErrContributorNotFound)
}

func TestContributorService_RemoveContributor_CreatorImmutable(t *testing.T) {
	env := setupContributorTestEnv(t)

	err := env.service.RemoveContributor(env.project.ID, env.creator.ID)

	var forbidden *authz.ForbiddenError
	require.True(t, errors.As(err, &forbidden))
	require.Equal(t, authz.ReasonCreatorImmutable, forbidden.Reason)
}
