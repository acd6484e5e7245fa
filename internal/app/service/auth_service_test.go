package service

import (
	"context"
	"os"
	"testing"

	"codecampus/internal/app/nav"
	"codecampus/internal/common"
	"codecampus/internal/common/security"
	"codecampus/internal/domain/model"
	"codecampus/internal/domain/repository"
	"codecampus/internal/platform/config"
	"codecampus/internal/platform/logger"
	"codecampus/internal/platform/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	config.Load()
	security.InitJWT()
	os.Exit(m.Run())
}

func newTestAuth(t *testing.T) (*AuthService, repository.ProfileRepository) {
	t.Helper()
	store := storage.NewMemoryStore()
	repo := repository.NewKVProfileRepository(store, "profiles", "session", logger.NewNop())
	return NewAuthService(repo, logger.NewNop()), repo
}

func TestLoginCreatesProfileForUnseenEmail(t *testing.T) {
	auth, repo := newTestAuth(t)
	ctx := context.Background()

	resp, err := auth.Login(ctx, LoginRequest{Role: model.RoleUser, Email: "new@x.com"})
	require.NoError(t, err)
	require.NotNil(t, resp.User)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, nav.ViewCourses, resp.LandingView)

	assert.Equal(t, "New", resp.User.Name)
	assert.Equal(t, "new", resp.User.Username)
	assert.Empty(t, resp.User.Avatar)
	assert.Equal(t, model.DefaultStats(), resp.User.Stats)
	assert.Empty(t, resp.User.Submissions)

	// Both the map entry and the session pointer exist.
	stored, err := repo.GetProfile(ctx, "new@x.com")
	require.NoError(t, err)
	assert.Equal(t, resp.User, stored)
	session, err := repo.GetSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, resp.User, session)
}

func TestLoginNormalizesEmail(t *testing.T) {
	auth, _ := newTestAuth(t)
	ctx := context.Background()

	first, err := auth.Login(ctx, LoginRequest{Role: model.RoleUser, Email: "Foo@Bar.com "})
	require.NoError(t, err)
	assert.Equal(t, "foo@bar.com", first.User.Email)

	second, err := auth.Login(ctx, LoginRequest{Role: model.RoleUser, Email: "foo@bar.com"})
	require.NoError(t, err)
	assert.Equal(t, first.User.Email, second.User.Email)
	assert.Equal(t, first.User.Username, second.User.Username)
}

func TestLoginOverwritesRoleOnly(t *testing.T) {
	auth, _ := newTestAuth(t)
	ctx := context.Background()

	_, err := auth.Login(ctx, LoginRequest{Role: model.RoleUser, Email: "dual@x.com", Name: "Dual Person"})
	require.NoError(t, err)

	resp, err := auth.Login(ctx, LoginRequest{Role: model.RoleAdmin, Email: "dual@x.com"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, resp.User.Role)
	assert.Equal(t, "Dual Person", resp.User.Name) // everything else untouched
	assert.Equal(t, nav.ViewAdmin, resp.LandingView)
}

func TestLoginValidation(t *testing.T) {
	auth, _ := newTestAuth(t)
	ctx := context.Background()

	_, err := auth.Login(ctx, LoginRequest{Role: model.RoleUser})
	assert.ErrorIs(t, err, common.ErrBadRequest)

	_, err = auth.Login(ctx, LoginRequest{Role: "superuser", Email: "x@x.com"})
	assert.ErrorIs(t, err, common.ErrBadRequest)
}

func TestLogoutClearsSessionButKeepsProfile(t *testing.T) {
	auth, repo := newTestAuth(t)
	ctx := context.Background()

	_, err := auth.Login(ctx, LoginRequest{Role: model.RoleUser, Email: "keep@x.com"})
	require.NoError(t, err)
	require.NoError(t, auth.Logout(ctx))

	_, err = auth.Me(ctx)
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	_, err = repo.GetProfile(ctx, "keep@x.com")
	assert.NoError(t, err)
}

func TestUpdateProfilePersistsMapAndSessionTogether(t *testing.T) {
	auth, repo := newTestAuth(t)
	ctx := context.Background()

	_, err := auth.Login(ctx, LoginRequest{Role: model.RoleUser, Email: "edit@x.com"})
	require.NoError(t, err)

	updated, err := auth.UpdateProfile(ctx, "edit@x.com", UpdateProfileRequest{
		Name:    "Editor",
		College: "State University",
		Course:  "CS",
	})
	require.NoError(t, err)
	assert.Equal(t, "Editor", updated.Name)

	stored, err := repo.GetProfile(ctx, "edit@x.com")
	require.NoError(t, err)
	session, err := repo.GetSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, stored, session)
	assert.Equal(t, "State University", stored.College)
}

func TestUpdateProfileUnknownEmail(t *testing.T) {
	auth, _ := newTestAuth(t)
	_, err := auth.UpdateProfile(context.Background(), "ghost@x.com", UpdateProfileRequest{Name: "Ghost"})
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestListUsersReturnsAllProfilesOrdered(t *testing.T) {
	auth, _ := newTestAuth(t)
	ctx := context.Background()

	for _, email := range []string{"carol@x.com", "alice@x.com", "bob@x.com"} {
		_, err := auth.Login(ctx, LoginRequest{Role: model.RoleUser, Email: email})
		require.NoError(t, err)
	}

	users, err := auth.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "alice@x.com", users[0].Email)
	assert.Equal(t, "bob@x.com", users[1].Email)
	assert.Equal(t, "carol@x.com", users[2].Email)
}
