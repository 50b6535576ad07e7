package usecase

import (
	"context"
	"testing"
	"time"

	"cookmyshow/internal/data/entity"
	"cookmyshow/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuth_RegisterLoginLogout(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	reg, err := e.svc.Auth.Register(ctx, &request.RegisterRequest{Name: "Cara", Email: "Cara@Example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "cara@example.com", reg.User.Email)
	assert.Equal(t, entity.RoleCustomer, reg.User.Role)
	assert.Equal(t, e.clock.Now().Add(24*time.Hour).Unix(), reg.ExpiresAt.Unix())

	_, err = e.svc.Auth.Register(ctx, &request.RegisterRequest{Name: "Cara", Email: "cara@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrConflict)

	login, err := e.svc.Auth.Login(ctx, &request.LoginRequest{Email: "CARA@example.com", Password: "secret123"})
	require.NoError(t, err)

	id, err := e.svc.Auth.Authenticate(ctx, login.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, id.UserID.String())

	me, err := e.svc.Auth.Verify(ctx, id.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Cara", me.Name)

	require.NoError(t, e.svc.Auth.Logout(ctx, id.TokenID, id.ExpiresAt))
	_, err = e.svc.Auth.Authenticate(ctx, login.Token)
	assert.ErrorIs(t, err, ErrUnauthorized)

	// Other tokens of the same user stay valid.
	_, err = e.svc.Auth.Authenticate(ctx, reg.Token)
	assert.NoError(t, err)
}

func TestAuth_LoginFailures(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.svc.Auth.Register(ctx, &request.RegisterRequest{Name: "Cara", Email: "cara@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = e.svc.Auth.Login(ctx, &request.LoginRequest{Email: "cara@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = e.svc.Auth.Login(ctx, &request.LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = e.svc.Auth.Login(ctx, &request.LoginRequest{Email: "not-an-email", Password: "x"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "email")
}

func TestAuth_DeactivatedAccount(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	reg, err := e.svc.Auth.Register(ctx, &request.RegisterRequest{Name: "Cara", Email: "cara@example.com", Password: "secret123"})
	require.NoError(t, err)
	userID := uuid.MustParse(reg.User.ID)

	admin := uuid.New()
	off := false
	_, err = e.svc.User.SetActive(ctx, admin, userID, &request.SetActiveRequest{IsActive: &off})
	require.NoError(t, err)

	_, err = e.svc.Auth.Login(ctx, &request.LoginRequest{Email: "cara@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = e.svc.Auth.Authenticate(ctx, reg.Token)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAuth_ExpiredAndForeignTokens(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	reg, err := e.svc.Auth.Register(ctx, &request.RegisterRequest{Name: "Cara", Email: "cara@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = e.svc.Auth.Authenticate(ctx, "not.a.token")
	assert.ErrorIs(t, err, ErrUnauthorized)

	e.clock.Advance(-48 * time.Hour)
	stale, err := e.svc.Auth.Login(ctx, &request.LoginRequest{Email: "cara@example.com", Password: "secret123"})
	require.NoError(t, err)
	e.clock.Advance(48 * time.Hour)

	_, err = e.svc.Auth.Authenticate(ctx, stale.Token)
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = e.svc.Auth.Authenticate(ctx, reg.Token)
	assert.NoError(t, err)
}

func TestAuth_SeedAdmin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	require.NoError(t, e.svc.Auth.SeedAdmin(ctx, "Root@Example.com", "rootpass"))
	require.NoError(t, e.svc.Auth.SeedAdmin(ctx, "root@example.com", "rootpass"))

	admin, err := e.repo.User.FindByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.True(t, admin.IsAdmin())

	require.NoError(t, e.svc.Auth.SeedAdmin(ctx, e.customer.Email, "ignored"))
	promoted, err := e.repo.User.FindByID(ctx, e.customer.ID)
	require.NoError(t, err)
	assert.True(t, promoted.IsAdmin())

	users, err := e.svc.User.GetAllUsers(ctx, &request.PaginatedRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 3, users.Pagination.Total)
}

func TestUser_AdminCannotDeactivateSelf(t *testing.T) {
	e := newEnv(t)
	off := false
	_, err := e.svc.User.SetActive(context.Background(), e.customer.ID, e.customer.ID, &request.SetActiveRequest{IsActive: &off})
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = e.svc.User.SetActive(context.Background(), e.customer.ID, uuid.New(), &request.SetActiveRequest{IsActive: &off})
	assert.ErrorIs(t, err, ErrNotFound)
}
