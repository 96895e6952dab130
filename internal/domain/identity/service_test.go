package identity_test

import (
	"context"
	"testing"
	"time"

	"pet-care-management/internal/adapters/auth/jwtauth"
	"pet-care-management/internal/adapters/auth/password"
	"pet-care-management/internal/adapters/storage/memory"
	"pet-care-management/internal/authz"
	"pet-care-management/internal/domain/identity"
	"pet-care-management/internal/domain/users"
	"pet-care-management/internal/platform/apperr"
	"pet-care-management/internal/platform/patch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	svc    *identity.Service
	users  *users.Service
	tokens *jwtauth.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	hasher := password.NewBcrypt(bcrypt.MinCost)
	tokens, err := jwtauth.NewService("identity-test-secret-0123456789abcdef", time.Hour)
	require.NoError(t, err)

	usersSvc := users.NewService(memory.NewStore().Users(), hasher)
	return fixture{
		svc:    identity.NewService(usersSvc, hasher, tokens),
		users:  usersSvc,
		tokens: tokens,
	}
}

func registerInput(username string) identity.RegisterInput {
	return identity.RegisterInput{Username: username, Password: "secret1", ConfirmPassword: "secret1"}
}

func TestRegister_AlwaysOwner(t *testing.T) {
	f := newFixture(t)

	u, err := f.svc.Register(context.Background(), registerInput("alice"))
	require.NoError(t, err)
	assert.Equal(t, authz.RoleOwner, u.Role)
	assert.True(t, u.IsActive)
}

func TestRegister_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mismatch := registerInput("alice")
	mismatch.ConfirmPassword = "secret2"
	_, err := f.svc.Register(ctx, mismatch)
	assert.Equal(t, "passwords do not match", apperr.MessageOf(err))

	_, err = f.svc.Register(ctx, registerInput("al"))
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = f.svc.Register(ctx, registerInput("alice"))
	require.NoError(t, err)
	_, err = f.svc.Register(ctx, registerInput("alice"))
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.svc.Register(ctx, registerInput("alice"))
	require.NoError(t, err)

	res, err := f.svc.Login(ctx, "alice", "secret1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.User.ID)
	assert.Equal(t, time.Hour, res.Token.TTL)

	id, err := f.tokens.Validate(res.Token.Value)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)
}

func TestLogin_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.svc.Register(ctx, registerInput("alice"))
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, "alice", "wrong-password")
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	assert.Equal(t, "invalid username or password", apperr.MessageOf(err))

	// usuario desconocido: mismo mensaje
	_, err = f.svc.Login(ctx, "nobody", "secret1")
	assert.Equal(t, "invalid username or password", apperr.MessageOf(err))

	_, err = f.svc.Login(ctx, "", "")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = f.users.Update(ctx, u.ID, users.UpdateInput{IsActive: patch.Of(false)})
	require.NoError(t, err)
	_, err = f.svc.Login(ctx, "alice", "secret1")
	assert.Equal(t, apperr.KindAccountDisabled, apperr.KindOf(err))
}

func TestMe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.svc.Register(ctx, registerInput("alice"))
	require.NoError(t, err)

	me, err := f.svc.Me(ctx, authz.Caller{ID: u.ID, Role: u.Role})
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Username)

	_, err = f.svc.Me(ctx, authz.Caller{ID: 999, Role: authz.RoleOwner})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
