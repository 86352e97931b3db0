package services

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-manager-api/internal/models"
	"github.com/yukikurage/task-manager-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newAuthService(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	db := openTestDB(t)
	svc := NewAuthService(repository.NewUserRepository(db), repository.NewTokenRepository(db), bcrypt.MinCost)
	return svc, db
}

func TestAuthService_RegisterIssuesHashedToken(t *testing.T) {
	svc, db := newAuthService(t)

	user, plain, err := svc.Register(RegisterInput{Name: "Jane", Email: " jane@example.com ", Password: "supersecret"})
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", user.Email)

	idPart, secret, found := strings.Cut(plain, "|")
	require.True(t, found)
	assert.Len(t, secret, 40)
	id, err := strconv.ParseUint(idPart, 10, 64)
	require.NoError(t, err)

	var token models.AccessToken
	require.NoError(t, db.First(&token, id).Error)
	assert.Equal(t, user.ID, token.UserID)
	assert.Equal(t, "auth_token", token.Name)
	assert.NotEqual(t, secret, token.TokenHash)
	assert.Len(t, token.TokenHash, 64)
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService(t)

	_, _, err := svc.Register(RegisterInput{Name: "Jane", Email: "jane@example.com", Password: "supersecret"})
	require.NoError(t, err)

	_, _, err = svc.Register(RegisterInput{Name: "Other", Email: "jane@example.com", Password: "supersecret"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_Login(t *testing.T) {
	svc, _ := newAuthService(t)
	_, _, err := svc.Register(RegisterInput{Name: "Jane", Email: "jane@example.com", Password: "supersecret"})
	require.NoError(t, err)

	_, token, err := svc.Login(LoginInput{Email: "jane@example.com", Password: "supersecret"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, _, err = svc.Login(LoginInput{Email: "jane@example.com", Password: "nope"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(LoginInput{Email: "ghost@example.com", Password: "supersecret"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Authenticate(t *testing.T) {
	svc, db := newAuthService(t)
	fixed := time.Date(2030, time.May, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	registered, plain, err := svc.Register(RegisterInput{Name: "Jane", Email: "jane@example.com", Password: "supersecret"})
	require.NoError(t, err)

	user, token, err := svc.Authenticate(plain)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	var stored models.AccessToken
	require.NoError(t, db.First(&stored, token.ID).Error)
	require.NotNil(t, stored.LastUsedAt)
	assert.True(t, fixed.Equal(stored.LastUsedAt.UTC()))

	id, _, _ := strings.Cut(plain, "|")
	for _, bad := range []string{"", "no-separator", id + "|" + strings.Repeat("f", 40), "999|abc"} {
		_, _, err := svc.Authenticate(bad)
		assert.ErrorIs(t, err, ErrInvalidToken, bad)
	}
}

func TestAuthService_LogoutRevokesSingleToken(t *testing.T) {
	svc, _ := newAuthService(t)

	_, first, err := svc.Register(RegisterInput{Name: "Jane", Email: "jane@example.com", Password: "supersecret"})
	require.NoError(t, err)
	_, second, err := svc.Login(LoginInput{Email: "jane@example.com", Password: "supersecret"})
	require.NoError(t, err)

	_, token, err := svc.Authenticate(first)
	require.NoError(t, err)
	require.NoError(t, svc.Logout(token.ID))

	_, _, err = svc.Authenticate(first)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, _, err = svc.Authenticate(second)
	assert.NoError(t, err)
}

func TestNewAuthService_ClampsCost(t *testing.T) {
	svc := NewAuthService(nil, nil, 0)
	assert.Equal(t, bcrypt.DefaultCost, svc.bcryptCost)
}

func TestAuthService_RegisterKeepsNoUserWhenTokenFails(t *testing.T) {
	svc, db := newAuthService(t)
	require.NoError(t, db.Migrator().DropTable(&models.AccessToken{}))

	_, _, err := svc.Register(RegisterInput{Name: "Jane", Email: "jane@example.com", Password: "supersecret"})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)

	// The address stays available once storage recovers
	require.NoError(t, db.AutoMigrate(&models.AccessToken{}))
	_, token, err := svc.Register(RegisterInput{Name: "Jane", Email: "jane@example.com", Password: "supersecret"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestAuthService_GetUser(t *testing.T) {
	svc, _ := newAuthService(t)

	registered, _, err := svc.Register(RegisterInput{Name: "Jane", Email: "jane@example.com", Password: "supersecret"})
	require.NoError(t, err)

	user, err := svc.GetUser(registered.ID)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", user.Email)

	_, err = svc.GetUser(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_AuthenticateRejectsTokenOfMissingUser(t *testing.T) {
	svc, db := newAuthService(t)

	registered, plain, err := svc.Register(RegisterInput{Name: "Jane", Email: "jane@example.com", Password: "supersecret"})
	require.NoError(t, err)
	require.NoError(t, db.Delete(&models.User{}, registered.ID).Error)

	_, _, err = svc.Authenticate(plain)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
