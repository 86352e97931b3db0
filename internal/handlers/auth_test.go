package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-manager-api/internal/constants"
	"github.com/yukikurage/task-manager-api/internal/dto"
	"github.com/yukikurage/task-manager-api/internal/middleware"
	"github.com/yukikurage/task-manager-api/internal/models"
	"github.com/yukikurage/task-manager-api/internal/repository"
	"github.com/yukikurage/task-manager-api/internal/services"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type authTestEnv struct {
	db          *gorm.DB
	router      *gin.Engine
	authService *services.AuthService
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := openTestDB(t)

	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	authService := services.NewAuthService(userRepo, tokenRepo, bcrypt.MinCost)
	handler := NewAuthHandler(authService)

	r := gin.New()
	r.POST("/api/v1/register", handler.Register)
	r.POST("/api/v1/login", handler.Login)
	r.POST("/api/v1/logout", middleware.RequireAuth(authService), handler.Logout)

	return authTestEnv{
		db:          db,
		router:      r,
		authService: authService,
	}
}

func (env authTestEnv) do(t *testing.T, path string, payload any, token string) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func registerPayload(email string) map[string]string {
	return map[string]string{
		"name":                  "Jane Doe",
		"email":                 email,
		"password":              "supersecret",
		"password_confirmation": "supersecret",
	}
}

func TestAuthHandler_Register(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := env.do(t, "/api/v1/register", registerPayload("jane@example.com"), "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeEnvelope(t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, "User registered successfully", *resp.Message)

	var user dto.AuthUserDTO
	require.NoError(t, json.Unmarshal(resp.Data, &user))
	assert.Equal(t, "jane@example.com", user.Email)
	assert.Regexp(t, `^\d+\|[0-9a-f]{40}$`, user.Token)
	assert.NotContains(t, w.Body.String(), "password")

	var stored models.User
	require.NoError(t, env.db.Where("email = ?", "jane@example.com").First(&stored).Error)
	assert.NotEqual(t, "supersecret", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("supersecret")))
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	env := setupAuthTestEnv(t)

	require.Equal(t, http.StatusOK, env.do(t, "/api/v1/register", registerPayload("jane@example.com"), "").Code)

	w := env.do(t, "/api/v1/register", registerPayload("jane@example.com"), "")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{"email":["The email has already been taken."]}`, string(decodeEnvelope(t, w).Data))
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := env.do(t, "/api/v1/register", map[string]string{
		"email":                 "not-an-email",
		"password":              "short",
		"password_confirmation": "different",
	}, "")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var fields map[string][]string
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &fields))
	assert.Equal(t, []string{"The name field is required."}, fields["name"])
	assert.Equal(t, []string{"The email field must be a valid email address."}, fields["email"])
	assert.Equal(t, []string{"The password field must be at least 8 characters."}, fields["password"])
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupAuthTestEnv(t)
	require.Equal(t, http.StatusOK, env.do(t, "/api/v1/register", registerPayload("jane@example.com"), "").Code)

	w := env.do(t, "/api/v1/login", map[string]string{"email": "jane@example.com", "password": "supersecret"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Logged in successfully", *decodeEnvelope(t, w).Message)

	var count int64
	env.db.Model(&models.AccessToken{}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestAuthHandler_Login_SameErrorForUnknownAndWrongPassword(t *testing.T) {
	env := setupAuthTestEnv(t)
	require.Equal(t, http.StatusOK, env.do(t, "/api/v1/register", registerPayload("jane@example.com"), "").Code)

	wrong := env.do(t, "/api/v1/login", map[string]string{"email": "jane@example.com", "password": "wrongpassword"}, "")
	unknown := env.do(t, "/api/v1/login", map[string]string{"email": "ghost@example.com", "password": "supersecret"}, "")

	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.JSONEq(t, wrong.Body.String(), unknown.Body.String())
	assert.Equal(t, "Invalid login credentials", *decodeEnvelope(t, wrong).Message)
}

func TestAuthHandler_Logout_RevokesOnlyCurrentToken(t *testing.T) {
	env := setupAuthTestEnv(t)

	var first, second dto.AuthUserDTO
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, env.do(t, "/api/v1/register", registerPayload("jane@example.com"), "")).Data, &first))
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, env.do(t, "/api/v1/login", map[string]string{"email": "jane@example.com", "password": "supersecret"}, "")).Data, &second))

	w := env.do(t, "/api/v1/logout", map[string]string{}, first.Token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[],"message":"Logged out successfully","code":200,"success":true}`, w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, env.do(t, "/api/v1/logout", map[string]string{}, first.Token).Code)
	assert.Equal(t, http.StatusOK, env.do(t, "/api/v1/logout", map[string]string{}, second.Token).Code)
}

func TestAuthHandler_Logout_Unauthenticated(t *testing.T) {
	env := setupAuthTestEnv(t)

	for _, token := range []string{"", "garbage", "1|" + strings.Repeat("0", 40)} {
		w := env.do(t, "/api/v1/logout", map[string]string{}, token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Unauthenticated.", *decodeEnvelope(t, w).Message)
	}
}

func TestAuthHandler_Register_BodyTooLarge(t *testing.T) {
	env := setupAuthTestEnv(t)

	payload := registerPayload("jane@example.com")
	payload["name"] = strings.Repeat("x", constants.MaxRequestBodyBytes)

	w := env.do(t, "/api/v1/register", payload, "")
	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	resp := decodeEnvelope(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "Payload Too Large", *resp.Message)

	var count int64
	env.db.Model(&models.User{}).Count(&count)
	assert.Zero(t, count)
}
