package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-manager-api/internal/constants"
	"github.com/yukikurage/task-manager-api/internal/dto"
	apierrors "github.com/yukikurage/task-manager-api/internal/errors"
	"github.com/yukikurage/task-manager-api/internal/middleware"
	"github.com/yukikurage/task-manager-api/internal/response"
	"github.com/yukikurage/task-manager-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register creates a user and returns it with a new token.
func (h *AuthHandler) Register(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}

	req := dto.NewRegisterRequest(body)
	if err := req.Validate(); err != nil {
		apierrors.Respond(c, err)
		return
	}

	user, token, err := h.authService.Register(services.RegisterInput{
		Name:     *req.Name,
		Email:    *req.Email,
		Password: *req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	response.Success(c, dto.ToAuthUserDTO(*user, token), "User registered successfully", http.StatusOK)
}

// Login authenticates a user and issues an additional token.
func (h *AuthHandler) Login(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}

	req := dto.NewLoginRequest(body)
	if err := req.Validate(); err != nil {
		apierrors.Respond(c, err)
		return
	}

	user, token, err := h.authService.Login(services.LoginInput{
		Email:    *req.Email,
		Password: *req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	response.Success(c, dto.ToAuthUserDTO(*user, token), "Logged in successfully", http.StatusOK)
}

// Logout revokes the token used for this request.
func (h *AuthHandler) Logout(c *gin.Context) {
	tokenID, exists := middleware.GetTokenID(c)
	if !exists {
		apierrors.Respond(c, apierrors.Unauthenticated())
		return
	}

	if err := h.authService.Logout(tokenID); err != nil {
		respondAuthError(c, err)
		return
	}

	response.Success(c, response.Empty(), "Logged out successfully", http.StatusOK)
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.Respond(c, apierrors.ValidationField("email", "The email has already been taken."))
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.Respond(c, apierrors.InvalidCredentials())
	case errors.Is(err, services.ErrInvalidToken):
		apierrors.Respond(c, apierrors.Unauthenticated())
	default:
		apierrors.Respond(c, apierrors.Internal(err))
	}
}

// readBody decodes the JSON request body. It writes the error response and
// returns false when the body is not a JSON object.
func readBody(c *gin.Context) (dto.Body, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, constants.MaxRequestBodyBytes)
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			apierrors.Respond(c, apierrors.PayloadTooLarge())
			return nil, false
		}
		apierrors.Respond(c, apierrors.Internal(err))
		return nil, false
	}

	body, err := dto.ParseBody(raw)
	if err != nil {
		apierrors.Respond(c, apierrors.ValidationField("body", "The request body must be a valid JSON object."))
		return nil, false
	}
	return body, true
}
