package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jobfit/backend/auth"
	"github.com/jobfit/backend/logger"
	"github.com/jobfit/backend/models"
)

// OperatorAuthenticator checks operator credentials
type OperatorAuthenticator interface {
	Login(email, password string) (models.Operator, error)
	LoginWithGoogle(ctx context.Context, idToken string) (models.Operator, error)
}

// AuthHandler handles operator authentication requests
type AuthHandler struct {
	operators  OperatorAuthenticator
	jwtService *auth.JWTService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(operators OperatorAuthenticator, jwtService *auth.JWTService) *AuthHandler {
	return &AuthHandler{
		operators:  operators,
		jwtService: jwtService,
	}
}

// Login handles operator login with email/password
// @Summary Operator login
// @Description Login with the configured operator email and password to get a JWT token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login request"
// @Success 200 {object} models.AuthResponse "Login successful"
// @Failure 400 {object} models.ErrorResponse "Invalid request body"
// @Failure 401 {object} models.ErrorResponse "Invalid credentials"
// @Failure 503 {object} models.ErrorResponse "Login not configured"
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Code:    http.StatusBadRequest,
			Details: err.Error(),
		})
		return
	}

	op, err := h.operators.Login(req.Email, req.Password)
	if err != nil {
		h.loginFailed(c, err)
		return
	}

	h.issueToken(c, op)
}

// GoogleLogin handles Google SSO login for operators
// @Summary Operator Google login
// @Description Exchange a Google ID token of an allowed operator for a JWT token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body models.GoogleAuthRequest true "Google ID token"
// @Success 200 {object} models.AuthResponse "Login successful"
// @Failure 400 {object} models.ErrorResponse "Invalid request body"
// @Failure 401 {object} models.ErrorResponse "Invalid token"
// @Failure 403 {object} models.ErrorResponse "Not an operator"
// @Router /api/auth/google [post]
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req models.GoogleAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Code:    http.StatusBadRequest,
			Details: err.Error(),
		})
		return
	}

	op, err := h.operators.LoginWithGoogle(c.Request.Context(), req.IDToken)
	if err != nil {
		h.loginFailed(c, err)
		return
	}

	h.issueToken(c, op)
}

// Me returns the operator of the current token
// @Summary Current operator
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Operator "Operator"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Router /api/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims := auth.GetAuthClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error: "Unauthorized",
			Code:  http.StatusUnauthorized,
		})
		return
	}

	c.JSON(http.StatusOK, claims.Operator())
}

func (h *AuthHandler) issueToken(c *gin.Context, op models.Operator) {
	token, err := h.jwtService.GenerateToken(op)
	if err != nil {
		logger.Error().Err(err).Msg("failed to generate token")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: "Failed to generate token",
			Code:  http.StatusInternalServerError,
		})
		return
	}

	logger.Info().Str("email", op.Email).Str("provider", op.Provider).Msg("operator logged in")
	c.JSON(http.StatusOK, models.AuthResponse{
		Token:     token,
		Operator:  op,
		ExpiresIn: int(h.jwtService.Expiry().Seconds()),
		Message:   "Login successful",
	})
}

func (h *AuthHandler) loginFailed(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrLoginDisabled):
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Error: "Operator login is not configured",
			Code:  http.StatusServiceUnavailable,
		})
	case errors.Is(err, auth.ErrNotOperator):
		c.JSON(http.StatusForbidden, models.ErrorResponse{
			Error: "Account is not an operator",
			Code:  http.StatusForbidden,
		})
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error: "Invalid email or password",
			Code:  http.StatusUnauthorized,
		})
	default:
		logger.Warn().Err(err).Msg("operator login failed")
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   "Authentication failed",
			Code:    http.StatusUnauthorized,
			Details: err.Error(),
		})
	}
}
