package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/tunride/ride-backend/internal/middleware"
	"github.com/tunride/ride-backend/internal/models"
	"github.com/tunride/ride-backend/internal/services"
	"github.com/tunride/ride-backend/internal/utils"
)

// AccountOperations is the identity surface the auth endpoints use
type AccountOperations interface {
	SignUp(ctx context.Context, req models.SignUpRequest) (*services.SignUpResult, error)
	ConfirmEmail(ctx context.Context, token string) error
	SignIn(ctx context.Context, email, password string) (*services.SignInResult, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	accounts           AccountOperations
	exposeConfirmToken bool
	logger             *logrus.Logger
}

// NewAuthHandler creates a new auth handler. exposeConfirmToken returns the
// confirmation token in the sign-up response for environments without mail.
func NewAuthHandler(accounts AccountOperations, exposeConfirmToken bool, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		accounts:           accounts,
		exposeConfirmToken: exposeConfirmToken,
		logger:             logger,
	}
}

// SignUpResponse represents the response after registration
type SignUpResponse struct {
	Message      string          `json:"message"`
	Profile      *models.Profile `json:"profile"`
	ConfirmToken string          `json:"confirm_token,omitempty"`
}

// SignUp handles POST /api/v1/auth/sign-up
// @Summary Register an account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.SignUpRequest true "Account details"
// @Success 201 {object} SignUpResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /auth/sign-up [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.accounts.SignUp(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	resp := SignUpResponse{
		Message: "Account created. Check your email to confirm it.",
		Profile: result.Profile,
	}
	if h.exposeConfirmToken {
		resp.ConfirmToken = result.ConfirmToken
	}
	c.JSON(http.StatusCreated, resp)
}

// ConfirmEmail handles POST /api/v1/auth/confirm
// @Summary Confirm an email address
// @Tags auth
// @Param request body models.ConfirmEmailRequest true "Confirmation token"
// @Success 200 {object} map[string]string
// @Failure 401 {object} ErrorResponse
// @Router /auth/confirm [post]
func (h *AuthHandler) ConfirmEmail(c *gin.Context) {
	var req models.ConfirmEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.accounts.ConfirmEmail(c.Request.Context(), req.Token); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Email confirmed"})
}

// SignIn handles POST /api/v1/auth/sign-in
// @Summary Sign in with email and password
// @Tags auth
// @Param request body models.SignInRequest true "Credentials"
// @Success 200 {object} services.SignInResult
// @Failure 401 {object} ErrorResponse
// @Router /auth/sign-in [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req models.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.accounts.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// SignOut handles POST /api/v1/auth/sign-out. Tokens are stateless, so this
// only records the event.
func (h *AuthHandler) SignOut(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)
	client := utils.ParseClient(c.Request.UserAgent())

	h.logger.WithFields(logrus.Fields{
		"user_id": userCtx.UserID,
		"device":  client.Device,
		"os":      client.OS,
		"browser": client.Browser,
		"ip":      utils.GetRealIP(c),
	}).Info("User signed out")

	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}
