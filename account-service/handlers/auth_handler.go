package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"madajob-backend/account-service/middleware"
	"madajob-backend/account-service/services"
	"madajob-backend/shared/errs"
	"madajob-backend/shared/utils/response"
)

const refreshCookieName = "refresh_token"

type AuthHandler struct {
	tokens *services.TokenService
}

func NewAuthHandler(tokens *services.TokenService) *AuthHandler {
	return &AuthHandler{tokens: tokens}
}

// LoginRequest is sent as application/x-www-form-urlencoded. Username may also be an email.
type LoginRequest struct {
	Username string `form:"username" binding:"required" example:"superadmin"`
	Password string `form:"password" binding:"required" example:"root"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	TokenType   string `json:"token_type" example:"bearer"`
}

type MessageResponse struct {
	Message string `json:"message" example:"User deleted"`
}

type ErrorResponse struct {
	Detail string `json:"detail" example:"User not authenticated."`
}

// POST /api/v1/auth/login
// @Summary User login
// @Description Exchange username or email and password for an access token. The refresh token is set as an HttpOnly cookie.
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Username or email"
// @Param password formData string true "Password"
// @Success 200 {object} handlers.TokenResponse
// @Failure 401 {object} handlers.ErrorResponse "Wrong credentials"
// @Failure 422 {object} handlers.ErrorResponse "Invalid form"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}

	pair, err := h.tokens.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.setRefreshCookie(c, pair.RefreshToken)
	c.JSON(http.StatusOK, TokenResponse{AccessToken: pair.AccessToken, TokenType: pair.TokenType})
}

// POST /api/v1/auth/refresh
// @Summary Refresh access token
// @Description Issue a new access token from the refresh_token cookie. The refresh token is not rotated.
// @Tags auth
// @Produce json
// @Success 200 {object} handlers.TokenResponse
// @Failure 401 {object} handlers.ErrorResponse "Missing, revoked or invalid refresh token"
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, _ := c.Cookie(refreshCookieName)

	pair, err := h.tokens.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, TokenResponse{AccessToken: pair.AccessToken, TokenType: pair.TokenType})
}

// POST /api/v1/auth/logout
// @Summary Logout
// @Description Revoke the access token and the refresh_token cookie, then clear the cookie.
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} handlers.MessageResponse
// @Failure 401 {object} handlers.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	refreshToken, _ := c.Cookie(refreshCookieName)

	if err := h.tokens.Logout(c.Request.Context(), middleware.AccessToken(c), refreshToken); err != nil {
		response.Error(c, err)
		return
	}

	h.clearRefreshCookie(c)
	c.JSON(http.StatusOK, MessageResponse{Message: errs.MsgLoggedOut})
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	maxAge := int(h.tokens.Settings().RefreshTTL.Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(refreshCookieName, token, maxAge, "/", "", true, true)
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(refreshCookieName, "", -1, "/", "", true, true)
}
