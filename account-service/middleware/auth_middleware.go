package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"madajob-backend/account-service/services"
	"madajob-backend/shared/database/models"
	"madajob-backend/shared/errs"
	utils "madajob-backend/shared/utils/auth"
	"madajob-backend/shared/utils/response"
)

const (
	currentUserKey = "currentUser"
	accessTokenKey = "accessToken"
)

// AuthMiddleware resolves the bearer token to a caller and stores both in the context
func AuthMiddleware(gate *services.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractTokenFromHeader(c.Request)
		if token == "" {
			response.Error(c, errs.Unauthorized(errs.MsgNotAuthenticated))
			return
		}

		caller, err := gate.ResolveCaller(c.Request.Context(), token, utils.TokenUseAccess)
		if err != nil {
			response.Error(c, err)
			return
		}

		c.Set(currentUserKey, caller)
		c.Set(accessTokenKey, token)
		c.Next()
	}
}

// SuperuserMiddleware must run after AuthMiddleware
func SuperuserMiddleware(gate *services.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := gate.RequireSuperuser(CurrentUser(c)); err != nil {
			response.Error(c, err)
			return
		}
		c.Next()
	}
}

// CurrentUser returns the caller set by AuthMiddleware
func CurrentUser(c *gin.Context) models.UserRead {
	caller, _ := c.Get(currentUserKey)
	user, _ := caller.(models.UserRead)
	return user
}

// AccessToken returns the bearer token the caller authenticated with
func AccessToken(c *gin.Context) string {
	return c.GetString(accessTokenKey)
}

// ExtractTokenFromHeader extracts the token from the Authorization header
func ExtractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	scheme, token, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
