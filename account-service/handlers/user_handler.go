package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"madajob-backend/account-service/middleware"
	"madajob-backend/account-service/services"
	"madajob-backend/shared/database/models"
	"madajob-backend/shared/utils/query"
	"madajob-backend/shared/utils/response"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// UserPage documents the paginated user list.
type UserPage = query.PaginatedResponse[models.UserRead]

// POST /api/v1/users
// @Summary Create user
// @Description Create a user account. Superuser only.
// @Tags users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param user body services.UserCreate true "User data"
// @Success 201 {object} models.UserRead
// @Failure 401 {object} handlers.ErrorResponse
// @Failure 403 {object} handlers.ErrorResponse
// @Failure 422 {object} handlers.ErrorResponse "Validation error or email/username taken"
// @Router /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req services.UserCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.users.CreateUser(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// GET /api/v1/users
// @Summary List users
// @Description Page through non-deleted users with the given superuser flag. Superuser only.
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param items_per_page query int false "Items per page" default(10)
// @Param is_superuser query bool false "List superusers instead of regular users" default(false)
// @Success 200 {object} handlers.UserPage
// @Failure 401 {object} handlers.ErrorResponse
// @Failure 403 {object} handlers.ErrorResponse
// @Router /users [get]
func (h *UserHandler) GetUsers(c *gin.Context) {
	page := query.ParsePageParams(c)
	isSuperuser, _ := strconv.ParseBool(c.DefaultQuery("is_superuser", "false"))

	users, err := h.users.ListUsers(c.Request.Context(), page, isSuperuser)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GET /api/v1/users/me
// @Summary Current user
// @Tags users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.UserRead
// @Failure 401 {object} handlers.ErrorResponse
// @Router /users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentUser(c))
}

// GET /api/v1/users/{id}
// @Summary Get user
// @Description Superuser only.
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.UserRead
// @Failure 401 {object} handlers.ErrorResponse
// @Failure 403 {object} handlers.ErrorResponse
// @Failure 404 {object} handlers.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	user, err := h.users.FindUser(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// PATCH /api/v1/users/{id}
// @Summary Update user
// @Description Partially update the caller's own account.
// @Tags users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param user body services.UserUpdate true "Fields to change"
// @Success 200 {object} models.UserRead
// @Failure 401 {object} handlers.ErrorResponse
// @Failure 403 {object} handlers.ErrorResponse
// @Failure 404 {object} handlers.ErrorResponse
// @Failure 422 {object} handlers.ErrorResponse
// @Router /users/{id} [patch]
func (h *UserHandler) PatchUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req services.UserUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.users.UpdateUser(c.Request.Context(), id, req, middleware.CurrentUser(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DELETE /api/v1/users/{id}
// @Summary Delete user
// @Description Soft delete the caller's own account and revoke the token used for the call.
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} handlers.MessageResponse
// @Failure 401 {object} handlers.ErrorResponse
// @Failure 403 {object} handlers.ErrorResponse
// @Failure 404 {object} handlers.ErrorResponse
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	msg, err := h.users.RemoveUser(c.Request.Context(), id, middleware.CurrentUser(c), middleware.AccessToken(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: msg})
}

// DELETE /api/v1/users/db/{id}
// @Summary Purge user
// @Description Permanently delete the caller's own account and revoke the token used for the call.
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} handlers.MessageResponse
// @Failure 401 {object} handlers.ErrorResponse
// @Failure 403 {object} handlers.ErrorResponse
// @Failure 404 {object} handlers.ErrorResponse
// @Router /users/db/{id} [delete]
func (h *UserHandler) EraseUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	msg, err := h.users.EraseUser(c.Request.Context(), id, middleware.CurrentUser(c), middleware.AccessToken(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: msg})
}
