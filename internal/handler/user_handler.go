package handler

import (
	"time"

	"github.com/TheBreeze12/lifehub-backend/internal/api/request"
	"github.com/TheBreeze12/lifehub-backend/internal/api/response"
	"github.com/TheBreeze12/lifehub-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	*BaseHandler
	userService service.UserService
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{
		BaseHandler: NewBaseHandler(),
		userService: userService,
	}
}

// GetProfile handles GET /api/v1/user/profile
// @Summary Get user profile
// @Description Get the authenticated user's profile information
// @Tags User
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.UserProfileResponse "User profile retrieved successfully"
// @Failure 401 {object} response.BaseResponse "Unauthorized"
// @Failure 404 {object} response.BaseResponse "User not found"
// @Failure 500 {object} response.BaseResponse "Internal server error"
// @Router /user/profile [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := h.GetUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.Error(c, err)
		return
	}

	resp := response.UserProfileResponse{
		User: response.UserInfo{
			ID:        user.ID,
			Username:  user.Username,
			Email:     user.Email,
			CreatedAt: user.CreatedAt.Format(time.RFC3339),
		},
	}

	if user.Nickname != nil {
		resp.User.Nickname = *user.Nickname
	}
	if user.Phone != nil {
		resp.User.Phone = *user.Phone
	}
	if user.Avatar != nil {
		resp.User.Avatar = *user.Avatar
	}

	h.Success(c, resp)
}

// UpdateProfile handles PUT /api/v1/user/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := h.GetUserID(c)
	if !ok {
		return
	}

	var req request.UpdateUserRequest
	if !h.BindJSON(c, &req) {
		return
	}

	// Convert to service request
	serviceReq := &service.UpdateProfileRequest{}
	if req.Phone != "" {
		serviceReq.Phone = &req.Phone
	}
	if req.Nickname != "" {
		serviceReq.Nickname = &req.Nickname
	}
	if req.Avatar != "" {
		serviceReq.Avatar = &req.Avatar
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, serviceReq)
	if err != nil {
		h.Error(c, err)
		return
	}

	resp := response.UserInfo{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}

	if user.Nickname != nil {
		resp.Nickname = *user.Nickname
	}
	if user.Phone != nil {
		resp.Phone = *user.Phone
	}
	if user.Avatar != nil {
		resp.Avatar = *user.Avatar
	}

	h.Success(c, resp)
}
