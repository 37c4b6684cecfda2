package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"community_server/server/community/domain"
	"community_server/server/community/service"
	"community_server/server/common/transport/httpresp"
)

type profileRequest struct {
	DisplayName *string `json:"displayName" binding:"omitempty,max=64"`
	Avatar      *string `json:"avatar"`
}

type adminCreateUserRequest struct {
	Username    string      `json:"username" binding:"required,min=3,max=32"`
	Password    string      `json:"password" binding:"required,min=6,max=72"`
	DisplayName string      `json:"displayName" binding:"required,min=1,max=64"`
	Role        domain.Role `json:"role" binding:"required"`
	Level       int         `json:"level" binding:"omitempty,min=1"`
}

type adminUpdateUserRequest struct {
	DisplayName *string      `json:"displayName" binding:"omitempty,max=64"`
	Role        *domain.Role `json:"role"`
	Level       *int         `json:"level"`
}

func (h *Handler) stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.site.Stats(c.Request.Context()))
}

func (h *Handler) listUsers(c *gin.Context) {
	c.JSON(http.StatusOK, newUserResponses(h.users.List(c.Request.Context())))
}

func (h *Handler) updateProfile(c *gin.Context) {
	userID, _, err := actorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, httpresp.NewErrorResponse(httpresp.ErrUnauthorized))
		return
	}
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	user, err := h.users.UpdateProfile(c.Request.Context(), userID, service.ProfileInput{
		DisplayName: req.DisplayName,
		Avatar:      req.Avatar,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}

func (h *Handler) adminListUsers(c *gin.Context) {
	c.JSON(http.StatusOK, newUserResponses(h.users.List(c.Request.Context())))
}

func (h *Handler) adminCreateUser(c *gin.Context) {
	var req adminCreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	user, err := h.users.CreateByAdmin(c.Request.Context(), service.AdminCreateInput{
		Username:    req.Username,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Role:        req.Role,
		Level:       req.Level,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newUserResponse(user))
}

func (h *Handler) adminUpdateUser(c *gin.Context) {
	var req adminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	user, err := h.users.AdminUpdate(c.Request.Context(), c.Param("id"), service.AdminUpdateInput{
		DisplayName: req.DisplayName,
		Role:        req.Role,
		Level:       req.Level,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}

func (h *Handler) adminDeleteUser(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpresp.NewOKResponse())
}
