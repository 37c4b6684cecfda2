package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"community_server/server/community/service"
	"community_server/server/community/session"
	"community_server/server/common/middleware"
	"community_server/server/common/transport/httpresp"
)

type registerRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=32"`
	Password    string `json:"password" binding:"required,min=6,max=72"`
	DisplayName string `json:"displayName" binding:"required,min=1,max=64"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	user, err := h.users.Register(c.Request.Context(), service.RegisterInput{
		Username:    req.Username,
		Password:    req.Password,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.startSession(c, user.ID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newUserResponse(user))
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	user, err := h.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.startSession(c, user.ID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}

func (h *Handler) logout(c *gin.Context) {
	userID, _, err := actorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, httpresp.NewErrorResponse(httpresp.ErrUnauthorized))
		return
	}
	h.users.MarkOffline(c.Request.Context(), userID)
	if err := h.sessions.Logout(c.Request.Context(), c.GetString(middleware.ContextSessionToken)); err != nil {
		writeError(c, err)
		return
	}
	h.clearSession(c)
	c.JSON(http.StatusOK, httpresp.NewMessageResponse("logged out"))
}

// me runs without SessionRequired: a live session whose user is gone is a
// 404 here, not a 401.
func (h *Handler) me(c *gin.Context) {
	token, err := c.Cookie(h.cookie.Name)
	if err != nil {
		c.JSON(http.StatusUnauthorized, httpresp.NewErrorResponse(httpresp.ErrUnauthorized))
		return
	}
	userID, err := h.sessions.CurrentUserID(c.Request.Context(), token)
	if errors.Is(err, session.ErrNoSession) {
		c.JSON(http.StatusUnauthorized, httpresp.NewErrorResponse(httpresp.ErrUnauthorized))
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	user, err := h.users.Get(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}
