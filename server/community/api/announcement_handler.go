package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"community_server/server/community/domain"
	"community_server/server/common/transport/httpresp"
)

type createAnnouncementRequest struct {
	Content string `json:"content" binding:"required,max=1000"`
}

type updateAnnouncementRequest struct {
	Content  *string `json:"content" binding:"omitempty,max=1000"`
	IsActive *bool   `json:"isActive"`
}

func (h *Handler) activeAnnouncement(c *gin.Context) {
	item, err := h.announcements.Active(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) listAnnouncements(c *gin.Context) {
	c.JSON(http.StatusOK, h.announcements.List(c.Request.Context()))
}

func (h *Handler) createAnnouncement(c *gin.Context) {
	userID, _, err := actorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, httpresp.NewErrorResponse(httpresp.ErrUnauthorized))
		return
	}
	var req createAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	item, err := h.announcements.Create(c.Request.Context(), userID, req.Content)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *Handler) updateAnnouncement(c *gin.Context) {
	var req updateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	item, err := h.announcements.Update(c.Request.Context(), c.Param("id"), domain.AnnouncementPatch{
		Content:  req.Content,
		IsActive: req.IsActive,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) deleteAnnouncement(c *gin.Context) {
	if err := h.announcements.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpresp.NewOKResponse())
}
