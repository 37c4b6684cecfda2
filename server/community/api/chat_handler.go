package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"community_server/server/community/service"
	"community_server/server/common/transport/httpresp"
)

type createGroupRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Description *string `json:"description"`
}

type sendMessageRequest struct {
	GroupID string `json:"groupId" binding:"required"`
	Content string `json:"content" binding:"required,max=2000"`
}

type sendGroupMessageRequest struct {
	Content string `json:"content" binding:"required,max=2000"`
}

func (h *Handler) listChatGroups(c *gin.Context) {
	c.JSON(http.StatusOK, h.chat.Groups(c.Request.Context()))
}

func (h *Handler) createChatGroup(c *gin.Context) {
	userID, _, err := actorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, httpresp.NewErrorResponse(httpresp.ErrUnauthorized))
		return
	}
	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	group, err := h.chat.CreateGroup(c.Request.Context(), userID, service.GroupInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, group)
}

func (h *Handler) deleteChatGroup(c *gin.Context) {
	if err := h.chat.DeleteGroup(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpresp.NewOKResponse())
}

func (h *Handler) listChatMessages(c *gin.Context) {
	groupID := c.Query("groupId")
	if groupID == "" {
		c.JSON(http.StatusBadRequest, httpresp.NewErrorResponse("groupId is required"))
		return
	}
	h.writeMessages(c, groupID)
}

func (h *Handler) listGroupMessages(c *gin.Context) {
	h.writeMessages(c, c.Param("id"))
}

func (h *Handler) writeMessages(c *gin.Context, groupID string) {
	messages := h.chat.Messages(c.Request.Context(), groupID)
	out := make([]ChatMessageResponse, 0, len(messages))
	for _, msg := range messages {
		out = append(out, newChatMessageResponse(msg))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) sendChatMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	h.send(c, req.GroupID, req.Content)
}

func (h *Handler) sendGroupMessage(c *gin.Context) {
	var req sendGroupMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	h.send(c, c.Param("id"), req.Content)
}

func (h *Handler) send(c *gin.Context, groupID, content string) {
	userID, _, err := actorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, httpresp.NewErrorResponse(httpresp.ErrUnauthorized))
		return
	}
	msg, err := h.chat.Send(c.Request.Context(), userID, groupID, content)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newChatMessageResponse(msg))
}

func (h *Handler) clearChatGroup(c *gin.Context) {
	n, err := h.chat.ClearGroup(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpresp.NewDeletedResponse(n))
}

func (h *Handler) deleteChatMessage(c *gin.Context) {
	if err := h.chat.DeleteMessage(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpresp.NewOKResponse())
}
