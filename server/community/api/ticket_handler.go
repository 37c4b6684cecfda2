package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"community_server/server/common/transport/httpresp"
)

type createTicketRequest struct {
	Subject string `json:"subject" binding:"required,max=200"`
	Message string `json:"message" binding:"required,max=5000"`
}

// updateTicketRequest binds status only; any other field in the body is
// dropped rather than merged.
type updateTicketRequest struct {
	Status string `json:"status" binding:"required,max=32"`
}

func (h *Handler) listTickets(c *gin.Context) {
	userID, role, err := actorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, httpresp.NewErrorResponse(httpresp.ErrUnauthorized))
		return
	}
	c.JSON(http.StatusOK, h.tickets.ListFor(c.Request.Context(), userID, role))
}

func (h *Handler) recentTickets(c *gin.Context) {
	c.JSON(http.StatusOK, h.tickets.Recent(c.Request.Context()))
}

func (h *Handler) createTicket(c *gin.Context) {
	userID, _, err := actorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, httpresp.NewErrorResponse(httpresp.ErrUnauthorized))
		return
	}
	var req createTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	ticket, err := h.tickets.Create(c.Request.Context(), userID, req.Subject, req.Message)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ticket)
}

func (h *Handler) updateTicket(c *gin.Context) {
	var req updateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	ticket, err := h.tickets.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}
