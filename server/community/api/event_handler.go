package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"community_server/server/community/service"
	"community_server/server/common/transport/httpresp"
)

type createEventRequest struct {
	Title              string    `json:"title" binding:"required,max=200"`
	Description        *string   `json:"description"`
	AgencyName         string    `json:"agencyName" binding:"required,max=200"`
	AgencyLogo         *string   `json:"agencyLogo"`
	Participant1Name   *string   `json:"participant1Name"`
	Participant1Avatar *string   `json:"participant1Avatar"`
	Participant2Name   *string   `json:"participant2Name"`
	Participant2Avatar *string   `json:"participant2Avatar"`
	ScheduledAt        time.Time `json:"scheduledAt" binding:"required"`
}

type updateEventRequest struct {
	IsLive           *bool    `json:"isLive"`
	ParticipantCount *int     `json:"participantCount"`
	Participants     []string `json:"participants"`
}

func (h *Handler) listEvents(c *gin.Context) {
	c.JSON(http.StatusOK, h.events.List(c.Request.Context()))
}

func (h *Handler) getEvent(c *gin.Context) {
	event, err := h.events.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *Handler) createEvent(c *gin.Context) {
	userID, _, err := actorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, httpresp.NewErrorResponse(httpresp.ErrUnauthorized))
		return
	}
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	event, err := h.events.Create(c.Request.Context(), userID, service.EventInput{
		Title:              req.Title,
		Description:        req.Description,
		AgencyName:         req.AgencyName,
		AgencyLogo:         req.AgencyLogo,
		Participant1Name:   req.Participant1Name,
		Participant1Avatar: req.Participant1Avatar,
		Participant2Name:   req.Participant2Name,
		Participant2Avatar: req.Participant2Avatar,
		ScheduledAt:        req.ScheduledAt,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

func (h *Handler) updateEvent(c *gin.Context) {
	var req updateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	event, err := h.events.Update(c.Request.Context(), c.Param("id"), service.EventUpdateInput{
		IsLive:           req.IsLive,
		ParticipantCount: req.ParticipantCount,
		Participants:     req.Participants,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}
