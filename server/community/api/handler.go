package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"community_server/server/community/domain"
	"community_server/server/community/service"
	"community_server/server/community/session"
	commonlog "community_server/server/common/log"
	"community_server/server/common/middleware"
	"community_server/server/common/transport/httpresp"
)

type Services struct {
	Users         *service.UserService
	Events        *service.EventService
	Chat          *service.ChatService
	Tickets       *service.TicketService
	Announcements *service.AnnouncementService
	Site          *service.SiteService
}

type CookieConfig struct {
	Name   string
	Secure bool
}

type Handler struct {
	users         *service.UserService
	events        *service.EventService
	chat          *service.ChatService
	tickets       *service.TicketService
	announcements *service.AnnouncementService
	site          *service.SiteService
	sessions      *session.Manager
	cookie        CookieConfig
}

func NewHandler(svc Services, sessions *session.Manager, cookie CookieConfig) *Handler {
	return &Handler{
		users:         svc.Users,
		events:        svc.Events,
		chat:          svc.Chat,
		tickets:       svc.Tickets,
		announcements: svc.Announcements,
		site:          svc.Site,
		sessions:      sessions,
		cookie:        cookie,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
	})

	r.POST("/api/auth/register", h.register)
	r.POST("/api/auth/login", h.login)
	r.GET("/api/auth/me", h.me)
	r.GET("/api/banners", h.listBanners)

	api := r.Group("/api")
	api.Use(middleware.SessionRequired(h.cookie.Name, h))
	{
		api.POST("/auth/logout", h.logout)
		api.GET("/stats", h.stats)
		api.GET("/users", h.listUsers)
		api.PATCH("/users/me", h.updateProfile)

		api.GET("/events", h.listEvents)
		api.GET("/events/:id", h.getEvent)

		api.GET("/chat/groups", h.listChatGroups)
		api.GET("/chat/messages", h.listChatMessages)
		api.POST("/chat/messages", h.sendChatMessage)
		api.GET("/chat/groups/:id/messages", h.listGroupMessages)
		api.POST("/chat/groups/:id/messages", h.sendGroupMessage)

		api.GET("/tickets", h.listTickets)
		api.POST("/tickets", h.createTicket)

		api.GET("/announcements/active", h.activeAnnouncement)

		api.GET("/settings/music", h.getMusic)
		api.GET("/settings/film", h.getFilm)

		staffOnly := api.Group("")
		staffOnly.Use(middleware.RequireRoles(staff...))
		staffOnly.POST("/events", h.createEvent)
		staffOnly.PATCH("/events/:id", h.updateEvent)
		staffOnly.POST("/chat/groups", h.createChatGroup)
		staffOnly.DELETE("/chat/groups/:id", h.deleteChatGroup)
		staffOnly.DELETE("/chat/groups/:id/messages", h.clearChatGroup)
		staffOnly.DELETE("/chat/messages/:id", h.deleteChatMessage)
		staffOnly.PATCH("/tickets/:id", h.updateTicket)
		staffOnly.GET("/announcements", h.listAnnouncements)
		staffOnly.POST("/announcements", h.createAnnouncement)
		staffOnly.PATCH("/announcements/:id", h.updateAnnouncement)
		staffOnly.DELETE("/announcements/:id", h.deleteAnnouncement)

		admin := api.Group("")
		admin.Use(middleware.RequireRoles(adminOnly...))
		admin.GET("/admin/users", h.adminListUsers)
		admin.POST("/admin/users", h.adminCreateUser)
		admin.PATCH("/admin/users/:id", h.adminUpdateUser)
		admin.DELETE("/admin/users/:id", h.adminDeleteUser)
		admin.GET("/admin/tickets/recent", h.recentTickets)
		admin.POST("/settings/music", h.setMusic)
		admin.POST("/settings/film", h.setFilm)
		admin.POST("/banners", h.createBanner)
		admin.DELETE("/banners/:id", h.deleteBanner)
	}
}

// ResolveSession loads the user behind token so that role changes and
// deletions apply to the very next request.
func (h *Handler) ResolveSession(ctx context.Context, token string) (string, string, error) {
	userID, err := h.sessions.CurrentUserID(ctx, token)
	if errors.Is(err, session.ErrNoSession) {
		return "", "", fmt.Errorf("%w: %w", middleware.ErrUnauthenticated, err)
	}
	if err != nil {
		return "", "", err
	}
	user, err := h.users.Get(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return "", "", fmt.Errorf("%w: %w", middleware.ErrUnauthenticated, err)
	}
	if err != nil {
		return "", "", err
	}
	return user.ID, string(user.Role), nil
}

func (h *Handler) startSession(c *gin.Context, userID string) error {
	token, err := h.sessions.Login(c.Request.Context(), userID)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, token, int(h.sessions.TTL().Seconds()), "/", "", h.cookie.Secure, true)
	return nil
}

func (h *Handler) clearSession(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
}

func actorFromContext(c *gin.Context) (string, domain.Role, error) {
	rawUserID, ok := c.Get(middleware.ContextUserID)
	if !ok {
		return "", "", http.ErrNoCookie
	}
	userID, ok := rawUserID.(string)
	if !ok || strings.TrimSpace(userID) == "" {
		return "", "", http.ErrNoCookie
	}
	role, _ := c.Get(middleware.ContextRole)
	roleName, _ := role.(string)
	return userID, domain.Role(roleName), nil
}

func writeError(c *gin.Context, err error) {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Status, httpresp.NewErrorResponse(appErr.Message))
		return
	}
	commonlog.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	c.JSON(http.StatusInternalServerError, httpresp.NewErrorResponse(httpresp.ErrInternal))
}

func writeBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, httpresp.NewErrorResponse(err.Error()))
}
