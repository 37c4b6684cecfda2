// Package client is a Go API client for the community server with a keyed
// snapshot cache and interval pollers for chat and announcements.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"community_server/server/community/domain"
)

const defaultHTTPTimeout = 10 * time.Second

var (
	KeyMe                 = Key{"auth", "me"}
	KeyStats              = Key{"stats"}
	KeyEvents             = Key{"events"}
	KeyChatGroups         = Key{"chat", "groups"}
	KeyTickets            = Key{"tickets"}
	KeyRecentTickets      = Key{"admin", "tickets", "recent"}
	KeyActiveAnnouncement = Key{"announcements", "active"}
)

func KeyChatMessages(groupID string) Key {
	return Key{"chat", "groups", groupID, "messages"}
}

// APIError is a non-2xx response. Message is the server's "message" field.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("community api status %d: %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

type ChatMessage struct {
	domain.ChatMessage
	User *domain.User `json:"user"`
}

type Client struct {
	baseURL string
	http    *http.Client
	cache   *QueryCache
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New returns a client that keeps the session cookie in its own jar.
func New(baseURL string, opts ...Option) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultHTTPTimeout, Jar: jar},
		cache:   NewQueryCache(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http.Jar == nil {
		c.http.Jar = jar
	}
	return c, nil
}

func (c *Client) Cache() *QueryCache {
	return c.cache
}

func (c *Client) Register(ctx context.Context, username, password, displayName string) (domain.User, error) {
	var user domain.User
	err := c.do(ctx, http.MethodPost, "/api/auth/register", map[string]string{
		"username":    username,
		"password":    password,
		"displayName": displayName,
	}, &user)
	if err != nil {
		return domain.User{}, err
	}
	c.cache.Clear()
	return user, nil
}

// Login drops every snapshot; they belonged to the previous identity.
func (c *Client) Login(ctx context.Context, username, password string) (domain.User, error) {
	var user domain.User
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, &user)
	if err != nil {
		return domain.User{}, err
	}
	c.cache.Clear()
	return user, nil
}

func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil); err != nil {
		return err
	}
	c.cache.Clear()
	return nil
}

func (c *Client) Me(ctx context.Context) (domain.User, error) {
	return Fetch(ctx, c.cache, KeyMe, func(ctx context.Context) (domain.User, error) {
		var user domain.User
		err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &user)
		return user, err
	})
}

func (c *Client) Stats(ctx context.Context) (domain.Stats, error) {
	return Fetch(ctx, c.cache, KeyStats, func(ctx context.Context) (domain.Stats, error) {
		var stats domain.Stats
		err := c.do(ctx, http.MethodGet, "/api/stats", nil, &stats)
		return stats, err
	})
}

func (c *Client) Events(ctx context.Context) ([]domain.Event, error) {
	return Fetch(ctx, c.cache, KeyEvents, func(ctx context.Context) ([]domain.Event, error) {
		var events []domain.Event
		err := c.do(ctx, http.MethodGet, "/api/events", nil, &events)
		return events, err
	})
}

func (c *Client) ChatGroups(ctx context.Context) ([]domain.ChatGroup, error) {
	return Fetch(ctx, c.cache, KeyChatGroups, c.loadChatGroups)
}

func (c *Client) loadChatGroups(ctx context.Context) ([]domain.ChatGroup, error) {
	var groups []domain.ChatGroup
	err := c.do(ctx, http.MethodGet, "/api/chat/groups", nil, &groups)
	return groups, err
}

func (c *Client) ChatMessages(ctx context.Context, groupID string) ([]ChatMessage, error) {
	return Fetch(ctx, c.cache, KeyChatMessages(groupID), c.messageLoader(groupID))
}

func (c *Client) messageLoader(groupID string) func(context.Context) ([]ChatMessage, error) {
	return func(ctx context.Context) ([]ChatMessage, error) {
		var messages []ChatMessage
		err := c.do(ctx, http.MethodGet, "/api/chat/groups/"+url.PathEscape(groupID)+"/messages", nil, &messages)
		return messages, err
	}
}

// SendMessage invalidates that group's message list and the stats counters;
// other groups keep their snapshots.
func (c *Client) SendMessage(ctx context.Context, groupID, content string) (ChatMessage, error) {
	var msg ChatMessage
	err := c.do(ctx, http.MethodPost, "/api/chat/groups/"+url.PathEscape(groupID)+"/messages", map[string]string{
		"content": content,
	}, &msg)
	if err != nil {
		return ChatMessage{}, err
	}
	c.cache.Invalidate(KeyChatMessages(groupID))
	c.cache.Invalidate(KeyStats)
	return msg, nil
}

func (c *Client) CreateChatGroup(ctx context.Context, name string, description *string) (domain.ChatGroup, error) {
	var group domain.ChatGroup
	err := c.do(ctx, http.MethodPost, "/api/chat/groups", map[string]any{
		"name":        name,
		"description": description,
	}, &group)
	if err != nil {
		return domain.ChatGroup{}, err
	}
	c.cache.Invalidate(KeyChatGroups)
	return group, nil
}

// DeleteChatGroup drops the group list and every snapshot under the group.
func (c *Client) DeleteChatGroup(ctx context.Context, groupID string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/chat/groups/"+url.PathEscape(groupID), nil, nil); err != nil {
		return err
	}
	c.cache.Invalidate(KeyChatGroups)
	c.cache.InvalidatePrefix(Key{"chat", "groups", groupID})
	c.cache.Invalidate(KeyStats)
	return nil
}

func (c *Client) Tickets(ctx context.Context) ([]domain.Ticket, error) {
	return Fetch(ctx, c.cache, KeyTickets, func(ctx context.Context) ([]domain.Ticket, error) {
		var tickets []domain.Ticket
		err := c.do(ctx, http.MethodGet, "/api/tickets", nil, &tickets)
		return tickets, err
	})
}

func (c *Client) RecentTickets(ctx context.Context) ([]domain.Ticket, error) {
	return Fetch(ctx, c.cache, KeyRecentTickets, func(ctx context.Context) ([]domain.Ticket, error) {
		var tickets []domain.Ticket
		err := c.do(ctx, http.MethodGet, "/api/admin/tickets/recent", nil, &tickets)
		return tickets, err
	})
}

func (c *Client) CreateTicket(ctx context.Context, subject, message string) (domain.Ticket, error) {
	var ticket domain.Ticket
	err := c.do(ctx, http.MethodPost, "/api/tickets", map[string]string{
		"subject": subject,
		"message": message,
	}, &ticket)
	if err != nil {
		return domain.Ticket{}, err
	}
	c.cache.Invalidate(KeyTickets)
	c.cache.Invalidate(KeyRecentTickets)
	c.cache.Invalidate(KeyStats)
	return ticket, nil
}

func (c *Client) UpdateTicketStatus(ctx context.Context, ticketID, status string) (domain.Ticket, error) {
	var ticket domain.Ticket
	err := c.do(ctx, http.MethodPatch, "/api/tickets/"+url.PathEscape(ticketID), map[string]string{
		"status": status,
	}, &ticket)
	if err != nil {
		return domain.Ticket{}, err
	}
	c.cache.Invalidate(KeyTickets)
	c.cache.Invalidate(KeyRecentTickets)
	return ticket, nil
}

// ActiveAnnouncement returns nil when no announcement is active.
func (c *Client) ActiveAnnouncement(ctx context.Context) (*domain.Announcement, error) {
	return Fetch(ctx, c.cache, KeyActiveAnnouncement, c.loadActiveAnnouncement)
}

func (c *Client) loadActiveAnnouncement(ctx context.Context) (*domain.Announcement, error) {
	var item domain.Announcement
	err := c.do(ctx, http.MethodGet, "/api/announcements/active", nil, &item)
	if IsStatus(err, http.StatusNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("community api %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var errBody struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		return &APIError{StatusCode: resp.StatusCode, Message: errBody.Message}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
