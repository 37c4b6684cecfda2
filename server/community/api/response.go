package api

import (
	"time"

	"community_server/server/community/domain"
	"community_server/server/community/service"
	"community_server/server/common/transport/httpresp"
)

type ErrorResponse = httpresp.ErrorResponse
type MessageResponse = httpresp.MessageResponse
type DeletedResponse = httpresp.DeletedResponse

type HealthResponse struct {
	Status string `json:"status"`
}

// UserResponse is a user without its credential.
type UserResponse struct {
	ID          string      `json:"id"`
	Username    string      `json:"username"`
	DisplayName string      `json:"displayName"`
	Role        domain.Role `json:"role"`
	Avatar      *string     `json:"avatar"`
	Level       int         `json:"level"`
	IsOnline    bool        `json:"isOnline"`
	CreatedAt   time.Time   `json:"createdAt"`
}

type ChatMessageResponse struct {
	domain.ChatMessage
	User *UserResponse `json:"user"`
}

type MusicResponse struct {
	MusicURL string `json:"musicUrl"`
}

type FilmResponse struct {
	FilmURL string `json:"filmUrl"`
}

func newUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		Avatar:      u.Avatar,
		Level:       u.Level,
		IsOnline:    u.IsOnline,
		CreatedAt:   u.CreatedAt,
	}
}

func newUserResponses(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, newUserResponse(u))
	}
	return out
}

func newChatMessageResponse(m service.MessageWithAuthor) ChatMessageResponse {
	out := ChatMessageResponse{ChatMessage: m.ChatMessage}
	if m.Author != nil {
		user := newUserResponse(*m.Author)
		out.User = &user
	}
	return out
}
