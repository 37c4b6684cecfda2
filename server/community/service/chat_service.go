package service

import (
	"context"
	"strings"

	"community_server/server/community/domain"
	"community_server/server/community/repository"
)

// MessageWithAuthor is a chat message joined with its author. Author is nil
// once the user has been deleted.
type MessageWithAuthor struct {
	domain.ChatMessage
	Author *domain.User
}

type ChatService struct {
	store     *repository.Store
	publisher Publisher
}

func NewChatService(store *repository.Store, publisher Publisher) *ChatService {
	return &ChatService{store: store, publisher: publisher}
}

type GroupInput struct {
	Name        string
	Description *string
}

func (s *ChatService) Groups(_ context.Context) []domain.ChatGroup {
	return s.store.ListChatGroups()
}

func (s *ChatService) CreateGroup(_ context.Context, createdBy string, in GroupInput) (domain.ChatGroup, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.ChatGroup{}, domain.ErrInvalidRequest.WithMessage("name is required")
	}
	return s.store.CreateChatGroup(domain.ChatGroup{
		Name:        name,
		Description: in.Description,
		CreatedBy:   createdBy,
	}), nil
}

// DeleteGroup removes the group along with all of its messages.
func (s *ChatService) DeleteGroup(ctx context.Context, id string) error {
	if !s.store.DeleteChatGroup(id) {
		return domain.ErrNotFound.WithMessage("chat group not found")
	}
	publish(ctx, s.publisher, EventChatGroupDeleted, map[string]any{"id": id})
	return nil
}

// Messages returns a group's messages oldest first. An unknown group yields
// an empty list.
func (s *ChatService) Messages(_ context.Context, groupID string) []MessageWithAuthor {
	messages := s.store.ListChatMessages(groupID)
	authors := make(map[string]*domain.User)
	out := make([]MessageWithAuthor, 0, len(messages))
	for _, msg := range messages {
		author, seen := authors[msg.UserID]
		if !seen {
			if user, ok := s.store.GetUser(msg.UserID); ok {
				author = &user
			}
			authors[msg.UserID] = author
		}
		out = append(out, MessageWithAuthor{ChatMessage: msg, Author: author})
	}
	return out
}

// Send stores content exactly as given; whitespace-only content is rejected.
func (s *ChatService) Send(_ context.Context, userID, groupID, content string) (MessageWithAuthor, error) {
	if groupID == "" {
		return MessageWithAuthor{}, domain.ErrInvalidRequest.WithMessage("groupId is required")
	}
	if strings.TrimSpace(content) == "" {
		return MessageWithAuthor{}, domain.ErrInvalidRequest.WithMessage("content must not be empty")
	}
	msg, err := s.store.CreateChatMessage(domain.ChatMessage{
		GroupID: groupID,
		UserID:  userID,
		Content: content,
	})
	if err != nil {
		return MessageWithAuthor{}, err
	}
	out := MessageWithAuthor{ChatMessage: msg}
	if user, ok := s.store.GetUser(userID); ok {
		out.Author = &user
	}
	return out, nil
}

func (s *ChatService) ClearGroup(_ context.Context, groupID string) (int, error) {
	if _, ok := s.store.GetChatGroup(groupID); !ok {
		return 0, domain.ErrNotFound.WithMessage("chat group not found")
	}
	return s.store.DeleteGroupMessages(groupID), nil
}

func (s *ChatService) DeleteMessage(_ context.Context, id string) error {
	if !s.store.DeleteChatMessage(id) {
		return domain.ErrNotFound.WithMessage("message not found")
	}
	return nil
}
