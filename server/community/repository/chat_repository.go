package repository

import (
	"sort"

	"community_server/server/community/domain"
)

func (s *Store) CreateChatGroup(group domain.ChatGroup) domain.ChatGroup {
	s.mu.Lock()
	defer s.mu.Unlock()
	group = cloneChatGroup(group)
	group.ID = newID()
	group.CreatedAt = s.stamp()
	s.chatGroups[group.ID] = group
	return cloneChatGroup(group)
}

func (s *Store) GetChatGroup(id string) (domain.ChatGroup, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	group, ok := s.chatGroups[id]
	if !ok {
		return domain.ChatGroup{}, false
	}
	return cloneChatGroup(group), true
}

func (s *Store) ListChatGroups() []domain.ChatGroup {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]domain.ChatGroup, 0, len(s.chatGroups))
	for _, group := range s.chatGroups {
		items = append(items, cloneChatGroup(group))
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items
}

// DeleteChatGroup removes the group and every message in it.
func (s *Store) DeleteChatGroup(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteGroupMessagesLocked(id)
	if _, ok := s.chatGroups[id]; !ok {
		return false
	}
	delete(s.chatGroups, id)
	return true
}

// CreateChatMessage fails with ErrNotFound when the group does not exist.
func (s *Store) CreateChatMessage(msg domain.ChatMessage) (domain.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.chatGroups[msg.GroupID]; !ok {
		return domain.ChatMessage{}, domain.ErrNotFound.WithMessage("chat group not found")
	}
	msg.ID = newID()
	msg.CreatedAt = s.stamp()
	s.chatMessages[msg.ID] = msg
	return msg, nil
}

// ListChatMessages returns the group's messages, oldest first.
func (s *Store) ListChatMessages(groupID string) []domain.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]domain.ChatMessage, 0)
	for _, msg := range s.chatMessages {
		if msg.GroupID == groupID {
			items = append(items, msg)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items
}

func (s *Store) DeleteChatMessage(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.chatMessages[id]; !ok {
		return false
	}
	delete(s.chatMessages, id)
	return true
}

// DeleteGroupMessages returns the number of messages removed.
func (s *Store) DeleteGroupMessages(groupID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteGroupMessagesLocked(groupID)
}

func (s *Store) deleteGroupMessagesLocked(groupID string) int {
	count := 0
	for id, msg := range s.chatMessages {
		if msg.GroupID == groupID {
			delete(s.chatMessages, id)
			count++
		}
	}
	return count
}
