package repository

import (
	"sort"

	"community_server/server/community/domain"
)

func (s *Store) CreateEvent(event domain.Event) domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	event = cloneEvent(event)
	event.ID = newID()
	event.CreatedAt = s.stamp()
	s.events[event.ID] = event
	return cloneEvent(event)
}

func (s *Store) GetEvent(id string) (domain.Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	event, ok := s.events[id]
	if !ok {
		return domain.Event{}, false
	}
	return cloneEvent(event), true
}

// ListEvents returns events by scheduledAt ascending.
func (s *Store) ListEvents() []domain.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]domain.Event, 0, len(s.events))
	for _, event := range s.events {
		items = append(items, cloneEvent(event))
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].ScheduledAt.Equal(items[j].ScheduledAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].ScheduledAt.Before(items[j].ScheduledAt)
	})
	return items
}

func (s *Store) UpdateEvent(id string, patch domain.EventPatch) (domain.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	event, ok := s.events[id]
	if !ok {
		return domain.Event{}, false
	}
	if patch.IsLive != nil {
		event.IsLive = *patch.IsLive
	}
	if patch.Participants != nil {
		participants := make([]string, len(patch.Participants))
		copy(participants, patch.Participants)
		event.Participants = participants
	}
	if patch.ParticipantCount != nil {
		event.ParticipantCount = *patch.ParticipantCount
	}
	s.events[id] = event
	return cloneEvent(event), true
}
