package repository

import (
	"sort"

	"community_server/server/community/domain"
)

// CreateAnnouncement stores an active announcement and deactivates every
// other one under the same lock.
func (s *Store) CreateAnnouncement(content, createdBy string) domain.Announcement {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deactivateAnnouncementsLocked()
	item := domain.Announcement{
		ID:        newID(),
		Content:   content,
		IsActive:  true,
		CreatedBy: createdBy,
		CreatedAt: s.stamp(),
	}
	s.announcements[item.ID] = item
	return item
}

func (s *Store) GetAnnouncement(id string) (domain.Announcement, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.announcements[id]
	return item, ok
}

// ListAnnouncements returns announcements newest first.
func (s *Store) ListAnnouncements() []domain.Announcement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]domain.Announcement, 0, len(s.announcements))
	for _, item := range s.announcements {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items
}

func (s *Store) ActiveAnnouncement() (domain.Announcement, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.announcements {
		if item.IsActive {
			return item, true
		}
	}
	return domain.Announcement{}, false
}

// UpdateAnnouncement applies patch; activating one deactivates the rest.
func (s *Store) UpdateAnnouncement(id string, patch domain.AnnouncementPatch) (domain.Announcement, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.announcements[id]
	if !ok {
		return domain.Announcement{}, false
	}
	if patch.Content != nil {
		item.Content = *patch.Content
	}
	if patch.IsActive != nil {
		if *patch.IsActive {
			s.deactivateAnnouncementsLocked()
		}
		item.IsActive = *patch.IsActive
	}
	s.announcements[id] = item
	return item, true
}

func (s *Store) DeleteAnnouncement(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.announcements[id]; !ok {
		return false
	}
	delete(s.announcements, id)
	return true
}

func (s *Store) deactivateAnnouncementsLocked() {
	for id, item := range s.announcements {
		if item.IsActive {
			item.IsActive = false
			s.announcements[id] = item
		}
	}
}
