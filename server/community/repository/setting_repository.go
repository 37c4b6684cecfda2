package repository

import (
	"sort"

	"community_server/server/community/domain"
)

func (s *Store) GetSetting(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.settings[key]
	return value, ok
}

func (s *Store) SetSetting(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[key] = value
}

func (s *Store) CreateBanner(banner domain.Banner) domain.Banner {
	s.mu.Lock()
	defer s.mu.Unlock()
	banner = cloneBanner(banner)
	banner.ID = newID()
	banner.CreatedAt = s.stamp()
	s.banners[banner.ID] = banner
	return cloneBanner(banner)
}

// ListBanners orders by sortOrder, then creation time.
func (s *Store) ListBanners(activeOnly bool) []domain.Banner {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]domain.Banner, 0, len(s.banners))
	for _, banner := range s.banners {
		if activeOnly && !banner.IsActive {
			continue
		}
		items = append(items, cloneBanner(banner))
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].SortOrder == items[j].SortOrder {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].SortOrder < items[j].SortOrder
	})
	return items
}

func (s *Store) DeleteBanner(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.banners[id]; !ok {
		return false
	}
	delete(s.banners, id)
	return true
}
