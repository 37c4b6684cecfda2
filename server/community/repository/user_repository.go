package repository

import (
	"sort"

	"community_server/server/community/domain"
)

// CreateUser stores a copy of user under a fresh id. The username check and
// the insert share one critical section.
func (s *Store) CreateUser(user domain.User) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == user.Username {
			return domain.User{}, domain.ErrDuplicateUsername
		}
	}
	user = cloneUser(user)
	user.ID = newID()
	user.CreatedAt = s.stamp()
	s.users[user.ID] = user
	return cloneUser(user), nil
}

func (s *Store) GetUser(id string) (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return domain.User{}, false
	}
	return cloneUser(user), true
}

func (s *Store) GetUserByUsername(username string) (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Username == username {
			return cloneUser(user), true
		}
	}
	return domain.User{}, false
}

// ListUsers returns users ordered by creation time.
func (s *Store) ListUsers() []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]domain.User, 0, len(s.users))
	for _, user := range s.users {
		items = append(items, cloneUser(user))
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items
}

func (s *Store) UpdateUser(id string, patch domain.UserPatch) (domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return domain.User{}, false
	}
	if patch.DisplayName != nil {
		user.DisplayName = *patch.DisplayName
	}
	if patch.Avatar != nil {
		if *patch.Avatar == "" {
			user.Avatar = nil
		} else {
			user.Avatar = cloneString(patch.Avatar)
		}
	}
	if patch.Role != nil {
		user.Role = *patch.Role
	}
	if patch.Level != nil {
		user.Level = *patch.Level
	}
	if patch.IsOnline != nil {
		user.IsOnline = *patch.IsOnline
	}
	s.users[id] = user
	return cloneUser(user), true
}

// DeleteUser removes the user only; authored messages and tickets stay.
func (s *Store) DeleteUser(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return false
	}
	delete(s.users, id)
	return true
}
