// Package repository holds the in-memory domain store. All state lives in a
// single Store value; nothing is package-global, so tests and the server each
// build their own.
package repository

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"community_server/server/community/domain"
)

type Store struct {
	mu sync.RWMutex

	users         map[string]domain.User
	events        map[string]domain.Event
	chatGroups    map[string]domain.ChatGroup
	chatMessages  map[string]domain.ChatMessage
	tickets       map[string]domain.Ticket
	announcements map[string]domain.Announcement
	banners       map[string]domain.Banner
	settings      map[string]string

	now       func() time.Time
	lastStamp time.Time
}

type Option func(*Store)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		users:         map[string]domain.User{},
		events:        map[string]domain.Event{},
		chatGroups:    map[string]domain.ChatGroup{},
		chatMessages:  map[string]domain.ChatMessage{},
		tickets:       map[string]domain.Ticket{},
		announcements: map[string]domain.Announcement{},
		banners:       map[string]domain.Banner{},
		settings:      map[string]string{},
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newID() string {
	return uuid.NewString()
}

// stamp returns a creation time strictly after the previous one so that
// createdAt ordering matches insertion order. Caller must hold s.mu.
func (s *Store) stamp() time.Time {
	ts := s.now().UTC()
	if !ts.After(s.lastStamp) {
		ts = s.lastStamp.Add(time.Nanosecond)
	}
	s.lastStamp = ts
	return ts
}

func (s *Store) Stats() domain.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Stats{
		TotalUsers:    len(s.users),
		TotalEvents:   len(s.events),
		TotalMessages: len(s.chatMessages),
		TotalTickets:  len(s.tickets),
	}
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func cloneUser(u domain.User) domain.User {
	u.Avatar = cloneString(u.Avatar)
	return u
}

func cloneEvent(e domain.Event) domain.Event {
	e.Description = cloneString(e.Description)
	e.AgencyLogo = cloneString(e.AgencyLogo)
	e.Participant1Name = cloneString(e.Participant1Name)
	e.Participant1Avatar = cloneString(e.Participant1Avatar)
	e.Participant2Name = cloneString(e.Participant2Name)
	e.Participant2Avatar = cloneString(e.Participant2Avatar)
	participants := make([]string, len(e.Participants))
	copy(participants, e.Participants)
	e.Participants = participants
	return e
}

func cloneChatGroup(g domain.ChatGroup) domain.ChatGroup {
	g.Description = cloneString(g.Description)
	return g
}

func cloneBanner(b domain.Banner) domain.Banner {
	b.Title = cloneString(b.Title)
	b.Description = cloneString(b.Description)
	b.ImageURL = cloneString(b.ImageURL)
	b.CTALabel = cloneString(b.CTALabel)
	b.CTAURL = cloneString(b.CTAURL)
	return b
}
