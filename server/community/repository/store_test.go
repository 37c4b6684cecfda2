package repository

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"community_server/server/community/domain"
)

func strPtr(v string) *string { return &v }

func TestCreateUserRejectsDuplicateUsername(t *testing.T) {
	s := NewStore()
	_, err := s.CreateUser(domain.User{Username: "alice", Role: domain.RoleUser, Level: 1})
	require.NoError(t, err)

	_, err = s.CreateUser(domain.User{Username: "alice", Role: domain.RoleAdmin, Level: 9})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDuplicateUsername))

	users := s.ListUsers()
	require.Len(t, users, 1)
	assert.Equal(t, domain.RoleUser, users[0].Role)
}

func TestCreateUserIgnoresCallerID(t *testing.T) {
	s := NewStore()
	user, err := s.CreateUser(domain.User{ID: "fixed", Username: "bob"})
	require.NoError(t, err)
	assert.NotEqual(t, "fixed", user.ID)
	assert.NotEmpty(t, user.ID)

	_, ok := s.GetUser("fixed")
	assert.False(t, ok)
}

func TestConcurrentRegistrationKeepsUsernameUnique(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	var mu sync.Mutex
	created := 0
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.CreateUser(domain.User{Username: "race"}); err == nil {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, created)
	assert.Len(t, s.ListUsers(), 1)
}

func TestUpdateUnknownUserDoesNotUpsert(t *testing.T) {
	s := NewStore()
	name := "ghost"
	_, ok := s.UpdateUser("missing", domain.UserPatch{DisplayName: &name})
	assert.False(t, ok)
	assert.Empty(t, s.ListUsers())
}

func TestReturnedValuesAreCopies(t *testing.T) {
	s := NewStore()
	user, err := s.CreateUser(domain.User{Username: "carol", Avatar: strPtr("a.png")})
	require.NoError(t, err)
	*user.Avatar = "mutated.png"

	stored, ok := s.GetUser(user.ID)
	require.True(t, ok)
	assert.Equal(t, "a.png", *stored.Avatar)

	event := s.CreateEvent(domain.Event{Title: "pk", Participants: []string{"a", "b"}})
	event.Participants[0] = "zzz"
	list := s.ListEvents()
	list[0].Participants[1] = "yyy"

	got, ok := s.GetEvent(event.ID)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, got.Participants)
}

func TestListEventsAscendingBySchedule(t *testing.T) {
	s := NewStore()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.CreateEvent(domain.Event{Title: "late", ScheduledAt: base.Add(48 * time.Hour)})
	s.CreateEvent(domain.Event{Title: "early", ScheduledAt: base.Add(time.Hour)})
	s.CreateEvent(domain.Event{Title: "mid", ScheduledAt: base.Add(24 * time.Hour)})

	events := s.ListEvents()
	require.Len(t, events, 3)
	assert.Equal(t, "early", events[0].Title)
	assert.Equal(t, "mid", events[1].Title)
	assert.Equal(t, "late", events[2].Title)
}

func TestDeleteChatGroupCascadesMessages(t *testing.T) {
	s := NewStore()
	keep := s.CreateChatGroup(domain.ChatGroup{Name: "keep"})
	drop := s.CreateChatGroup(domain.ChatGroup{Name: "drop"})
	for i := 0; i < 3; i++ {
		_, err := s.CreateChatMessage(domain.ChatMessage{GroupID: drop.ID, UserID: "u", Content: "bye"})
		require.NoError(t, err)
	}
	_, err := s.CreateChatMessage(domain.ChatMessage{GroupID: keep.ID, UserID: "u", Content: "hi"})
	require.NoError(t, err)

	assert.True(t, s.DeleteChatGroup(drop.ID))
	assert.Empty(t, s.ListChatMessages(drop.ID))
	assert.Len(t, s.ListChatMessages(keep.ID), 1)
	assert.Equal(t, 1, s.Stats().TotalMessages)

	assert.False(t, s.DeleteChatGroup(drop.ID))
}

func TestCreateChatMessageRequiresGroup(t *testing.T) {
	s := NewStore()
	_, err := s.CreateChatMessage(domain.ChatMessage{GroupID: "nope", UserID: "u", Content: "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Equal(t, 0, s.Stats().TotalMessages)
}

func TestChatMessagesOrderedByCreation(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := NewStore(WithClock(func() time.Time { return fixed }))
	group := s.CreateChatGroup(domain.ChatGroup{Name: "g"})
	for _, content := range []string{"one", "two", "three"} {
		_, err := s.CreateChatMessage(domain.ChatMessage{GroupID: group.ID, UserID: "u", Content: content})
		require.NoError(t, err)
	}
	msgs := s.ListChatMessages(group.ID)
	require.Len(t, msgs, 3)
	assert.Equal(t, "one", msgs[0].Content)
	assert.Equal(t, "two", msgs[1].Content)
	assert.Equal(t, "three", msgs[2].Content)
}

func TestDeleteGroupMessagesCounts(t *testing.T) {
	s := NewStore()
	group := s.CreateChatGroup(domain.ChatGroup{Name: "g"})
	msg, err := s.CreateChatMessage(domain.ChatMessage{GroupID: group.ID, UserID: "u", Content: "a"})
	require.NoError(t, err)
	_, err = s.CreateChatMessage(domain.ChatMessage{GroupID: group.ID, UserID: "u", Content: "b"})
	require.NoError(t, err)

	assert.True(t, s.DeleteChatMessage(msg.ID))
	assert.False(t, s.DeleteChatMessage(msg.ID))
	assert.Equal(t, 1, s.DeleteGroupMessages(group.ID))
	_, ok := s.GetChatGroup(group.ID)
	assert.True(t, ok)
}

func TestListTicketsScopesAndSortsNewestFirst(t *testing.T) {
	s := NewStore()
	first := s.CreateTicket(domain.Ticket{UserID: "u1", Subject: "a", Status: domain.TicketStatusOpen})
	s.CreateTicket(domain.Ticket{UserID: "u2", Subject: "b", Status: domain.TicketStatusOpen})
	third := s.CreateTicket(domain.Ticket{UserID: "u1", Subject: "c", Status: domain.TicketStatusOpen})

	mine := s.ListTickets("u1")
	require.Len(t, mine, 2)
	assert.Equal(t, third.ID, mine[0].ID)
	assert.Equal(t, first.ID, mine[1].ID)
	for _, ticket := range mine {
		assert.Equal(t, "u1", ticket.UserID)
	}
	assert.Len(t, s.ListTickets(""), 3)

	updated, ok := s.UpdateTicketStatus(first.ID, "escalated")
	require.True(t, ok)
	assert.Equal(t, "escalated", updated.Status)
	_, ok = s.UpdateTicketStatus("missing", domain.TicketStatusResolved)
	assert.False(t, ok)
}

func TestOnlyOneAnnouncementActive(t *testing.T) {
	s := NewStore()
	a := s.CreateAnnouncement("first", "admin")
	b := s.CreateAnnouncement("second", "admin")

	// force a second active one through the patch path, then create again
	active := true
	_, ok := s.UpdateAnnouncement(a.ID, domain.AnnouncementPatch{IsActive: &active})
	require.True(t, ok)
	c := s.CreateAnnouncement("third", "admin")

	activeCount := 0
	for _, item := range s.ListAnnouncements() {
		if item.IsActive {
			activeCount++
			assert.Equal(t, c.ID, item.ID)
		}
	}
	assert.Equal(t, 1, activeCount)

	current, ok := s.ActiveAnnouncement()
	require.True(t, ok)
	assert.Equal(t, "third", current.Content)

	got, ok := s.GetAnnouncement(b.ID)
	require.True(t, ok)
	assert.False(t, got.IsActive)
}

func TestConcurrentAnnouncementsLeaveOneActive(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.CreateAnnouncement("news", "admin")
		}()
	}
	wg.Wait()

	activeCount := 0
	for _, item := range s.ListAnnouncements() {
		if item.IsActive {
			activeCount++
		}
	}
	assert.Equal(t, 1, activeCount)
}

func TestSettingsLastWriteWins(t *testing.T) {
	s := NewStore()
	_, ok := s.GetSetting(domain.SettingFilmURL)
	assert.False(t, ok)

	s.SetSetting(domain.SettingFilmURL, "https://a")
	s.SetSetting(domain.SettingFilmURL, "https://b")
	value, ok := s.GetSetting(domain.SettingFilmURL)
	require.True(t, ok)
	assert.Equal(t, "https://b", value)
}

func TestListBannersActiveOnlySorted(t *testing.T) {
	s := NewStore()
	s.CreateBanner(domain.Banner{Title: strPtr("second"), SortOrder: 2, IsActive: true})
	s.CreateBanner(domain.Banner{Title: strPtr("hidden"), SortOrder: 0, IsActive: false})
	first := s.CreateBanner(domain.Banner{Title: strPtr("first"), SortOrder: 1, IsActive: true})

	active := s.ListBanners(true)
	require.Len(t, active, 2)
	assert.Equal(t, "first", *active[0].Title)
	assert.Len(t, s.ListBanners(false), 3)

	assert.True(t, s.DeleteBanner(first.ID))
	assert.False(t, s.DeleteBanner(first.ID))
}

func TestDeleteUserLeavesAuthoredContent(t *testing.T) {
	s := NewStore()
	user, err := s.CreateUser(domain.User{Username: "dave"})
	require.NoError(t, err)
	group := s.CreateChatGroup(domain.ChatGroup{Name: "g"})
	_, err = s.CreateChatMessage(domain.ChatMessage{GroupID: group.ID, UserID: user.ID, Content: "hello"})
	require.NoError(t, err)
	s.CreateTicket(domain.Ticket{UserID: user.ID, Subject: "s"})

	assert.True(t, s.DeleteUser(user.ID))
	assert.False(t, s.DeleteUser(user.ID))
	assert.Len(t, s.ListChatMessages(group.ID), 1)
	assert.Len(t, s.ListTickets(user.ID), 1)
}
