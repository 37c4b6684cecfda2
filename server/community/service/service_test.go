package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"community_server/server/community/domain"
	"community_server/server/community/media"
	"community_server/server/community/repository"
)

type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
	fail bool
}

func (p *recordingPublisher) Publish(_ context.Context, key string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	if p.fail {
		return errors.New("broker down")
	}
	return nil
}

func (p *recordingPublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.keys...)
}

func newUsers(store *repository.Store, pub Publisher) *UserService {
	return NewUserService(store, media.NewAvatarProcessor(nil), pub, WithHashCost(bcrypt.MinCost))
}

func TestRegisterDefaultsAndHashesPassword(t *testing.T) {
	store := repository.NewStore()
	pub := &recordingPublisher{}
	users := newUsers(store, pub)

	user, err := users.Register(context.Background(), RegisterInput{Username: "alice", Password: "secret1", DisplayName: "Alice"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.Equal(t, 1, user.Level)
	assert.True(t, user.IsOnline)
	assert.Nil(t, user.Avatar)
	assert.NotEqual(t, "secret1", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret1")))
	assert.Equal(t, []string{EventUserRegistered}, pub.published())

	_, err = users.Register(context.Background(), RegisterInput{Username: "alice", Password: "other12", DisplayName: "A2"})
	assert.ErrorIs(t, err, domain.ErrDuplicateUsername)
}

func TestAccountInputIsCheckedAfterTrimming(t *testing.T) {
	store := repository.NewStore()
	users := newUsers(store, NopPublisher{})
	ctx := context.Background()

	_, err := users.Register(ctx, RegisterInput{Username: "   ", Password: "secret1", DisplayName: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	_, err = users.CreateByAdmin(ctx, AdminCreateInput{Username: " ab ", Password: "secret1", DisplayName: "Ab", Role: domain.RoleVIP})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	_, err = users.CreateByAdmin(ctx, AdminCreateInput{Username: "frank", Password: "secret1", DisplayName: " ", Role: domain.RoleVIP})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	_, err = users.Register(ctx, RegisterInput{Username: "grace", Password: strings.Repeat("p", 73), DisplayName: "Grace"})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	assert.Empty(t, store.ListUsers())

	user, err := users.Register(ctx, RegisterInput{Username: "  grace ", Password: "secret1", DisplayName: " Grace "})
	require.NoError(t, err)
	assert.Equal(t, "grace", user.Username)
	assert.Equal(t, "Grace", user.DisplayName)
}

func TestAuthenticate(t *testing.T) {
	store := repository.NewStore()
	users := newUsers(store, NopPublisher{})
	ctx := context.Background()

	created, err := users.CreateByAdmin(ctx, AdminCreateInput{Username: "bob", Password: "hunter2", DisplayName: "Bob", Role: domain.RoleVIP, Level: 5})
	require.NoError(t, err)
	assert.False(t, created.IsOnline)

	_, err = users.Authenticate(ctx, "bob", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	stored, _ := store.GetUser(created.ID)
	assert.False(t, stored.IsOnline)

	_, err = users.Authenticate(ctx, "nobody", "hunter2")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	user, err := users.Authenticate(ctx, "bob", "hunter2")
	require.NoError(t, err)
	assert.True(t, user.IsOnline)

	users.MarkOffline(ctx, user.ID)
	stored, _ = store.GetUser(user.ID)
	assert.False(t, stored.IsOnline)
}

func TestAdminUpdateValidatesRole(t *testing.T) {
	store := repository.NewStore()
	users := newUsers(store, NopPublisher{})
	ctx := context.Background()
	user, err := users.Register(ctx, RegisterInput{Username: "carol", Password: "secret1", DisplayName: "Carol"})
	require.NoError(t, err)

	bad := domain.Role("OWNER")
	_, err = users.AdminUpdate(ctx, user.ID, AdminUpdateInput{Role: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	mod := domain.RoleMod
	level := 30
	updated, err := users.AdminUpdate(ctx, user.ID, AdminUpdateInput{Role: &mod, Level: &level})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleMod, updated.Role)
	assert.Equal(t, 30, updated.Level)

	_, err = users.AdminUpdate(ctx, "missing", AdminUpdateInput{Role: &mod})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, users.Delete(ctx, "missing"), domain.ErrNotFound)
}

func TestUpdateProfileAvatar(t *testing.T) {
	store := repository.NewStore()
	users := newUsers(store, NopPublisher{})
	ctx := context.Background()
	user, err := users.Register(ctx, RegisterInput{Username: "dave", Password: "secret1", DisplayName: "Dave"})
	require.NoError(t, err)

	link := "https://example.com/a.png"
	updated, err := users.UpdateProfile(ctx, user.ID, ProfileInput{Avatar: &link})
	require.NoError(t, err)
	require.NotNil(t, updated.Avatar)
	assert.Equal(t, link, *updated.Avatar)

	empty := ""
	updated, err = users.UpdateProfile(ctx, user.ID, ProfileInput{Avatar: &empty})
	require.NoError(t, err)
	assert.Nil(t, updated.Avatar)

	blank := "  "
	_, err = users.UpdateProfile(ctx, user.ID, ProfileInput{DisplayName: &blank})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestEventCreateDefaultsAndUpdate(t *testing.T) {
	events := NewEventService(repository.NewStore())
	ctx := context.Background()

	_, err := events.Create(ctx, "admin", EventInput{Title: "", AgencyName: "A", ScheduledAt: time.Now()})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	event, err := events.Create(ctx, "admin", EventInput{Title: "PK", AgencyName: "Agency", ScheduledAt: time.Now().Add(time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, 0, event.ParticipantCount)
	assert.NotNil(t, event.Participants)
	assert.Empty(t, event.Participants)
	assert.False(t, event.IsLive)

	live := true
	updated, err := events.Update(ctx, event.ID, EventUpdateInput{IsLive: &live, Participants: []string{"a", "b"}})
	require.NoError(t, err)
	assert.True(t, updated.IsLive)
	assert.Equal(t, 2, updated.ParticipantCount)

	_, err = events.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestChatMessagesCarryAuthorOrNull(t *testing.T) {
	store := repository.NewStore()
	pub := &recordingPublisher{}
	chat := NewChatService(store, pub)
	users := newUsers(store, NopPublisher{})
	ctx := context.Background()

	author, err := users.Register(ctx, RegisterInput{Username: "erin", Password: "secret1", DisplayName: "Erin"})
	require.NoError(t, err)
	group, err := chat.CreateGroup(ctx, author.ID, GroupInput{Name: "General"})
	require.NoError(t, err)

	_, err = chat.Send(ctx, author.ID, group.ID, "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	_, err = chat.Send(ctx, author.ID, "missing", "hi")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	sent, err := chat.Send(ctx, author.ID, group.ID, "  hi  ")
	require.NoError(t, err)
	assert.Equal(t, "  hi  ", sent.Content)
	require.NotNil(t, sent.Author)
	assert.Equal(t, author.ID, sent.Author.ID)

	require.NoError(t, users.Delete(ctx, author.ID))
	messages := chat.Messages(ctx, group.ID)
	require.Len(t, messages, 1)
	assert.Nil(t, messages[0].Author)

	n, err := chat.ClearGroup(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, chat.DeleteGroup(ctx, group.ID))
	assert.ErrorIs(t, chat.DeleteGroup(ctx, group.ID), domain.ErrNotFound)
	assert.Equal(t, []string{EventChatGroupDeleted}, pub.published())
}

func TestTicketScopingAndRecent(t *testing.T) {
	store := repository.NewStore()
	tickets := NewTicketService(store, NopPublisher{})
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		owner := "u1"
		if i%2 == 1 {
			owner = "u2"
		}
		_, err := tickets.Create(ctx, owner, "subject", "message")
		require.NoError(t, err)
	}

	own := tickets.ListFor(ctx, "u1", domain.RoleVIP)
	assert.Len(t, own, 6)
	for _, ticket := range own {
		assert.Equal(t, "u1", ticket.UserID)
		assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	}
	assert.Len(t, tickets.ListFor(ctx, "u1", domain.RoleMod), 12)
	assert.Len(t, tickets.ListFor(ctx, "u1", domain.RoleAdmin), 12)
	assert.Len(t, tickets.Recent(ctx), 10)

	_, err := tickets.UpdateStatus(ctx, "missing", domain.TicketStatusResolved)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPublisherFailureDoesNotFailRequest(t *testing.T) {
	store := repository.NewStore()
	pub := &recordingPublisher{fail: true}
	tickets := NewTicketService(store, pub)

	ticket, err := tickets.Create(context.Background(), "u1", "s", "m")
	require.NoError(t, err)
	updated, err := tickets.UpdateStatus(context.Background(), ticket.ID, domain.TicketStatusResolved)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusResolved, updated.Status)
	assert.Equal(t, []string{EventTicketCreated, EventTicketUpdated}, pub.published())
}

func TestAnnouncementLifecycle(t *testing.T) {
	announcements := NewAnnouncementService(repository.NewStore(), NopPublisher{})
	ctx := context.Background()

	_, err := announcements.Active(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	first, err := announcements.Create(ctx, "admin", "first")
	require.NoError(t, err)
	second, err := announcements.Create(ctx, "admin", "second")
	require.NoError(t, err)

	active, err := announcements.Active(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)

	on := true
	_, err = announcements.Update(ctx, first.ID, domain.AnnouncementPatch{IsActive: &on})
	require.NoError(t, err)
	active, err = announcements.Active(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, active.ID)

	require.NoError(t, announcements.Delete(ctx, first.ID))
	_, err = announcements.Active(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSiteSettingsAndBanners(t *testing.T) {
	site := NewSiteService(repository.NewStore())
	ctx := context.Background()

	assert.Equal(t, "", site.Setting(ctx, domain.SettingMusicURL))
	_, err := site.SetMediaURL(ctx, domain.SettingMusicURL, "not a url")
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	_, err = site.SetMediaURL(ctx, domain.SettingMusicURL, "https://example.com/song.mp3")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/song.mp3", site.Setting(ctx, domain.SettingMusicURL))

	off := false
	_, err = site.CreateBanner(ctx, BannerInput{SortOrder: 1, IsActive: &off})
	require.NoError(t, err)
	visible, err := site.CreateBanner(ctx, BannerInput{SortOrder: 2})
	require.NoError(t, err)

	banners := site.ActiveBanners(ctx)
	require.Len(t, banners, 1)
	assert.Equal(t, visible.ID, banners[0].ID)
	assert.ErrorIs(t, site.DeleteBanner(ctx, "missing"), domain.ErrNotFound)
}

func TestSeedLoadsDemoData(t *testing.T) {
	store := repository.NewStore()
	require.NoError(t, Seed(context.Background(), store, bcrypt.MinCost))

	stats := store.Stats()
	assert.Equal(t, 3, stats.TotalUsers)
	assert.Equal(t, 3, stats.TotalEvents)
	assert.Equal(t, 2, stats.TotalMessages)
	assert.Len(t, store.ListChatGroups(), 3)
	_, ok := store.ActiveAnnouncement()
	assert.True(t, ok)

	users := newUsers(store, NopPublisher{})
	admin, err := users.Authenticate(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
	assert.Equal(t, 50, admin.Level)
}
