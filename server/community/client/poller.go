package client

import (
	"context"
	"time"

	"community_server/server/community/domain"
)

const (
	ChatGroupsInterval         = 10 * time.Second
	ChatMessagesInterval       = 3 * time.Second
	ActiveAnnouncementInterval = 30 * time.Second
)

// Poll loads key immediately and then every interval, invalidating the
// snapshot before each reload so onData always sees fresh data. It blocks
// until ctx is cancelled; cancelling ctx is the only way to stop it.
func Poll[T any](ctx context.Context, cache *QueryCache, key Key, interval time.Duration, fn func(context.Context) (T, error), onData func(T, error)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	load := func() {
		value, err := Fetch(ctx, cache, key, fn)
		if ctx.Err() != nil {
			return
		}
		onData(value, err)
	}

	load()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cache.Invalidate(key)
			load()
		}
	}
}

func (c *Client) PollChatGroups(ctx context.Context, onData func([]domain.ChatGroup, error)) {
	Poll(ctx, c.cache, KeyChatGroups, ChatGroupsInterval, c.loadChatGroups, onData)
}

func (c *Client) PollChatMessages(ctx context.Context, groupID string, onData func([]ChatMessage, error)) {
	Poll(ctx, c.cache, KeyChatMessages(groupID), ChatMessagesInterval, c.messageLoader(groupID), onData)
}

func (c *Client) PollActiveAnnouncement(ctx context.Context, onData func(*domain.Announcement, error)) {
	Poll(ctx, c.cache, KeyActiveAnnouncement, ActiveAnnouncementInterval, c.loadActiveAnnouncement, onData)
}
