package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"community_server/server/community/domain"
	"community_server/server/community/repository"
	commonlog "community_server/server/common/log"
)

type seedUser struct {
	username    string
	password    string
	displayName string
	role        domain.Role
	level       int
	online      bool
}

var demoUsers = []seedUser{
	{username: "admin", password: "admin123", displayName: "Admin", role: domain.RoleAdmin, level: 50, online: true},
	{username: "moderator", password: "mod123", displayName: "Moderator", role: domain.RoleMod, level: 30, online: true},
	{username: "vipuser", password: "vip123", displayName: "VIP Member", role: domain.RoleVIP, level: 20, online: false},
}

func avatarURL(seed string) *string {
	v := "https://api.dicebear.com/7.x/avataaars/svg?seed=" + seed
	return &v
}

func text(v string) *string { return &v }

// Seed loads the demo data set into an empty store: three staff accounts,
// three chat groups, three events, one active announcement, two welcome
// messages and one banner.
func Seed(ctx context.Context, store *repository.Store, hashCost int) error {
	ids := make(map[string]string, len(demoUsers))
	for _, u := range demoUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), hashCost)
		if err != nil {
			return fmt.Errorf("seed %s: %w", u.username, err)
		}
		created, err := store.CreateUser(domain.User{
			Username:    u.username,
			Password:    string(hash),
			DisplayName: u.displayName,
			Role:        u.role,
			Level:       u.level,
			IsOnline:    u.online,
		})
		if err != nil {
			return fmt.Errorf("seed %s: %w", u.username, err)
		}
		ids[u.username] = created.ID
	}
	adminID, modID := ids["admin"], ids["moderator"]

	general := store.CreateChatGroup(domain.ChatGroup{
		Name:        "General",
		Description: text("Open chat for every member"),
		CreatedBy:   adminID,
	})
	store.CreateChatGroup(domain.ChatGroup{
		Name:        "VIP Lounge",
		Description: text("Chat room for VIP members"),
		CreatedBy:   adminID,
	})
	store.CreateChatGroup(domain.ChatGroup{
		Name:        "Event News",
		Description: text("Event and PK announcements"),
		CreatedBy:   modID,
	})

	now := time.Now().UTC()
	store.CreateEvent(domain.Event{
		Title:              "Weekly PK Contest",
		Description:        text("The big weekly PK event. Prizes and surprises await!"),
		AgencyName:         "Elite Agency",
		Participant1Name:   text("StarQueen"),
		Participant1Avatar: avatarURL("StarQueen"),
		Participant2Name:   text("GoldenKing"),
		Participant2Avatar: avatarURL("GoldenKing"),
		ParticipantCount:   24,
		Participants:       []string{"Ali", "Veli", "Ayse", "Fatma", "Mehmet"},
		ScheduledAt:        now.Add(48 * time.Hour),
		CreatedBy:          adminID,
	})
	store.CreateEvent(domain.Event{
		Title:              "VIP Live Stream",
		Description:        text("A live stream for VIP members only"),
		AgencyName:         "Premium Productions",
		Participant1Name:   text("DiamondStar"),
		Participant1Avatar: avatarURL("DiamondStar"),
		Participant2Name:   text("RubyQueen"),
		Participant2Avatar: avatarURL("RubyQueen"),
		ParticipantCount:   12,
		Participants:       []string{"Crown", "Star", "Diamond"},
		ScheduledAt:        now.Add(time.Hour),
		IsLive:             true,
		CreatedBy:          modID,
	})
	store.CreateEvent(domain.Event{
		Title:              "Beginners Guide",
		Description:        text("An introduction to using the platform"),
		AgencyName:         "Community Team",
		Participant1Name:   text("MentorPro"),
		Participant1Avatar: avatarURL("MentorPro"),
		Participant2Name:   text("GuideAce"),
		Participant2Avatar: avatarURL("GuideAce"),
		ParticipantCount:   45,
		Participants:       []string{"Helper1", "Helper2", "Guide"},
		ScheduledAt:        now.Add(5 * 24 * time.Hour),
		CreatedBy:          adminID,
	})

	store.CreateAnnouncement("Welcome to the platform! Special events and surprises are waiting for you this week.", adminID)

	for _, msg := range []domain.ChatMessage{
		{GroupID: general.ID, UserID: adminID, Content: "Hello everyone! Welcome to the platform."},
		{GroupID: general.ID, UserID: modID, Content: "Hi! Happy to help if you have any questions."},
	} {
		if _, err := store.CreateChatMessage(msg); err != nil {
			return fmt.Errorf("seed message: %w", err)
		}
	}

	store.CreateBanner(domain.Banner{
		Title:       text("Become a VIP"),
		Description: text("Unlock the VIP lounge and exclusive live streams."),
		CTALabel:    text("Learn more"),
		CTAURL:      text("https://example.com/vip"),
		SortOrder:   1,
		IsActive:    true,
	})

	commonlog.Infof("seeded demo data: users=%d", len(demoUsers))
	return nil
}
