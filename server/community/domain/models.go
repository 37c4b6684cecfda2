package domain

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleVIP   Role = "VIP"
	RoleMod   Role = "MOD"
	RoleAdmin Role = "ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleVIP, RoleMod, RoleAdmin:
		return true
	}
	return false
}

const (
	TicketStatusOpen     = "open"
	TicketStatusResolved = "resolved"
)

const (
	SettingMusicURL = "musicUrl"
	SettingFilmURL  = "filmUrl"
)

// User.Password holds a bcrypt hash and is never serialized.
type User struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Password    string    `json:"-"`
	DisplayName string    `json:"displayName"`
	Role        Role      `json:"role"`
	Avatar      *string   `json:"avatar"`
	Level       int       `json:"level"`
	IsOnline    bool      `json:"isOnline"`
	CreatedAt   time.Time `json:"createdAt"`
}

type UserPatch struct {
	DisplayName *string
	Avatar      *string
	Role        *Role
	Level       *int
	IsOnline    *bool
}

type Event struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Description        *string   `json:"description"`
	AgencyName         string    `json:"agencyName"`
	AgencyLogo         *string   `json:"agencyLogo"`
	Participant1Name   *string   `json:"participant1Name"`
	Participant1Avatar *string   `json:"participant1Avatar"`
	Participant2Name   *string   `json:"participant2Name"`
	Participant2Avatar *string   `json:"participant2Avatar"`
	ParticipantCount   int       `json:"participantCount"`
	Participants       []string  `json:"participants"`
	ScheduledAt        time.Time `json:"scheduledAt"`
	IsLive             bool      `json:"isLive"`
	CreatedBy          string    `json:"createdBy"`
	CreatedAt          time.Time `json:"createdAt"`
}

type EventPatch struct {
	IsLive           *bool
	ParticipantCount *int
	Participants     []string
}

type ChatGroup struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

type ChatMessage struct {
	ID        string    `json:"id"`
	GroupID   string    `json:"groupId"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type Ticket struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type Announcement struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	IsActive  bool      `json:"isActive"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

type AnnouncementPatch struct {
	Content  *string
	IsActive *bool
}

type Banner struct {
	ID          string    `json:"id"`
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	ImageURL    *string   `json:"imageUrl"`
	CTALabel    *string   `json:"ctaLabel"`
	CTAURL      *string   `json:"ctaUrl"`
	SortOrder   int       `json:"sortOrder"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Stats struct {
	TotalUsers    int `json:"totalUsers"`
	TotalEvents   int `json:"totalEvents"`
	TotalMessages int `json:"totalMessages"`
	TotalTickets  int `json:"totalTickets"`
}
