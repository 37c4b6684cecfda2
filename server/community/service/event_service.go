package service

import (
	"context"
	"strings"
	"time"

	"community_server/server/community/domain"
	"community_server/server/community/repository"
)

type EventService struct {
	store *repository.Store
}

func NewEventService(store *repository.Store) *EventService {
	return &EventService{store: store}
}

type EventInput struct {
	Title              string
	Description        *string
	AgencyName         string
	AgencyLogo         *string
	Participant1Name   *string
	Participant1Avatar *string
	Participant2Name   *string
	Participant2Avatar *string
	ScheduledAt        time.Time
}

type EventUpdateInput struct {
	IsLive           *bool
	ParticipantCount *int
	Participants     []string
}

func (s *EventService) List(_ context.Context) []domain.Event {
	return s.store.ListEvents()
}

func (s *EventService) Get(_ context.Context, id string) (domain.Event, error) {
	event, ok := s.store.GetEvent(id)
	if !ok {
		return domain.Event{}, domain.ErrNotFound.WithMessage("event not found")
	}
	return event, nil
}

// Create starts every event offline with no participants.
func (s *EventService) Create(_ context.Context, createdBy string, in EventInput) (domain.Event, error) {
	title := strings.TrimSpace(in.Title)
	agency := strings.TrimSpace(in.AgencyName)
	if title == "" || agency == "" {
		return domain.Event{}, domain.ErrInvalidRequest.WithMessage("title and agencyName are required")
	}
	if in.ScheduledAt.IsZero() {
		return domain.Event{}, domain.ErrInvalidRequest.WithMessage("scheduledAt is required")
	}
	return s.store.CreateEvent(domain.Event{
		Title:              title,
		Description:        in.Description,
		AgencyName:         agency,
		AgencyLogo:         in.AgencyLogo,
		Participant1Name:   in.Participant1Name,
		Participant1Avatar: in.Participant1Avatar,
		Participant2Name:   in.Participant2Name,
		Participant2Avatar: in.Participant2Avatar,
		ParticipantCount:   0,
		Participants:       []string{},
		ScheduledAt:        in.ScheduledAt.UTC(),
		IsLive:             false,
		CreatedBy:          createdBy,
	}), nil
}

// Update changes the live flag and participant roster. When a roster is
// given without an explicit count, the count follows the roster length.
func (s *EventService) Update(_ context.Context, id string, in EventUpdateInput) (domain.Event, error) {
	if in.ParticipantCount != nil && *in.ParticipantCount < 0 {
		return domain.Event{}, domain.ErrInvalidRequest.WithMessage("participantCount must not be negative")
	}
	patch := domain.EventPatch{IsLive: in.IsLive, ParticipantCount: in.ParticipantCount, Participants: in.Participants}
	if in.Participants != nil && in.ParticipantCount == nil {
		count := len(in.Participants)
		patch.ParticipantCount = &count
	}
	event, ok := s.store.UpdateEvent(id, patch)
	if !ok {
		return domain.Event{}, domain.ErrNotFound.WithMessage("event not found")
	}
	return event, nil
}
