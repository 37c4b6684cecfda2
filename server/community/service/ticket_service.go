package service

import (
	"context"
	"strings"

	"community_server/server/community/domain"
	"community_server/server/community/repository"
)

const recentTicketLimit = 10

type TicketService struct {
	store     *repository.Store
	publisher Publisher
}

func NewTicketService(store *repository.Store, publisher Publisher) *TicketService {
	return &TicketService{store: store, publisher: publisher}
}

// ListFor returns every ticket to ADMIN and MOD and only the caller's own
// tickets to everyone else.
func (s *TicketService) ListFor(_ context.Context, userID string, role domain.Role) []domain.Ticket {
	if role == domain.RoleAdmin || role == domain.RoleMod {
		return s.store.ListTickets("")
	}
	return s.store.ListTickets(userID)
}

func (s *TicketService) Recent(_ context.Context) []domain.Ticket {
	tickets := s.store.ListTickets("")
	if len(tickets) > recentTicketLimit {
		tickets = tickets[:recentTicketLimit]
	}
	return tickets
}

func (s *TicketService) Create(ctx context.Context, userID, subject, message string) (domain.Ticket, error) {
	if strings.TrimSpace(subject) == "" || strings.TrimSpace(message) == "" {
		return domain.Ticket{}, domain.ErrInvalidRequest.WithMessage("subject and message are required")
	}
	ticket := s.store.CreateTicket(domain.Ticket{
		UserID:  userID,
		Subject: subject,
		Message: message,
		Status:  domain.TicketStatusOpen,
	})
	publish(ctx, s.publisher, EventTicketCreated, ticket)
	return ticket, nil
}

func (s *TicketService) UpdateStatus(ctx context.Context, id, status string) (domain.Ticket, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return domain.Ticket{}, domain.ErrInvalidRequest.WithMessage("status is required")
	}
	ticket, ok := s.store.UpdateTicketStatus(id, status)
	if !ok {
		return domain.Ticket{}, domain.ErrNotFound.WithMessage("ticket not found")
	}
	publish(ctx, s.publisher, EventTicketUpdated, ticket)
	return ticket, nil
}
