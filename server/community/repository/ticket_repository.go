package repository

import (
	"sort"

	"community_server/server/community/domain"
)

func (s *Store) CreateTicket(ticket domain.Ticket) domain.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	ticket.ID = newID()
	ticket.CreatedAt = s.stamp()
	s.tickets[ticket.ID] = ticket
	return ticket
}

func (s *Store) GetTicket(id string) (domain.Ticket, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ticket, ok := s.tickets[id]
	return ticket, ok
}

// ListTickets returns tickets newest first. An empty userID lists everyone's.
func (s *Store) ListTickets(userID string) []domain.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]domain.Ticket, 0, len(s.tickets))
	for _, ticket := range s.tickets {
		if userID != "" && ticket.UserID != userID {
			continue
		}
		items = append(items, ticket)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items
}

func (s *Store) UpdateTicketStatus(id, status string) (domain.Ticket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ticket, ok := s.tickets[id]
	if !ok {
		return domain.Ticket{}, false
	}
	ticket.Status = status
	s.tickets[id] = ticket
	return ticket, true
}
