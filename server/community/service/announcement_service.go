package service

import (
	"context"
	"strings"

	"community_server/server/community/domain"
	"community_server/server/community/repository"
)

type AnnouncementService struct {
	store     *repository.Store
	publisher Publisher
}

func NewAnnouncementService(store *repository.Store, publisher Publisher) *AnnouncementService {
	return &AnnouncementService{store: store, publisher: publisher}
}

func (s *AnnouncementService) Active(_ context.Context) (domain.Announcement, error) {
	item, ok := s.store.ActiveAnnouncement()
	if !ok {
		return domain.Announcement{}, domain.ErrNotFound.WithMessage("no active announcement")
	}
	return item, nil
}

func (s *AnnouncementService) List(_ context.Context) []domain.Announcement {
	return s.store.ListAnnouncements()
}

// Create publishes a new active announcement, retiring the previous one.
func (s *AnnouncementService) Create(ctx context.Context, createdBy, content string) (domain.Announcement, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.Announcement{}, domain.ErrInvalidRequest.WithMessage("content must not be empty")
	}
	item := s.store.CreateAnnouncement(content, createdBy)
	publish(ctx, s.publisher, EventAnnouncementCreated, item)
	return item, nil
}

func (s *AnnouncementService) Update(_ context.Context, id string, patch domain.AnnouncementPatch) (domain.Announcement, error) {
	if patch.Content != nil {
		content := strings.TrimSpace(*patch.Content)
		if content == "" {
			return domain.Announcement{}, domain.ErrInvalidRequest.WithMessage("content must not be empty")
		}
		patch.Content = &content
	}
	item, ok := s.store.UpdateAnnouncement(id, patch)
	if !ok {
		return domain.Announcement{}, domain.ErrNotFound.WithMessage("announcement not found")
	}
	return item, nil
}

func (s *AnnouncementService) Delete(_ context.Context, id string) error {
	if !s.store.DeleteAnnouncement(id) {
		return domain.ErrNotFound.WithMessage("announcement not found")
	}
	return nil
}
