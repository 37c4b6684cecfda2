package service

import (
	"context"
	"net/url"
	"strings"

	"community_server/server/community/domain"
	"community_server/server/community/repository"
)

// SiteService covers the site-wide bits: media settings, banners and stats.
type SiteService struct {
	store *repository.Store
}

func NewSiteService(store *repository.Store) *SiteService {
	return &SiteService{store: store}
}

type BannerInput struct {
	Title       *string
	Description *string
	ImageURL    *string
	CTALabel    *string
	CTAURL      *string
	SortOrder   int
	IsActive    *bool
}

// Setting returns "" for keys that were never written.
func (s *SiteService) Setting(_ context.Context, key string) string {
	value, _ := s.store.GetSetting(key)
	return value
}

// SetMediaURL stores a music or film URL. An empty value clears it.
func (s *SiteService) SetMediaURL(_ context.Context, key, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value != "" {
		if err := validateHTTPURL(value); err != nil {
			return "", err
		}
	}
	s.store.SetSetting(key, value)
	return value, nil
}

func (s *SiteService) Stats(_ context.Context) domain.Stats {
	return s.store.Stats()
}

func (s *SiteService) ActiveBanners(_ context.Context) []domain.Banner {
	return s.store.ListBanners(true)
}

func (s *SiteService) CreateBanner(_ context.Context, in BannerInput) (domain.Banner, error) {
	for _, link := range []*string{in.ImageURL, in.CTAURL} {
		if link != nil && *link != "" {
			if err := validateHTTPURL(*link); err != nil {
				return domain.Banner{}, err
			}
		}
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return s.store.CreateBanner(domain.Banner{
		Title:       in.Title,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		CTALabel:    in.CTALabel,
		CTAURL:      in.CTAURL,
		SortOrder:   in.SortOrder,
		IsActive:    active,
	}), nil
}

func (s *SiteService) DeleteBanner(_ context.Context, id string) error {
	if !s.store.DeleteBanner(id) {
		return domain.ErrNotFound.WithMessage("banner not found")
	}
	return nil
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return domain.ErrInvalidRequest.WithMessage("url must be an absolute http(s) URL")
	}
	return nil
}
