package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"community_server/server/community/domain"
	"community_server/server/community/media"
	"community_server/server/community/repository"
)

const (
	minUsernameLen    = 3
	maxUsernameLen    = 32
	maxDisplayNameLen = 64
	// bcrypt only looks at the first 72 bytes and refuses longer input.
	maxPasswordBytes = 72
)

type UserService struct {
	store     *repository.Store
	avatars   *media.AvatarProcessor
	publisher Publisher
	hashCost  int
}

type UserOption func(*UserService)

// WithHashCost overrides bcrypt.DefaultCost. Tests use bcrypt.MinCost.
func WithHashCost(cost int) UserOption {
	return func(s *UserService) {
		s.hashCost = cost
	}
}

func NewUserService(store *repository.Store, avatars *media.AvatarProcessor, publisher Publisher, opts ...UserOption) *UserService {
	s := &UserService{store: store, avatars: avatars, publisher: publisher, hashCost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type RegisterInput struct {
	Username    string
	Password    string
	DisplayName string
}

type AdminCreateInput struct {
	Username    string
	Password    string
	DisplayName string
	Role        domain.Role
	Level       int
}

type AdminUpdateInput struct {
	DisplayName *string
	Role        *domain.Role
	Level       *int
}

type ProfileInput struct {
	DisplayName *string
	Avatar      *string
}

// Register creates a USER at level 1 that is online from the start.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	username, displayName, err := accountNames(in.Username, in.DisplayName)
	if err != nil {
		return domain.User{}, err
	}
	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return domain.User{}, err
	}
	user, err := s.store.CreateUser(domain.User{
		Username:    username,
		Password:    hash,
		DisplayName: displayName,
		Role:        domain.RoleUser,
		Level:       1,
		IsOnline:    true,
	})
	if err != nil {
		return domain.User{}, err
	}
	publish(ctx, s.publisher, EventUserRegistered, map[string]any{
		"id":       user.ID,
		"username": user.Username,
	})
	return user, nil
}

// Authenticate checks credentials and marks the user online. A failed
// attempt leaves the record untouched.
func (s *UserService) Authenticate(_ context.Context, username, password string) (domain.User, error) {
	user, ok := s.store.GetUserByUsername(strings.TrimSpace(username))
	if !ok {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	online := true
	updated, ok := s.store.UpdateUser(user.ID, domain.UserPatch{IsOnline: &online})
	if !ok {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	return updated, nil
}

func (s *UserService) MarkOffline(_ context.Context, userID string) {
	offline := false
	s.store.UpdateUser(userID, domain.UserPatch{IsOnline: &offline})
}

func (s *UserService) Get(_ context.Context, userID string) (domain.User, error) {
	user, ok := s.store.GetUser(userID)
	if !ok {
		return domain.User{}, domain.ErrNotFound.WithMessage("user not found")
	}
	return user, nil
}

func (s *UserService) List(_ context.Context) []domain.User {
	return s.store.ListUsers()
}

func (s *UserService) CreateByAdmin(_ context.Context, in AdminCreateInput) (domain.User, error) {
	if !in.Role.Valid() {
		return domain.User{}, domain.ErrInvalidRequest.WithMessage("role must be one of USER|VIP|MOD|ADMIN")
	}
	if in.Level < 1 {
		in.Level = 1
	}
	username, displayName, err := accountNames(in.Username, in.DisplayName)
	if err != nil {
		return domain.User{}, err
	}
	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return domain.User{}, err
	}
	return s.store.CreateUser(domain.User{
		Username:    username,
		Password:    hash,
		DisplayName: displayName,
		Role:        in.Role,
		Level:       in.Level,
		IsOnline:    false,
	})
}

func (s *UserService) AdminUpdate(_ context.Context, userID string, in AdminUpdateInput) (domain.User, error) {
	if in.Role != nil && !in.Role.Valid() {
		return domain.User{}, domain.ErrInvalidRequest.WithMessage("role must be one of USER|VIP|MOD|ADMIN")
	}
	if in.Level != nil && *in.Level < 1 {
		return domain.User{}, domain.ErrInvalidRequest.WithMessage("level must be at least 1")
	}
	patch := domain.UserPatch{Role: in.Role, Level: in.Level}
	if in.DisplayName != nil {
		name := strings.TrimSpace(*in.DisplayName)
		if name == "" {
			return domain.User{}, domain.ErrInvalidRequest.WithMessage("displayName must not be empty")
		}
		patch.DisplayName = &name
	}
	user, ok := s.store.UpdateUser(userID, patch)
	if !ok {
		return domain.User{}, domain.ErrNotFound.WithMessage("user not found")
	}
	return user, nil
}

func (s *UserService) Delete(_ context.Context, userID string) error {
	if !s.store.DeleteUser(userID) {
		return domain.ErrNotFound.WithMessage("user not found")
	}
	return nil
}

// UpdateProfile lets a user change their own display name and avatar. An
// empty avatar clears it.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (domain.User, error) {
	var patch domain.UserPatch
	if in.DisplayName != nil {
		name := strings.TrimSpace(*in.DisplayName)
		if name == "" {
			return domain.User{}, domain.ErrInvalidRequest.WithMessage("displayName must not be empty")
		}
		patch.DisplayName = &name
	}
	if in.Avatar != nil {
		avatar, err := s.avatars.Normalize(ctx, userID, *in.Avatar)
		if err != nil {
			return domain.User{}, err
		}
		patch.Avatar = &avatar
	}
	user, ok := s.store.UpdateUser(userID, patch)
	if !ok {
		return domain.User{}, domain.ErrNotFound.WithMessage("user not found")
	}
	return user, nil
}

// accountNames trims both names and checks their lengths after trimming.
func accountNames(username, displayName string) (string, string, error) {
	username = strings.TrimSpace(username)
	displayName = strings.TrimSpace(displayName)
	if n := utf8.RuneCountInString(username); n < minUsernameLen || n > maxUsernameLen {
		return "", "", domain.ErrInvalidRequest.WithMessage(
			fmt.Sprintf("username must be %d to %d characters", minUsernameLen, maxUsernameLen))
	}
	if n := utf8.RuneCountInString(displayName); n < 1 || n > maxDisplayNameLen {
		return "", "", domain.ErrInvalidRequest.WithMessage(
			fmt.Sprintf("displayName must be 1 to %d characters", maxDisplayNameLen))
	}
	return username, displayName, nil
}

func (s *UserService) hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", domain.ErrInvalidRequest.WithMessage(
			fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes))
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}
