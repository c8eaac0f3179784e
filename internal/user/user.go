package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/methodo/internal/logging"
	"github.com/abhisek/methodo/internal/practice"
	"github.com/abhisek/methodo/internal/store"
)

// DefaultUsername is given to the profile created on first use.
const DefaultUsername = "访客用户"

// ErrCorrupt is returned when the stored profile cannot be decoded.
var ErrCorrupt = errors.New("user: stored profile is corrupt")

// User is the single local profile.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// Patch lists the profile fields to change. Nil fields are left alone.
type Patch struct {
	Username *string
	Email    *string
	Avatar   *string
}

// Service reads and writes the profile stored under store.KeyCurrentUser.
type Service struct {
	kv       store.KV
	practice *practice.Store
	log      *logging.Logger

	// Now returns the current time, used for CreatedAt.
	Now func() time.Time
}

// NewService creates a Service. practice may be nil if Stats is not used.
func NewService(kv store.KV, practiceStore *practice.Store, log *logging.Logger) *Service {
	return &Service{
		kv:       kv,
		practice: practiceStore,
		log:      logging.OrNop(log).With("component", "user"),
		Now:      time.Now,
	}
}

// Current returns the stored profile, creating and saving a guest profile
// when none exists.
func (s *Service) Current(ctx context.Context) (User, error) {
	raw, ok, err := s.kv.Get(ctx, store.KeyCurrentUser)
	if err != nil {
		return User{}, err
	}
	if !ok {
		u := User{
			ID:        "user_" + uuid.NewString(),
			Username:  DefaultUsername,
			CreatedAt: s.Now().UTC().Format(time.RFC3339Nano),
		}
		if err := s.save(ctx, u); err != nil {
			return User{}, err
		}
		s.log.Info("created default user", "id", u.ID)
		return u, nil
	}

	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		s.log.Error("stored user unreadable", "error", err)
		return User{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return u, nil
}

// Update applies p to the current profile and saves it.
func (s *Service) Update(ctx context.Context, p Patch) (User, error) {
	u, err := s.Current(ctx)
	if err != nil {
		return User{}, err
	}
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
	if err := s.save(ctx, u); err != nil {
		return User{}, err
	}
	s.log.Info("user updated", "id", u.ID, "username", u.Username, "email", u.Email)
	return u, nil
}

// Stats returns the practice statistics for the profile.
func (s *Service) Stats(ctx context.Context) (practice.Stats, error) {
	if s.practice == nil {
		return practice.Stats{}, fmt.Errorf("user stats: no practice store")
	}
	return s.practice.Stats(ctx)
}

func (s *Service) save(ctx context.Context, u User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	return s.kv.Set(ctx, store.KeyCurrentUser, string(data))
}
