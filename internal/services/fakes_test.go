package services_test

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"crush-backend/internal/geo"
	"crush-backend/internal/models"
	"crush-backend/internal/repository"

	"github.com/samber/lo"
)

// fakeUserStore is an in-memory UserStore for service tests
type fakeUserStore struct {
	users map[string]*models.User
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[string]*models.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) Create(_ context.Context, user *models.User) error {
	for _, u := range s.users {
		if u.Email == user.Email {
			return fmt.Errorf("fake store: %w", repository.ErrDuplicateEmail)
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (s *fakeUserStore) List(_ context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeUserStore) ListByIDs(_ context.Context, ids []string) ([]models.User, error) {
	var out []models.User
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (s *fakeUserStore) ListByGenderExcluding(_ context.Context, gender string, excludeIDs []string) ([]models.User, error) {
	var out []models.User
	for _, u := range s.users {
		if u.Gender != gender || lo.Contains(excludeIDs, u.ID) {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeUserStore) AddLike(_ context.Context, actorID, targetID string) (bool, error) {
	actor, ok := s.users[actorID]
	if !ok || lo.Contains(actor.Likes, targetID) {
		return false, nil
	}
	actor.Likes = append(actor.Likes, targetID)
	return true, nil
}

func (s *fakeUserStore) AddMatch(_ context.Context, userID, otherID string) error {
	u, ok := s.users[userID]
	if !ok {
		return nil
	}
	if !lo.Contains(u.Matches, otherID) {
		u.Matches = append(u.Matches, otherID)
	}
	return nil
}

func (s *fakeUserStore) AddRejectedOnce(_ context.Context, actorID, targetID string) error {
	u, ok := s.users[actorID]
	if !ok {
		return nil
	}
	if !lo.Contains(u.RejectedOnce, targetID) {
		u.RejectedOnce = append(u.RejectedOnce, targetID)
	}
	return nil
}

func (s *fakeUserStore) AddRejected(_ context.Context, actorID, targetID string) error {
	u, ok := s.users[actorID]
	if !ok {
		return nil
	}
	if !lo.Contains(u.Rejected, targetID) {
		u.Rejected = append(u.Rejected, targetID)
	}
	u.RejectedOnce = lo.Filter(u.RejectedOnce, func(id string, _ int) bool {
		return id != targetID
	})
	return nil
}

func (s *fakeUserStore) AddSecondChanceShown(_ context.Context, userID, targetID string) error {
	u, ok := s.users[userID]
	if !ok {
		return nil
	}
	if !lo.Contains(u.SecondChanceShown, targetID) {
		u.SecondChanceShown = append(u.SecondChanceShown, targetID)
	}
	return nil
}

func (s *fakeUserStore) UpdateFields(_ context.Context, id string, fields map[string]interface{}) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	for k, v := range fields {
		applyField(u, k, v)
	}
	copied := *u
	return &copied, nil
}

func applyField(u *models.User, key string, value interface{}) {
	switch key {
	case "name":
		u.Name, _ = value.(string)
	case "age":
		switch n := value.(type) {
		case float64:
			u.Age = int(n)
		case int:
			u.Age = n
		}
	case "gender":
		u.Gender, _ = value.(string)
	case "aboutMe":
		u.AboutMe, _ = value.(string)
	case "bio":
		u.Bio, _ = value.(string)
	case "image":
		u.Image, _ = value.(string)
	case "zipCode":
		if s, ok := value.(string); ok {
			u.ZipCode = strings.TrimSpace(s)
		}
	case "photos":
		switch p := value.(type) {
		case []string:
			u.Photos = p
		case []interface{}:
			u.Photos = nil
			for _, item := range p {
				if s, ok := item.(string); ok {
					u.Photos = append(u.Photos, s)
				}
			}
		}
	case "profileCompleted":
		u.ProfileCompleted, _ = value.(bool)
	default:
		if u.Extra == nil {
			u.Extra = map[string]interface{}{}
		}
		u.Extra[key] = value
	}
}

// fakeMessageStore is an in-memory MessageStore for service tests
type fakeMessageStore struct {
	messages []*models.Message
}

func (s *fakeMessageStore) Insert(_ context.Context, msg *models.Message) error {
	copied := *msg
	s.messages = append(s.messages, &copied)
	return nil
}

func (s *fakeMessageStore) Thread(_ context.Context, userID, otherUserID string) ([]models.Message, error) {
	var out []models.Message
	for _, m := range s.messages {
		if (m.Sender == userID && m.Recipient == otherUserID) ||
			(m.Sender == otherUserID && m.Recipient == userID) {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (s *fakeMessageStore) MarkThreadRead(_ context.Context, userID, otherUserID string) error {
	for _, m := range s.messages {
		if m.Sender == otherUserID && m.Recipient == userID && !m.Read {
			m.Read = true
		}
	}
	return nil
}

func (s *fakeMessageStore) ListForUser(_ context.Context, userID string) ([]models.Message, error) {
	var out []models.Message
	for _, m := range s.messages {
		if m.Sender == userID || m.Recipient == userID {
			out = append(out, *m)
		}
	}
	return out, nil
}

// fakeGeoResolver resolves zips from a fixed table
type fakeGeoResolver struct {
	coords map[string]geo.Coordinates
}

func (r *fakeGeoResolver) Resolve(_ context.Context, zip string) (*geo.Coordinates, error) {
	if !geo.ValidZip(zip) {
		return nil, nil
	}
	c, ok := r.coords[strings.TrimSpace(zip)]
	if !ok {
		return nil, nil
	}
	return &c, nil
}
