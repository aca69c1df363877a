package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"crush-backend/internal/geo"
	"crush-backend/internal/models"
	"crush-backend/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// immutableFields are profile patch keys that callers may never set
// directly.
var immutableFields = map[string]bool{
	"_id":               true,
	"id":                true,
	"email":             true,
	"password":          true,
	"passwordHash":      true,
	"likes":             true,
	"matches":           true,
	"rejected":          true,
	"rejectedOnce":      true,
	"secondChanceShown": true,
	"profileCompleted":  true,
	"createdAt":         true,
	"updatedAt":         true,
}

// UserService handles registration, profile reads and profile updates
type UserService struct {
	users UserStore
}

// NewUserService creates a new user service
func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// CreateUserRequest is the registration payload
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Gender   string `json:"gender"`
	Age      int    `json:"age"`
	ZipCode  string `json:"zipCode"`
}

// CreateUser registers a new user with a bcrypt-hashed password
func (s *UserService) CreateUser(ctx context.Context, req CreateUserRequest) (*models.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if req.Name == "" {
		return nil, InvalidArgument("name is required")
	}
	if req.Email == "" {
		return nil, InvalidArgument("email is required")
	}
	if req.Password == "" {
		return nil, InvalidArgument("password is required")
	}
	if !models.ValidGender(req.Gender) {
		return nil, InvalidArgument("gender must be male or female")
	}
	if req.ZipCode != "" && !geo.ValidZip(req.ZipCode) {
		return nil, InvalidArgument("zipCode must be a 5-digit postal code")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		PasswordHash: string(hash),
		Name:         req.Name,
		Age:          req.Age,
		Gender:       req.Gender,
		ZipCode:      strings.TrimSpace(req.ZipCode),

		Photos:            []string{},
		Likes:             []string{},
		Matches:           []string{},
		Rejected:          []string{},
		RejectedOnce:      []string{},
		SecondChanceShown: []string{},

		CreatedAt: now,
		UpdatedAt: now,
	}
	user.ProfileCompleted = profileCompleted(user)

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, InvalidArgument("email already registered")
		}
		return nil, err
	}
	return user, nil
}

// GetUser fetches a single user by ID
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, NotFound("user %s not found", id)
	}
	return user, nil
}

// ListUsers fetches all users
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

// UpdateProfile applies a field patch to a user profile.
//
// The patch must carry a valid 5-digit zipCode (either already on the
// profile or in the patch). Known schema fields are type-checked before
// anything is written; only unknown fields pass through into the
// document as-is. Immutable fields are stripped and profileCompleted is
// recomputed from the merged record.
func (s *UserService) UpdateProfile(ctx context.Context, id string, patch map[string]interface{}) (*models.User, error) {
	current, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, NotFound("user %s not found", id)
	}

	fields := make(map[string]interface{}, len(patch))
	for k, v := range patch {
		if immutableFields[k] {
			continue
		}
		fields[k] = v
	}

	if err := normalizePatch(fields); err != nil {
		return nil, err
	}

	if g, ok := fields["gender"].(string); ok && !models.ValidGender(g) {
		return nil, InvalidArgument("gender must be male or female")
	}

	merged := mergeProfile(current, fields)
	if !geo.ValidZip(merged.ZipCode) {
		return nil, InvalidArgument("zipCode must be a 5-digit postal code")
	}
	fields["profileCompleted"] = profileCompleted(merged)

	updated, err := s.users.UpdateFields(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, NotFound("user %s not found", id)
	}
	return updated, nil
}

// Matches returns the matched users for the given user, shaped to the
// subset of profile fields the matches list exposes.
func (s *UserService) Matches(ctx context.Context, id string) ([]models.MatchedUser, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, NotFound("user %s not found", id)
	}

	matched, err := s.users.ListByIDs(ctx, user.Matches)
	if err != nil {
		return nil, err
	}

	result := make([]models.MatchedUser, 0, len(matched))
	for _, m := range matched {
		result = append(result, models.MatchedUser{
			ID:    m.ID,
			Name:  m.Name,
			Age:   m.Age,
			Image: m.DisplayImage(),
			Bio:   m.DisplayBio(),
		})
	}
	return result, nil
}

// profileCompleted reports whether a profile has everything the swipe
// deck needs: age, gender, at least one photo and a valid postal code.
func profileCompleted(u *models.User) bool {
	return u.Age > 0 &&
		models.ValidGender(u.Gender) &&
		len(u.Photos) > 0 &&
		geo.ValidZip(u.ZipCode)
}

// patchStringFields are the known schema fields a patch must carry as
// strings.
var patchStringFields = []string{
	"name", "gender", "zipCode", "aboutMe", "bio", "image",
	"denomination", "maritalStatus", "drinking", "smoking",
}

// patchStringSliceFields are the known schema fields a patch must carry
// as arrays of strings.
var patchStringSliceFields = []string{"photos", "hobbies"}

// normalizePatch type-checks the known schema fields of a profile patch
// and coerces them into the types the document stores. A mismatched type
// here would otherwise be written verbatim and leave the document
// undecodable. Unknown fields pass through untouched.
func normalizePatch(fields map[string]interface{}) error {
	for _, key := range patchStringFields {
		v, ok := fields[key]
		if !ok {
			continue
		}
		s, isString := v.(string)
		if !isString {
			return InvalidArgument("%s must be a string", key)
		}
		if key == "zipCode" {
			s = strings.TrimSpace(s)
		}
		fields[key] = s
	}

	if v, ok := fields["age"]; ok {
		switch n := v.(type) {
		case float64:
			if n != math.Trunc(n) || n < 0 {
				return InvalidArgument("age must be a non-negative integer")
			}
			fields["age"] = int(n)
		case int:
			if n < 0 {
				return InvalidArgument("age must be a non-negative integer")
			}
		default:
			return InvalidArgument("age must be a number")
		}
	}

	for _, key := range patchStringSliceFields {
		v, ok := fields[key]
		if !ok {
			continue
		}
		ss, ok := toStringSlice(v)
		if !ok {
			return InvalidArgument("%s must be an array of strings", key)
		}
		fields[key] = ss
	}

	return nil
}

// mergeProfile overlays a normalized field patch onto a copy of the
// current user so profileCompleted can be computed from the record the
// update produces.
func mergeProfile(current *models.User, fields map[string]interface{}) *models.User {
	merged := *current

	if v, ok := fields["age"].(int); ok {
		merged.Age = v
	}
	if v, ok := fields["gender"].(string); ok {
		merged.Gender = v
	}
	if v, ok := fields["zipCode"].(string); ok {
		merged.ZipCode = v
	}
	if v, ok := fields["photos"].([]string); ok {
		merged.Photos = v
	}

	return &merged
}

// toStringSlice converts a decoded JSON array into []string. It reports
// false for non-arrays and for arrays holding a non-string entry.
func toStringSlice(v interface{}) ([]string, bool) {
	switch vs := v.(type) {
	case []string:
		return vs, true
	case []interface{}:
		out := make([]string, 0, len(vs))
		for _, item := range vs {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}
