package services

import (
	"context"

	"crush-backend/internal/geo"
	"crush-backend/internal/models"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// Recommendations is the result of a recommendation request.
// SecondChance is true when the primary pool was empty and the users come
// from the previously-rejected fallback pool.
type Recommendations struct {
	Users        []models.Candidate `json:"users"`
	SecondChance bool               `json:"secondChance"`
}

// RecommendService computes the candidate pool for a user's swipe deck
type RecommendService struct {
	users UserStore
	geo   GeoResolver
}

// NewRecommendService creates a new recommendation service
func NewRecommendService(users UserStore, geoResolver GeoResolver) *RecommendService {
	return &RecommendService{users: users, geo: geoResolver}
}

// Recommend returns the unseen, opposite-gender candidate pool for a user.
//
// The primary pool excludes the requester and everyone already liked,
// matched or rejected. When it is empty the permanently-rejected set is
// offered again, minus anyone already shown as a second chance.
func (s *RecommendService) Recommend(ctx context.Context, userID string) (*Recommendations, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, NotFound("user %s not found", userID)
	}

	origin, err := s.geo.Resolve(ctx, user.ZipCode)
	if err != nil {
		// Distance is an annotation, not a gate; degrade to nil distances.
		log.Warn().Err(err).Str("user_id", userID).Msg("Failed to resolve requester zip")
		origin = nil
	}

	exclude := make([]string, 0, len(user.Likes)+len(user.Matches)+len(user.Rejected)+1)
	exclude = append(exclude, user.ID)
	exclude = append(exclude, user.Likes...)
	exclude = append(exclude, user.Matches...)
	exclude = append(exclude, user.Rejected...)

	pool, err := s.users.ListByGenderExcluding(ctx, models.OppositeGender(user.Gender), lo.Uniq(exclude))
	if err != nil {
		return nil, err
	}

	if len(pool) > 0 {
		return &Recommendations{Users: s.shape(ctx, origin, pool)}, nil
	}

	// Second chance: re-offer permanently rejected profiles not shown yet
	retryIDs := lo.Filter(user.Rejected, func(id string, _ int) bool {
		return !lo.Contains(user.SecondChanceShown, id)
	})
	if len(retryIDs) == 0 {
		return &Recommendations{Users: []models.Candidate{}}, nil
	}

	rejected, err := s.users.ListByIDs(ctx, retryIDs)
	if err != nil {
		return nil, err
	}
	rejected = lo.Filter(rejected, func(u models.User, _ int) bool {
		return u.Gender == models.OppositeGender(user.Gender)
	})

	return &Recommendations{
		Users:        s.shape(ctx, origin, rejected),
		SecondChance: true,
	}, nil
}

// MarkSecondChanceShown idempotently records that a second-chance
// candidate was presented to the user.
func (s *RecommendService) MarkSecondChanceShown(ctx context.Context, userID, targetID string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return NotFound("user %s not found", userID)
	}
	return s.users.AddSecondChanceShown(ctx, userID, targetID)
}

// shape converts users into Candidates annotated with the distance from
// origin. Distance is nil when either coordinate is unresolved.
func (s *RecommendService) shape(ctx context.Context, origin *geo.Coordinates, users []models.User) []models.Candidate {
	candidates := make([]models.Candidate, 0, len(users))
	for i := range users {
		u := &users[i]
		c := models.Candidate{
			ID:      u.ID,
			Name:    u.Name,
			Age:     u.Age,
			Gender:  u.Gender,
			ZipCode: u.ZipCode,
			Image:   u.DisplayImage(),
			Bio:     u.DisplayBio(),
			Photos:  u.Photos,
		}
		if origin != nil {
			coords, err := s.geo.Resolve(ctx, u.ZipCode)
			if err != nil {
				log.Warn().Err(err).Str("user_id", u.ID).Msg("Failed to resolve candidate zip")
			} else if coords != nil {
				d := geo.DistanceMiles(*origin, *coords)
				c.DistanceMiles = &d
			}
		}
		candidates = append(candidates, c)
	}
	return candidates
}
