package services

import (
	"context"

	"crush-backend/internal/models"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// Swipe actions
const (
	ActionLike   = "like"
	ActionReject = "reject"
)

// SwipeResult reports the outcome of a swipe
type SwipeResult struct {
	Message string `json:"message"`
	Match   bool   `json:"match"`
}

// SwipeService applies like/reject actions between users and detects
// mutual matches.
//
// Rejection is two-strike: the first reject of a target is soft
// (rejectedOnce), the second is permanent (rejected), a third fails.
type SwipeService struct {
	users UserStore
}

// NewSwipeService creates a new swipe service
func NewSwipeService(users UserStore) *SwipeService {
	return &SwipeService{users: users}
}

// Swipe applies a like or reject from actor to target
func (s *SwipeService) Swipe(ctx context.Context, actorID, targetID, action string) (*SwipeResult, error) {
	if actorID == targetID {
		return nil, InvalidArgument("cannot swipe on yourself")
	}

	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if actor == nil || target == nil {
		return nil, NotFound("user not found")
	}

	switch action {
	case ActionLike:
		return s.like(ctx, actor, target)
	case ActionReject:
		return s.reject(ctx, actor, target)
	default:
		return nil, InvalidArgument("invalid action %q", action)
	}
}

func (s *SwipeService) like(ctx context.Context, actor, target *models.User) (*SwipeResult, error) {
	// Conditional append: fails the match filter when the target is
	// already in the set, so a concurrent duplicate like loses cleanly.
	added, err := s.users.AddLike(ctx, actor.ID, target.ID)
	if err != nil {
		return nil, err
	}
	if !added {
		return nil, AlreadyActed("already liked this user")
	}

	if !lo.Contains(target.Likes, actor.ID) {
		return &SwipeResult{Message: "Swipe recorded", Match: false}, nil
	}

	// Mutual like. Both writes are idempotent, so a failure between the
	// two leaves a state that heals on retry.
	if err := s.users.AddMatch(ctx, actor.ID, target.ID); err != nil {
		return nil, err
	}
	if err := s.users.AddMatch(ctx, target.ID, actor.ID); err != nil {
		return nil, err
	}

	log.Info().
		Str("actor_id", actor.ID).
		Str("target_id", target.ID).
		Msg("Mutual match")

	return &SwipeResult{Message: "It's a match!", Match: true}, nil
}

func (s *SwipeService) reject(ctx context.Context, actor, target *models.User) (*SwipeResult, error) {
	if lo.Contains(actor.Rejected, target.ID) {
		return nil, AlreadyActed("already rejected this user permanently")
	}

	if lo.Contains(actor.RejectedOnce, target.ID) {
		if err := s.users.AddRejected(ctx, actor.ID, target.ID); err != nil {
			return nil, err
		}
		return &SwipeResult{Message: "Rejected permanently"}, nil
	}

	if err := s.users.AddRejectedOnce(ctx, actor.ID, target.ID); err != nil {
		return nil, err
	}
	return &SwipeResult{Message: "Rejected once"}, nil
}
