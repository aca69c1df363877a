package services

import (
	"context"

	"crush-backend/internal/geo"
	"crush-backend/internal/models"
)

// UserStore is the user persistence interface the services depend on.
// Implemented by repository.UserRepository; tests supply in-memory fakes.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	ListByIDs(ctx context.Context, ids []string) ([]models.User, error)
	ListByGenderExcluding(ctx context.Context, gender string, excludeIDs []string) ([]models.User, error)
	AddLike(ctx context.Context, actorID, targetID string) (bool, error)
	AddMatch(ctx context.Context, userID, otherID string) error
	AddRejectedOnce(ctx context.Context, actorID, targetID string) error
	AddRejected(ctx context.Context, actorID, targetID string) error
	AddSecondChanceShown(ctx context.Context, userID, targetID string) error
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) (*models.User, error)
}

// MessageStore is the message persistence interface
type MessageStore interface {
	Insert(ctx context.Context, msg *models.Message) error
	Thread(ctx context.Context, userID, otherUserID string) ([]models.Message, error)
	MarkThreadRead(ctx context.Context, userID, otherUserID string) error
	ListForUser(ctx context.Context, userID string) ([]models.Message, error)
}

// GeoResolver resolves a postal code to coordinates; nil means unresolved
type GeoResolver interface {
	Resolve(ctx context.Context, zip string) (*geo.Coordinates, error)
}
