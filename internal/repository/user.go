package repository

import (
	"context"
	"fmt"
	"time"

	"crush-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserRepository handles document store operations for users
type UserRepository struct {
	users *mongo.Collection
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{users: db.Collection("users")}
}

// EnsureIndexes creates the indexes the repository relies on
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "gender", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}
	return nil
}

// Create inserts a new user document
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if _, err := r.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID. Returns (nil, nil) when no user exists.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.users.FindOne(ctx, bson.M{"id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// List retrieves all users
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	cursor, err := r.users.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

// ListByIDs retrieves the users whose IDs are in the given set.
// IDs that do not resolve are silently absent from the result.
func (r *UserRepository) ListByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cursor, err := r.users.Find(ctx, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to list users by ids: %w", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

// ListByGenderExcluding retrieves all users of the given gender whose IDs
// are not in the exclusion set.
func (r *UserRepository) ListByGenderExcluding(ctx context.Context, gender string, excludeIDs []string) ([]models.User, error) {
	filter := bson.M{"gender": gender}
	if len(excludeIDs) > 0 {
		filter["id"] = bson.M{"$nin": excludeIDs}
	}

	cursor, err := r.users.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode candidates: %w", err)
	}
	return users, nil
}

// AddLike appends targetID to the actor's likes set.
//
// The filter requires the target to be absent from the set, so the
// check-then-append is a single conditional document update: two
// concurrent likes of the same target cannot both succeed. Returns false
// when the target was already in the set.
func (r *UserRepository) AddLike(ctx context.Context, actorID, targetID string) (bool, error) {
	res, err := r.users.UpdateOne(ctx,
		bson.M{"id": actorID, "likes": bson.M{"$ne": targetID}},
		bson.M{
			"$addToSet": bson.M{"likes": targetID},
			"$set":      bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return false, fmt.Errorf("failed to add like: %w", err)
	}
	return res.MatchedCount > 0, nil
}

// AddMatch appends otherID to the user's matches set. Idempotent, so a
// partially applied mutual match heals when retried.
func (r *UserRepository) AddMatch(ctx context.Context, userID, otherID string) error {
	_, err := r.users.UpdateOne(ctx,
		bson.M{"id": userID},
		bson.M{
			"$addToSet": bson.M{"matches": otherID},
			"$set":      bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to add match: %w", err)
	}
	return nil
}

// AddRejectedOnce records a soft rejection of targetID by the actor
func (r *UserRepository) AddRejectedOnce(ctx context.Context, actorID, targetID string) error {
	_, err := r.users.UpdateOne(ctx,
		bson.M{"id": actorID},
		bson.M{
			"$addToSet": bson.M{"rejectedOnce": targetID},
			"$set":      bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to add soft rejection: %w", err)
	}
	return nil
}

// AddRejected moves targetID from the actor's rejectedOnce set into the
// permanent rejected set.
func (r *UserRepository) AddRejected(ctx context.Context, actorID, targetID string) error {
	_, err := r.users.UpdateOne(ctx,
		bson.M{"id": actorID},
		bson.M{
			"$addToSet": bson.M{"rejected": targetID},
			"$pull":     bson.M{"rejectedOnce": targetID},
			"$set":      bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to add rejection: %w", err)
	}
	return nil
}

// AddSecondChanceShown records that a second-chance candidate was
// presented to the user. Idempotent.
func (r *UserRepository) AddSecondChanceShown(ctx context.Context, userID, targetID string) error {
	_, err := r.users.UpdateOne(ctx,
		bson.M{"id": userID},
		bson.M{
			"$addToSet": bson.M{"secondChanceShown": targetID},
			"$set":      bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to record second chance: %w", err)
	}
	return nil
}

// UpdateFields applies the given field patch to a user document and
// returns the updated document. Returns (nil, nil) when no user exists.
func (r *UserRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) (*models.User, error) {
	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}
	set["updatedAt"] = time.Now().UTC()

	var user models.User
	err := r.users.FindOneAndUpdate(ctx,
		bson.M{"id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return &user, nil
}
