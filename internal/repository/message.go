package repository

import (
	"context"
	"fmt"

	"crush-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MessageRepository handles document store operations for messages
type MessageRepository struct {
	messages *mongo.Collection
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *mongo.Database) *MessageRepository {
	return &MessageRepository{messages: db.Collection("messages")}
}

// EnsureIndexes creates the indexes the repository relies on
func (r *MessageRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.messages.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "sender", Value: 1}, {Key: "timestamp", Value: 1}}},
		{Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "timestamp", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create message indexes: %w", err)
	}
	return nil
}

// Insert stores a new message
func (r *MessageRepository) Insert(ctx context.Context, msg *models.Message) error {
	if _, err := r.messages.InsertOne(ctx, msg); err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

// Thread retrieves all messages exchanged between two users, sorted by
// timestamp ascending.
func (r *MessageRepository) Thread(ctx context.Context, userID, otherUserID string) ([]models.Message, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"sender": userID, "recipient": otherUserID},
		bson.M{"sender": otherUserID, "recipient": userID},
	}}

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	cursor, err := r.messages.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch thread: %w", err)
	}
	defer cursor.Close(ctx)

	var msgs []models.Message
	if err := cursor.All(ctx, &msgs); err != nil {
		return nil, fmt.Errorf("failed to decode thread: %w", err)
	}
	return msgs, nil
}

// MarkThreadRead marks every unread message sent to userID by otherUserID
// as read.
func (r *MessageRepository) MarkThreadRead(ctx context.Context, userID, otherUserID string) error {
	_, err := r.messages.UpdateMany(ctx,
		bson.M{"sender": otherUserID, "recipient": userID, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark thread read: %w", err)
	}
	return nil
}

// ListForUser retrieves every message where the user is sender or recipient
func (r *MessageRepository) ListForUser(ctx context.Context, userID string) ([]models.Message, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"sender": userID},
		bson.M{"recipient": userID},
	}}

	cursor, err := r.messages.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer cursor.Close(ctx)

	var msgs []models.Message
	if err := cursor.All(ctx, &msgs); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}
	return msgs, nil
}
