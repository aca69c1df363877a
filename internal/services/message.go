package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"crush-backend/internal/models"

	"github.com/google/uuid"
)

// MessageService handles sending messages, thread fetches and
// conversation summaries.
type MessageService struct {
	messages MessageStore
	users    UserStore
}

// NewMessageService creates a new message service
func NewMessageService(messages MessageStore, users UserStore) *MessageService {
	return &MessageService{messages: messages, users: users}
}

// SendMessageRequest is the payload for sending a message
type SendMessageRequest struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Text      string `json:"text"`
}

// Send creates a new unread message between two existing users
func (s *MessageService) Send(ctx context.Context, req SendMessageRequest) (*models.Message, error) {
	if req.Sender == "" || req.Recipient == "" || strings.TrimSpace(req.Text) == "" {
		return nil, InvalidArgument("sender, recipient and text are required")
	}
	if req.Sender == req.Recipient {
		return nil, InvalidArgument("cannot message yourself")
	}

	for _, id := range []string{req.Sender, req.Recipient} {
		user, err := s.users.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, NotFound("user %s not found", id)
		}
	}

	msg := &models.Message{
		ID:        uuid.New().String(),
		Sender:    req.Sender,
		Recipient: req.Recipient,
		Text:      req.Text,
		Timestamp: time.Now().UTC(),
		Read:      false,
	}
	if err := s.messages.Insert(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// Thread returns all messages between two users, oldest first.
//
// Fetching a thread is a read with a side effect: every unread message
// sent to userID by otherUserID is marked read before the thread is
// returned.
func (s *MessageService) Thread(ctx context.Context, userID, otherUserID string) ([]models.Message, error) {
	if err := s.messages.MarkThreadRead(ctx, userID, otherUserID); err != nil {
		return nil, err
	}

	msgs, err := s.messages.Thread(ctx, userID, otherUserID)
	if err != nil {
		return nil, err
	}
	if msgs == nil {
		msgs = []models.Message{}
	}
	return msgs, nil
}

// Conversations derives per-counterparty summaries from the flat message
// store: the most recent message per counterparty, newest conversation
// first. Counterparties that no longer resolve to a user are dropped.
func (s *MessageService) Conversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	msgs, err := s.messages.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Latest message per counterparty, reduced in memory
	latest := make(map[string]models.Message)
	for _, m := range msgs {
		other := m.Sender
		if other == userID {
			other = m.Recipient
		}
		if prev, ok := latest[other]; !ok || m.Timestamp.After(prev.Timestamp) {
			latest[other] = m
		}
	}

	if len(latest) == 0 {
		return []models.Conversation{}, nil
	}

	otherIDs := make([]string, 0, len(latest))
	for id := range latest {
		otherIDs = append(otherIDs, id)
	}
	others, err := s.users.ListByIDs(ctx, otherIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*models.User, len(others))
	for i := range others {
		byID[others[i].ID] = &others[i]
	}

	conversations := make([]models.Conversation, 0, len(latest))
	for otherID, m := range latest {
		other, ok := byID[otherID]
		if !ok {
			// Counterparty no longer exists; drop the group silently
			continue
		}
		conversations = append(conversations, models.Conversation{
			OtherUserID: otherID,
			OtherUser: models.ConversationUser{
				ID:    other.ID,
				Name:  other.Name,
				Image: other.DisplayImage(),
			},
			LastMessage: m.Text,
			Timestamp:   m.Timestamp,
			Unread:      m.Sender == otherID && !m.Read,
		})
	}

	sort.Slice(conversations, func(i, j int) bool {
		return conversations[i].Timestamp.After(conversations[j].Timestamp)
	})
	return conversations, nil
}
