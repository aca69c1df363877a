package models

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// ValidGender reports whether g is one of the supported gender values
func ValidGender(g string) bool {
	return g == GenderMale || g == GenderFemale
}

// OppositeGender returns the opposite of the given gender value.
// Only the binary enum is supported.
func OppositeGender(g string) string {
	if g == GenderMale {
		return GenderFemale
	}
	return GenderMale
}

// User represents a user profile document.
//
// Relationship fields (Likes, Matches, Rejected, RejectedOnce,
// SecondChanceShown) are sets of user IDs; uniqueness is enforced by the
// repository via $addToSet, not by this type.
type User struct {
	// OID is the store-assigned document id; the application key is ID.
	OID primitive.ObjectID `bson:"_id,omitempty" json:"-"`

	ID            string   `bson:"id" json:"id"`
	Email         string   `bson:"email" json:"email"`
	PasswordHash  string   `bson:"passwordHash" json:"-"`
	Name          string   `bson:"name" json:"name"`
	Age           int      `bson:"age" json:"age"`
	Gender        string   `bson:"gender" json:"gender"`
	AboutMe       string   `bson:"aboutMe" json:"aboutMe,omitempty"`
	Bio           string   `bson:"bio" json:"bio,omitempty"`
	Image         string   `bson:"image" json:"image,omitempty"`
	Photos        []string `bson:"photos" json:"photos"`
	ZipCode       string   `bson:"zipCode" json:"zipCode,omitempty"`
	Denomination  string   `bson:"denomination" json:"denomination,omitempty"`
	MaritalStatus string   `bson:"maritalStatus" json:"maritalStatus,omitempty"`
	Drinking      string   `bson:"drinking" json:"drinking,omitempty"`
	Smoking       string   `bson:"smoking" json:"smoking,omitempty"`
	Hobbies       []string `bson:"hobbies" json:"hobbies,omitempty"`

	Likes             []string `bson:"likes" json:"likes"`
	Matches           []string `bson:"matches" json:"matches"`
	Rejected          []string `bson:"rejected" json:"rejected"`
	RejectedOnce      []string `bson:"rejectedOnce" json:"rejectedOnce"`
	SecondChanceShown []string `bson:"secondChanceShown" json:"secondChanceShown"`

	ProfileCompleted bool      `bson:"profileCompleted" json:"profileCompleted"`
	CreatedAt        time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time `bson:"updatedAt" json:"updatedAt"`

	// Extra carries pass-through profile fields that are not part of the
	// known schema. They live at the top level of the Mongo document.
	Extra map[string]interface{} `bson:",inline" json:"-"`
}

// DisplayImage returns the first photo if present, otherwise the legacy
// single-image field.
func (u *User) DisplayImage() string {
	if len(u.Photos) > 0 {
		return u.Photos[0]
	}
	return u.Image
}

// DisplayBio returns aboutMe if present, otherwise the legacy bio field.
func (u *User) DisplayBio() string {
	if u.AboutMe != "" {
		return u.AboutMe
	}
	return u.Bio
}

// MarshalJSON flattens Extra pass-through fields into the top-level object
func (u User) MarshalJSON() ([]byte, error) {
	type alias User
	data, err := json.Marshal(alias(u))
	if err != nil {
		return nil, err
	}
	if len(u.Extra) == 0 {
		return data, nil
	}

	var merged map[string]interface{}
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for k, v := range u.Extra {
		if _, known := merged[k]; !known {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

// Message represents a direct message document
type Message struct {
	ID        string    `bson:"id" json:"id"`
	Sender    string    `bson:"sender" json:"sender"`
	Recipient string    `bson:"recipient" json:"recipient"`
	Text      string    `bson:"text" json:"text"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	Read      bool      `bson:"read" json:"read"`
}

// Candidate is a recommendation entry: a user shaped for the swipe deck,
// annotated with the distance from the requesting user.
type Candidate struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Age           int      `json:"age"`
	Gender        string   `json:"gender"`
	ZipCode       string   `json:"zipCode,omitempty"`
	Image         string   `json:"image,omitempty"`
	Bio           string   `json:"bio,omitempty"`
	Photos        []string `json:"photos"`
	DistanceMiles *float64 `json:"distanceMiles"`
}

// MatchedUser is the subset of profile fields returned from the matches list
type MatchedUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Age   int    `json:"age"`
	Image string `json:"image,omitempty"`
	Bio   string `json:"bio,omitempty"`
}

// ConversationUser identifies the counterparty of a conversation
type ConversationUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// Conversation summarizes the latest state of a message thread with one
// counterparty.
type Conversation struct {
	OtherUserID string           `json:"otherUserId"`
	OtherUser   ConversationUser `json:"otherUser"`
	LastMessage string           `json:"lastMessage"`
	Timestamp   time.Time        `json:"timestamp"`
	Unread      bool             `json:"unread"`
}
