package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Vote is unique per (IssueID, UserName). The votes collection carries a
// unique index on that pair.
type Vote struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	IssueID   primitive.ObjectID `json:"issue_id" bson:"issue_id"`
	UserName  string             `json:"user_name" bson:"user_name"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}
