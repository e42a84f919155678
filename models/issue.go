package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Status string

const (
	StatusRecent     Status = "recent"
	StatusQueue      Status = "queue"
	StatusInProgress Status = "inprogress"
	StatusCompleted  Status = "completed"
)

// StatusOrder is the only path an issue moves along. Statuses never regress.
var StatusOrder = []Status{StatusRecent, StatusQueue, StatusInProgress, StatusCompleted}

func (s Status) Index() int {
	for i, status := range StatusOrder {
		if status == s {
			return i
		}
	}
	return -1
}

func (s Status) Valid() bool {
	return s.Index() >= 0
}

type Priority string

const (
	PriorityLow       Priority = "low"
	PriorityMedium    Priority = "medium"
	PriorityImmediate Priority = "immediate"
	PriorityUrgent    Priority = "urgent"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityImmediate, PriorityUrgent}

var PriorityRank = map[Priority]int{
	PriorityUrgent:    3,
	PriorityImmediate: 2,
	PriorityMedium:    1,
	PriorityLow:       0,
}

// Rank returns 0 for unknown priorities, the same as low.
func (p Priority) Rank() int {
	return PriorityRank[p]
}

func (p Priority) Valid() bool {
	_, ok := PriorityRank[p]
	return ok
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Issue struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Type        string             `json:"type" bson:"type"`
	Description string             `json:"description" bson:"description"`
	Location    string             `json:"location" bson:"location"`
	Latitude    float64            `json:"latitude" bson:"latitude"`
	Longitude   float64            `json:"longitude" bson:"longitude"`
	PhotoURL    string             `json:"photo_url" bson:"photo_url"`
	Priority    Priority           `json:"priority" bson:"priority"`
	Status      Status             `json:"status" bson:"status"`
	Department  string             `json:"department" bson:"department"`
	Expense     float64            `json:"expense" bson:"expense"`
	IsAuthentic *bool              `json:"is_authentic,omitempty" bson:"is_authentic,omitempty"`
	Confidence  *float64           `json:"confidence,omitempty" bson:"confidence,omitempty"`
	Category    *string            `json:"category,omitempty" bson:"category,omitempty"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}

func (i Issue) Coordinates() Coordinates {
	return Coordinates{Lat: i.Latitude, Lng: i.Longitude}
}

// IssueUpdate is a partial update. Nil fields are left untouched.
type IssueUpdate struct {
	Type        *string   `json:"type"`
	Description *string   `json:"description"`
	Location    *string   `json:"location"`
	PhotoURL    *string   `json:"photo_url"`
	Priority    *Priority `json:"priority"`
	Status      *Status   `json:"status"`
	Department  *string   `json:"department"`
	Expense     *float64  `json:"expense"`

	// Set by classification only.
	IsAuthentic *bool    `json:"-"`
	Confidence  *float64 `json:"-"`
	Category    *string  `json:"-"`
}

func (u IssueUpdate) Empty() bool {
	return u.Type == nil && u.Description == nil && u.Location == nil && u.PhotoURL == nil &&
		u.Priority == nil && u.Status == nil && u.Department == nil && u.Expense == nil &&
		u.IsAuthentic == nil && u.Confidence == nil && u.Category == nil
}

type IssueFilter struct {
	Status     Status   `form:"status"`
	Priority   Priority `form:"priority"`
	Department string   `form:"department"`
}

// IssueView is the client-facing read model: an issue row joined with its vote
// count and whether the requesting user voted on it.
type IssueView struct {
	ID          string      `json:"id"`
	Type        string      `json:"type"`
	Description string      `json:"description"`
	Location    string      `json:"location"`
	Coordinates Coordinates `json:"coordinates"`
	Photo       string      `json:"photo"`
	Votes       int64       `json:"votes"`
	Priority    Priority    `json:"priority"`
	Status      Status      `json:"status"`
	Department  string      `json:"department"`
	Expense     float64     `json:"expense"`
	CreatedAt   int64       `json:"createdAt"`
	VotedBy     []string    `json:"votedBy"`
	Voted       bool        `json:"voted"`
	IsAuthentic *bool       `json:"isAuthentic,omitempty"`
	Confidence  *float64    `json:"confidence,omitempty"`
	Category    *string     `json:"category,omitempty"`
}
