package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleCitizen    Role = "citizen"
	RoleAdmin      Role = "admin"
	RoleDepartment Role = "department"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCitizen, RoleAdmin, RoleDepartment:
		return true
	}
	return false
}

// SessionUser is rebuilt at login and carried in the session token.
// It is never stored beyond the login log.
type SessionUser struct {
	Username   string `json:"username"`
	Role       Role   `json:"role"`
	District   string `json:"district,omitempty"`
	Town       string `json:"town,omitempty"`
	Department string `json:"department,omitempty"`
}

type LoginLog struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Username    string             `json:"username" bson:"username"`
	Role        Role               `json:"role" bson:"role"`
	Timestamp   time.Time          `json:"timestamp" bson:"timestamp"`
	LoggedOutAt *time.Time         `json:"logged_out_at" bson:"logged_out_at"`
}

func (l LoginLog) Active() bool {
	return l.LoggedOutAt == nil
}

// Account backs credential signup only.
type Account struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Username     string             `json:"username" bson:"username"`
	Email        string             `json:"email" bson:"email"`
	PasswordHash string             `json:"-" bson:"password_hash"`
	Role         Role               `json:"role" bson:"role"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
}
