package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"mapmyissues/models"
)

// SignUp stores a citizen account with a bcrypt hash of password. Username
// and email are unique.
func (d *Database) SignUp(ctx context.Context, username, email, password string) (models.Account, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), d.cost)
	if err != nil {
		return models.Account{}, fmt.Errorf("bcrypt.GenerateFromPassword: %w", err)
	}

	account := models.Account{
		ID:           primitive.NewObjectID(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         models.RoleCitizen,
		CreatedAt:    time.Now().UTC(),
	}

	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	if _, err = d.users.InsertOne(ctx, account); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.Account{}, models.ErrConflict
		}
		return models.Account{}, fmt.Errorf("d.users.InsertOne: %w", err)
	}
	return account, nil
}
