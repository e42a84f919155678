// Package db is the MongoDB implementation of the service stores.
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"mapmyissues/models"
	"mapmyissues/services"
)

const defaultTimeout = 10 * time.Second

var (
	_ services.IssueStore    = (*Database)(nil)
	_ services.VoteStore     = (*Database)(nil)
	_ services.LoginLogStore = (*Database)(nil)
	_ services.AuthProvider  = (*Database)(nil)
	_ services.Subscriber    = (*Database)(nil)
)

type Config struct {
	URI     string `validate:"required"`
	Name    string `validate:"required"`
	Timeout time.Duration

	// BcryptCost is used for account passwords. Zero means bcrypt.DefaultCost.
	BcryptCost int
}

func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// Database holds the client and the collections used by the services.
type Database struct {
	client  *mongo.Client
	timeout time.Duration
	cost    int

	issues    *mongo.Collection
	votes     *mongo.Collection
	loginLogs *mongo.Collection
	users     *mongo.Collection
}

// Connect dials MongoDB, pings it and makes sure the indexes exist.
func Connect(ctx context.Context, config Config) (*Database, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}
	if config.BcryptCost == 0 {
		config.BcryptCost = bcrypt.DefaultCost
	}

	ctx, cancel := context.WithTimeout(ctx, config.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect: %w", err)
	}
	if err = client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("client.Ping: %w", err)
	}

	database := client.Database(config.Name)
	d := &Database{
		client:    client,
		timeout:   config.Timeout,
		cost:      config.BcryptCost,
		issues:    database.Collection(models.IssuesCollection),
		votes:     database.Collection(models.VotesCollection),
		loginLogs: database.Collection(models.LoginLogsCollection),
		users:     database.Collection(models.UsersCollection),
	}

	if err = d.ensureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("d.ensureIndexes: %w", err)
	}

	log.WithField("database", config.Name).Info("connected to MongoDB")
	return d, nil
}

func (d *Database) ensureIndexes(ctx context.Context) error {
	indexes := []struct {
		collection *mongo.Collection
		models     []mongo.IndexModel
	}{
		{d.votes, []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "issue_id", Value: 1}, {Key: "user_name", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "user_name", Value: 1}}},
		}},
		{d.issues, []mongo.IndexModel{
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		}},
		{d.loginLogs, []mongo.IndexModel{
			{Keys: bson.D{{Key: "username", Value: 1}, {Key: "timestamp", Value: -1}}},
		}},
		{d.users, []mongo.IndexModel{
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		}},
	}

	for _, index := range indexes {
		if _, err := index.collection.Indexes().CreateMany(ctx, index.models); err != nil {
			return fmt.Errorf("%s: Indexes.CreateMany: %w", index.collection.Name(), err)
		}
	}
	return nil
}

func (d *Database) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	return d.client.Ping(ctx, nil)
}

func (d *Database) Disconnect(ctx context.Context) error {
	if err := d.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("d.client.Disconnect: %w", err)
	}
	log.Info("disconnected from MongoDB")
	return nil
}

// withTimeout bounds a single data access call.
func (d *Database) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, d.timeout)
}

func objectID(id string) (primitive.ObjectID, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, models.ErrNotFound
	}
	return objID, nil
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ErrNotFound
	}
	return err
}
