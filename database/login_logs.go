package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mapmyissues/models"
)

// latestFirst orders login entries newest first, insertion order breaking ties.
var latestFirst = bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}

func openLogin(username string) bson.M {
	return bson.M{"username": username, "logged_out_at": nil}
}

func (d *Database) InsertLogin(ctx context.Context, entry models.LoginLog) (models.LoginLog, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	entry.ID = primitive.NewObjectID()
	if _, err := d.loginLogs.InsertOne(ctx, entry); err != nil {
		return models.LoginLog{}, fmt.Errorf("d.loginLogs.InsertOne: %w", err)
	}
	return entry, nil
}

func (d *Database) LatestOpenLogin(ctx context.Context, username string) (models.LoginLog, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	var entry models.LoginLog
	err := d.loginLogs.FindOne(ctx, openLogin(username), options.FindOne().SetSort(latestFirst)).Decode(&entry)
	if err != nil {
		return models.LoginLog{}, fmt.Errorf("d.loginLogs.FindOne: %w", notFound(err))
	}
	return entry, nil
}

func (d *Database) CloseLatestLogin(ctx context.Context, username string, at time.Time) (bool, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	err := d.loginLogs.FindOneAndUpdate(ctx,
		openLogin(username),
		bson.M{"$set": bson.M{"logged_out_at": at}},
		options.FindOneAndUpdate().SetSort(latestFirst),
	).Err()

	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("d.loginLogs.FindOneAndUpdate: %w", err)
	}
	return true, nil
}

func (d *Database) CloseStaleLogins(ctx context.Context, before, at time.Time) (int64, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	res, err := d.loginLogs.UpdateMany(ctx,
		bson.M{"logged_out_at": nil, "timestamp": bson.M{"$lt": before}},
		bson.M{"$set": bson.M{"logged_out_at": at}},
	)
	if err != nil {
		return 0, fmt.Errorf("d.loginLogs.UpdateMany: %w", err)
	}
	return res.ModifiedCount, nil
}
