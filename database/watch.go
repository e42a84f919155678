package db

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"mapmyissues/models"
)

type changeDocument struct {
	OperationType string `bson:"operationType"`
	Namespace     struct {
		Collection string `bson:"coll"`
	} `bson:"ns"`
}

// Subscribe opens a change stream over the issues and votes collections.
// Change streams need a replica set or Atlas.
func (d *Database) Subscribe(ctx context.Context, onChange func(models.ChangeEvent)) (func(), error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"ns.coll": bson.M{"$in": bson.A{models.IssuesCollection, models.VotesCollection}},
		}}},
		{{Key: "$project", Value: bson.M{"operationType": 1, "ns": 1}}},
	}

	ctx, cancel := context.WithCancel(ctx)

	stream, err := d.issues.Database().Watch(ctx, pipeline)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("Database.Watch: %w", err)
	}

	go func() {
		defer func() {
			if err := stream.Close(context.Background()); err != nil {
				log.Errorf("db.Subscribe: stream.Close: %v", err)
			}
		}()

		for stream.Next(ctx) {
			var change changeDocument
			if err := stream.Decode(&change); err != nil {
				log.Errorf("db.Subscribe: stream.Decode: %v", err)
				continue
			}
			onChange(models.ChangeEvent{
				Table:     change.Namespace.Collection,
				Operation: change.OperationType,
			})
		}

		if err := stream.Err(); err != nil && ctx.Err() == nil {
			log.Errorf("db.Subscribe: change stream stopped: %v", err)
		}
	}()

	return cancel, nil
}
