package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mapmyissues/models"
)

func (d *Database) HasVoted(ctx context.Context, issueID, userName string) (bool, error) {
	objID, err := objectID(issueID)
	if err != nil {
		return false, err
	}

	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	count, err := d.votes.CountDocuments(ctx,
		bson.M{"issue_id": objID, "user_name": userName},
		options.Count().SetLimit(1),
	)
	if err != nil {
		return false, fmt.Errorf("d.votes.CountDocuments: %w", err)
	}
	return count > 0, nil
}

// InsertVote relies on the unique (issue_id, user_name) index.
func (d *Database) InsertVote(ctx context.Context, vote models.Vote) (models.Vote, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	vote.ID = primitive.NewObjectID()
	if _, err := d.votes.InsertOne(ctx, vote); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.Vote{}, models.ErrDuplicateVote
		}
		return models.Vote{}, fmt.Errorf("d.votes.InsertOne: %w", err)
	}
	return vote, nil
}

func (d *Database) CountVotes(ctx context.Context, issueID string) (int64, error) {
	objID, err := objectID(issueID)
	if err != nil {
		return 0, err
	}

	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	count, err := d.votes.CountDocuments(ctx, bson.M{"issue_id": objID})
	if err != nil {
		return 0, fmt.Errorf("d.votes.CountDocuments: %w", err)
	}
	return count, nil
}

type voteCount struct {
	IssueID primitive.ObjectID `bson:"_id"`
	Count   int64              `bson:"count"`
}

// CountVotesByIssue groups the votes collection by issue.
func (d *Database) CountVotesByIssue(ctx context.Context) (map[string]int64, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$issue_id"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := d.votes.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("d.votes.Aggregate: %w", err)
	}

	var rows []voteCount
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("cursor.All: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.IssueID.Hex()] = row.Count
	}
	return counts, nil
}

func (d *Database) VotedIssueIDs(ctx context.Context, userName string) ([]string, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	values, err := d.votes.Distinct(ctx, "issue_id", bson.M{"user_name": userName})
	if err != nil {
		return nil, fmt.Errorf("d.votes.Distinct: %w", err)
	}

	ids := make([]string, 0, len(values))
	for _, value := range values {
		if objID, ok := value.(primitive.ObjectID); ok {
			ids = append(ids, objID.Hex())
		}
	}
	return ids, nil
}
