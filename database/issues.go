package db

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mapmyissues/models"
)

func issueFilter(filter models.IssueFilter) bson.M {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Priority != "" {
		query["priority"] = filter.Priority
	}
	if filter.Department != "" {
		query["department"] = filter.Department
	}
	return query
}

func (d *Database) ListIssues(ctx context.Context, filter models.IssueFilter) ([]models.Issue, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := d.issues.Find(ctx, issueFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("d.issues.Find: %w", err)
	}
	defer func() {
		if err := cursor.Close(ctx); err != nil {
			log.Errorf("db.ListIssues: cursor.Close: %v", err)
		}
	}()

	issues := []models.Issue{}
	if err = cursor.All(ctx, &issues); err != nil {
		return nil, fmt.Errorf("cursor.All: %w", err)
	}
	return issues, nil
}

func (d *Database) GetIssue(ctx context.Context, id string) (models.Issue, error) {
	objID, err := objectID(id)
	if err != nil {
		return models.Issue{}, err
	}

	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	var issue models.Issue
	if err = d.issues.FindOne(ctx, bson.M{"_id": objID}).Decode(&issue); err != nil {
		return models.Issue{}, fmt.Errorf("d.issues.FindOne: %w", notFound(err))
	}
	return issue, nil
}

func (d *Database) CreateIssue(ctx context.Context, issue models.Issue) (models.Issue, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	if issue.ID.IsZero() {
		issue.ID = primitive.NewObjectID()
	}
	if _, err := d.issues.InsertOne(ctx, issue); err != nil {
		return models.Issue{}, fmt.Errorf("d.issues.InsertOne: %w", err)
	}
	return issue, nil
}

// issueSet builds the $set document for the non-nil fields of update.
func issueSet(update models.IssueUpdate) bson.M {
	set := bson.M{}
	if update.Type != nil {
		set["type"] = *update.Type
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Location != nil {
		set["location"] = *update.Location
	}
	if update.PhotoURL != nil {
		set["photo_url"] = *update.PhotoURL
	}
	if update.Priority != nil {
		set["priority"] = *update.Priority
	}
	if update.Status != nil {
		set["status"] = *update.Status
	}
	if update.Department != nil {
		set["department"] = *update.Department
	}
	if update.Expense != nil {
		set["expense"] = *update.Expense
	}
	if update.IsAuthentic != nil {
		set["is_authentic"] = *update.IsAuthentic
	}
	if update.Confidence != nil {
		set["confidence"] = *update.Confidence
	}
	if update.Category != nil {
		set["category"] = *update.Category
	}
	return set
}

func (d *Database) updateOne(ctx context.Context, filter bson.M, set bson.M) (models.Issue, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var issue models.Issue
	err := d.issues.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&issue)
	if err != nil {
		return models.Issue{}, notFound(err)
	}
	return issue, nil
}

func (d *Database) UpdateIssue(ctx context.Context, id string, update models.IssueUpdate) (models.Issue, error) {
	objID, err := objectID(id)
	if err != nil {
		return models.Issue{}, err
	}

	set := issueSet(update)
	if len(set) == 0 {
		return d.GetIssue(ctx, id)
	}

	issue, err := d.updateOne(ctx, bson.M{"_id": objID}, set)
	if err != nil {
		return models.Issue{}, fmt.Errorf("d.updateOne: %w", err)
	}
	return issue, nil
}

// TransitionStatus matches on the current status so concurrent advances
// cannot skip a step.
func (d *Database) TransitionStatus(ctx context.Context, id string, from, to models.Status) (models.Issue, error) {
	objID, err := objectID(id)
	if err != nil {
		return models.Issue{}, err
	}

	issue, err := d.updateOne(ctx, bson.M{"_id": objID, "status": from}, bson.M{"status": to})
	if err == nil {
		return issue, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return models.Issue{}, fmt.Errorf("d.updateOne: %w", err)
	}

	// Either the issue is gone or its status moved underneath us.
	if _, err = d.GetIssue(ctx, id); err != nil {
		return models.Issue{}, err
	}
	return models.Issue{}, models.ErrConflict
}

func (d *Database) DeleteIssue(ctx context.Context, id string) error {
	objID, err := objectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	res, err := d.issues.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("d.issues.DeleteOne: %w", err)
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}

	votes, err := d.votes.DeleteMany(ctx, bson.M{"issue_id": objID})
	if err != nil {
		return fmt.Errorf("d.votes.DeleteMany: %w", err)
	}

	log.WithFields(log.Fields{
		"issue_id": id,
		"votes":    votes.DeletedCount,
	}).Debug("issue votes removed")

	return nil
}
