package services_test

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"mapmyissues/models"
	"mapmyissues/services"
)

func TestAssembleViews(t *testing.T) {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	first := models.Issue{ID: primitive.NewObjectID(), Type: "pothole", Latitude: 1.5, Longitude: 2.5, PhotoURL: "https://x/y.jpg", CreatedAt: created}
	second := models.Issue{ID: primitive.NewObjectID(), Type: "garbage", CreatedAt: created}

	counts := map[string]int64{first.ID.Hex(): 4}
	views := services.AssembleViews([]models.Issue{first, second}, counts, []string{first.ID.Hex()}, "alice")

	if len(views) != 2 {
		t.Fatalf("expected 2 views, got %d", len(views))
	}

	v := views[0]
	if v.ID != first.ID.Hex() || v.Votes != 4 || !v.Voted {
		t.Errorf("unexpected first view: %+v", v)
	}
	if len(v.VotedBy) != 1 || v.VotedBy[0] != "alice" {
		t.Errorf("VotedBy = %v, want [alice]", v.VotedBy)
	}
	if v.Coordinates != (models.Coordinates{Lat: 1.5, Lng: 2.5}) || v.Photo != "https://x/y.jpg" {
		t.Errorf("unexpected mapping: %+v", v)
	}
	if v.CreatedAt != created.UnixMilli() {
		t.Errorf("CreatedAt = %d, want %d", v.CreatedAt, created.UnixMilli())
	}

	if views[1].Votes != 0 || views[1].Voted || views[1].VotedBy == nil || len(views[1].VotedBy) != 0 {
		t.Errorf("unexpected second view: %+v", views[1])
	}
}
