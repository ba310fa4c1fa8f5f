package harvests

import (
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestHarvestRequestFieldID(t *testing.T) {
	t.Run("empty means unlinked", func(t *testing.T) {
		req := harvestRequest{}
		id, ok := req.fieldID()
		if !ok {
			t.Fatal("empty field_id should be accepted")
		}
		if id != nil {
			t.Errorf("expected nil id, got %v", id)
		}
	})

	t.Run("valid hex round-trips", func(t *testing.T) {
		want := primitive.NewObjectID()
		req := harvestRequest{FieldID: want.Hex()}
		id, ok := req.fieldID()
		if !ok || id == nil {
			t.Fatal("valid field_id should parse")
		}
		if *id != want {
			t.Errorf("parsed id = %s, want %s", id.Hex(), want.Hex())
		}
	})

	t.Run("malformed hex is rejected", func(t *testing.T) {
		req := harvestRequest{FieldID: "not-an-object-id"}
		if _, ok := req.fieldID(); ok {
			t.Error("malformed field_id should be rejected")
		}
	})
}

func TestHarvestRequestSanitize(t *testing.T) {
	req := harvestRequest{
		Crop:    "Maize<script>x()</script>",
		Season:  "2025 <b>long rains</b>",
		Quality: "Grade A",
	}
	req.sanitize()

	if strings.Contains(req.Crop, "<") {
		t.Errorf("crop not stripped: %q", req.Crop)
	}
	if strings.Contains(req.Season, "<") {
		t.Errorf("season not stripped: %q", req.Season)
	}
	if req.Quality != "Grade A" {
		t.Errorf("clean quality altered: %q", req.Quality)
	}
}
