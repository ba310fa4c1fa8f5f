package weatheralerts

import (
	"strings"
	"testing"
	"time"

	"github.com/agrihub/agrihub/internal/domain/models"
)

func TestAlertRequestSanitize(t *testing.T) {
	req := alertRequest{
		Region:   "North <script>alert(1)</script>Valley",
		Title:    "Frost <b>warning</b>",
		Severity: "severe",
		Message:  "<p>Cover seedlings overnight.</p><script>bad()</script>",
	}
	req.sanitize()

	if strings.Contains(req.Region, "<") {
		t.Errorf("region not stripped: %q", req.Region)
	}
	if strings.Contains(req.Title, "<") {
		t.Errorf("title not stripped: %q", req.Title)
	}
	if strings.Contains(req.Message, "script") {
		t.Errorf("message kept script: %q", req.Message)
	}
	if !strings.Contains(req.Message, "Cover seedlings") {
		t.Errorf("message lost content: %q", req.Message)
	}
}

func TestAlertRequestEndsAt(t *testing.T) {
	var req alertRequest
	if !req.endsAt().IsZero() {
		t.Error("nil ends_at should map to the zero time")
	}

	until := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	req.EndsAt = &until
	if got := req.endsAt(); !got.Equal(until) {
		t.Errorf("endsAt() = %v, want %v", got, until)
	}
}

func TestSelectorMatchesSeverity(t *testing.T) {
	alert := models.WeatherAlert{
		Region:   "North",
		Title:    "Frost warning",
		Severity: "severe",
		Message:  "Cover seedlings.",
	}
	if got := selector.Status(alert); got != "severe" {
		t.Errorf("selector status = %q, want severity", got)
	}

	fields := selector.SearchFields(alert)
	want := []string{"North", "Frost warning", "Cover seedlings."}
	if len(fields) != len(want) {
		t.Fatalf("search fields = %v", fields)
	}
	for i := range want {
		if fields[i] != want[i] {
			t.Errorf("search field %d = %q, want %q", i, fields[i], want[i])
		}
	}
}
