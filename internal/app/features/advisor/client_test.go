// internal/app/features/advisor/client_test.go
package advisor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestAnalyzeStructuredDiagnosis(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("user_id"); got != "abc123" {
			t.Errorf("user_id = %q, want %q", got, "abc123")
		}
		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("file part missing: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"disease":"Early Blight","confidence":0.93,"description":"Fungal infection","treatment":["Remove affected leaves","Apply fungicide"]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client(), zap.NewNop())
	d, err := c.Analyze(context.Background(), "abc123", "leaf.jpg", strings.NewReader("fake image bytes"))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !d.Structured() {
		t.Fatal("expected structured diagnosis")
	}
	if d.Disease != "Early Blight" {
		t.Errorf("disease = %q, want %q", d.Disease, "Early Blight")
	}
	if d.Confidence != 0.93 {
		t.Errorf("confidence = %v, want 0.93", d.Confidence)
	}
	if len(d.Treatment) != 2 {
		t.Errorf("treatment length = %d, want 2", len(d.Treatment))
	}
}

func TestAnalyzeFreeFormMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"This leaf looks healthy."}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client(), zap.NewNop())
	d, err := c.Analyze(context.Background(), "abc123", "leaf.jpg", strings.NewReader("img"))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if d.Structured() {
		t.Error("expected free-form diagnosis")
	}
	if d.Message != "This leaf looks healthy." {
		t.Errorf("message = %q", d.Message)
	}
}

func TestAnalyzeUnknownShapeEchoesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"verdict":"uncertain"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client(), zap.NewNop())
	d, err := c.Analyze(context.Background(), "abc123", "leaf.jpg", strings.NewReader("img"))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if d.Message != `{"verdict":"uncertain"}` {
		t.Errorf("message = %q, want raw body echo", d.Message)
	}
}

func TestAnalyzeServerErrorFallbacks(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{http.StatusBadGateway, fallbackUnavailable},
		{http.StatusServiceUnavailable, fallbackUnavailable},
		{http.StatusGatewayTimeout, fallbackTimeout},
		{http.StatusInternalServerError, fallbackGeneric},
		{http.StatusUnprocessableEntity, fallbackGeneric},
	}
	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))

		c := NewClient(srv.URL, srv.Client(), zap.NewNop())
		d, err := c.Analyze(context.Background(), "abc123", "leaf.jpg", strings.NewReader("img"))
		if err == nil {
			t.Errorf("status %d: expected error", tt.status)
		}
		if d.Message != tt.want {
			t.Errorf("status %d: message = %q, want %q", tt.status, d.Message, tt.want)
		}
		srv.Close()
	}
}

func TestAnalyzeTimeoutFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	c := NewClient(srv.URL, srv.Client(), zap.NewNop())
	d, err := c.Analyze(ctx, "abc123", "leaf.jpg", strings.NewReader("img"))
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if d.Message != fallbackTimeout {
		t.Errorf("message = %q, want timeout fallback", d.Message)
	}
}
