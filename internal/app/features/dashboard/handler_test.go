package dashboard

import (
	"net/http"
	"testing"

	"github.com/agrihub/agrihub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestHealthGrade(t *testing.T) {
	tests := []struct {
		open int64
		want string
	}{
		{0, "Good"},
		{1, "Fair"},
		{2, "Fair"},
		{3, "Poor"},
		{10, "Poor"},
	}
	for _, tc := range tests {
		if got := healthGrade(tc.open); got != tc.want {
			t.Errorf("healthGrade(%d) = %q, want %q", tc.open, got, tc.want)
		}
	}
}

func TestResolveFarmerOwnership(t *testing.T) {
	h := &Handler{Log: zap.NewNop()}
	farmerID := primitive.NewObjectID()

	t.Run("farmer can view own dashboard", func(t *testing.T) {
		user := testutil.FarmerUser("north")
		user.ID = farmerID.Hex()
		req := testutil.NewAuthenticatedRequest(http.MethodGet, "/dashboard/farmer/"+farmerID.Hex()+"/stats", user)
		req = testutil.WithChiURLParam(req, "id", farmerID.Hex())
		rec := testutil.NewRecorder()

		got, ok := h.resolveFarmer(rec, req)
		if !ok {
			t.Fatalf("expected resolve to succeed, got status %d", rec.Code)
		}
		if got != farmerID {
			t.Errorf("resolved id = %s, want %s", got.Hex(), farmerID.Hex())
		}
	})

	t.Run("farmer cannot view another farmer", func(t *testing.T) {
		other := primitive.NewObjectID()
		req := testutil.NewAuthenticatedRequest(http.MethodGet, "/dashboard/farmer/"+other.Hex()+"/stats", testutil.FarmerUser("north"))
		req = testutil.WithChiURLParam(req, "id", other.Hex())
		rec := testutil.NewRecorder()

		if _, ok := h.resolveFarmer(rec, req); ok {
			t.Fatal("expected resolve to fail for foreign farmer id")
		}
		rec.AssertStatus(t, http.StatusNotFound)
	})

	t.Run("admin can view any farmer", func(t *testing.T) {
		req := testutil.NewAuthenticatedRequest(http.MethodGet, "/dashboard/farmer/"+farmerID.Hex()+"/stats", testutil.AdminUser())
		req = testutil.WithChiURLParam(req, "id", farmerID.Hex())
		rec := testutil.NewRecorder()

		if _, ok := h.resolveFarmer(rec, req); !ok {
			t.Fatalf("expected resolve to succeed for admin, got status %d", rec.Code)
		}
	})

	t.Run("invalid id is rejected", func(t *testing.T) {
		req := testutil.NewAuthenticatedRequest(http.MethodGet, "/dashboard/farmer/nope/stats", testutil.AdminUser())
		req = testutil.WithChiURLParam(req, "id", "nope")
		rec := testutil.NewRecorder()

		if _, ok := h.resolveFarmer(rec, req); ok {
			t.Fatal("expected resolve to fail for malformed id")
		}
		rec.AssertStatus(t, http.StatusBadRequest)
	})

	t.Run("anonymous request is rejected", func(t *testing.T) {
		req := testutil.NewRequest(http.MethodGet, "/dashboard/farmer/"+farmerID.Hex()+"/stats")
		req = testutil.WithChiURLParam(req, "id", farmerID.Hex())
		rec := testutil.NewRecorder()

		if _, ok := h.resolveFarmer(rec, req); ok {
			t.Fatal("expected resolve to fail without a session user")
		}
		rec.AssertStatus(t, http.StatusUnauthorized)
	})
}
