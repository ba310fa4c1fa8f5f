// internal/app/features/authgoogle/handler.go
package authgoogle

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/agrihub/agrihub/internal/app/store/oauthstate"
	userstore "github.com/agrihub/agrihub/internal/app/store/users"
	"github.com/agrihub/agrihub/internal/app/system/auditlog"
	"github.com/agrihub/agrihub/internal/app/system/auth"
	"github.com/agrihub/agrihub/internal/app/system/normalize"
	"github.com/agrihub/agrihub/internal/app/system/status"
	"github.com/agrihub/agrihub/internal/app/system/timeouts"
	"github.com/agrihub/agrihub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Handler handles Google OAuth authentication.
type Handler struct {
	Users      *userstore.Store
	StateStore *oauthstate.Store
	AuditLog   *auditlog.Logger
	Log        *zap.Logger

	ClientID     string
	ClientSecret string
	RedirectURL  string // e.g., "https://agrihub.example/authgoogle/callback"
	FrontendURL  string // where the browser lands after the flow finishes
}

// NewHandler creates a new Google OAuth handler.
func NewHandler(
	users *userstore.Store,
	stateStore *oauthstate.Store,
	audit *auditlog.Logger,
	clientID, clientSecret, baseURL, frontendURL string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Users:        users,
		StateStore:   stateStore,
		AuditLog:     audit,
		Log:          logger,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  baseURL + "/authgoogle/callback",
		FrontendURL:  frontendURL,
	}
}

// oauth2Config returns the Google OAuth2 configuration.
func (h *Handler) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.ClientID,
		ClientSecret: h.ClientSecret,
		RedirectURL:  h.RedirectURL,
		Scopes: []string{
			"openid",
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

// IsConfigured returns true if Google OAuth is configured.
func (h *Handler) IsConfigured() bool {
	return h.ClientID != "" && h.ClientSecret != ""
}

// ServeLogin handles GET /authgoogle. It stores a CSRF state token and
// redirects to Google's consent screen.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if !h.IsConfigured() {
		h.Log.Warn("Google OAuth not configured")
		h.redirectToFrontend(w, r, "google_not_configured")
		return
	}

	state, err := generateState()
	if err != nil {
		h.Log.Error("failed to generate OAuth state", zap.Error(err))
		h.redirectToFrontend(w, r, "internal")
		return
	}

	returnURL := query.Get(r, "return")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	expiresAt := time.Now().UTC().Add(10 * time.Minute)
	if err := h.StateStore.Save(ctx, state, returnURL, expiresAt); err != nil {
		h.Log.Error("failed to save OAuth state", zap.Error(err))
		h.redirectToFrontend(w, r, "internal")
		return
	}

	url := h.oauth2Config().AuthCodeURL(state, oauth2.AccessTypeOffline)

	h.Log.Debug("initiating Google OAuth flow",
		zap.String("redirect_url", url),
		zap.String("return_url", returnURL))

	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// ServeCallback handles GET /authgoogle/callback: validates state,
// exchanges the code, fetches the Google profile, matches it to an
// account, and signs the session in.
func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.Log.Warn("Google OAuth error",
			zap.String("error", errParam),
			zap.String("description", r.URL.Query().Get("error_description")))
		h.redirectToFrontend(w, r, "google_denied")
		return
	}

	state := r.URL.Query().Get("state")
	if state == "" {
		h.Log.Warn("missing OAuth state parameter")
		h.redirectToFrontend(w, r, "invalid_state")
		return
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	returnURL, valid, err := h.StateStore.Validate(ctxTimeout, state)
	if err != nil {
		h.Log.Error("failed to validate OAuth state", zap.Error(err))
		h.redirectToFrontend(w, r, "internal")
		return
	}
	if !valid {
		h.Log.Warn("invalid or expired OAuth state")
		h.redirectToFrontend(w, r, "invalid_state")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.Log.Warn("missing OAuth code parameter")
		h.redirectToFrontend(w, r, "invalid_code")
		return
	}

	token, err := h.oauth2Config().Exchange(ctx, code)
	if err != nil {
		h.Log.Error("failed to exchange OAuth code", zap.Error(err))
		h.redirectToFrontend(w, r, "token_exchange")
		return
	}

	googleUser, err := fetchGoogleUserInfo(ctx, token)
	if err != nil {
		h.Log.Error("failed to fetch Google user info", zap.Error(err))
		h.redirectToFrontend(w, r, "user_info")
		return
	}

	h.Log.Debug("Google user info fetched",
		zap.String("email", googleUser.Email),
		zap.String("name", googleUser.Name))

	u, err := h.Users.GetByEmail(ctxTimeout, googleUser.Email)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			h.Log.Info("Google OAuth: user not found", zap.String("email", googleUser.Email))
			h.AuditLog.LoginFailedUserNotFound(ctx, r, googleUser.Email)
			h.redirectToFrontend(w, r, "no_account")
			return
		}
		h.Log.Error("failed to look up user", zap.Error(err))
		h.redirectToFrontend(w, r, "internal")
		return
	}

	if normalize.Status(u.Status) == status.Disabled {
		h.Log.Info("Google OAuth: user disabled", zap.String("email", googleUser.Email))
		h.AuditLog.LoginFailedUserDisabled(ctx, r, u.ID, u.Email)
		h.redirectToFrontend(w, r, "account_disabled")
		return
	}

	h.createSessionAndRedirect(w, r, u, returnURL)
}

// googleUserInfo represents user info returned from Google.
type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// fetchGoogleUserInfo retrieves user information from Google's userinfo endpoint.
func fetchGoogleUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}

	return &info, nil
}

// createSessionAndRedirect creates an authenticated session and sends the
// browser back to the front end.
func (h *Handler) createSessionAndRedirect(w http.ResponseWriter, r *http.Request, u *models.User, returnURL string) {
	sessUser := &auth.SessionUser{
		ID:     u.ID.Hex(),
		Name:   u.FullName,
		Email:  u.Email,
		Role:   u.Role,
		Region: u.Region,
	}
	if err := auth.SignIn(w, r, sessUser); err != nil {
		h.Log.Error("save session failed", zap.Error(err), zap.String("user_id", u.ID.Hex()))
		h.redirectToFrontend(w, r, "session")
		return
	}

	h.AuditLog.GoogleLoginSuccess(r.Context(), r, u.ID, u.Email)
	h.Log.Info("user logged in via Google OAuth", zap.String("user_id", u.ID.Hex()))

	dest := h.FrontendURL + safeReturn(returnURL)
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

func (h *Handler) redirectToFrontend(w http.ResponseWriter, r *http.Request, errorCode string) {
	http.Redirect(w, r, h.FrontendURL+"/login?error="+errorCode, http.StatusSeeOther)
}

// safeReturn only accepts same-site relative paths so the callback cannot
// be used as an open redirect.
func safeReturn(returnURL string) string {
	if returnURL == "" ||
		!strings.HasPrefix(returnURL, "/") ||
		strings.HasPrefix(returnURL, "//") {
		return "/dashboard"
	}
	return returnURL
}

// generateState creates a cryptographically secure random state string.
func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
