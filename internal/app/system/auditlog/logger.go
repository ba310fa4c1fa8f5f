// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/agrihub/agrihub/internal/app/store/audit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls logging for authentication events (login, logout, password).
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Auth string
	// Admin controls logging for admin action events (user CRUD, program CRUD, alerts).
	// Values: "all", "db", "log", "off"
	Admin string
	// Finance controls logging for money movement events (contributions, allocations, disbursements).
	// Values: "all", "db", "log", "off"
	Finance string
}

// Logger provides convenience methods for logging audit events.
// It logs to both MongoDB (via audit.Store) and structured logs (via zap).
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}

	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.Region != "" {
		fields = append(fields, zap.String("region", event.Region))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// If the logger is nil, this is a no-op (allows tests to use nil audit logger).
// Logging destination is controlled by config: "all", "db", "log", or "off".
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin:
		setting = l.config.Admin
	case audit.CategoryFinance:
		setting = l.config.Finance
	default:
		setting = "all"
	}

	if setting == "off" {
		return
	}

	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}

	if setting == "all" || setting == "db" {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// --- Authentication Events ---

// LoginSuccess logs a successful login.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, authMethod, email string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		UserID:    &userID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"auth_method": authMethod,
			"email":       email,
		},
	})
}

// GoogleLoginSuccess logs a successful login through Google OAuth.
func (l *Logger) GoogleLoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventGoogleLoginSuccess,
		UserID:    &userID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"email": email,
		},
	})
}

// LoginFailedUserNotFound logs a failed login due to user not found.
func (l *Logger) LoginFailedUserNotFound(ctx context.Context, r *http.Request, attemptedEmail string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedUserNotFound,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: "user not found",
		Details: map[string]string{
			"attempted_email": attemptedEmail,
		},
	})
}

// LoginFailedWrongPassword logs a failed login due to wrong password.
func (l *Logger) LoginFailedWrongPassword(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedWrongPassword,
		UserID:        &userID,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: "wrong password",
		Details: map[string]string{
			"email": email,
		},
	})
}

// LoginFailedUserDisabled logs a failed login due to a disabled account.
func (l *Logger) LoginFailedUserDisabled(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedUserDisabled,
		UserID:        &userID,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: "user disabled",
		Details: map[string]string{
			"email": email,
		},
	})
}

// Logout logs a user logout. Accepts the string ID from SessionUser.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userIDStr string) {
	var userID *primitive.ObjectID
	if oid, err := primitive.ObjectIDFromHex(userIDStr); err == nil {
		userID = &oid
	}

	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLogout,
		UserID:    userID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	})
}

// PasswordChanged logs a password change.
func (l *Logger) PasswordChanged(ctx context.Context, r *http.Request, userID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventPasswordChanged,
		UserID:    &userID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	})
}

// --- Admin Events ---

// UserCreated logs when an admin creates a user.
func (l *Logger) UserCreated(ctx context.Context, r *http.Request, actorID, targetUserID primitive.ObjectID, actorRole, role string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventUserCreated,
		UserID:    &targetUserID,
		ActorID:   &actorID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"actor_role": actorRole,
			"role":       role,
		},
	})
}

// UserUpdated logs when an admin updates a user.
func (l *Logger) UserUpdated(ctx context.Context, r *http.Request, actorID, targetUserID primitive.ObjectID, actorRole, fieldsChanged string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventUserUpdated,
		UserID:    &targetUserID,
		ActorID:   &actorID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"actor_role":     actorRole,
			"fields_changed": fieldsChanged,
		},
	})
}

// UserDeleted logs when an admin deletes a user.
func (l *Logger) UserDeleted(ctx context.Context, r *http.Request, actorID, targetUserID primitive.ObjectID, actorRole, role string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventUserDeleted,
		UserID:    &targetUserID,
		ActorID:   &actorID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"actor_role": actorRole,
			"role":       role,
		},
	})
}

// ComplaintCreated logs a new complaint, whether from a signed-in farmer or
// the public form (actorID nil).
func (l *Logger) ComplaintCreated(ctx context.Context, r *http.Request, actorID *primitive.ObjectID, complaintID primitive.ObjectID, title string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventComplaintCreated,
		ActorID:   actorID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"complaint_id": complaintID.Hex(),
			"title":        title,
		},
	})
}

// ComplaintUpdated logs a complaint update (content or status).
func (l *Logger) ComplaintUpdated(ctx context.Context, r *http.Request, actorID, complaintID primitive.ObjectID, actorRole, status string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventComplaintUpdated,
		ActorID:   &actorID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"actor_role":   actorRole,
			"complaint_id": complaintID.Hex(),
			"status":       status,
		},
	})
}

// ComplaintDeleted logs a complaint deletion.
func (l *Logger) ComplaintDeleted(ctx context.Context, r *http.Request, actorID, complaintID primitive.ObjectID, actorRole string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventComplaintDeleted,
		ActorID:   &actorID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"actor_role":   actorRole,
			"complaint_id": complaintID.Hex(),
		},
	})
}

// ProgramCreated logs a new support program.
func (l *Logger) ProgramCreated(ctx context.Context, r *http.Request, actorID, programID primitive.ObjectID, actorRole, name string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventProgramCreated,
		ActorID:   &actorID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"actor_role":   actorRole,
			"program_id":   programID.Hex(),
			"program_name": name,
		},
	})
}

// ProgramUpdated logs a support program update.
func (l *Logger) ProgramUpdated(ctx context.Context, r *http.Request, actorID, programID primitive.ObjectID, actorRole string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventProgramUpdated,
		ActorID:   &actorID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"actor_role": actorRole,
			"program_id": programID.Hex(),
		},
	})
}

// ProgramDeleted logs a support program deletion.
func (l *Logger) ProgramDeleted(ctx context.Context, r *http.Request, actorID, programID primitive.ObjectID, actorRole, name string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventProgramDeleted,
		ActorID:   &actorID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"actor_role":   actorRole,
			"program_id":   programID.Hex(),
			"program_name": name,
		},
	})
}

// WeatherAlertSent logs a weather alert broadcast to a region.
func (l *Logger) WeatherAlertSent(ctx context.Context, r *http.Request, actorID, alertID primitive.ObjectID, actorRole, region string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventWeatherAlertSent,
		ActorID:   &actorID,
		Region:    region,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"actor_role": actorRole,
			"alert_id":   alertID.Hex(),
		},
	})
}

// PestAlertCreated logs a pest or disease alert.
func (l *Logger) PestAlertCreated(ctx context.Context, r *http.Request, actorID, alertID primitive.ObjectID, actorRole, severity string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventPestAlertCreated,
		ActorID:   &actorID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"actor_role": actorRole,
			"alert_id":   alertID.Hex(),
			"severity":   severity,
		},
	})
}

// PestAlertResolved logs an agronomist closing out a pest alert.
func (l *Logger) PestAlertResolved(ctx context.Context, r *http.Request, actorID, alertID primitive.ObjectID, actorRole string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventPestAlertResolved,
		ActorID:   &actorID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"actor_role": actorRole,
			"alert_id":   alertID.Hex(),
		},
	})
}

// --- Finance Events ---

// ContributionRecorded logs a donor contribution.
func (l *Logger) ContributionRecorded(ctx context.Context, r *http.Request, actorID, contributionID primitive.ObjectID, amountCents int64) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryFinance,
		EventType: audit.EventContributionRecorded,
		ActorID:   &actorID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"contribution_id": contributionID.Hex(),
			"amount_cents":    int64ToString(amountCents),
		},
	})
}

// FundAllocated logs money being allocated to a program.
func (l *Logger) FundAllocated(ctx context.Context, r *http.Request, actorID, allocationID, programID primitive.ObjectID, amountCents int64) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryFinance,
		EventType: audit.EventFundAllocated,
		ActorID:   &actorID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"allocation_id": allocationID.Hex(),
			"program_id":    programID.Hex(),
			"amount_cents":  int64ToString(amountCents),
		},
	})
}

// FundDisbursed logs money being paid out to a recipient.
func (l *Logger) FundDisbursed(ctx context.Context, r *http.Request, actorID, disbursementID primitive.ObjectID, amountCents int64) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryFinance,
		EventType: audit.EventFundDisbursed,
		ActorID:   &actorID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"disbursement_id": disbursementID.Hex(),
			"amount_cents":    int64ToString(amountCents),
		},
	})
}

// --- Helper functions ---

func int64ToString(i int64) string {
	return strconv.FormatInt(i, 10)
}
