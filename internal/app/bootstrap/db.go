// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	auditstore "github.com/agrihub/agrihub/internal/app/store/audit"
	chatstore "github.com/agrihub/agrihub/internal/app/store/chats"
	complaintstore "github.com/agrihub/agrihub/internal/app/store/complaints"
	contributionstore "github.com/agrihub/agrihub/internal/app/store/contributions"
	fieldstore "github.com/agrihub/agrihub/internal/app/store/fields"
	fundstore "github.com/agrihub/agrihub/internal/app/store/funds"
	harveststore "github.com/agrihub/agrihub/internal/app/store/harvests"
	"github.com/agrihub/agrihub/internal/app/store/oauthstate"
	pestalertstore "github.com/agrihub/agrihub/internal/app/store/pestalerts"
	programstore "github.com/agrihub/agrihub/internal/app/store/programs"
	userstore "github.com/agrihub/agrihub/internal/app/store/users"
	weatheralertstore "github.com/agrihub/agrihub/internal/app/store/weatheralerts"
	"github.com/agrihub/agrihub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB connects to MongoDB and verifies the connection with a ping.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}

	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))
	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
	}, nil
}

// EnsureSchema creates the indexes every store depends on.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.MongoDatabase

	ensure := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"users", userstore.New(db).EnsureIndexes},
		{"complaints", complaintstore.New(db).EnsureIndexes},
		{"fields", fieldstore.New(db).EnsureIndexes},
		{"harvests", harveststore.New(db).EnsureIndexes},
		{"pest_alerts", pestalertstore.New(db).EnsureIndexes},
		{"weather_alerts", weatheralertstore.New(db).EnsureIndexes},
		{"programs", programstore.New(db).EnsureIndexes},
		{"contributions", contributionstore.New(db).EnsureIndexes},
		{"funds", fundstore.New(db).EnsureIndexes},
		{"chats", chatstore.New(db).EnsureIndexes},
		{"audit_events", auditstore.New(db).EnsureIndexes},
		{"oauth_states", oauthstate.New(db).EnsureIndexes},
	}
	for _, e := range ensure {
		if err := e.fn(ctx); err != nil {
			logger.Error("index creation failed", zap.String("collection", e.name), zap.Error(err))
			return fmt.Errorf("ensure indexes for %s: %w", e.name, err)
		}
	}

	logger.Info("database indexes ensured", zap.Int("collections", len(ensure)))
	return nil
}
