package store

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// NewMongo connects to the MongoDB instance configured under mongo.* and
// returns a Store backed by it. The connection is verified with a ping
// before any collection is touched
func NewMongo(ctx context.Context) (*Store, error) {
	uri := viper.GetString("mongo.uri")

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(pingCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB, %w", err)
	}

	if err := client.Ping(pingCtx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB, %w", err)
	}

	db := client.Database(viper.GetString("mongo.database"))
	zap.L().Info("Connected to MongoDB", zap.String("database", db.Name()))

	return &Store{
		Users:         &mongoUsers{col: db.Collection("users")},
		Workspaces:    &mongoWorkspaces{col: db.Collection("workspaces"), users: db.Collection("users"), client: client},
		Videos:        &mongoVideos{col: db.Collection("videos"), versions: db.Collection("versions")},
		Comments:      &mongoComments{col: db.Collection("comments")},
		Notifications: &mongoNotifications{col: db.Collection("notifications")},
	}, nil
}

func mapErr(err error) error {
	if err == mongo.ErrNoDocuments {
		return ErrNotFound
	}
	return err
}
