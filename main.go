package main

import (
	"context"
	"fmt"
	"time"

	"frameloop/review-api/api"
	"frameloop/review-api/config"
	"frameloop/review-api/service"
	"frameloop/review-api/storage"
	"frameloop/review-api/store"

	firebase "firebase.google.com/go/v4"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"google.golang.org/api/option"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

func main() {
	gin.SetMode(gin.ReleaseMode)

	err := config.Setup()
	if err != nil {
		panic(err)
	}

	makeLogger()

	ctx := context.Background()

	st, err := store.NewMongo(ctx)
	if err != nil {
		zap.L().Fatal("Failed to connect to MongoDB", zap.Error(err))
	}

	authClient, err := newAuthClient(ctx)
	if err != nil {
		zap.L().Fatal("Failed to initialize Firebase auth", zap.Error(err))
	}

	var objStorage storage.Storage
	switch viper.GetString("storage.type") {
	case "s3":
		objStorage, err = storage.NewS3()
		if err != nil {
			zap.L().Fatal("Failed to initialize S3 storage", zap.Error(err))
		}
	default:
		objStorage, err = storage.NewLocal(viper.GetString("storage.local_path"), viper.GetString("host.public_url"))
		if err != nil {
			zap.L().Fatal("Failed to initialize local storage", zap.Error(err))
		}
	}

	a := api.NewRouter(api.Deps{
		Store:    st,
		Storage:  objStorage,
		Auth:     authClient,
		Platform: service.NewYTClone(),
	})

	zap.L().Info("Server starting", zap.Int("port", viper.GetInt("host.port")))

	err = a.Router.Run(fmt.Sprintf(":%d", viper.GetInt("host.port")))
	if err != nil {
		panic(err)
	}
}

func newAuthClient(ctx context.Context) (api.AuthClient, error) {
	var opts []option.ClientOption
	if j := viper.GetString("firebase.credentials_json"); j != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(j)))
	} else {
		opts = append(opts, option.WithCredentialsFile(viper.GetString("firebase.credentials_file")))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app, %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase auth client, %w", err)
	}
	return client, nil
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	level, err := zapcore.ParseLevel(viper.GetString("app.log_level"))
	if err == nil {
		cfg.Level = zap.NewAtomicLevelAt(level)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}
