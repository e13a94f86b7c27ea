// Package api contains all endpoints available
package api

import (
	"context"
	"time"

	"frameloop/review-api/middleware"
	"frameloop/review-api/service"
	"frameloop/review-api/storage"
	"frameloop/review-api/store"

	"firebase.google.com/go/v4/auth"
	ginzap "github.com/gin-contrib/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// AuthClient is the slice of the Firebase Admin client the API uses.
// The session endpoints fall back to the user record when the ID token
// lacks profile claims
type AuthClient interface {
	middleware.TokenVerifier
	GetUser(ctx context.Context, uid string) (*auth.UserRecord, error)
}

// Deps holds everything the handlers need. Tests swap in the in-memory
// store, a fake token verifier and an httptest platform server
type Deps struct {
	Store    *store.Store
	Storage  storage.Storage
	Auth     AuthClient
	Platform *service.YTClone
}

type API struct {
	Deps
	Router *gin.Engine
	Notify *service.Notifier
}

func NewRouter(d Deps) *API {
	a := &API{
		Deps:   d,
		Notify: &service.Notifier{Notifications: d.Store.Notifications},
	}

	router := gin.New()
	a.Router = router

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     viper.GetStringSlice("host.cors_origins"),
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.MaxMultipartMemory = 32 << 20

	if viper.GetString("storage.type") == "local" {
		router.Static("/uploads", viper.GetString("storage.local_path"))
	}

	authed := middleware.NewAuthMiddleware(d.Auth)
	maxUploadSize := viper.GetInt64("upload.max_size")

	main := router.Group("/api", authed)

	authGroup := main.Group("/auth", middleware.BodySizeLimiter(1<<20))
	{
		// POST /api/auth/session	-> Registers or logs in the token's user
		authGroup.POST("/session", a.AuthSession)

		// GET /api/auth/me		-> Returns the current user, creating a minimal doc if missing
		authGroup.GET("/me", a.AuthMe)
	}

	users := main.Group("/users", middleware.BodySizeLimiter(1<<20))
	{
		// GET /api/users/me		-> Returns the caller's profile
		users.GET("/me", a.UserFetch)

		// PUT /api/users/me		-> Updates displayName and/or photoURL
		users.PUT("/me", a.UserUpdate)
	}

	workspaces := main.Group("/workspaces", middleware.BodySizeLimiter(1<<20))
	{
		// POST /api/workspaces		-> Creates a workspace owned by the caller
		workspaces.POST("", a.WorkspaceCreate)

		// GET /api/workspaces/user	-> Lists the caller's workspaces
		workspaces.GET("/user", a.WorkspaceList)

		// GET /api/workspaces/:id	-> Returns a single workspace
		workspaces.GET("/:id", a.WorkspaceFetch)

		// PUT /api/workspaces/:id	-> Updates name/description/integration
		workspaces.PUT("/:id", a.WorkspaceUpdate)

		// DELETE /api/workspaces/:id	-> Deletes the workspace, membership lists only
		workspaces.DELETE("/:id", a.WorkspaceDelete)

		// GET /api/workspaces/:id/members -> Expanded member profiles
		workspaces.GET("/:id/members", a.WorkspaceMembers)

		// POST /api/workspaces/:id/members -> Adds a member by email
		workspaces.POST("/:id/members", a.WorkspaceMemberAdd)

		// DELETE /api/workspaces/:id/members/:userId -> Removes a member
		workspaces.DELETE("/:id/members/:userId", a.WorkspaceMemberRemove)

		// POST /api/workspaces/:id/publishers/:userId -> Grants publish rights
		workspaces.POST("/:id/publishers/:userId", a.PublisherGrant)

		// DELETE /api/workspaces/:id/publishers/:userId -> Revokes publish rights
		workspaces.DELETE("/:id/publishers/:userId", a.PublisherRevoke)
	}

	videos := main.Group("/videos")
	{
		// POST /api/videos/upload	-> Uploads a new video into a workspace
		videos.POST("/upload", middleware.BodySizeLimiter(maxUploadSize), a.VideoUpload)

		// POST /api/videos/:videoId/versions -> Uploads the next version
		videos.POST("/:videoId/versions", middleware.BodySizeLimiter(maxUploadSize), a.VersionUpload)

		// GET /api/videos/workspace/:workspaceId -> Lists a workspace's videos
		videos.GET("/workspace/:workspaceId", a.VideoFetchBulk)

		// GET /api/videos/:videoId	-> Returns a video with its playable URL
		videos.GET("/:videoId", a.VideoFetch)

		// PATCH /api/videos/:videoId/status -> Owner-only status transition
		videos.PATCH("/:videoId/status", middleware.BodySizeLimiter(1<<20), a.VideoStatus)

		// POST /api/videos/:videoId/publish -> Marks a video published in place
		videos.POST("/:videoId/publish", middleware.BodySizeLimiter(1<<20), a.VideoPublish)
	}

	comments := main.Group("/comments", middleware.BodySizeLimiter(1<<20))
	{
		// POST /api/comments/:videoId	-> Adds a timestamped comment
		comments.POST("/:videoId", a.CommentAdd)

		// GET /api/comments/:videoId	-> Lists comments, timestamp ascending
		comments.GET("/:videoId", a.CommentFetch)
	}

	notifications := main.Group("/notifications", middleware.BodySizeLimiter(1<<20))
	{
		// POST /api/notifications	-> Creates one notification or a workspace fan-out
		notifications.POST("", a.NotificationCreate)

		// GET /api/notifications	-> Lists the caller's latest notifications
		notifications.GET("", a.NotificationFetch)

		// PUT /api/notifications/read-all -> Marks all of the caller's as read
		notifications.PUT("/read-all", a.NotificationReadAll)

		// PUT /api/notifications/:id/read -> Marks one as read
		notifications.PUT("/:id/read", a.NotificationRead)
	}

	integrations := main.Group("/integrations")
	{
		// GET /api/integrations/youtube-clone/status -> Connection status for a workspace
		integrations.GET("/youtube-clone/status", a.IntegrationStatus)

		// POST /api/integrations/youtube-clone/connect -> Connects a workspace to the platform
		integrations.POST("/youtube-clone/connect", middleware.BodySizeLimiter(1<<20), a.IntegrationConnect)

		// POST /api/integrations/youtube-clone/publish/:videoId -> Pushes a video to the platform
		integrations.POST("/youtube-clone/publish/:videoId", middleware.BodySizeLimiter(1<<20), a.IntegrationPublish)
	}

	return a
}
