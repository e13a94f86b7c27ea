package api

import (
	"errors"
	"net/http"
	"time"

	"frameloop/review-api/model"
	"frameloop/review-api/store"
	"frameloop/review-api/util"

	"github.com/gin-gonic/gin"
)

type commentBody struct {
	Content     string   `json:"content"`
	Timestamp   *float64 `json:"timestamp"`
	WorkspaceID string   `json:"workspaceId"`
}

// CommentAdd attaches a timestamped comment to a video. The author's
// profile is snapshotted so listings never join against users
func (a *API) CommentAdd(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)
	videoID := c.Param("videoId")

	var body commentBody
	if err := c.ShouldBindJSON(&body); err != nil || body.Content == "" || body.Timestamp == nil || body.WorkspaceID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"message":   "Content, timestamp, and workspaceId are required",
			"requestID": requestID,
		})
		return
	}

	if _, err := a.Store.Videos.ByID(c.Request.Context(), videoID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"message":   "Video not found",
				"requestID": requestID,
			})
			return
		}

		serverError(c, requestID, "Failed to fetch video", err)
		return
	}

	if _, ok := a.workspaceAccess(c, body.WorkspaceID); !ok {
		return
	}

	u, err := a.Store.Users.ByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"message":   "User not found",
				"requestID": requestID,
			})
			return
		}

		serverError(c, requestID, "Failed to fetch user", err)
		return
	}

	comment := &model.Comment{
		ID:          util.NewID(),
		VideoID:     videoID,
		WorkspaceID: body.WorkspaceID,
		Content:     body.Content,
		Timestamp:   *body.Timestamp,
		Author: model.CommentAuthor{
			UID:         userID,
			DisplayName: u.DisplayName,
			PhotoURL:    u.PhotoURL,
		},
		CreatedAt: time.Now(),
	}

	if err := a.Store.Comments.Create(c.Request.Context(), comment); err != nil {
		serverError(c, requestID, "Failed to create comment", err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}
