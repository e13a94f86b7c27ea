package api

import (
	"errors"
	"fmt"
	"net/http"

	"frameloop/review-api/store"

	"github.com/gin-gonic/gin"
)

type notificationBody struct {
	UserID      string `json:"userId"`
	Type        string `json:"type"`
	Message     string `json:"message"`
	WorkspaceID string `json:"workspaceId"`
	VideoID     string `json:"videoId"`
}

// NotificationCreate writes either one notification for an explicit
// recipient or, when a workspaceId is given, a fan-out batch to every
// member except the caller. An empty recipient set succeeds with zero
// writes
func (a *API) NotificationCreate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var body notificationBody
	if err := c.ShouldBindJSON(&body); err != nil || body.Type == "" || body.Message == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"message":   "Missing required fields",
			"requestID": requestID,
		})
		return
	}

	if body.WorkspaceID != "" {
		ws, err := a.Store.Workspaces.ByID(c.Request.Context(), body.WorkspaceID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
					"message":   "Workspace not found",
					"requestID": requestID,
				})
				return
			}

			serverError(c, requestID, "Failed to fetch workspace", err)
			return
		}

		count, err := a.Notify.Fanout(c.Request.Context(), ws, userID, body.Type, body.Message, body.VideoID)
		if err != nil {
			serverError(c, requestID, "Failed to fan out notifications", err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": fmt.Sprintf("%d notifications created successfully", count),
		})
		return
	}

	n, err := a.Notify.NotifyUser(c.Request.Context(), body.UserID, body.Type, body.Message, body.WorkspaceID, body.VideoID)
	if err != nil {
		serverError(c, requestID, "Failed to create notification", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":      n.ID,
		"message": "Notification created successfully",
	})
}
