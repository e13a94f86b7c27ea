package api

import (
	"errors"
	"net/http"

	"frameloop/review-api/store"

	"github.com/gin-gonic/gin"
)

// NotificationRead marks one notification as read. Only its recipient
// may do so
func (a *API) NotificationRead(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)
	id := c.Param("id")

	n, err := a.Store.Notifications.ByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"message":   "Notification not found",
				"requestID": requestID,
			})
			return
		}

		serverError(c, requestID, "Failed to fetch notification", err)
		return
	}

	if n.UserID != userID {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"message":   "Unauthorized",
			"requestID": requestID,
		})
		return
	}

	if err := a.Store.Notifications.MarkRead(c.Request.Context(), id); err != nil {
		serverError(c, requestID, "Failed to mark notification read", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

func (a *API) NotificationReadAll(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	if err := a.Store.Notifications.MarkAllRead(c.Request.Context(), userID); err != nil {
		serverError(c, requestID, "Failed to mark notifications read", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}
