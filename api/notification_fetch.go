package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const notificationLimit = 50

// NotificationFetch returns the caller's latest notifications, newest
// first
func (a *API) NotificationFetch(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	items, err := a.Store.Notifications.ByUser(c.Request.Context(), userID, notificationLimit)
	if err != nil {
		serverError(c, requestID, "Failed to list notifications", err)
		return
	}

	c.JSON(http.StatusOK, items)
}
