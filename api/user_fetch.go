package api

import (
	"errors"
	"net/http"

	"frameloop/review-api/store"

	"github.com/gin-gonic/gin"
)

func (a *API) UserFetch(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

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

	c.JSON(http.StatusOK, gin.H{
		"uid":         u.UID,
		"email":       u.Email,
		"displayName": u.DisplayName,
		"photoURL":    u.PhotoURL,
		"createdAt":   u.CreatedAt,
	})
}
