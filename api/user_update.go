package api

import (
	"errors"
	"net/http"
	"time"

	"frameloop/review-api/store"

	"github.com/gin-gonic/gin"
)

type userUpdateBody struct {
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL"`
}

func (a *API) UserUpdate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var body userUpdateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"message":   "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	if body.DisplayName == "" && body.PhotoURL == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"message":   "No update data provided",
			"requestID": requestID,
		})
		return
	}

	patch := map[string]any{}
	if body.DisplayName != "" {
		patch["displayName"] = body.DisplayName
	}
	if body.PhotoURL != "" {
		patch["photoURL"] = body.PhotoURL
	}

	if err := a.Store.Users.Patch(c.Request.Context(), userID, patch); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"message":   "User not found",
				"requestID": requestID,
			})
			return
		}

		serverError(c, requestID, "Failed to update user profile", err)
		return
	}

	u, err := a.Store.Users.ByID(c.Request.Context(), userID)
	if err != nil {
		serverError(c, requestID, "Failed to fetch updated user", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"uid":         u.UID,
		"email":       u.Email,
		"displayName": u.DisplayName,
		"photoURL":    u.PhotoURL,
		"updatedAt":   time.Now(),
	})
}
