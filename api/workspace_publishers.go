package api

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
)

// PublisherGrant gives a member the right to publish videos externally.
// Granting to a non-member fails without touching the publishers list
func (a *API) PublisherGrant(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)
	id := c.Param("id")
	memberID := c.Param("userId")

	ws, ok := a.workspaceAccess(c, id)
	if !ok {
		return
	}

	if ws.Owner != userID {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"message":   "Only owner can change publish permissions",
			"requestID": requestID,
		})
		return
	}

	if !slices.Contains(ws.Members, memberID) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"message":   "User is not a member of this workspace",
			"requestID": requestID,
		})
		return
	}

	if err := a.Store.Workspaces.GrantPublisher(c.Request.Context(), id, memberID); err != nil {
		serverError(c, requestID, "Failed to grant publish rights", err)
		return
	}

	updated, err := a.Store.Workspaces.ByID(c.Request.Context(), id)
	if err != nil {
		serverError(c, requestID, "Failed to fetch updated workspace", err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (a *API) PublisherRevoke(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)
	id := c.Param("id")
	memberID := c.Param("userId")

	ws, ok := a.workspaceAccess(c, id)
	if !ok {
		return
	}

	if ws.Owner != userID {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"message":   "Only owner can change publish permissions",
			"requestID": requestID,
		})
		return
	}

	if err := a.Store.Workspaces.RevokePublisher(c.Request.Context(), id, memberID); err != nil {
		serverError(c, requestID, "Failed to revoke publish rights", err)
		return
	}

	updated, err := a.Store.Workspaces.ByID(c.Request.Context(), id)
	if err != nil {
		serverError(c, requestID, "Failed to fetch updated workspace", err)
		return
	}

	c.JSON(http.StatusOK, updated)
}
