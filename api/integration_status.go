package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// IntegrationStatus reports whether the workspace can publish to the
// platform. Member gated; credentials never leave the server
func (a *API) IntegrationStatus(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	workspaceID := c.Query("workspaceId")
	if workspaceID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"message":   "workspaceId is required",
			"requestID": requestID,
		})
		return
	}

	ws, ok := a.workspaceAccess(c, workspaceID)
	if !ok {
		return
	}

	isOwner := ws.Owner == userID

	integ := ws.Integrations.YouTubeClone
	if integ == nil || (integ.Token == "" && integ.ChannelLinkSecret == "") {
		c.JSON(http.StatusOK, gin.H{"connected": false, "isOwner": isOwner})
		return
	}

	connected := integ.BaseURL != "" &&
		(integ.Token != "" || (integ.ChannelID != "" && integ.ChannelLinkSecret != ""))

	c.JSON(http.StatusOK, gin.H{
		"connected":   connected,
		"channelName": integ.ChannelName,
		"channelId":   integ.ChannelID,
		"connectedAt": integ.ConnectedAt,
		"connectedBy": integ.ConnectedBy,
		"isOwner":     isOwner,
	})
}
