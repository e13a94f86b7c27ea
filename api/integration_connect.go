package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"frameloop/review-api/model"
	"frameloop/review-api/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type connectBody struct {
	WorkspaceID        string `json:"workspaceId"`
	BaseURL            string `json:"baseUrl"`
	Token              string `json:"token"`
	ChannelName        string `json:"channelName"`
	ChannelDescription string `json:"channelDescription"`
	ChannelID          string `json:"channelId"`
	ChannelLinkSecret  string `json:"channelLinkSecret"`
}

// IntegrationConnect links a workspace to the external platform. Exactly
// one credential shape is accepted: a delegated token, or a
// channelId+secret pair. Supplying both or neither is rejected before
// anything is stored. Token mode adopts the user's first channel or
// creates one; the channel secret is fetched opportunistically so later
// publishes can skip the token path
func (a *API) IntegrationConnect(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var body connectBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"message":   "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	if body.WorkspaceID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"message":   "workspaceId is required",
			"requestID": requestID,
		})
		return
	}

	if body.BaseURL == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"message":   "baseUrl is required",
			"requestID": requestID,
		})
		return
	}

	hasToken := body.Token != ""
	hasSecretPair := body.ChannelID != "" && body.ChannelLinkSecret != ""

	if hasToken == hasSecretPair {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"message":   "Provide either token or channelId+channelLinkSecret",
			"requestID": requestID,
		})
		return
	}

	ws, ok := a.workspaceAccess(c, body.WorkspaceID)
	if !ok {
		return
	}

	if ws.Owner != userID {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"message":   "Only workspace owner can connect YouTube Clone",
			"requestID": requestID,
		})
		return
	}

	base := strings.TrimRight(body.BaseURL, "/")

	var channel service.Channel
	secret := body.ChannelLinkSecret

	if hasSecretPair {
		// The pair is stored as given. The platform has no cheap
		// validation endpoint, a bad secret surfaces on first publish
		channel = service.Channel{ID: body.ChannelID, Name: body.ChannelName}
	} else {
		channels, err := a.Platform.MyChannels(c.Request.Context(), base, body.Token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"message":   fmt.Sprintf("Failed to connect: %v", err),
				"requestID": requestID,
			})
			return
		}

		switch {
		case len(channels) > 0:
			channel = channels[0]
		case body.ChannelName != "":
			created, err := a.Platform.CreateChannel(c.Request.Context(), base, body.Token, body.ChannelName, body.ChannelDescription)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
					"message":   fmt.Sprintf("Failed to connect: %v", err),
					"requestID": requestID,
				})
				return
			}
			channel = *created
		default:
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"message":   "No channel found on YouTube Clone. Provide channelName to create one or use channelId+channelLinkSecret.",
				"requestID": requestID,
			})
			return
		}

		secret = channel.ChannelLinkSecret
		if secret == "" && channel.ID != "" {
			s, err := a.Platform.RegenerateSecret(c.Request.Context(), base, body.Token, channel.ID)
			if err != nil {
				// Token-based publish still works without a secret
				zap.L().Warn("Failed to fetch channel secret", zap.Error(err), zap.String("requestID", requestID))
			} else {
				secret = s
			}
		}
	}

	integ := &model.YTCloneIntegration{
		BaseURL:           base,
		Token:             body.Token,
		ChannelID:         channel.ID,
		ChannelName:       channel.Name,
		ChannelLinkSecret: secret,
		ConnectedAt:       time.Now(),
		ConnectedBy:       userID,
	}

	if err := a.Store.Workspaces.SetIntegration(c.Request.Context(), body.WorkspaceID, integ); err != nil {
		serverError(c, requestID, "Failed to store integration", err)
		return
	}

	zap.L().Info("Workspace connected to YouTube Clone",
		zap.String("workspace", body.WorkspaceID),
		zap.String("channel", channel.ID),
	)

	c.JSON(http.StatusOK, gin.H{
		"ok": true,
		"channel": gin.H{
			"id":   channel.ID,
			"name": channel.Name,
		},
	})
}
