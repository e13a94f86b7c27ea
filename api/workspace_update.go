package api

import (
	"net/http"

	"frameloop/review-api/model"
	"frameloop/review-api/store"

	"github.com/gin-gonic/gin"
)

type workspaceUpdateBody struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Integration *struct {
		BaseURL           string `json:"baseUrl"`
		Token             string `json:"token"`
		ChannelID         string `json:"channelId"`
		ChannelName       string `json:"channelName"`
		ChannelLinkSecret string `json:"channelLinkSecret"`
	} `json:"integration"`
}

// WorkspaceUpdate lets the owner change the name and description and
// merge fields into the stored platform integration
func (a *API) WorkspaceUpdate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)
	id := c.Param("id")

	ws, ok := a.workspaceAccess(c, id)
	if !ok {
		return
	}

	if ws.Owner != userID {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"message":   "Not authorized to update this workspace",
			"requestID": requestID,
		})
		return
	}

	var body workspaceUpdateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"message":   "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	if body.Name != nil || body.Description != nil {
		upd := store.WorkspaceUpdate{Name: body.Name, Description: body.Description}
		if err := a.Store.Workspaces.Update(c.Request.Context(), id, upd); err != nil {
			serverError(c, requestID, "Failed to update workspace", err)
			return
		}
	}

	if body.Integration != nil {
		integ := &model.YTCloneIntegration{
			BaseURL:           body.Integration.BaseURL,
			Token:             body.Integration.Token,
			ChannelID:         body.Integration.ChannelID,
			ChannelName:       body.Integration.ChannelName,
			ChannelLinkSecret: body.Integration.ChannelLinkSecret,
		}
		if err := a.Store.Workspaces.SetIntegration(c.Request.Context(), id, integ); err != nil {
			serverError(c, requestID, "Failed to update workspace integration", err)
			return
		}
	}

	updated, err := a.Store.Workspaces.ByID(c.Request.Context(), id)
	if err != nil {
		serverError(c, requestID, "Failed to fetch updated workspace", err)
		return
	}

	c.JSON(http.StatusOK, updated)
}
