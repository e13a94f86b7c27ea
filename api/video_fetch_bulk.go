package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// VideoFetchBulk lists a workspace's videos, newest update first
func (a *API) VideoFetchBulk(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	ws, ok := a.workspaceAccess(c, c.Param("workspaceId"))
	if !ok {
		return
	}

	videos, err := a.Store.Videos.ByWorkspace(c.Request.Context(), ws.ID)
	if err != nil {
		serverError(c, requestID, "Failed to list workspace videos", err)
		return
	}

	c.JSON(http.StatusOK, videos)
}
