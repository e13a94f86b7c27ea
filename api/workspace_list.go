package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// WorkspaceList returns every workspace the caller is a member of
func (a *API) WorkspaceList(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	workspaces, err := a.Store.Workspaces.ForMember(c.Request.Context(), userID)
	if err != nil {
		serverError(c, requestID, "Failed to list workspaces", err)
		return
	}

	c.JSON(http.StatusOK, workspaces)
}
