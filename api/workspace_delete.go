package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WorkspaceDelete removes the workspace document and strips its ID from
// every member's user document. Videos and comments are intentionally
// left behind, only membership is cascaded
func (a *API) WorkspaceDelete(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)
	id := c.Param("id")

	ws, ok := a.workspaceAccess(c, id)
	if !ok {
		return
	}

	if ws.Owner != userID {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"message":   "Not authorized to delete this workspace",
			"requestID": requestID,
		})
		return
	}

	uids := append([]string{ws.Owner}, ws.Members...)

	if err := a.Store.Workspaces.Delete(c.Request.Context(), id, uids); err != nil {
		serverError(c, requestID, "Failed to delete workspace", err)
		return
	}

	zap.L().Debug("Workspace deleted", zap.String("id", id), zap.String("requestID", requestID))

	c.JSON(http.StatusOK, gin.H{"message": "Workspace deleted successfully"})
}
