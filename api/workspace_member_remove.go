package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WorkspaceMemberRemove pulls the user from members and publishers in a
// single document update and strips the workspace from their user doc.
// Owner only
func (a *API) WorkspaceMemberRemove(c *gin.Context) {
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
			"message":   "Not authorized to remove members",
			"requestID": requestID,
		})
		return
	}

	if err := a.Store.Workspaces.RemoveMember(c.Request.Context(), id, memberID); err != nil {
		serverError(c, requestID, "Failed to remove member", err)
		return
	}

	if err := a.Store.Users.RemoveWorkspace(c.Request.Context(), memberID, id); err != nil {
		serverError(c, requestID, "Failed to unlink workspace from member", err)
		return
	}

	zap.L().Debug("Member removed", zap.String("workspace", id), zap.String("member", memberID))

	c.JSON(http.StatusOK, gin.H{"message": "Member removed successfully"})
}
