package api

import (
	"errors"
	"net/http"
	"slices"

	"frameloop/review-api/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type memberAddBody struct {
	Email string `json:"email"`
}

// WorkspaceMemberAdd adds an existing user to the workspace by email.
// Owner only
func (a *API) WorkspaceMemberAdd(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)
	id := c.Param("id")

	var body memberAddBody
	if err := c.ShouldBindJSON(&body); err != nil || body.Email == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"message":   "Email is required",
			"requestID": requestID,
		})
		return
	}

	ws, ok := a.workspaceAccess(c, id)
	if !ok {
		return
	}

	if ws.Owner != userID {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"message":   "Not authorized to add members",
			"requestID": requestID,
		})
		return
	}

	u, err := a.Store.Users.ByEmail(c.Request.Context(), body.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"message":   "User with that email not found",
				"requestID": requestID,
			})
			return
		}

		serverError(c, requestID, "Failed to look up user by email", err)
		return
	}

	if slices.Contains(ws.Members, u.UID) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"message":   "User is already a member of this workspace",
			"requestID": requestID,
		})
		return
	}

	if err := a.Store.Workspaces.AddMember(c.Request.Context(), id, u.UID); err != nil {
		serverError(c, requestID, "Failed to add member", err)
		return
	}

	if err := a.Store.Users.AddWorkspace(c.Request.Context(), u.UID, id); err != nil {
		serverError(c, requestID, "Failed to link workspace to new member", err)
		return
	}

	zap.L().Debug("Member added", zap.String("workspace", id), zap.String("member", u.UID))

	updated, err := a.Store.Workspaces.ByID(c.Request.Context(), id)
	if err != nil {
		serverError(c, requestID, "Failed to fetch updated workspace", err)
		return
	}

	c.JSON(http.StatusOK, updated)
}
