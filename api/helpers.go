package api

import (
	"errors"
	"net/http"

	"frameloop/review-api/model"
	"frameloop/review-api/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// workspaceAccess loads the workspace and enforces membership: 404 when
// the workspace doesn't exist, 403 when the caller is neither owner nor
// member. The response is already written when ok is false
func (a *API) workspaceAccess(c *gin.Context, workspaceID string) (ws *model.Workspace, ok bool) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	ws, err := a.Store.Workspaces.ByID(c.Request.Context(), workspaceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"message":   "Workspace not found",
				"requestID": requestID,
			})
			return nil, false
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"message":   "Server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch workspace", zap.Error(err), zap.String("requestID", requestID))
		return nil, false
	}

	if !isMember(ws, userID) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"message":   "You do not have access to this workspace",
			"requestID": requestID,
		})
		return nil, false
	}

	return ws, true
}

func isMember(ws *model.Workspace, uid string) bool {
	if ws.Owner == uid {
		return true
	}
	for _, m := range ws.Members {
		if m == uid {
			return true
		}
	}
	return false
}

func isPublisher(ws *model.Workspace, uid string) bool {
	for _, p := range ws.Publishers {
		if p == uid {
			return true
		}
	}
	return false
}

// videoAccess loads the video, then enforces membership on its workspace
func (a *API) videoAccess(c *gin.Context, videoID string) (v *model.Video, ws *model.Workspace, ok bool) {
	requestID := c.MustGet("requestID").(string)

	v, err := a.Store.Videos.ByID(c.Request.Context(), videoID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"message":   "Video not found",
				"requestID": requestID,
			})
			return nil, nil, false
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"message":   "Server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch video", zap.Error(err), zap.String("requestID", requestID))
		return nil, nil, false
	}

	ws, ok = a.workspaceAccess(c, v.WorkspaceID)
	if !ok {
		return nil, nil, false
	}
	return v, ws, true
}

func serverError(c *gin.Context, requestID, logMsg string, err error) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"message":   "Server error",
		"requestID": requestID,
	})

	zap.L().Error(logMsg, zap.Error(err), zap.String("requestID", requestID))
}
