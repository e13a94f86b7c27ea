package api

import (
	"fmt"
	"net/http"

	"frameloop/review-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type statusBody struct {
	Status string `json:"status"`
}

// VideoStatus transitions the review status. Owner only; any move inside
// the three-value enum is allowed. Every transition fans out to the
// workspace, and unlike the upload path that fan-out is load-bearing:
// its failure fails the request
func (a *API) VideoStatus(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)
	videoID := c.Param("videoId")

	var body statusBody
	if err := c.ShouldBindJSON(&body); err != nil || !model.ValidStatus(body.Status) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"message":   "Invalid status",
			"requestID": requestID,
		})
		return
	}

	video, ws, ok := a.videoAccess(c, videoID)
	if !ok {
		return
	}

	if ws.Owner != userID {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"message":   "Not authorized",
			"requestID": requestID,
		})
		return
	}

	if err := a.Store.Videos.UpdateStatus(c.Request.Context(), videoID, body.Status); err != nil {
		serverError(c, requestID, "Failed to update video status", err)
		return
	}

	typ := model.NotifyStatus
	if body.Status == model.StatusApproved {
		typ = model.NotifyApproval
	}

	message := fmt.Sprintf("Video %s: %s", body.Status, video.Title)
	if _, err := a.Notify.Fanout(c.Request.Context(), ws, userID, typ, message, videoID); err != nil {
		serverError(c, requestID, "Failed to fan out status notifications", err)
		return
	}

	zap.L().Debug("Video status changed", zap.String("video", videoID), zap.String("status", body.Status))

	updated, err := a.Store.Videos.ByID(c.Request.Context(), videoID)
	if err != nil {
		serverError(c, requestID, "Failed to fetch updated video", err)
		return
	}

	c.JSON(http.StatusOK, updated)
}
