package api

import (
	"errors"
	"fmt"
	"net/http"

	"frameloop/review-api/model"
	"frameloop/review-api/service"
	"frameloop/review-api/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type integrationPublishBody struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// IntegrationPublish streams the video's latest version from the object
// store straight into the platform's upload endpoint. Owner or publisher
// only. The secret path is preferred when a channelId+secret pair is
// stored, otherwise the delegated token is used. Failures surface as a
// 500 carrying the remote message; the caller re-invokes manually, there
// is no retry
func (a *API) IntegrationPublish(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)
	videoID := c.Param("videoId")

	var body integrationPublishBody
	c.ShouldBindJSON(&body)

	video, ws, ok := a.videoAccess(c, videoID)
	if !ok {
		return
	}

	if ws.Owner != userID && !isPublisher(ws, userID) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"message":   "Only owner or publisher can publish",
			"requestID": requestID,
		})
		return
	}

	integ := ws.Integrations.YouTubeClone
	if integ == nil || integ.BaseURL == "" || (integ.Token == "" && integ.ChannelLinkSecret == "") {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"message":   "YouTube Clone not connected for this workspace",
			"requestID": requestID,
		})
		return
	}

	latest, err := a.Store.Videos.LatestVersion(c.Request.Context(), videoID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"message":   "Latest version has no videoUrl",
				"requestID": requestID,
			})
			return
		}

		serverError(c, requestID, "Failed to resolve latest version", err)
		return
	}

	if latest.VideoURL == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"message":   "Latest version has no videoUrl",
			"requestID": requestID,
		})
		return
	}

	source, err := a.Platform.Download(c.Request.Context(), latest.VideoURL)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"message":   "Failed to publish to YouTube Clone",
			"error":     err.Error(),
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch source video", zap.Error(err), zap.String("requestID", requestID))
		return
	}
	defer source.Close()

	up := service.UploadRequest{
		Token:       integ.Token,
		ChannelID:   integ.ChannelID,
		Secret:      integ.ChannelLinkSecret,
		Title:       firstOf(body.Title, video.Title, fmt.Sprintf("Video %s", videoID)),
		Description: firstOf(body.Description, video.Description),
		FileName:    videoID + ".mp4",
		Body:        source,
	}

	remote, err := a.Platform.Upload(c.Request.Context(), integ.BaseURL, up)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"message":   "Failed to publish to YouTube Clone",
			"error":     err.Error(),
			"requestID": requestID,
		})

		zap.L().Error("Remote publish failed", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	meta := &model.PublishMeta{
		Platform:    "youtube-clone",
		ChannelID:   integ.ChannelID,
		RemoteVideo: remote,
	}

	if err := a.Store.Videos.MarkPublished(c.Request.Context(), videoID, meta); err != nil {
		serverError(c, requestID, "Failed to mark video published", err)
		return
	}

	zap.L().Info("Video published to YouTube Clone",
		zap.String("video", videoID),
		zap.String("channel", integ.ChannelID),
	)

	updated, err := a.Store.Videos.ByID(c.Request.Context(), videoID)
	if err != nil {
		serverError(c, requestID, "Failed to fetch updated video", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"video":       updated,
		"publishedTo": "youtube-clone",
	})
}
