package api

import (
	"errors"
	"net/http"

	"frameloop/review-api/model"
	"frameloop/review-api/store"

	"github.com/gin-gonic/gin"
)

// videoDetail is the video document flattened together with the playable
// URL and number of its latest version
type videoDetail struct {
	model.Video
	URL           string         `json:"url"`
	Version       int            `json:"version"`
	LatestVersion *model.Version `json:"latestVersion"`
}

func (a *API) VideoFetch(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	video, _, ok := a.videoAccess(c, c.Param("videoId"))
	if !ok {
		return
	}

	detail := videoDetail{Video: *video, Version: video.CurrentVersion}
	if detail.Version == 0 {
		detail.Version = 1
	}

	latest, err := a.Store.Videos.LatestVersion(c.Request.Context(), video.ID)
	switch {
	case err == nil:
		detail.URL = latest.VideoURL
		detail.Version = latest.VersionNumber
		detail.LatestVersion = latest
	case errors.Is(err, store.ErrNotFound):
		// A video created before its first version finished uploading
	default:
		serverError(c, requestID, "Failed to resolve latest version", err)
		return
	}

	c.JSON(http.StatusOK, detail)
}
