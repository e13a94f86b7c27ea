package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"frameloop/review-api/model"
	"frameloop/review-api/store"
	"frameloop/review-api/util"
	"frameloop/review-api/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// VersionUpload appends the next version to an existing video. The
// number is assigned read-then-write: two concurrent uploads for the
// same video can race and produce a duplicate. Status and notifications
// are untouched
func (a *API) VersionUpload(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)
	videoID := c.Param("videoId")

	form, err := c.MultipartForm()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"message":   "Invalid multipart form",
			"requestID": requestID,
		})
		return
	}

	videoFH := formFile(form, "video")
	if videoFH == nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"message":   "No video file uploaded",
			"requestID": requestID,
		})
		return
	}

	video, _, ok := a.videoAccess(c, videoID)
	if !ok {
		return
	}

	f, err := validators.VideoFile(videoFH)
	if err != nil {
		abortUploadError(c, requestID, err)
		return
	}
	defer f.Close()

	next := 1
	if latest, err := a.Store.Videos.LatestVersion(c.Request.Context(), videoID); err == nil {
		next = latest.VersionNumber + 1
	} else if !errors.Is(err, store.ErrNotFound) {
		serverError(c, requestID, "Failed to resolve latest version", err)
		return
	}

	title := formValue(form, "title")
	if title == "" {
		title = fmt.Sprintf("Version %d", next)
	}
	description := formValue(form, "description")

	now := time.Now()
	key := fmt.Sprintf("videos/%s/%s/%d-%s", video.WorkspaceID, videoID, now.UnixMilli(), videoFH.Filename)
	videoURL, err := a.Storage.Put(c.Request.Context(), key, f, videoFH.Size, videoFH.Header.Get("Content-Type"))
	if err != nil {
		serverError(c, requestID, "Failed to store video bytes", err)
		return
	}

	thumbnailURL := ""
	if thumbFH := formFile(form, "thumbnail"); thumbFH != nil {
		tf, err := validators.ThumbnailFile(thumbFH)
		if err != nil {
			abortUploadError(c, requestID, err)
			return
		}
		defer tf.Close()

		thumbKey := fmt.Sprintf("thumbnails/%s/%s/%d-%s", video.WorkspaceID, videoID, now.UnixMilli(), thumbFH.Filename)
		thumbnailURL, err = a.Storage.Put(c.Request.Context(), thumbKey, tf, thumbFH.Size, thumbFH.Header.Get("Content-Type"))
		if err != nil {
			serverError(c, requestID, "Failed to store thumbnail bytes", err)
			return
		}
	}

	version := &model.Version{
		ID:            util.NewID(),
		VideoID:       videoID,
		VersionNumber: next,
		Title:         title,
		Description:   description,
		VideoURL:      videoURL,
		ThumbnailURL:  thumbnailURL,
		FileSize:      videoFH.Size,
		UploadedBy:    userID,
		Qualities:     []model.Quality{{Quality: "source", URL: videoURL}},
		CreatedAt:     now,
	}

	if err := a.Store.Videos.CreateVersion(c.Request.Context(), version); err != nil {
		serverError(c, requestID, "Failed to create version", err)
		return
	}

	if err := a.Store.Videos.SetCurrentVersion(c.Request.Context(), videoID, next); err != nil {
		serverError(c, requestID, "Failed to update current version", err)
		return
	}

	zap.L().Debug("Version uploaded", zap.String("video", videoID), zap.Int("version", next))

	c.JSON(http.StatusCreated, gin.H{"version": version})
}
