package api

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"frameloop/review-api/model"
	"frameloop/review-api/util"
	"frameloop/review-api/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// VideoUpload creates a video inside a workspace from a multipart form.
// Effect order matters: the video document is created first, then the
// bytes are stored, then version 1 is written. The workspace video-list
// append and the upload notification are best-effort and never fail the
// request
func (a *API) VideoUpload(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	form, err := c.MultipartForm()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"message":   "Invalid multipart form",
			"requestID": requestID,
		})
		return
	}

	title := formValue(form, "title")
	description := formValue(form, "description")
	workspaceID := formValue(form, "workspaceId")

	if title == "" || workspaceID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"message":   "Title and workspaceId are required",
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

	ws, ok := a.workspaceAccess(c, workspaceID)
	if !ok {
		return
	}

	f, err := validators.VideoFile(videoFH)
	if err != nil {
		abortUploadError(c, requestID, err)
		return
	}
	defer f.Close()

	now := time.Now()
	video := &model.Video{
		ID:             util.NewID(),
		Title:          title,
		Description:    description,
		WorkspaceID:    workspaceID,
		Owner:          userID,
		Status:         model.StatusInReview,
		CurrentVersion: 1,
		Published:      false,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := a.Store.Videos.Create(c.Request.Context(), video); err != nil {
		serverError(c, requestID, "Failed to create video", err)
		return
	}

	key := fmt.Sprintf("videos/%s/%s/%d-%s", workspaceID, video.ID, now.UnixMilli(), videoFH.Filename)
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

		thumbKey := fmt.Sprintf("thumbnails/%s/%s/%d-%s", workspaceID, video.ID, now.UnixMilli(), thumbFH.Filename)
		thumbnailURL, err = a.Storage.Put(c.Request.Context(), thumbKey, tf, thumbFH.Size, thumbFH.Header.Get("Content-Type"))
		if err != nil {
			serverError(c, requestID, "Failed to store thumbnail bytes", err)
			return
		}
	}

	version := &model.Version{
		ID:            util.NewID(),
		VideoID:       video.ID,
		VersionNumber: 1,
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

	if err := a.Store.Workspaces.AppendVideo(c.Request.Context(), workspaceID, video.ID); err != nil {
		zap.L().Warn("Failed to append video to workspace list", zap.Error(err), zap.String("requestID", requestID))
	}

	message := fmt.Sprintf("New video uploaded: %s", title)
	if _, err := a.Notify.Fanout(c.Request.Context(), ws, userID, model.NotifyUpload, message, video.ID); err != nil {
		zap.L().Warn("Failed to fan out upload notifications", zap.Error(err), zap.String("requestID", requestID))
	}

	zap.L().Debug("Video uploaded", zap.String("video", video.ID), zap.String("workspace", workspaceID))

	c.JSON(http.StatusCreated, gin.H{
		"video": gin.H{"id": video.ID, "workspaceId": workspaceID},
	})
}

func formValue(form *multipart.Form, key string) string {
	if vals := form.Value[key]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}

func formFile(form *multipart.Form, key string) *multipart.FileHeader {
	if files := form.File[key]; len(files) > 0 {
		return files[0]
	}
	return nil
}

func abortUploadError(c *gin.Context, requestID string, err error) {
	code := http.StatusBadRequest
	if errors.Is(err, validators.ErrFileTooLarge) {
		code = http.StatusRequestEntityTooLarge
	}

	switch {
	case errors.Is(err, validators.ErrNoFile),
		errors.Is(err, validators.ErrFileTooLarge),
		errors.Is(err, validators.ErrNotVideo),
		errors.Is(err, validators.ErrNotImage),
		errors.Is(err, validators.ErrFileNameTooLong):
		c.AbortWithStatusJSON(code, gin.H{
			"message":   err.Error(),
			"requestID": requestID,
		})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"message":   "Server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to validate uploaded file", zap.Error(err), zap.String("requestID", requestID))
	}
}
