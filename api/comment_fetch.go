package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CommentFetch lists a video's comments ordered by their position in
// the video
func (a *API) CommentFetch(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	videoID := c.Param("videoId")

	video, _, ok := a.videoAccess(c, videoID)
	if !ok {
		return
	}

	comments, err := a.Store.Comments.ByVideo(c.Request.Context(), video.ID)
	if err != nil {
		serverError(c, requestID, "Failed to list comments", err)
		return
	}

	c.JSON(http.StatusOK, comments)
}
