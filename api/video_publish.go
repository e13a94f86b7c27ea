package api

import (
	"net/http"

	"frameloop/review-api/model"

	"github.com/gin-gonic/gin"
)

type publishBody struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

// VideoPublish marks a video published without pushing it anywhere.
// Owner only. The external-platform path lives under the integrations
// endpoints
func (a *API) VideoPublish(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)
	videoID := c.Param("videoId")

	var body publishBody
	c.ShouldBindJSON(&body)

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

	meta := &model.PublishMeta{
		Title:        firstOf(body.Title, video.Title),
		Description:  firstOf(body.Description, video.Description),
		ThumbnailURL: body.ThumbnailURL,
	}

	if err := a.Store.Videos.MarkPublished(c.Request.Context(), videoID, meta); err != nil {
		serverError(c, requestID, "Failed to mark video published", err)
		return
	}

	updated, err := a.Store.Videos.ByID(c.Request.Context(), videoID)
	if err != nil {
		serverError(c, requestID, "Failed to fetch updated video", err)
		return
	}

	c.JSON(http.StatusOK, updated)
}
