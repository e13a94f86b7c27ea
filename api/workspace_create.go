package api

import (
	"net/http"
	"time"

	"frameloop/review-api/model"
	"frameloop/review-api/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type workspaceCreateBody struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (a *API) WorkspaceCreate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var body workspaceCreateBody
	if err := c.ShouldBindJSON(&body); err != nil || body.Name == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"message":   "Name is required",
			"requestID": requestID,
		})
		return
	}

	now := time.Now()
	ws := &model.Workspace{
		ID:          util.NewID(),
		Name:        body.Name,
		Description: body.Description,
		Owner:       userID,
		Members:     []string{userID},
		Publishers:  []string{},
		Videos:      []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := a.Store.Workspaces.Create(c.Request.Context(), ws); err != nil {
		serverError(c, requestID, "Failed to create workspace", err)
		return
	}

	if err := a.Store.Users.AddWorkspace(c.Request.Context(), userID, ws.ID); err != nil {
		serverError(c, requestID, "Failed to link workspace to user", err)
		return
	}

	zap.L().Debug("Workspace created", zap.String("id", ws.ID), zap.String("owner", userID))

	c.JSON(http.StatusCreated, ws)
}
