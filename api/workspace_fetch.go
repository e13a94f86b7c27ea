package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *API) WorkspaceFetch(c *gin.Context) {
	ws, ok := a.workspaceAccess(c, c.Param("id"))
	if !ok {
		return
	}

	c.JSON(http.StatusOK, ws)
}
