package api

import (
	"net/http"
	"slices"
	"sort"
	"strings"

	"frameloop/review-api/model"

	"github.com/gin-gonic/gin"
)

// WorkspaceMembers returns the expanded member profiles, owner first and
// the rest alphabetical by display name. Users whose document is missing
// are skipped rather than failing the listing
func (a *API) WorkspaceMembers(c *gin.Context) {
	ws, ok := a.workspaceAccess(c, c.Param("id"))
	if !ok {
		return
	}

	uids := []string{ws.Owner}
	for _, m := range ws.Members {
		if !slices.Contains(uids, m) {
			uids = append(uids, m)
		}
	}

	members := []model.Member{}
	for _, uid := range uids {
		u, err := a.Store.Users.ByID(c.Request.Context(), uid)
		if err != nil {
			continue
		}

		role := u.Role
		if role == "" {
			role = model.DefaultRole
		}

		members = append(members, model.Member{
			UID:         uid,
			Email:       u.Email,
			DisplayName: u.DisplayName,
			PhotoURL:    u.PhotoURL,
			Role:        role,
			IsOwner:     uid == ws.Owner,
			CanPublish:  slices.Contains(ws.Publishers, uid),
		})
	}

	sort.SliceStable(members, func(i, j int) bool {
		if members[i].IsOwner != members[j].IsOwner {
			return members[i].IsOwner
		}
		return strings.ToLower(members[i].DisplayName) < strings.ToLower(members[j].DisplayName)
	})

	c.JSON(http.StatusOK, members)
}
