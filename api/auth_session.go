package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"frameloop/review-api/model"
	"frameloop/review-api/store"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type sessionBody struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL"`
}

// AuthSession registers or logs in the caller: the user document is
// created from the verified token's claims on first sight, and missing
// profile fields are backfilled on later logins. Token claims win over
// the identity provider's user record, which wins over the client body
func (a *API) AuthSession(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)
	token := c.MustGet("authToken").(*auth.Token)

	var body sessionBody
	c.ShouldBindJSON(&body)

	var record *auth.UserRecord
	if r, err := a.Auth.GetUser(c.Request.Context(), userID); err == nil {
		record = r
	}

	email := strings.TrimSpace(firstOf(claimStr(token, "email"), recordEmail(record), body.Email))
	displayName := strings.TrimSpace(firstOf(claimStr(token, "name"), recordName(record), body.DisplayName))
	photoURL := firstOf(claimStr(token, "picture"), recordPhoto(record), body.PhotoURL)

	u, err := a.Store.Users.ByID(c.Request.Context(), userID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			serverError(c, requestID, "Failed to fetch user", err)
			return
		}

		now := time.Now()
		u = &model.User{
			UID:         userID,
			Email:       email,
			DisplayName: displayName,
			PhotoURL:    photoURL,
			Role:        model.DefaultRole,
			Workspaces:  []string{},
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if err := a.Store.Users.Create(c.Request.Context(), u); err != nil {
			serverError(c, requestID, "Failed to create user", err)
			return
		}
	} else {
		patch := map[string]any{}
		if u.DisplayName == "" && displayName != "" {
			patch["displayName"] = displayName
			u.DisplayName = displayName
		}
		if u.PhotoURL == "" && photoURL != "" {
			patch["photoURL"] = photoURL
			u.PhotoURL = photoURL
		}
		if u.Email == "" && email != "" {
			patch["email"] = email
			u.Email = email
		}

		if len(patch) != 0 {
			if err := a.Store.Users.Patch(c.Request.Context(), userID, patch); err != nil {
				serverError(c, requestID, "Failed to backfill user profile", err)
				return
			}
		}
	}

	zap.L().Debug("Session established", zap.String("userID", userID), zap.String("requestID", requestID))

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"uid":         u.UID,
			"email":       u.Email,
			"displayName": u.DisplayName,
			"photoURL":    u.PhotoURL,
			"role":        u.Role,
		},
	})
}

// AuthMe returns the caller's user document, creating a minimal one from
// the identity provider's record when it doesn't exist yet
func (a *API) AuthMe(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	u, err := a.Store.Users.ByID(c.Request.Context(), userID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			serverError(c, requestID, "Failed to fetch user", err)
			return
		}

		var record *auth.UserRecord
		if r, err := a.Auth.GetUser(c.Request.Context(), userID); err == nil {
			record = r
		}

		now := time.Now()
		u = &model.User{
			UID:         userID,
			Email:       recordEmail(record),
			DisplayName: recordName(record),
			PhotoURL:    recordPhoto(record),
			Role:        model.DefaultRole,
			Workspaces:  []string{},
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if err := a.Store.Users.Create(c.Request.Context(), u); err != nil {
			serverError(c, requestID, "Failed to create user", err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"uid":         u.UID,
			"email":       u.Email,
			"displayName": u.DisplayName,
			"photoURL":    u.PhotoURL,
			"role":        u.Role,
		},
	})
}

func claimStr(t *auth.Token, key string) string {
	if v, ok := t.Claims[key].(string); ok {
		return v
	}
	return ""
}

func recordEmail(r *auth.UserRecord) string {
	if r == nil {
		return ""
	}
	return r.Email
}

func recordName(r *auth.UserRecord) string {
	if r == nil {
		return ""
	}
	return r.DisplayName
}

func recordPhoto(r *auth.UserRecord) string {
	if r == nil {
		return ""
	}
	return r.PhotoURL
}

func firstOf(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
