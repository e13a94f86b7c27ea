package api

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"frameloop/review-api/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (fx *fixture) uploadVideo(t *testing.T, uid, workspaceID, title string) string {
	t.Helper()

	w := fx.upload(t, "/api/videos/upload", uid, map[string]string{
		"title":       title,
		"workspaceId": workspaceID,
	}, map[string]string{"video": "cut.mp4"})
	require.Equal(t, http.StatusCreated, w.Code)

	resp := decode[map[string]map[string]string](t, w)
	return resp["video"]["id"]
}

func TestVideoUpload(t *testing.T) {
	fx := newFixture(t)
	ws := fx.seedWorkspace(t, "alice", "bob")

	videoID := fx.uploadVideo(t, "bob", ws.ID, "Demo")

	v, err := fx.store.Videos.ByID(context.Background(), videoID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInReview, v.Status)
	assert.Equal(t, 1, v.CurrentVersion)
	assert.False(t, v.Published)
	assert.Equal(t, "bob", v.Owner)
	assert.Equal(t, ws.ID, v.WorkspaceID)

	ver, err := fx.store.Videos.LatestVersion(context.Background(), videoID)
	require.NoError(t, err)
	assert.Equal(t, 1, ver.VersionNumber)
	assert.NotEmpty(t, ver.VideoURL)
	require.Len(t, ver.Qualities, 1)
	assert.Equal(t, "source", ver.Qualities[0].Quality)
	assert.Equal(t, ver.VideoURL, ver.Qualities[0].URL)

	// Denormalized list got the ID
	got, err := fx.store.Workspaces.ByID(context.Background(), ws.ID)
	require.NoError(t, err)
	assert.Contains(t, got.Videos, videoID)

	// Everyone but the uploader was notified
	owner, err := fx.store.Notifications.ByUser(context.Background(), "alice", 50)
	require.NoError(t, err)
	require.Len(t, owner, 1)
	assert.Equal(t, model.NotifyUpload, owner[0].Type)

	uploader, err := fx.store.Notifications.ByUser(context.Background(), "bob", 50)
	require.NoError(t, err)
	assert.Empty(t, uploader)
}

func TestVideoUploadValidation(t *testing.T) {
	fx := newFixture(t)
	ws := fx.seedWorkspace(t, "alice")
	fx.seedUser(t, "mallory", "Mallory")

	// Missing title
	w := fx.upload(t, "/api/videos/upload", "alice", map[string]string{
		"workspaceId": ws.ID,
	}, map[string]string{"video": "cut.mp4"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Missing file
	w = fx.upload(t, "/api/videos/upload", "alice", map[string]string{
		"title":       "Demo",
		"workspaceId": ws.ID,
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Non-video extension with non-video content
	w = fx.upload(t, "/api/videos/upload", "alice", map[string]string{
		"title":       "Demo",
		"workspaceId": ws.ID,
	}, map[string]string{"video": "notes.txt"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Outsider
	w = fx.upload(t, "/api/videos/upload", "mallory", map[string]string{
		"title":       "Demo",
		"workspaceId": ws.ID,
	}, map[string]string{"video": "cut.mp4"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestVersionNumbering(t *testing.T) {
	fx := newFixture(t)
	ws := fx.seedWorkspace(t, "alice")
	videoID := fx.uploadVideo(t, "alice", ws.ID, "Demo")

	for i := 2; i <= 5; i++ {
		w := fx.upload(t, "/api/videos/"+videoID+"/versions", "alice",
			map[string]string{}, map[string]string{"video": fmt.Sprintf("cut-%d.mp4", i)})
		require.Equal(t, http.StatusCreated, w.Code)

		resp := decode[map[string]model.Version](t, w)
		ver := resp["version"]
		assert.Equal(t, i, ver.VersionNumber)
		assert.Equal(t, fmt.Sprintf("Version %d", i), ver.Title, "title defaults to the version number")
	}

	v, err := fx.store.Videos.ByID(context.Background(), videoID)
	require.NoError(t, err)
	assert.Equal(t, 5, v.CurrentVersion)
	assert.Equal(t, model.StatusInReview, v.Status, "version uploads never change status")

	// No notifications for version uploads
	n, err := fx.store.Notifications.ByUser(context.Background(), "alice", 50)
	require.NoError(t, err)
	assert.Empty(t, n)
}

func TestVideoFetchMergesLatestVersion(t *testing.T) {
	fx := newFixture(t)
	ws := fx.seedWorkspace(t, "alice")
	videoID := fx.uploadVideo(t, "alice", ws.ID, "Demo")

	w := fx.upload(t, "/api/videos/"+videoID+"/versions", "alice",
		map[string]string{"title": "Final cut"}, map[string]string{"video": "final.mp4"})
	require.Equal(t, http.StatusCreated, w.Code)

	detail := decode[videoDetail](t, fx.do(t, http.MethodGet, "/api/videos/"+videoID, "alice", nil))
	assert.Equal(t, 2, detail.Version)
	require.NotNil(t, detail.LatestVersion)
	assert.Equal(t, detail.LatestVersion.VideoURL, detail.URL)
	assert.Contains(t, detail.URL, "final.mp4")
}

func TestVideoListingOrder(t *testing.T) {
	fx := newFixture(t)
	ws := fx.seedWorkspace(t, "alice")

	ids := []string{}
	for i := range 3 {
		ids = append(ids, fx.uploadVideo(t, "alice", ws.ID, fmt.Sprintf("Video %d", i)))
	}

	// Touch the oldest video so it should list first
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, fx.store.Videos.SetCurrentVersion(context.Background(), ids[0], 1))

	videos := decode[[]model.Video](t, fx.do(t, http.MethodGet, "/api/videos/workspace/"+ws.ID, "alice", nil))
	require.Len(t, videos, 3)
	assert.Equal(t, ids[0], videos[0].ID)

	for i := 0; i < len(videos)-1; i++ {
		assert.False(t, videos[i].UpdatedAt.Before(videos[i+1].UpdatedAt), "listing must be updatedAt descending")
	}
}

func TestVideoStatusTransitions(t *testing.T) {
	fx := newFixture(t)
	ws := fx.seedWorkspace(t, "alice", "bob", "carol", "dave")
	videoID := fx.uploadVideo(t, "alice", ws.ID, "Demo")

	// Members can't change status
	w := fx.do(t, http.MethodPatch, "/api/videos/"+videoID+"/status", "bob", map[string]any{"status": "approved"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Enum is enforced
	w = fx.do(t, http.MethodPatch, "/api/videos/"+videoID+"/status", "alice", map[string]any{"status": "archived"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = fx.do(t, http.MethodPatch, "/api/videos/"+videoID+"/status", "alice", map[string]any{"status": "approved"})
	require.Equal(t, http.StatusOK, w.Code)

	v := decode[model.Video](t, w)
	assert.Equal(t, model.StatusApproved, v.Status)

	// Fan-out reaches all three members, typed as an approval. Each
	// already holds the upload notification from the initial upload
	for _, uid := range []string{"bob", "carol", "dave"} {
		n, err := fx.store.Notifications.ByUser(context.Background(), uid, 50)
		require.NoError(t, err)
		require.Len(t, n, 2, "member %s", uid)
		assert.Equal(t, model.NotifyApproval, n[0].Type)
	}

	actor, err := fx.store.Notifications.ByUser(context.Background(), "alice", 50)
	require.NoError(t, err)
	assert.Empty(t, actor, "the actor is never notified")

	// Terminal states can move back
	w = fx.do(t, http.MethodPatch, "/api/videos/"+videoID+"/status", "alice", map[string]any{"status": "rejected"})
	require.Equal(t, http.StatusOK, w.Code)

	n, err := fx.store.Notifications.ByUser(context.Background(), "bob", 50)
	require.NoError(t, err)
	require.Len(t, n, 3)
	assert.Equal(t, model.NotifyStatus, n[0].Type, "non-approval transitions use the status type")
}

func TestVideoStubPublish(t *testing.T) {
	fx := newFixture(t)
	ws := fx.seedWorkspace(t, "alice", "bob")
	videoID := fx.uploadVideo(t, "alice", ws.ID, "Demo")

	// Members can't stub-publish
	assert.Equal(t, http.StatusForbidden, fx.do(t, http.MethodPost, "/api/videos/"+videoID+"/publish", "bob", nil).Code)

	w := fx.do(t, http.MethodPost, "/api/videos/"+videoID+"/publish", "alice", map[string]any{"title": "Public title"})
	require.Equal(t, http.StatusOK, w.Code)

	v := decode[model.Video](t, w)
	assert.True(t, v.Published)
	assert.Equal(t, model.StatusApproved, v.Status)
	require.NotNil(t, v.PublishMeta)
	assert.Equal(t, "Public title", v.PublishMeta.Title)
}
