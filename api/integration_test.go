package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"frameloop/review-api/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePlatform mimics the external video platform's API surface
type fakePlatform struct {
	mu       sync.Mutex
	server   *httptest.Server
	channels []map[string]string
	uploads  []uploadRecord
	secret   string
}

type uploadRecord struct {
	Endpoint  string
	Bearer    string
	ChannelID string
	Secret    string
	Title     string
	VideoSize int
}

func newFakePlatform(t *testing.T) *fakePlatform {
	t.Helper()

	p := &fakePlatform{secret: "s3cret-token"}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/channels/my-channels", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		p.mu.Lock()
		defer p.mu.Unlock()
		json.NewEncoder(w).Encode(p.channels)
	})
	mux.HandleFunc("POST /api/channels", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)

		ch := map[string]string{
			"id":     "ch-created",
			"name":   body["name"],
			"handle": body["handle"],
		}
		p.mu.Lock()
		p.channels = append(p.channels, ch)
		p.mu.Unlock()

		json.NewEncoder(w).Encode(map[string]any{"channel": ch})
	})
	mux.HandleFunc("POST /api/channels/{id}/regenerate-secret", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"channelLinkSecret": p.secret})
	})
	mux.HandleFunc("POST /api/videos/upload", func(w http.ResponseWriter, r *http.Request) {
		p.recordUpload(t, w, r, "upload")
	})
	mux.HandleFunc("POST /api/videos/upload-by-secret", func(w http.ResponseWriter, r *http.Request) {
		p.recordUpload(t, w, r, "upload-by-secret")
	})

	p.server = httptest.NewServer(mux)
	t.Cleanup(p.server.Close)
	return p
}

func (p *fakePlatform) recordUpload(t *testing.T, w http.ResponseWriter, r *http.Request, endpoint string) {
	t.Helper()

	require.NoError(t, r.ParseMultipartForm(32<<20))

	f, _, err := r.FormFile("video")
	require.NoError(t, err)
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	f.Close()

	rec := uploadRecord{
		Endpoint:  endpoint,
		Bearer:    strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "),
		ChannelID: r.FormValue("channelId"),
		Secret:    r.FormValue("secret"),
		Title:     r.FormValue("title"),
		VideoSize: len(data),
	}

	if endpoint == "upload-by-secret" && rec.Secret != p.secret {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid channel secret"})
		return
	}

	p.mu.Lock()
	p.uploads = append(p.uploads, rec)
	p.mu.Unlock()

	json.NewEncoder(w).Encode(map[string]string{"id": "remote-video-1", "title": rec.Title})
}

func TestIntegrationConnectValidation(t *testing.T) {
	fx := newFixture(t)
	ws := fx.seedWorkspace(t, "alice")

	cases := []map[string]any{
		// Neither credential shape
		{"workspaceId": ws.ID, "baseUrl": "http://yt.example.com"},
		// Both at once
		{"workspaceId": ws.ID, "baseUrl": "http://yt.example.com", "token": "tok", "channelId": "ch", "channelLinkSecret": "sec"},
		// Half of the secret pair counts as neither
		{"workspaceId": ws.ID, "baseUrl": "http://yt.example.com", "channelId": "ch"},
		// Missing baseUrl
		{"workspaceId": ws.ID, "token": "tok"},
		// Missing workspaceId
		{"baseUrl": "http://yt.example.com", "token": "tok"},
	}

	for _, body := range cases {
		w := fx.do(t, http.MethodPost, "/api/integrations/youtube-clone/connect", "alice", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}

	got, err := fx.store.Workspaces.ByID(context.Background(), ws.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Integrations.YouTubeClone, "rejected connects must not store anything")
}

func TestIntegrationConnectOwnerOnly(t *testing.T) {
	fx := newFixture(t)
	ws := fx.seedWorkspace(t, "alice", "bob")

	w := fx.do(t, http.MethodPost, "/api/integrations/youtube-clone/connect", "bob", map[string]any{
		"workspaceId":       ws.ID,
		"baseUrl":           "http://yt.example.com",
		"channelId":         "ch",
		"channelLinkSecret": "sec",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestIntegrationConnectSecretMode(t *testing.T) {
	fx := newFixture(t)
	ws := fx.seedWorkspace(t, "alice")

	w := fx.do(t, http.MethodPost, "/api/integrations/youtube-clone/connect", "alice", map[string]any{
		"workspaceId":       ws.ID,
		"baseUrl":           "http://yt.example.com/",
		"channelId":         "ch-9",
		"channelLinkSecret": "super-secret",
	})
	require.Equal(t, http.StatusOK, w.Code)

	got, err := fx.store.Workspaces.ByID(context.Background(), ws.ID)
	require.NoError(t, err)
	integ := got.Integrations.YouTubeClone
	require.NotNil(t, integ)
	assert.Equal(t, "http://yt.example.com", integ.BaseURL, "trailing slash is trimmed")
	assert.Equal(t, "ch-9", integ.ChannelID)
	assert.Equal(t, "super-secret", integ.ChannelLinkSecret)
	assert.Empty(t, integ.Token)
	assert.Equal(t, "alice", integ.ConnectedBy)
}

func TestIntegrationConnectTokenAdoptsChannel(t *testing.T) {
	fx := newFixture(t)
	platform := newFakePlatform(t)
	platform.channels = []map[string]string{{"id": "ch-1", "name": "Existing Channel"}}

	ws := fx.seedWorkspace(t, "alice")

	w := fx.do(t, http.MethodPost, "/api/integrations/youtube-clone/connect", "alice", map[string]any{
		"workspaceId": ws.ID,
		"baseUrl":     platform.server.URL,
		"token":       "tok-alice",
	})
	require.Equal(t, http.StatusOK, w.Code)

	got, err := fx.store.Workspaces.ByID(context.Background(), ws.ID)
	require.NoError(t, err)
	integ := got.Integrations.YouTubeClone
	require.NotNil(t, integ)
	assert.Equal(t, "ch-1", integ.ChannelID)
	assert.Equal(t, "Existing Channel", integ.ChannelName)
	assert.Equal(t, "tok-alice", integ.Token)
	assert.Equal(t, platform.secret, integ.ChannelLinkSecret, "secret is fetched opportunistically")
}

func TestIntegrationConnectTokenCreatesChannel(t *testing.T) {
	fx := newFixture(t)
	platform := newFakePlatform(t)
	ws := fx.seedWorkspace(t, "alice")

	// Without a channelName there is nothing to adopt or create
	w := fx.do(t, http.MethodPost, "/api/integrations/youtube-clone/connect", "alice", map[string]any{
		"workspaceId": ws.ID,
		"baseUrl":     platform.server.URL,
		"token":       "tok-alice",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = fx.do(t, http.MethodPost, "/api/integrations/youtube-clone/connect", "alice", map[string]any{
		"workspaceId": ws.ID,
		"baseUrl":     platform.server.URL,
		"token":       "tok-alice",
		"channelName": "My Review Channel!!",
	})
	require.Equal(t, http.StatusOK, w.Code)

	platform.mu.Lock()
	require.Len(t, platform.channels, 1)
	assert.Equal(t, "my-review-channel", platform.channels[0]["handle"], "handle is sanitized from the name")
	platform.mu.Unlock()

	got, err := fx.store.Workspaces.ByID(context.Background(), ws.ID)
	require.NoError(t, err)
	assert.Equal(t, "ch-created", got.Integrations.YouTubeClone.ChannelID)
}

func TestIntegrationStatus(t *testing.T) {
	fx := newFixture(t)
	ws := fx.seedWorkspace(t, "alice", "bob")
	fx.seedUser(t, "mallory", "Mallory")

	// Not connected yet
	w := fx.do(t, http.MethodGet, "/api/integrations/youtube-clone/status?workspaceId="+ws.ID, "bob", nil)
	require.Equal(t, http.StatusOK, w.Code)
	status := decode[map[string]any](t, w)
	assert.Equal(t, false, status["connected"])
	assert.Equal(t, false, status["isOwner"])

	// Member gated
	assert.Equal(t, http.StatusForbidden, fx.do(t, http.MethodGet, "/api/integrations/youtube-clone/status?workspaceId="+ws.ID, "mallory", nil).Code)
	assert.Equal(t, http.StatusBadRequest, fx.do(t, http.MethodGet, "/api/integrations/youtube-clone/status", "alice", nil).Code)

	require.Equal(t, http.StatusOK, fx.do(t, http.MethodPost, "/api/integrations/youtube-clone/connect", "alice", map[string]any{
		"workspaceId":       ws.ID,
		"baseUrl":           "http://yt.example.com",
		"channelId":         "ch-9",
		"channelName":       "Connected",
		"channelLinkSecret": "sec",
	}).Code)

	w = fx.do(t, http.MethodGet, "/api/integrations/youtube-clone/status?workspaceId="+ws.ID, "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	status = decode[map[string]any](t, w)
	assert.Equal(t, true, status["connected"])
	assert.Equal(t, true, status["isOwner"])
	assert.Equal(t, "ch-9", status["channelId"])
	assert.NotContains(t, w.Body.String(), "sec\"", "the secret never leaves the server")
}

func TestIntegrationPublishSecretPath(t *testing.T) {
	fx := newFixture(t)
	platform := newFakePlatform(t)
	ws := fx.seedWorkspace(t, "alice", "bob")
	videoID := fx.uploadVideo(t, "alice", ws.ID, "Demo")

	require.Equal(t, http.StatusOK, fx.do(t, http.MethodPost, "/api/integrations/youtube-clone/connect", "alice", map[string]any{
		"workspaceId":       ws.ID,
		"baseUrl":           platform.server.URL,
		"channelId":         "ch-9",
		"channelLinkSecret": platform.secret,
	}).Code)

	// Members without publish rights are rejected
	assert.Equal(t, http.StatusForbidden, fx.do(t, http.MethodPost, "/api/integrations/youtube-clone/publish/"+videoID, "bob", nil).Code)

	require.Equal(t, http.StatusOK, fx.do(t, http.MethodPost, "/api/workspaces/"+ws.ID+"/publishers/bob", "alice", nil).Code)

	w := fx.do(t, http.MethodPost, "/api/integrations/youtube-clone/publish/"+videoID, "bob", nil)
	require.Equal(t, http.StatusOK, w.Code)

	platform.mu.Lock()
	require.Len(t, platform.uploads, 1)
	up := platform.uploads[0]
	platform.mu.Unlock()

	assert.Equal(t, "upload-by-secret", up.Endpoint)
	assert.Equal(t, "ch-9", up.ChannelID)
	assert.Equal(t, platform.secret, up.Secret)
	assert.Empty(t, up.Bearer)
	assert.Equal(t, "Demo", up.Title)
	assert.Greater(t, up.VideoSize, 0, "the stored bytes are streamed through")

	v, err := fx.store.Videos.ByID(context.Background(), videoID)
	require.NoError(t, err)
	assert.True(t, v.Published)
	assert.Equal(t, model.StatusApproved, v.Status)
	require.NotNil(t, v.PublishMeta)
	assert.Equal(t, "youtube-clone", v.PublishMeta.Platform)
	assert.Equal(t, "ch-9", v.PublishMeta.ChannelID)
	assert.Contains(t, string(v.PublishMeta.RemoteVideo), "remote-video-1")
}

func TestIntegrationPublishTokenPath(t *testing.T) {
	fx := newFixture(t)
	platform := newFakePlatform(t)
	platform.channels = []map[string]string{{"id": "ch-1", "name": "Mine"}}
	platform.secret = "" // regenerate returns an empty secret, forcing the token path

	ws := fx.seedWorkspace(t, "alice")
	videoID := fx.uploadVideo(t, "alice", ws.ID, "Demo")

	require.Equal(t, http.StatusOK, fx.do(t, http.MethodPost, "/api/integrations/youtube-clone/connect", "alice", map[string]any{
		"workspaceId": ws.ID,
		"baseUrl":     platform.server.URL,
		"token":       "tok-alice",
	}).Code)

	w := fx.do(t, http.MethodPost, "/api/integrations/youtube-clone/publish/"+videoID, "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)

	platform.mu.Lock()
	require.Len(t, platform.uploads, 1)
	up := platform.uploads[0]
	platform.mu.Unlock()

	assert.Equal(t, "upload", up.Endpoint)
	assert.Equal(t, "tok-alice", up.Bearer)
	assert.Empty(t, up.Secret)
}

func TestIntegrationPublishRemoteFailure(t *testing.T) {
	fx := newFixture(t)
	platform := newFakePlatform(t)
	ws := fx.seedWorkspace(t, "alice")
	videoID := fx.uploadVideo(t, "alice", ws.ID, "Demo")

	require.Equal(t, http.StatusOK, fx.do(t, http.MethodPost, "/api/integrations/youtube-clone/connect", "alice", map[string]any{
		"workspaceId":       ws.ID,
		"baseUrl":           platform.server.URL,
		"channelId":         "ch-9",
		"channelLinkSecret": "wrong-secret",
	}).Code)

	w := fx.do(t, http.MethodPost, "/api/integrations/youtube-clone/publish/"+videoID, "alice", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "invalid channel secret", "the remote message is surfaced")

	// The video stays untouched, a retry is the caller's job
	v, err := fx.store.Videos.ByID(context.Background(), videoID)
	require.NoError(t, err)
	assert.False(t, v.Published)
	assert.Equal(t, model.StatusInReview, v.Status)
	assert.Nil(t, v.PublishMeta)
}

func TestIntegrationPublishNotConnected(t *testing.T) {
	fx := newFixture(t)
	ws := fx.seedWorkspace(t, "alice")
	videoID := fx.uploadVideo(t, "alice", ws.ID, "Demo")

	w := fx.do(t, http.MethodPost, "/api/integrations/youtube-clone/publish/"+videoID, "alice", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// The full review-to-publish flow from a fresh workspace
func TestPublishEndToEnd(t *testing.T) {
	fx := newFixture(t)
	platform := newFakePlatform(t)

	ws := fx.seedWorkspace(t, "alice", "bob")

	videoID := fx.uploadVideo(t, "alice", ws.ID, "Demo")
	v, err := fx.store.Videos.ByID(context.Background(), videoID)
	require.NoError(t, err)
	require.Equal(t, model.StatusInReview, v.Status)
	require.Equal(t, 1, v.CurrentVersion)

	require.Equal(t, http.StatusOK, fx.do(t, http.MethodPost, "/api/integrations/youtube-clone/connect", "alice", map[string]any{
		"workspaceId":       ws.ID,
		"baseUrl":           platform.server.URL,
		"channelId":         "ch-42",
		"channelLinkSecret": platform.secret,
	}).Code)

	require.Equal(t, http.StatusOK, fx.do(t, http.MethodPost, "/api/workspaces/"+ws.ID+"/publishers/bob", "alice", nil).Code)

	w := fx.do(t, http.MethodPost, "/api/integrations/youtube-clone/publish/"+videoID, "bob", nil)
	require.Equal(t, http.StatusOK, w.Code)

	v, err = fx.store.Videos.ByID(context.Background(), videoID)
	require.NoError(t, err)
	assert.True(t, v.Published)
	assert.Equal(t, model.StatusApproved, v.Status)
	require.NotNil(t, v.PublishMeta)
	assert.Equal(t, "youtube-clone", v.PublishMeta.Platform)
}
