package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"frameloop/review-api/model"
	"frameloop/review-api/service"
	"frameloop/review-api/store"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

// fixture wires the router against the in-memory store, an in-memory
// object store served over httptest, and a token verifier that treats
// the bearer token as the UID
type fixture struct {
	api   *API
	store *store.Store
	files *fakeStorage
	auth  *fakeAuth
	blobs *httptest.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	viper.Set("upload.max_size", int64(100<<20))
	viper.Set("storage.type", "")
	viper.Set("host.cors_origins", []string{"http://localhost:5173"})

	files := &fakeStorage{objects: map[string][]byte{}}
	blobs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		files.mu.Lock()
		b, ok := files.objects[strings.TrimPrefix(r.URL.Path, "/")]
		files.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write(b)
	}))
	t.Cleanup(blobs.Close)
	files.baseURL = blobs.URL

	st, _ := store.NewMemory()
	fa := &fakeAuth{users: map[string]*auth.UserRecord{}}

	a := NewRouter(Deps{
		Store:    st,
		Storage:  files,
		Auth:     fa,
		Platform: service.NewYTClone(),
	})

	return &fixture{api: a, store: st, files: files, auth: fa, blobs: blobs}
}

type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	baseURL string
}

func (f *fakeStorage) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) (string, error) {
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}

	f.mu.Lock()
	f.objects[key] = b
	f.mu.Unlock()

	return f.baseURL + "/" + key, nil
}

type fakeAuth struct {
	users map[string]*auth.UserRecord
}

func (f *fakeAuth) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	if idToken == "" || strings.HasPrefix(idToken, "bad-") {
		return nil, errors.New("token verification failed")
	}
	return &auth.Token{
		UID: idToken,
		Claims: map[string]any{
			"email": idToken + "@example.com",
			"name":  "User " + idToken,
		},
	}, nil
}

func (f *fakeAuth) GetUser(_ context.Context, uid string) (*auth.UserRecord, error) {
	if u, ok := f.users[uid]; ok {
		return u, nil
	}
	return nil, errors.New("no user record")
}

// seedUser creates a user document directly in the store
func (fx *fixture) seedUser(t *testing.T, uid, displayName string) *model.User {
	t.Helper()

	u := &model.User{
		UID:         uid,
		Email:       uid + "@example.com",
		DisplayName: displayName,
		Role:        model.DefaultRole,
		Workspaces:  []string{},
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	require.NoError(t, fx.store.Users.Create(context.Background(), u))
	return u
}

// seedWorkspace creates a workspace owned by owner with the given extra
// members
func (fx *fixture) seedWorkspace(t *testing.T, owner string, members ...string) *model.Workspace {
	t.Helper()

	for _, uid := range append([]string{owner}, members...) {
		if _, err := fx.store.Users.ByID(context.Background(), uid); err != nil {
			fx.seedUser(t, uid, "User "+uid)
		}
	}

	body := map[string]any{"name": "Workspace of " + owner}
	w := fx.do(t, http.MethodPost, "/api/workspaces", owner, body)
	require.Equal(t, http.StatusCreated, w.Code)

	var ws model.Workspace
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ws))

	for _, m := range members {
		r := fx.do(t, http.MethodPost, "/api/workspaces/"+ws.ID+"/members", owner, map[string]any{"email": m + "@example.com"})
		require.Equal(t, http.StatusOK, r.Code)
	}

	got, err := fx.store.Workspaces.ByID(context.Background(), ws.ID)
	require.NoError(t, err)
	return got
}

func (fx *fixture) do(t *testing.T, method, path, uid string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if uid != "" {
		req.Header.Set("Authorization", "Bearer "+uid)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	fx.api.Router.ServeHTTP(w, req)
	return w
}

// upload sends a multipart request with the given form fields and fake
// file contents keyed by field name -> filename
func (fx *fixture) upload(t *testing.T, path, uid string, fields map[string]string, filenames map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for field, name := range filenames {
		part, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write([]byte(fmt.Sprintf("fake contents of %s", name)))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Authorization", "Bearer "+uid)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	w := httptest.NewRecorder()
	fx.api.Router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
