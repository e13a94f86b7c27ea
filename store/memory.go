package store

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"frameloop/review-api/model"
)

// Memory is a map-backed Store implementation with the same observable
// behavior as the Mongo one. It backs the handler tests so they don't need
// a running database
type Memory struct {
	mu            sync.RWMutex
	users         map[string]*model.User
	workspaces    map[string]*model.Workspace
	videos        map[string]*model.Video
	versions      map[string]*model.Version
	comments      map[string]*model.Comment
	notifications map[string]*model.Notification
}

func NewMemory() (*Store, *Memory) {
	m := &Memory{
		users:         map[string]*model.User{},
		workspaces:    map[string]*model.Workspace{},
		videos:        map[string]*model.Video{},
		versions:      map[string]*model.Version{},
		comments:      map[string]*model.Comment{},
		notifications: map[string]*model.Notification{},
	}
	return &Store{
		Users:         (*memUsers)(m),
		Workspaces:    (*memWorkspaces)(m),
		Videos:        (*memVideos)(m),
		Comments:      (*memComments)(m),
		Notifications: (*memNotifications)(m),
	}, m
}

type memUsers Memory

func (m *memUsers) Create(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *u
	m.users[u.UID] = &cp
	return nil
}

func (m *memUsers) ByID(_ context.Context, uid string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[uid]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) ByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memUsers) Patch(_ context.Context, uid string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[uid]
	if !ok {
		return ErrNotFound
	}
	for k, v := range fields {
		s, _ := v.(string)
		switch k {
		case "displayName":
			u.DisplayName = s
		case "photoURL":
			u.PhotoURL = s
		case "email":
			u.Email = s
		case "role":
			u.Role = s
		}
	}
	u.UpdatedAt = time.Now()
	return nil
}

func (m *memUsers) AddWorkspace(_ context.Context, uid, workspaceID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[uid]
	if !ok {
		return nil
	}
	if !slices.Contains(u.Workspaces, workspaceID) {
		u.Workspaces = append(u.Workspaces, workspaceID)
	}
	u.UpdatedAt = time.Now()
	return nil
}

func (m *memUsers) RemoveWorkspace(_ context.Context, uid, workspaceID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[uid]
	if !ok {
		return nil
	}
	u.Workspaces = remove(u.Workspaces, workspaceID)
	u.UpdatedAt = time.Now()
	return nil
}

type memWorkspaces Memory

func (m *memWorkspaces) Create(_ context.Context, w *model.Workspace) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *w
	m.workspaces[w.ID] = &cp
	return nil
}

func (m *memWorkspaces) ByID(_ context.Context, id string) (*model.Workspace, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.workspace(id)
}

func (m *memWorkspaces) workspace(id string) (*model.Workspace, error) {
	w, ok := m.workspaces[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *w
	cp.Members = slices.Clone(w.Members)
	cp.Publishers = slices.Clone(w.Publishers)
	cp.Videos = slices.Clone(w.Videos)
	if w.Integrations.YouTubeClone != nil {
		integ := *w.Integrations.YouTubeClone
		cp.Integrations.YouTubeClone = &integ
	}
	return &cp, nil
}

func (m *memWorkspaces) ForMember(_ context.Context, uid string) ([]model.Workspace, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []model.Workspace{}
	for id, w := range m.workspaces {
		if slices.Contains(w.Members, uid) {
			cp, _ := m.workspace(id)
			out = append(out, *cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memWorkspaces) Update(_ context.Context, id string, upd WorkspaceUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.workspaces[id]
	if !ok {
		return ErrNotFound
	}
	if upd.Name != nil {
		w.Name = *upd.Name
	}
	if upd.Description != nil {
		w.Description = *upd.Description
	}
	w.UpdatedAt = time.Now()
	return nil
}

func (m *memWorkspaces) AddMember(_ context.Context, id, uid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.workspaces[id]
	if !ok {
		return ErrNotFound
	}
	if !slices.Contains(w.Members, uid) {
		w.Members = append(w.Members, uid)
	}
	w.UpdatedAt = time.Now()
	return nil
}

func (m *memWorkspaces) RemoveMember(_ context.Context, id, uid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.workspaces[id]
	if !ok {
		return ErrNotFound
	}
	w.Members = remove(w.Members, uid)
	w.Publishers = remove(w.Publishers, uid)
	w.UpdatedAt = time.Now()
	return nil
}

func (m *memWorkspaces) GrantPublisher(_ context.Context, id, uid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.workspaces[id]
	if !ok {
		return ErrNotFound
	}
	if !slices.Contains(w.Publishers, uid) {
		w.Publishers = append(w.Publishers, uid)
	}
	w.UpdatedAt = time.Now()
	return nil
}

func (m *memWorkspaces) RevokePublisher(_ context.Context, id, uid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.workspaces[id]
	if !ok {
		return ErrNotFound
	}
	w.Publishers = remove(w.Publishers, uid)
	w.UpdatedAt = time.Now()
	return nil
}

func (m *memWorkspaces) AppendVideo(_ context.Context, id, videoID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.workspaces[id]
	if !ok {
		return ErrNotFound
	}
	if !slices.Contains(w.Videos, videoID) {
		w.Videos = append(w.Videos, videoID)
	}
	w.UpdatedAt = time.Now()
	return nil
}

func (m *memWorkspaces) SetIntegration(_ context.Context, id string, integ *model.YTCloneIntegration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.workspaces[id]
	if !ok {
		return ErrNotFound
	}

	merged := model.YTCloneIntegration{}
	if w.Integrations.YouTubeClone != nil {
		merged = *w.Integrations.YouTubeClone
	}
	if integ.BaseURL != "" {
		merged.BaseURL = integ.BaseURL
	}
	if integ.Token != "" {
		merged.Token = integ.Token
	}
	if integ.ChannelID != "" {
		merged.ChannelID = integ.ChannelID
	}
	if integ.ChannelName != "" {
		merged.ChannelName = integ.ChannelName
	}
	if integ.ChannelLinkSecret != "" {
		merged.ChannelLinkSecret = integ.ChannelLinkSecret
	}
	if !integ.ConnectedAt.IsZero() {
		merged.ConnectedAt = integ.ConnectedAt
	}
	if integ.ConnectedBy != "" {
		merged.ConnectedBy = integ.ConnectedBy
	}

	w.Integrations.YouTubeClone = &merged
	w.UpdatedAt = time.Now()
	return nil
}

func (m *memWorkspaces) Delete(_ context.Context, id string, memberUIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.workspaces[id]; !ok {
		return ErrNotFound
	}
	for _, uid := range memberUIDs {
		if u, ok := m.users[uid]; ok {
			u.Workspaces = remove(u.Workspaces, id)
			u.UpdatedAt = time.Now()
		}
	}
	delete(m.workspaces, id)
	return nil
}

type memVideos Memory

func (m *memVideos) Create(_ context.Context, v *model.Video) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *v
	m.videos[v.ID] = &cp
	return nil
}

func (m *memVideos) ByID(_ context.Context, id string) (*model.Video, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.videos[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (m *memVideos) ByWorkspace(_ context.Context, workspaceID string) ([]model.Video, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []model.Video{}
	for _, v := range m.videos {
		if v.WorkspaceID == workspaceID {
			out = append(out, *v)
		}
	}
	SortVideosByUpdatedAt(out)
	return out, nil
}

func (m *memVideos) UpdateStatus(_ context.Context, id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.videos[id]
	if !ok {
		return ErrNotFound
	}
	v.Status = status
	v.UpdatedAt = time.Now()
	return nil
}

func (m *memVideos) SetCurrentVersion(_ context.Context, id string, n int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.videos[id]
	if !ok {
		return ErrNotFound
	}
	v.CurrentVersion = n
	v.UpdatedAt = time.Now()
	return nil
}

func (m *memVideos) MarkPublished(_ context.Context, id string, meta *model.PublishMeta) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.videos[id]
	if !ok {
		return ErrNotFound
	}
	v.Published = true
	v.Status = model.StatusApproved
	v.PublishMeta = meta
	v.UpdatedAt = time.Now()
	return nil
}

func (m *memVideos) CreateVersion(_ context.Context, v *model.Version) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *v
	m.versions[v.ID] = &cp
	return nil
}

func (m *memVideos) LatestVersion(_ context.Context, videoID string) (*model.Version, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var latest *model.Version
	for _, v := range m.versions {
		if v.VideoID != videoID {
			continue
		}
		if latest == nil || v.VersionNumber > latest.VersionNumber {
			latest = v
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

type memComments Memory

func (m *memComments) Create(_ context.Context, c *model.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *c
	m.comments[c.ID] = &cp
	return nil
}

func (m *memComments) ByVideo(_ context.Context, videoID string) ([]model.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []model.Comment{}
	for _, c := range m.comments {
		if c.VideoID == videoID {
			out = append(out, *c)
		}
	}
	SortCommentsByTimestamp(out)
	return out, nil
}

type memNotifications Memory

func (m *memNotifications) CreateBatch(_ context.Context, ns []model.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range ns {
		cp := ns[i]
		m.notifications[cp.ID] = &cp
	}
	return nil
}

func (m *memNotifications) ByUser(_ context.Context, uid string, limit int) ([]model.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []model.Notification{}
	for _, n := range m.notifications {
		if n.UserID == uid {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memNotifications) ByID(_ context.Context, id string) (*model.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n, ok := m.notifications[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *n
	return &cp, nil
}

func (m *memNotifications) MarkRead(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.notifications[id]
	if !ok {
		return ErrNotFound
	}
	n.Read = true
	return nil
}

func (m *memNotifications) MarkAllRead(_ context.Context, uid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, n := range m.notifications {
		if n.UserID == uid {
			n.Read = true
		}
	}
	return nil
}

func remove(s []string, v string) []string {
	out := s[:0]
	for _, x := range s {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}
