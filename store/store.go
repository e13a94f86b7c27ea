// Package store provides access to the document database. Every entity is
// reached through a narrow interface so the Mongo-backed implementation and
// the in-memory one used by tests are interchangeable
package store

import (
	"context"
	"errors"
	"sort"

	"frameloop/review-api/model"
)

// ErrNotFound is returned whenever a looked-up document doesn't exist
var ErrNotFound = errors.New("document not found")

// Store bundles the per-entity interfaces so handlers receive a single
// dependency
type Store struct {
	Users         Users
	Workspaces    Workspaces
	Videos        Videos
	Comments      Comments
	Notifications Notifications
}

type Users interface {
	// Create writes a full user document, replacing any existing one
	Create(ctx context.Context, u *model.User) error
	ByID(ctx context.Context, uid string) (*model.User, error)
	ByEmail(ctx context.Context, email string) (*model.User, error)
	// Patch sets the given profile fields and bumps updatedAt
	Patch(ctx context.Context, uid string, fields map[string]any) error
	AddWorkspace(ctx context.Context, uid, workspaceID string) error
	RemoveWorkspace(ctx context.Context, uid, workspaceID string) error
}

// WorkspaceUpdate carries the owner-editable fields. Nil means unchanged
type WorkspaceUpdate struct {
	Name        *string
	Description *string
}

type Workspaces interface {
	Create(ctx context.Context, w *model.Workspace) error
	ByID(ctx context.Context, id string) (*model.Workspace, error)
	// ForMember returns every workspace whose members array contains uid
	ForMember(ctx context.Context, uid string) ([]model.Workspace, error)
	Update(ctx context.Context, id string, upd WorkspaceUpdate) error
	AddMember(ctx context.Context, id, uid string) error
	// RemoveMember pulls uid from members and publishers in a single
	// document update so neither can be observed without the other
	RemoveMember(ctx context.Context, id, uid string) error
	GrantPublisher(ctx context.Context, id, uid string) error
	RevokePublisher(ctx context.Context, id, uid string) error
	// AppendVideo adds a video ID to the denormalized videos list
	AppendVideo(ctx context.Context, id, videoID string) error
	// SetIntegration upserts the platform connection with merge semantics:
	// zero-valued fields of integ keep their stored values
	SetIntegration(ctx context.Context, id string, integ *model.YTCloneIntegration) error
	// Delete removes the workspace document and strips its ID from every
	// listed user's membership list as one batch. Videos and comments are
	// left in place
	Delete(ctx context.Context, id string, memberUIDs []string) error
}

type Videos interface {
	Create(ctx context.Context, v *model.Video) error
	ByID(ctx context.Context, id string) (*model.Video, error)
	// ByWorkspace returns the workspace's videos ordered by updatedAt
	// descending, regardless of whether the backing index exists
	ByWorkspace(ctx context.Context, workspaceID string) ([]model.Video, error)
	UpdateStatus(ctx context.Context, id, status string) error
	SetCurrentVersion(ctx context.Context, id string, n int) error
	MarkPublished(ctx context.Context, id string, meta *model.PublishMeta) error
	CreateVersion(ctx context.Context, v *model.Version) error
	// LatestVersion returns the version with the highest versionNumber,
	// or ErrNotFound when the video has none
	LatestVersion(ctx context.Context, videoID string) (*model.Version, error)
}

type Comments interface {
	Create(ctx context.Context, c *model.Comment) error
	// ByVideo returns comments ordered by timestamp ascending
	ByVideo(ctx context.Context, videoID string) ([]model.Comment, error)
}

type Notifications interface {
	// CreateBatch writes all notifications as one batch. An empty batch
	// is a no-op and succeeds
	CreateBatch(ctx context.Context, ns []model.Notification) error
	ByUser(ctx context.Context, uid string, limit int) ([]model.Notification, error)
	ByID(ctx context.Context, id string) (*model.Notification, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, uid string) error
}

// SortVideosByUpdatedAt orders newest-first. It's the in-memory fallback
// used when the store can't sort server-side, so its ordering must match
// the indexed query exactly. Zero timestamps sort last
func SortVideosByUpdatedAt(videos []model.Video) {
	sort.SliceStable(videos, func(i, j int) bool {
		return videos[i].UpdatedAt.After(videos[j].UpdatedAt)
	})
}

// SortCommentsByTimestamp orders comments by their position in the video
func SortCommentsByTimestamp(comments []model.Comment) {
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].Timestamp < comments[j].Timestamp
	})
}
