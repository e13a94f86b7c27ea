package model

import (
	"encoding/json"
	"time"
)

const (
	StatusInReview = "in_review"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

func ValidStatus(s string) bool {
	return s == StatusInReview || s == StatusApproved || s == StatusRejected
}

type Video struct {
	ID             string       `bson:"_id" json:"id"`
	Title          string       `bson:"title" json:"title"`
	Description    string       `bson:"description" json:"description"`
	WorkspaceID    string       `bson:"workspaceId" json:"workspaceId"`
	Owner          string       `bson:"owner" json:"owner"`
	Status         string       `bson:"status" json:"status"`
	CurrentVersion int          `bson:"currentVersion" json:"currentVersion"`
	Published      bool         `bson:"published" json:"published"`
	PublishMeta    *PublishMeta `bson:"publishMeta,omitempty" json:"publishMeta,omitempty"`
	CreatedAt      time.Time    `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time    `bson:"updatedAt" json:"updatedAt"`
}

// PublishMeta records where a video went when it was published.
// RemoteVideo holds the platform's response verbatim
type PublishMeta struct {
	Platform     string          `bson:"platform" json:"platform"`
	ChannelID    string          `bson:"channelId" json:"channelId"`
	Title        string          `bson:"title" json:"title"`
	Description  string          `bson:"description" json:"description"`
	ThumbnailURL string          `bson:"thumbnailUrl" json:"thumbnailUrl"`
	RemoteVideo  json.RawMessage `bson:"remoteVideo,omitempty" json:"remoteVideo,omitempty"`
}

// Version is one uploaded cut of a video. Numbers start at 1 and only
// ever grow
type Version struct {
	ID            string    `bson:"_id" json:"id"`
	VideoID       string    `bson:"videoId" json:"videoId"`
	VersionNumber int       `bson:"versionNumber" json:"versionNumber"`
	Title         string    `bson:"title" json:"title"`
	Description   string    `bson:"description" json:"description"`
	VideoURL      string    `bson:"videoUrl" json:"videoUrl"`
	ThumbnailURL  string    `bson:"thumbnailUrl" json:"thumbnailUrl"`
	FileSize      int64     `bson:"fileSize" json:"fileSize"`
	UploadedBy    string    `bson:"uploadedBy" json:"uploadedBy"`
	Qualities     []Quality `bson:"qualities" json:"qualities"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
}

type Quality struct {
	Quality string `bson:"quality" json:"quality"`
	URL     string `bson:"url" json:"url"`
}
