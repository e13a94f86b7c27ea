package model

import "time"

const (
	NotifyComment  = "comment"
	NotifyUpload   = "upload"
	NotifyApproval = "approval"
	NotifyStatus   = "status"
)

type Notification struct {
	ID          string    `bson:"_id" json:"id"`
	UserID      string    `bson:"userId" json:"userId"`
	Type        string    `bson:"type" json:"type"`
	Message     string    `bson:"message" json:"message"`
	WorkspaceID string    `bson:"workspaceId" json:"workspaceId"`
	VideoID     string    `bson:"videoId" json:"videoId"`
	Read        bool      `bson:"read" json:"read"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}
