package model

import "time"

// Comment is a timestamped note on a video. The author profile is
// snapshotted at creation so listings don't need a join
type Comment struct {
	ID          string        `bson:"_id" json:"id"`
	VideoID     string        `bson:"videoId" json:"videoId"`
	WorkspaceID string        `bson:"workspaceId" json:"workspaceId"`
	Content     string        `bson:"content" json:"content"`
	Timestamp   float64       `bson:"timestamp" json:"timestamp"`
	Author      CommentAuthor `bson:"author" json:"author"`
	CreatedAt   time.Time     `bson:"createdAt" json:"createdAt"`
}

type CommentAuthor struct {
	UID         string `bson:"uid" json:"uid"`
	DisplayName string `bson:"displayName" json:"displayName"`
	PhotoURL    string `bson:"photoURL" json:"photoURL"`
}
