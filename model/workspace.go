package model

import "time"

// Workspace is the collaboration unit. The owner is always present in
// Members as well, membership checks only look at that list
type Workspace struct {
	ID           string       `bson:"_id" json:"id"`
	Name         string       `bson:"name" json:"name"`
	Description  string       `bson:"description" json:"description"`
	Owner        string       `bson:"owner" json:"owner"`
	Members      []string     `bson:"members" json:"members"`
	Publishers   []string     `bson:"publishers" json:"publishers"`
	Videos       []string     `bson:"videos" json:"videos"`
	Integrations Integrations `bson:"integrations" json:"integrations"`
	CreatedAt    time.Time    `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time    `bson:"updatedAt" json:"updatedAt"`
}

type Integrations struct {
	YouTubeClone *YTCloneIntegration `bson:"youtubeClone,omitempty" json:"youtubeClone,omitempty"`
}

// YTCloneIntegration is the stored connection to the external video
// platform. The link secret never leaves the server
type YTCloneIntegration struct {
	BaseURL           string    `bson:"baseUrl" json:"baseUrl"`
	Token             string    `bson:"token" json:"-"`
	ChannelID         string    `bson:"channelId" json:"channelId"`
	ChannelName       string    `bson:"channelName" json:"channelName"`
	ChannelLinkSecret string    `bson:"channelLinkSecret" json:"-"`
	ConnectedAt       time.Time `bson:"connectedAt" json:"connectedAt"`
	ConnectedBy       string    `bson:"connectedBy" json:"connectedBy"`
}

// Member is the expanded view returned by the members listing, combining
// the user profile with their standing in the workspace
type Member struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL"`
	Role        string `json:"role"`
	IsOwner     bool   `json:"isOwner"`
	CanPublish  bool   `json:"canPublish"`
}
