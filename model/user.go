// Package model defines the documents stored in MongoDB
package model

import "time"

const DefaultRole = "creator"

type User struct {
	UID         string    `bson:"_id" json:"uid"`
	Email       string    `bson:"email" json:"email"`
	DisplayName string    `bson:"displayName" json:"displayName"`
	PhotoURL    string    `bson:"photoURL" json:"photoURL"`
	Role        string    `bson:"role" json:"role"`
	Workspaces  []string  `bson:"workspaces" json:"workspaces"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}
