// Package service holds business logic shared between handlers
package service

import (
	"context"
	"time"

	"frameloop/review-api/model"
	"frameloop/review-api/store"
	"frameloop/review-api/util"
)

// Notifier fans events out to workspace members
type Notifier struct {
	Notifications store.Notifications
}

// Fanout creates one notification per workspace member except the actor,
// committed as a single batch. The owner is always included in the
// recipient set even if the members list somehow lacks them. Zero
// recipients is a success with zero writes
func (n *Notifier) Fanout(ctx context.Context, ws *model.Workspace, actor, typ, message, videoID string) (int, error) {
	seen := map[string]bool{actor: true}
	now := time.Now()

	batch := []model.Notification{}
	for _, uid := range append([]string{ws.Owner}, ws.Members...) {
		if seen[uid] {
			continue
		}
		seen[uid] = true

		batch = append(batch, model.Notification{
			ID:          util.NewID(),
			UserID:      uid,
			Type:        typ,
			Message:     message,
			WorkspaceID: ws.ID,
			VideoID:     videoID,
			Read:        false,
			CreatedAt:   now,
		})
	}

	if err := n.Notifications.CreateBatch(ctx, batch); err != nil {
		return 0, err
	}
	return len(batch), nil
}

// NotifyUser creates a single notification for one explicit recipient
func (n *Notifier) NotifyUser(ctx context.Context, userID, typ, message, workspaceID, videoID string) (*model.Notification, error) {
	notif := model.Notification{
		ID:          util.NewID(),
		UserID:      userID,
		Type:        typ,
		Message:     message,
		WorkspaceID: workspaceID,
		VideoID:     videoID,
		Read:        false,
		CreatedAt:   time.Now(),
	}

	if err := n.Notifications.CreateBatch(ctx, []model.Notification{notif}); err != nil {
		return nil, err
	}
	return &notif, nil
}
