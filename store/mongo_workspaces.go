package store

import (
	"context"
	"time"

	"frameloop/review-api/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoWorkspaces struct {
	col    *mongo.Collection
	users  *mongo.Collection
	client *mongo.Client
}

func (s *mongoWorkspaces) Create(ctx context.Context, w *model.Workspace) error {
	_, err := s.col.InsertOne(ctx, w)
	return err
}

func (s *mongoWorkspaces) ByID(ctx context.Context, id string) (*model.Workspace, error) {
	var w model.Workspace
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&w); err != nil {
		return nil, mapErr(err)
	}
	return &w, nil
}

func (s *mongoWorkspaces) ForMember(ctx context.Context, uid string) ([]model.Workspace, error) {
	cursor, err := s.col.Find(ctx, bson.M{"members": uid})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	workspaces := []model.Workspace{}
	if err := cursor.All(ctx, &workspaces); err != nil {
		return nil, err
	}
	return workspaces, nil
}

func (s *mongoWorkspaces) Update(ctx context.Context, id string, upd WorkspaceUpdate) error {
	set := bson.M{"updatedAt": time.Now()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}

	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *mongoWorkspaces) AddMember(ctx context.Context, id, uid string) error {
	return s.updateOne(ctx, id, bson.M{
		"$addToSet": bson.M{"members": uid},
		"$set":      bson.M{"updatedAt": time.Now()},
	})
}

// RemoveMember strips uid from both members and publishers in one document
// write, so a reader never sees a removed member still holding publish rights
func (s *mongoWorkspaces) RemoveMember(ctx context.Context, id, uid string) error {
	return s.updateOne(ctx, id, bson.M{
		"$pull": bson.M{"members": uid, "publishers": uid},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
}

func (s *mongoWorkspaces) GrantPublisher(ctx context.Context, id, uid string) error {
	return s.updateOne(ctx, id, bson.M{
		"$addToSet": bson.M{"publishers": uid},
		"$set":      bson.M{"updatedAt": time.Now()},
	})
}

func (s *mongoWorkspaces) RevokePublisher(ctx context.Context, id, uid string) error {
	return s.updateOne(ctx, id, bson.M{
		"$pull": bson.M{"publishers": uid},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
}

func (s *mongoWorkspaces) AppendVideo(ctx context.Context, id, videoID string) error {
	return s.updateOne(ctx, id, bson.M{
		"$addToSet": bson.M{"videos": videoID},
		"$set":      bson.M{"updatedAt": time.Now()},
	})
}

// SetIntegration merges the given connection record into the stored one.
// Only non-zero fields overwrite, matching upsert-with-merge semantics
func (s *mongoWorkspaces) SetIntegration(ctx context.Context, id string, integ *model.YTCloneIntegration) error {
	const prefix = "integrations.youtubeClone."

	set := bson.M{"updatedAt": time.Now()}
	if integ.BaseURL != "" {
		set[prefix+"baseUrl"] = integ.BaseURL
	}
	if integ.Token != "" {
		set[prefix+"token"] = integ.Token
	}
	if integ.ChannelID != "" {
		set[prefix+"channelId"] = integ.ChannelID
	}
	if integ.ChannelName != "" {
		set[prefix+"channelName"] = integ.ChannelName
	}
	if integ.ChannelLinkSecret != "" {
		set[prefix+"channelLinkSecret"] = integ.ChannelLinkSecret
	}
	if !integ.ConnectedAt.IsZero() {
		set[prefix+"connectedAt"] = integ.ConnectedAt
	}
	if integ.ConnectedBy != "" {
		set[prefix+"connectedBy"] = integ.ConnectedBy
	}

	return s.updateOne(ctx, id, bson.M{"$set": set})
}

// Delete removes the workspace and the membership references in one
// transaction. Videos, versions and comments referencing the workspace are
// intentionally left behind
func (s *mongoWorkspaces) Delete(ctx context.Context, id string, memberUIDs []string) error {
	sess, err := s.client.StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		if len(memberUIDs) > 0 {
			_, err := s.users.UpdateMany(sc, bson.M{"_id": bson.M{"$in": memberUIDs}}, bson.M{
				"$pull": bson.M{"workspaces": id},
				"$set":  bson.M{"updatedAt": time.Now()},
			})
			if err != nil {
				return nil, err
			}
		}

		res, err := s.col.DeleteOne(sc, bson.M{"_id": id})
		if err != nil {
			return nil, err
		}
		if res.DeletedCount == 0 {
			return nil, ErrNotFound
		}
		return nil, nil
	})
	return err
}

func (s *mongoWorkspaces) updateOne(ctx context.Context, id string, update bson.M) error {
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
