package store

import (
	"context"
	"time"

	"frameloop/review-api/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoUsers struct {
	col *mongo.Collection
}

func (s *mongoUsers) Create(ctx context.Context, u *model.User) error {
	_, err := s.col.ReplaceOne(ctx, bson.M{"_id": u.UID}, u, options.Replace().SetUpsert(true))
	return err
}

func (s *mongoUsers) ByID(ctx context.Context, uid string) (*model.User, error) {
	var u model.User
	if err := s.col.FindOne(ctx, bson.M{"_id": uid}).Decode(&u); err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

func (s *mongoUsers) ByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := s.col.FindOne(ctx, bson.M{"email": email}).Decode(&u); err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

func (s *mongoUsers) Patch(ctx context.Context, uid string, fields map[string]any) error {
	set := bson.M{"updatedAt": time.Now()}
	for k, v := range fields {
		set[k] = v
	}

	res, err := s.col.UpdateOne(ctx, bson.M{"_id": uid}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *mongoUsers) AddWorkspace(ctx context.Context, uid, workspaceID string) error {
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": uid}, bson.M{
		"$addToSet": bson.M{"workspaces": workspaceID},
		"$set":      bson.M{"updatedAt": time.Now()},
	})
	return err
}

func (s *mongoUsers) RemoveWorkspace(ctx context.Context, uid, workspaceID string) error {
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": uid}, bson.M{
		"$pull": bson.M{"workspaces": workspaceID},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
	return err
}
