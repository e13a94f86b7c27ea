package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"frameloop/review-api/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoVideos struct {
	col      *mongo.Collection
	versions *mongo.Collection
}

func (s *mongoVideos) Create(ctx context.Context, v *model.Video) error {
	_, err := s.col.InsertOne(ctx, v)
	return err
}

func (s *mongoVideos) ByID(ctx context.Context, id string) (*model.Video, error) {
	var v model.Video
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&v); err != nil {
		return nil, mapErr(err)
	}
	return &v, nil
}

// ByWorkspace prefers a server-side sort. When the server refuses because
// the supporting index is missing, the same document set is fetched
// unsorted and ordered in memory; the caller can't tell the difference
func (s *mongoVideos) ByWorkspace(ctx context.Context, workspaceID string) ([]model.Video, error) {
	filter := bson.M{"workspaceId": workspaceID}

	videos, err := s.findVideos(ctx, filter, options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}}))
	if err != nil {
		if !isIndexErr(err) {
			return nil, err
		}

		videos, err = s.findVideos(ctx, filter, options.Find())
		if err != nil {
			return nil, err
		}
		SortVideosByUpdatedAt(videos)
	}
	return videos, nil
}

func (s *mongoVideos) findVideos(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]model.Video, error) {
	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	videos := []model.Video{}
	if err := cursor.All(ctx, &videos); err != nil {
		return nil, err
	}
	return videos, nil
}

func (s *mongoVideos) UpdateStatus(ctx context.Context, id, status string) error {
	return s.updateOne(ctx, id, bson.M{"$set": bson.M{
		"status":    status,
		"updatedAt": time.Now(),
	}})
}

func (s *mongoVideos) SetCurrentVersion(ctx context.Context, id string, n int) error {
	return s.updateOne(ctx, id, bson.M{"$set": bson.M{
		"currentVersion": n,
		"updatedAt":      time.Now(),
	}})
}

func (s *mongoVideos) MarkPublished(ctx context.Context, id string, meta *model.PublishMeta) error {
	return s.updateOne(ctx, id, bson.M{"$set": bson.M{
		"published":   true,
		"status":      model.StatusApproved,
		"publishMeta": meta,
		"updatedAt":   time.Now(),
	}})
}

func (s *mongoVideos) CreateVersion(ctx context.Context, v *model.Version) error {
	_, err := s.versions.InsertOne(ctx, v)
	return err
}

func (s *mongoVideos) LatestVersion(ctx context.Context, videoID string) (*model.Version, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "versionNumber", Value: -1}})

	var v model.Version
	if err := s.versions.FindOne(ctx, bson.M{"videoId": videoID}, opts).Decode(&v); err != nil {
		return nil, mapErr(err)
	}
	return &v, nil
}

func (s *mongoVideos) updateOne(ctx context.Context, id string, update bson.M) error {
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// isIndexErr matches the server errors raised when a sort can't be
// satisfied without an index (in-memory sort stage over its limit)
func isIndexErr(err error) bool {
	var cmdErr mongo.CommandError
	if mongo.IsTimeout(err) {
		return false
	}
	if errors.As(err, &cmdErr) {
		// QueryExceededMemoryLimitNoDiskUseAllowed
		if cmdErr.Code == 292 {
			return true
		}
	}
	return strings.Contains(err.Error(), "Sort exceeded memory limit")
}
