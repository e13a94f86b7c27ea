package store

import (
	"context"

	"frameloop/review-api/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoComments struct {
	col *mongo.Collection
}

func (s *mongoComments) Create(ctx context.Context, c *model.Comment) error {
	_, err := s.col.InsertOne(ctx, c)
	return err
}

// ByVideo mirrors the video listing: server-side sort first, in-memory
// fallback when the index is missing
func (s *mongoComments) ByVideo(ctx context.Context, videoID string) ([]model.Comment, error) {
	filter := bson.M{"videoId": videoID}

	comments, err := s.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}}))
	if err != nil {
		if !isIndexErr(err) {
			return nil, err
		}

		comments, err = s.find(ctx, filter, options.Find())
		if err != nil {
			return nil, err
		}
		SortCommentsByTimestamp(comments)
	}
	return comments, nil
}

func (s *mongoComments) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]model.Comment, error) {
	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	comments := []model.Comment{}
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}
