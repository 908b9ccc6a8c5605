package infra_mongo_attendance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ShivanshCoding36/college-companion/internal/model"
)

const Collection = "attendance_queries"

type Driver struct {
	coll *mongo.Collection
}

func New(
	coll *mongo.Collection,
) *Driver {
	return &Driver{coll: coll}
}

type queryDoc struct {
	ID        string         `bson:"_id"`
	UserID    string         `bson:"user_id"`
	Question  string         `bson:"question"`
	Context   map[string]any `bson:"context"`
	Response  map[string]any `bson:"response"`
	CreatedAt time.Time      `bson:"created_at"`
}

func (d *queryDoc) toDomain() (model.AttendanceQuery, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return model.AttendanceQuery{}, err
	}
	return model.AttendanceQuery{
		ID:        id,
		UserID:    d.UserID,
		Question:  d.Question,
		Context:   d.Context,
		Response:  d.Response,
		CreatedAt: d.CreatedAt.UTC(),
	}, nil
}

func (d *Driver) Save(ctx context.Context, q model.AttendanceQuery) error {
	_, err := d.coll.InsertOne(ctx, queryDoc{
		ID:        q.ID.String(),
		UserID:    q.UserID,
		Question:  q.Question,
		Context:   q.Context,
		Response:  q.Response,
		CreatedAt: q.CreatedAt,
	})
	return err
}

func (d *Driver) History(ctx context.Context, userID string, limit int) ([]model.AttendanceQuery, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := d.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}

	var docs []queryDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]model.AttendanceQuery, 0, len(docs))
	for _, doc := range docs {
		q, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}
