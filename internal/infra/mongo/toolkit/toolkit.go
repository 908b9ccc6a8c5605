package infra_mongo_toolkit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ShivanshCoding36/college-companion/internal/model"
)

const (
	DoubtsCollection       = "doubts"
	QuestionSetsCollection = "question_sets"
)

type Driver struct {
	doubts       *mongo.Collection
	questionSets *mongo.Collection
}

func New(
	doubts *mongo.Collection,
	questionSets *mongo.Collection,
) *Driver {
	return &Driver{
		doubts:       doubts,
		questionSets: questionSets,
	}
}

type doubtDoc struct {
	ID           string    `bson:"_id"`
	UserID       string    `bson:"user_id"`
	Question     string    `bson:"question"`
	ContextNotes string    `bson:"context_notes,omitempty"`
	Answer       string    `bson:"answer"`
	Sources      []string  `bson:"sources,omitempty"`
	CreatedAt    time.Time `bson:"created_at"`
}

type questionSetDoc struct {
	ID         string    `bson:"_id"`
	UserID     string    `bson:"user_id"`
	Subject    string    `bson:"subject"`
	Topic      string    `bson:"topic,omitempty"`
	Difficulty string    `bson:"difficulty"`
	Count      int       `bson:"count"`
	Questions  []string  `bson:"questions"`
	CreatedAt  time.Time `bson:"created_at"`
}

func (d *Driver) SaveDoubt(ctx context.Context, doubt model.Doubt) error {
	_, err := d.doubts.InsertOne(ctx, doubtDoc{
		ID:           doubt.ID.String(),
		UserID:       doubt.UserID,
		Question:     doubt.Question,
		ContextNotes: doubt.ContextNotes,
		Answer:       doubt.Answer,
		Sources:      doubt.Sources,
		CreatedAt:    doubt.CreatedAt,
	})
	return err
}

func (d *Driver) Doubts(ctx context.Context, userID string, limit int) ([]model.Doubt, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := d.doubts.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}

	var docs []doubtDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]model.Doubt, 0, len(docs))
	for _, doc := range docs {
		id, err := uuid.Parse(doc.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, model.Doubt{
			ID:           id,
			UserID:       doc.UserID,
			Question:     doc.Question,
			ContextNotes: doc.ContextNotes,
			Answer:       doc.Answer,
			Sources:      doc.Sources,
			CreatedAt:    doc.CreatedAt.UTC(),
		})
	}
	return out, nil
}

func (d *Driver) SaveQuestionSet(ctx context.Context, set model.QuestionSet) error {
	_, err := d.questionSets.InsertOne(ctx, questionSetDoc{
		ID:         set.ID.String(),
		UserID:     set.UserID,
		Subject:    set.Subject,
		Topic:      set.Topic,
		Difficulty: set.Difficulty,
		Count:      len(set.Questions),
		Questions:  set.Questions,
		CreatedAt:  set.CreatedAt,
	})
	return err
}
