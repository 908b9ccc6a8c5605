package infra_mongo_notes

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ShivanshCoding36/college-companion/internal/model"
	usecase_notes "github.com/ShivanshCoding36/college-companion/internal/usecase/notes"
)

const Collection = "notes"

type Driver struct {
	coll *mongo.Collection
}

func New(coll *mongo.Collection) *Driver {
	return &Driver{coll: coll}
}

type noteDoc struct {
	ID          string    `bson:"_id"`
	UserID      string    `bson:"user_id"`
	Title       string    `bson:"title"`
	Subject     string    `bson:"subject,omitempty"`
	FileName    string    `bson:"file_name"`
	ContentType string    `bson:"content_type"`
	Size        int64     `bson:"size"`
	StorageKey  string    `bson:"storage_key"`
	CreatedAt   time.Time `bson:"created_at"`
}

func (d *Driver) Save(ctx context.Context, note model.Note) error {
	_, err := d.coll.InsertOne(ctx, noteDoc{
		ID:          note.ID.String(),
		UserID:      note.UserID,
		Title:       note.Title,
		Subject:     note.Subject,
		FileName:    note.FileName,
		ContentType: note.ContentType,
		Size:        note.Size,
		StorageKey:  note.StorageKey,
		CreatedAt:   note.CreatedAt,
	})
	return err
}

func (d *Driver) List(ctx context.Context, userID, subject string, limit int) ([]model.Note, error) {
	filter := bson.M{"user_id": userID}
	if subject != "" {
		filter["subject"] = subject
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := d.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var docs []noteDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]model.Note, 0, len(docs))
	for _, doc := range docs {
		note, err := doc.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, note)
	}
	return out, nil
}

func (d *Driver) ByID(ctx context.Context, id uuid.UUID) (model.Note, error) {
	var doc noteDoc
	err := d.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Note{}, usecase_notes.ErrNoteNotFound
	}
	if err != nil {
		return model.Note{}, err
	}
	return doc.toModel()
}

func (d *Driver) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := d.coll.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return usecase_notes.ErrNoteNotFound
	}
	return nil
}

func (doc noteDoc) toModel() (model.Note, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return model.Note{}, err
	}
	return model.Note{
		ID:          id,
		UserID:      doc.UserID,
		Title:       doc.Title,
		Subject:     doc.Subject,
		FileName:    doc.FileName,
		ContentType: doc.ContentType,
		Size:        doc.Size,
		StorageKey:  doc.StorageKey,
		CreatedAt:   doc.CreatedAt.UTC(),
	}, nil
}
