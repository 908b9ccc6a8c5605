package infra_mongo_init

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/ShivanshCoding36/college-companion/internal/config"
)

const connectTimeout = 10 * time.Second

func MustEstablishConn(cfg config.Mongo) *mongo.Database {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		log.Fatal("mongo connect failed", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		log.Fatal("mongo ping failed", err)
	}

	db := client.Database(cfg.Database)
	mustEnsureIndexes(ctx, db)
	return db
}

// Every history read is "this user's documents, newest first".
func mustEnsureIndexes(ctx context.Context, db *mongo.Database) {
	for _, name := range []string{"attendance_queries", "doubts", "question_sets", "notes"} {
		_, err := db.Collection(name).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
		})
		if err != nil {
			log.Fatalf("mongo index on %s failed: %v", name, err)
		}
	}
}
