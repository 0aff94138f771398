package config

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InitDatabase creates the indexes the application relies on. Safe to call
// on every startup; Mongo treats an existing identical index as a no-op.
func InitDatabase() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// One attendance record per (worker, date).
	createIndex(ctx, AttendanceCollection, mongo.IndexModel{
		Keys:    bson.D{{Key: "worker_id", Value: 1}, {Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true),
	})

	createIndex(ctx, WorkerCollection, mongo.IndexModel{
		Keys:    bson.D{{Key: "phone", Value: 1}},
		Options: options.Index().SetUnique(true),
	})

	createIndex(ctx, ProjectOwnerCollection, mongo.IndexModel{
		Keys:    bson.D{{Key: "phone", Value: 1}},
		Options: options.Index().SetUnique(true),
	})

	createIndex(ctx, UserCollection, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})

	createIndex(ctx, MaterialCollection, mongo.IndexModel{
		Keys: bson.D{{Key: "project_id", Value: 1}},
	})
	createIndex(ctx, SalaryCollection, mongo.IndexModel{
		Keys: bson.D{{Key: "worker_id", Value: 1}},
	})
	createIndex(ctx, PaymentCollection, mongo.IndexModel{
		Keys: bson.D{{Key: "project_owner_id", Value: 1}},
	})

	log.Println("Database indexes ensured")
}

func createIndex(ctx context.Context, collection string, model mongo.IndexModel) {
	_, err := GetCollection(collection).Indexes().CreateOne(ctx, model)
	if err != nil {
		log.Fatalf("Failed to create index on %s: %v", collection, err)
	}
}
