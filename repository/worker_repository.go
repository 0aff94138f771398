package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"construction-management/config"
	"construction-management/ledger"
	"construction-management/models"
)

var ErrDuplicatePhone = errors.New("a record with this phone already exists")

type WorkerRepository interface {
	CreateWorker(ctx context.Context, worker *models.Worker) (*mongo.InsertOneResult, error)
	FindWorkerByID(ctx context.Context, id primitive.ObjectID) (*models.Worker, error)
	GetAllWorkers(ctx context.Context) ([]models.Worker, error)
	UpdateWorker(ctx context.Context, id primitive.ObjectID, updateData bson.M) (*mongo.UpdateResult, error)
	DeleteWorker(ctx context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error)

	// Ledger hooks. Balance mutations run as single-document aggregation
	// pipeline updates so concurrent postings cannot lose increments.
	AddPendingSalary(ctx context.Context, id primitive.ObjectID, delta float64) error
	DebitPendingSalary(ctx context.Context, id primitive.ObjectID, amount float64, policy ledger.NegativePolicy) error
	SetPendingSalary(ctx context.Context, id primitive.ObjectID, value float64) error

	WorkersWithPendingSalary(ctx context.Context) ([]models.Worker, error)
	CountWorkers(ctx context.Context) (int64, error)
	TotalPendingSalaries(ctx context.Context) (float64, error)
}

type workerRepository struct {
	collection *mongo.Collection
}

func NewWorkerRepository() WorkerRepository {
	return &workerRepository{
		collection: config.GetCollection(config.WorkerCollection),
	}
}

func (r *workerRepository) CreateWorker(ctx context.Context, worker *models.Worker) (*mongo.InsertOneResult, error) {
	worker.ID = primitive.NewObjectID()
	worker.PendingSalary = 0
	worker.PaymentStatus = models.PaymentStatusPaid
	worker.IsActive = true
	worker.CreatedAt = time.Now()
	worker.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, worker)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicatePhone
		}
		return nil, fmt.Errorf("failed to create worker: %w", err)
	}
	return result, nil
}

func (r *workerRepository) FindWorkerByID(ctx context.Context, id primitive.ObjectID) (*models.Worker, error) {
	var worker models.Worker
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&worker)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find worker by ID: %w", err)
	}
	return &worker, nil
}

func (r *workerRepository) GetAllWorkers(ctx context.Context) ([]models.Worker, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find workers: %w", err)
	}
	defer cursor.Close(ctx)

	var workers []models.Worker
	if err = cursor.All(ctx, &workers); err != nil {
		return nil, fmt.Errorf("failed to decode workers: %w", err)
	}
	if len(workers) == 0 {
		return []models.Worker{}, nil
	}
	return workers, nil
}

func (r *workerRepository) UpdateWorker(ctx context.Context, id primitive.ObjectID, updateData bson.M) (*mongo.UpdateResult, error) {
	updateData["updated_at"] = time.Now()
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updateData})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicatePhone
		}
		return nil, fmt.Errorf("failed to update worker: %w", err)
	}
	return result, nil
}

func (r *workerRepository) DeleteWorker(ctx context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to delete worker: %w", err)
	}
	return result, nil
}

// AddPendingSalary applies an unclamped signed delta and recomputes
// payment_status from the resulting balance.
func (r *workerRepository) AddPendingSalary(ctx context.Context, id primitive.ObjectID, delta float64) error {
	newValue := bson.M{"$add": bson.A{"$pending_salary", delta}}
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"pending_salary": newValue,
			"payment_status": bson.M{"$cond": bson.A{
				bson.M{"$lte": bson.A{newValue, 0}},
				models.PaymentStatusPaid,
				models.PaymentStatusPending,
			}},
			"updated_at": "$$NOW",
		}}},
	}
	_, err := r.collection.UpdateByID(ctx, id, pipeline)
	if err != nil {
		return fmt.Errorf("failed to adjust pending salary: %w", err)
	}
	return nil
}

func (r *workerRepository) DebitPendingSalary(ctx context.Context, id primitive.ObjectID, amount float64, policy ledger.NegativePolicy) error {
	remaining := bson.M{"$subtract": bson.A{"$pending_salary", amount}}
	debited := remaining
	if policy == ledger.PolicyClamp {
		debited = bson.M{"$max": bson.A{0, remaining}}
	}

	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"pending_salary": debited,
			"payment_status": bson.M{"$cond": bson.A{
				bson.M{"$lte": bson.A{debited, 0}},
				models.PaymentStatusPaid,
				models.PaymentStatusPartial,
			}},
			"updated_at": "$$NOW",
		}}},
	}

	filter := bson.M{"_id": id}
	if policy == ledger.PolicyError {
		filter["pending_salary"] = bson.M{"$gte": amount}
	}

	result, err := r.collection.UpdateOne(ctx, filter, pipeline)
	if err != nil {
		return fmt.Errorf("failed to debit pending salary: %w", err)
	}

	if policy == ledger.PolicyError && result.MatchedCount == 0 {
		worker, err := r.FindWorkerByID(ctx, id)
		if err != nil {
			return err
		}
		if worker != nil {
			return ledger.ErrInsufficientPendingSalary
		}
	}
	return nil
}

func (r *workerRepository) SetPendingSalary(ctx context.Context, id primitive.ObjectID, value float64) error {
	status := models.PaymentStatusPending
	if value <= 0 {
		status = models.PaymentStatusPaid
	}
	update := bson.M{"$set": bson.M{
		"pending_salary": value,
		"payment_status": status,
		"updated_at":     time.Now(),
	}}
	_, err := r.collection.UpdateByID(ctx, id, update)
	if err != nil {
		return fmt.Errorf("failed to set pending salary: %w", err)
	}
	return nil
}

func (r *workerRepository) WorkersWithPendingSalary(ctx context.Context) ([]models.Worker, error) {
	opts := options.Find().SetSort(bson.D{{Key: "pending_salary", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"pending_salary": bson.M{"$gt": 0}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find workers with pending salary: %w", err)
	}
	defer cursor.Close(ctx)

	var workers []models.Worker
	if err = cursor.All(ctx, &workers); err != nil {
		return nil, fmt.Errorf("failed to decode workers: %w", err)
	}
	if len(workers) == 0 {
		return []models.Worker{}, nil
	}
	return workers, nil
}

func (r *workerRepository) CountWorkers(ctx context.Context) (int64, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count workers: %w", err)
	}
	return total, nil
}

func (r *workerRepository) TotalPendingSalaries(ctx context.Context) (float64, error) {
	return sumField(ctx, r.collection, "$pending_salary")
}

// sumField runs a $group total over one numeric field.
func sumField(ctx context.Context, collection *mongo.Collection, field string) (float64, error) {
	pipeline := []bson.M{
		{"$group": bson.M{"_id": nil, "total": bson.M{"$sum": field}}},
	}
	cursor, err := collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate %s: %w", field, err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total float64 `bson:"total"`
	}
	if err = cursor.All(ctx, &results); err != nil {
		return 0, fmt.Errorf("failed to decode %s total: %w", field, err)
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}
