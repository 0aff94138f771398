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
	"construction-management/models"
)

type SalaryRepository interface {
	CreateSalary(ctx context.Context, salary *models.Salary) (*mongo.InsertOneResult, error)
	FindSalaryByID(ctx context.Context, id primitive.ObjectID) (*models.Salary, error)
	GetAllSalaries(ctx context.Context, filter bson.M) ([]models.Salary, error)
	UpdateSalary(ctx context.Context, id primitive.ObjectID, updateData bson.M) (*mongo.UpdateResult, error)
	DeleteSalary(ctx context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error)

	LiveByWorker(ctx context.Context, workerID primitive.ObjectID) ([]models.Salary, error)
	FindByWorker(ctx context.Context, workerID primitive.ObjectID, startDate, endDate string) ([]models.Salary, error)
	CountByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error)
	TotalSalariesPaid(ctx context.Context) (float64, error)
	RecentSalaries(ctx context.Context, limit int64) ([]models.Salary, error)
}

type salaryRepository struct {
	collection *mongo.Collection
}

func NewSalaryRepository() SalaryRepository {
	return &salaryRepository{
		collection: config.GetCollection(config.SalaryCollection),
	}
}

func (r *salaryRepository) CreateSalary(ctx context.Context, salary *models.Salary) (*mongo.InsertOneResult, error) {
	salary.ID = primitive.NewObjectID()
	salary.CreatedAt = time.Now()
	salary.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, salary)
	if err != nil {
		return nil, fmt.Errorf("failed to create salary: %w", err)
	}
	return result, nil
}

func (r *salaryRepository) FindSalaryByID(ctx context.Context, id primitive.ObjectID) (*models.Salary, error) {
	var salary models.Salary
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&salary)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find salary by ID: %w", err)
	}
	return &salary, nil
}

func (r *salaryRepository) GetAllSalaries(ctx context.Context, filter bson.M) ([]models.Salary, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find salaries: %w", err)
	}
	defer cursor.Close(ctx)

	var salaries []models.Salary
	if err = cursor.All(ctx, &salaries); err != nil {
		return nil, fmt.Errorf("failed to decode salaries: %w", err)
	}
	if len(salaries) == 0 {
		return []models.Salary{}, nil
	}
	return salaries, nil
}

func (r *salaryRepository) UpdateSalary(ctx context.Context, id primitive.ObjectID, updateData bson.M) (*mongo.UpdateResult, error) {
	updateData["updated_at"] = time.Now()
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updateData})
	if err != nil {
		return nil, fmt.Errorf("failed to update salary: %w", err)
	}
	return result, nil
}

func (r *salaryRepository) DeleteSalary(ctx context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to delete salary: %w", err)
	}
	return result, nil
}

func (r *salaryRepository) LiveByWorker(ctx context.Context, workerID primitive.ObjectID) ([]models.Salary, error) {
	return r.FindByWorker(ctx, workerID, "", "")
}

func (r *salaryRepository) FindByWorker(ctx context.Context, workerID primitive.ObjectID, startDate, endDate string) ([]models.Salary, error) {
	filter := bson.M{"worker_id": workerID}
	if startDate != "" && endDate != "" {
		filter["date"] = bson.M{"$gte": startDate, "$lte": endDate}
	}
	return r.GetAllSalaries(ctx, filter)
}

func (r *salaryRepository) CountByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{"project_id": projectID})
	if err != nil {
		return 0, fmt.Errorf("failed to count salaries by project: %w", err)
	}
	return total, nil
}

func (r *salaryRepository) TotalSalariesPaid(ctx context.Context) (float64, error) {
	return sumField(ctx, r.collection, "$amount")
}

func (r *salaryRepository) RecentSalaries(ctx context.Context, limit int64) ([]models.Salary, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find recent salaries: %w", err)
	}
	defer cursor.Close(ctx)

	var salaries []models.Salary
	if err = cursor.All(ctx, &salaries); err != nil {
		return nil, fmt.Errorf("failed to decode recent salaries: %w", err)
	}
	if len(salaries) == 0 {
		return []models.Salary{}, nil
	}
	return salaries, nil
}
