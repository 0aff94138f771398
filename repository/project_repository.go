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

type ProjectRepository interface {
	CreateProject(ctx context.Context, project *models.Project) (*mongo.InsertOneResult, error)
	FindProjectByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error)
	GetAllProjects(ctx context.Context) ([]models.Project, error)
	UpdateProject(ctx context.Context, id primitive.ObjectID, updateData bson.M) (*mongo.UpdateResult, error)
	DeleteProject(ctx context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error)

	// Ledger hooks, all atomic pipeline updates.
	AddCurrentBalance(ctx context.Context, id primitive.ObjectID, delta float64) error
	RecordPayment(ctx context.Context, id primitive.ObjectID, delta float64) error
	SetFinancials(ctx context.Context, id primitive.ObjectID, paid, pending, balance float64) error

	CountProjects(ctx context.Context) (int64, error)
	CountProjectsByStatus(ctx context.Context, status string) (int64, error)
	CountProjectsByOwner(ctx context.Context, ownerID primitive.ObjectID) (int64, error)
	LowBalanceProjects(ctx context.Context, threshold float64) ([]models.Project, error)
}

type projectRepository struct {
	collection *mongo.Collection
}

func NewProjectRepository() ProjectRepository {
	return &projectRepository{
		collection: config.GetCollection(config.ProjectCollection),
	}
}

func (r *projectRepository) CreateProject(ctx context.Context, project *models.Project) (*mongo.InsertOneResult, error) {
	project.ID = primitive.NewObjectID()
	// A fresh project has received no payments and spent nothing.
	project.PaidAmount = 0
	project.PendingAmount = project.TotalAmount
	project.CurrentBalance = project.TotalAmount
	if project.Status == "" {
		project.Status = "planning"
	}
	if project.AssignedWorkers == nil {
		project.AssignedWorkers = []primitive.ObjectID{}
	}
	project.CreatedAt = time.Now()
	project.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return result, nil
}

func (r *projectRepository) FindProjectByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	var project models.Project
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&project)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find project by ID: %w", err)
	}
	return &project, nil
}

func (r *projectRepository) GetAllProjects(ctx context.Context) ([]models.Project, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find projects: %w", err)
	}
	defer cursor.Close(ctx)

	var projects []models.Project
	if err = cursor.All(ctx, &projects); err != nil {
		return nil, fmt.Errorf("failed to decode projects: %w", err)
	}
	if len(projects) == 0 {
		return []models.Project{}, nil
	}
	return projects, nil
}

func (r *projectRepository) UpdateProject(ctx context.Context, id primitive.ObjectID, updateData bson.M) (*mongo.UpdateResult, error) {
	updateData["updated_at"] = time.Now()
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updateData})
	if err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return result, nil
}

func (r *projectRepository) DeleteProject(ctx context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to delete project: %w", err)
	}
	return result, nil
}

func (r *projectRepository) AddCurrentBalance(ctx context.Context, id primitive.ObjectID, delta float64) error {
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"current_balance": bson.M{"$add": bson.A{"$current_balance", delta}},
			"updated_at":      "$$NOW",
		}}},
	}
	_, err := r.collection.UpdateByID(ctx, id, pipeline)
	if err != nil {
		return fmt.Errorf("failed to adjust project balance: %w", err)
	}
	return nil
}

// RecordPayment moves paid_amount by delta and keeps the derived fields
// in step within the same atomic update:
// pending_amount = total_amount - paid_amount, current_balance += delta.
func (r *projectRepository) RecordPayment(ctx context.Context, id primitive.ObjectID, delta float64) error {
	newPaid := bson.M{"$add": bson.A{"$paid_amount", delta}}
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"paid_amount":     newPaid,
			"pending_amount":  bson.M{"$subtract": bson.A{"$total_amount", newPaid}},
			"current_balance": bson.M{"$add": bson.A{"$current_balance", delta}},
			"updated_at":      "$$NOW",
		}}},
	}
	_, err := r.collection.UpdateByID(ctx, id, pipeline)
	if err != nil {
		return fmt.Errorf("failed to record payment on project: %w", err)
	}
	return nil
}

func (r *projectRepository) SetFinancials(ctx context.Context, id primitive.ObjectID, paid, pending, balance float64) error {
	update := bson.M{"$set": bson.M{
		"paid_amount":     paid,
		"pending_amount":  pending,
		"current_balance": balance,
		"updated_at":      time.Now(),
	}}
	_, err := r.collection.UpdateByID(ctx, id, update)
	if err != nil {
		return fmt.Errorf("failed to set project financials: %w", err)
	}
	return nil
}

func (r *projectRepository) CountProjects(ctx context.Context) (int64, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count projects: %w", err)
	}
	return total, nil
}

func (r *projectRepository) CountProjectsByStatus(ctx context.Context, status string) (int64, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{"status": status})
	if err != nil {
		return 0, fmt.Errorf("failed to count projects by status: %w", err)
	}
	return total, nil
}

func (r *projectRepository) CountProjectsByOwner(ctx context.Context, ownerID primitive.ObjectID) (int64, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		return 0, fmt.Errorf("failed to count projects by owner: %w", err)
	}
	return total, nil
}

func (r *projectRepository) LowBalanceProjects(ctx context.Context, threshold float64) ([]models.Project, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"current_balance": bson.M{"$lt": threshold}})
	if err != nil {
		return nil, fmt.Errorf("failed to find low balance projects: %w", err)
	}
	defer cursor.Close(ctx)

	var projects []models.Project
	if err = cursor.All(ctx, &projects); err != nil {
		return nil, fmt.Errorf("failed to decode projects: %w", err)
	}
	if len(projects) == 0 {
		return []models.Project{}, nil
	}
	return projects, nil
}
