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

type ProjectOwnerRepository interface {
	CreateOwner(ctx context.Context, owner *models.ProjectOwner) (*mongo.InsertOneResult, error)
	FindOwnerByID(ctx context.Context, id primitive.ObjectID) (*models.ProjectOwner, error)
	GetAllOwners(ctx context.Context) ([]models.ProjectOwner, error)
	UpdateOwner(ctx context.Context, id primitive.ObjectID, updateData bson.M) (*mongo.UpdateResult, error)
	DeleteOwner(ctx context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error)

	RecordPayment(ctx context.Context, id primitive.ObjectID, delta float64) error
	SetFinancials(ctx context.Context, id primitive.ObjectID, paid, balance float64) error

	CountOwners(ctx context.Context) (int64, error)
}

type projectOwnerRepository struct {
	collection *mongo.Collection
}

func NewProjectOwnerRepository() ProjectOwnerRepository {
	return &projectOwnerRepository{
		collection: config.GetCollection(config.ProjectOwnerCollection),
	}
}

func (r *projectOwnerRepository) CreateOwner(ctx context.Context, owner *models.ProjectOwner) (*mongo.InsertOneResult, error) {
	owner.ID = primitive.NewObjectID()
	owner.PaidAmount = 0
	owner.BalanceAmount = owner.TotalProjectValue
	owner.CreatedAt = time.Now()
	owner.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, owner)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicatePhone
		}
		return nil, fmt.Errorf("failed to create project owner: %w", err)
	}
	return result, nil
}

func (r *projectOwnerRepository) FindOwnerByID(ctx context.Context, id primitive.ObjectID) (*models.ProjectOwner, error) {
	var owner models.ProjectOwner
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&owner)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find project owner by ID: %w", err)
	}
	return &owner, nil
}

func (r *projectOwnerRepository) GetAllOwners(ctx context.Context) ([]models.ProjectOwner, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find project owners: %w", err)
	}
	defer cursor.Close(ctx)

	var owners []models.ProjectOwner
	if err = cursor.All(ctx, &owners); err != nil {
		return nil, fmt.Errorf("failed to decode project owners: %w", err)
	}
	if len(owners) == 0 {
		return []models.ProjectOwner{}, nil
	}
	return owners, nil
}

func (r *projectOwnerRepository) UpdateOwner(ctx context.Context, id primitive.ObjectID, updateData bson.M) (*mongo.UpdateResult, error) {
	updateData["updated_at"] = time.Now()
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updateData})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicatePhone
		}
		return nil, fmt.Errorf("failed to update project owner: %w", err)
	}
	return result, nil
}

func (r *projectOwnerRepository) DeleteOwner(ctx context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to delete project owner: %w", err)
	}
	return result, nil
}

func (r *projectOwnerRepository) RecordPayment(ctx context.Context, id primitive.ObjectID, delta float64) error {
	newPaid := bson.M{"$add": bson.A{"$paid_amount", delta}}
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"paid_amount":    newPaid,
			"balance_amount": bson.M{"$subtract": bson.A{"$total_project_value", newPaid}},
			"updated_at":     "$$NOW",
		}}},
	}
	_, err := r.collection.UpdateByID(ctx, id, pipeline)
	if err != nil {
		return fmt.Errorf("failed to record payment on project owner: %w", err)
	}
	return nil
}

func (r *projectOwnerRepository) SetFinancials(ctx context.Context, id primitive.ObjectID, paid, balance float64) error {
	update := bson.M{"$set": bson.M{
		"paid_amount":    paid,
		"balance_amount": balance,
		"updated_at":     time.Now(),
	}}
	_, err := r.collection.UpdateByID(ctx, id, update)
	if err != nil {
		return fmt.Errorf("failed to set project owner financials: %w", err)
	}
	return nil
}

func (r *projectOwnerRepository) CountOwners(ctx context.Context) (int64, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count project owners: %w", err)
	}
	return total, nil
}
