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

type MaterialRepository interface {
	CreateMaterial(ctx context.Context, material *models.Material) (*mongo.InsertOneResult, error)
	FindMaterialByID(ctx context.Context, id primitive.ObjectID) (*models.Material, error)
	GetAllMaterials(ctx context.Context, filter bson.M) ([]models.Material, error)
	UpdateMaterial(ctx context.Context, id primitive.ObjectID, updateData bson.M) (*mongo.UpdateResult, error)
	DeleteMaterial(ctx context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error)

	LiveByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Material, error)
	CountByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error)
	TotalMaterialCost(ctx context.Context) (float64, error)
}

type materialRepository struct {
	collection *mongo.Collection
}

func NewMaterialRepository() MaterialRepository {
	return &materialRepository{
		collection: config.GetCollection(config.MaterialCollection),
	}
}

func (r *materialRepository) CreateMaterial(ctx context.Context, material *models.Material) (*mongo.InsertOneResult, error) {
	material.ID = primitive.NewObjectID()
	material.CreatedAt = time.Now()
	material.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, material)
	if err != nil {
		return nil, fmt.Errorf("failed to create material: %w", err)
	}
	return result, nil
}

func (r *materialRepository) FindMaterialByID(ctx context.Context, id primitive.ObjectID) (*models.Material, error) {
	var material models.Material
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&material)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find material by ID: %w", err)
	}
	return &material, nil
}

func (r *materialRepository) GetAllMaterials(ctx context.Context, filter bson.M) ([]models.Material, error) {
	opts := options.Find().SetSort(bson.D{{Key: "purchase_date", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find materials: %w", err)
	}
	defer cursor.Close(ctx)

	var materials []models.Material
	if err = cursor.All(ctx, &materials); err != nil {
		return nil, fmt.Errorf("failed to decode materials: %w", err)
	}
	if len(materials) == 0 {
		return []models.Material{}, nil
	}
	return materials, nil
}

func (r *materialRepository) UpdateMaterial(ctx context.Context, id primitive.ObjectID, updateData bson.M) (*mongo.UpdateResult, error) {
	updateData["updated_at"] = time.Now()
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updateData})
	if err != nil {
		return nil, fmt.Errorf("failed to update material: %w", err)
	}
	return result, nil
}

func (r *materialRepository) DeleteMaterial(ctx context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to delete material: %w", err)
	}
	return result, nil
}

func (r *materialRepository) LiveByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Material, error) {
	return r.GetAllMaterials(ctx, bson.M{"project_id": projectID})
}

func (r *materialRepository) CountByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{"project_id": projectID})
	if err != nil {
		return 0, fmt.Errorf("failed to count materials by project: %w", err)
	}
	return total, nil
}

func (r *materialRepository) TotalMaterialCost(ctx context.Context) (float64, error) {
	return sumField(ctx, r.collection, "$total_cost")
}
