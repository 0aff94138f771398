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

type PaymentRepository interface {
	CreatePayment(ctx context.Context, payment *models.Payment) (*mongo.InsertOneResult, error)
	FindPaymentByID(ctx context.Context, id primitive.ObjectID) (*models.Payment, error)
	GetAllPayments(ctx context.Context, filter bson.M) ([]models.Payment, error)
	UpdatePayment(ctx context.Context, id primitive.ObjectID, updateData bson.M) (*mongo.UpdateResult, error)
	DeletePayment(ctx context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error)

	LiveByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Payment, error)
	LiveByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Payment, error)
	FindByOwner(ctx context.Context, ownerID primitive.ObjectID, startDate, endDate string) ([]models.Payment, error)
	CountByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error)
	TotalPaymentsReceived(ctx context.Context) (float64, error)
	RecentPayments(ctx context.Context, limit int64) ([]models.Payment, error)
}

type paymentRepository struct {
	collection *mongo.Collection
}

func NewPaymentRepository() PaymentRepository {
	return &paymentRepository{
		collection: config.GetCollection(config.PaymentCollection),
	}
}

func (r *paymentRepository) CreatePayment(ctx context.Context, payment *models.Payment) (*mongo.InsertOneResult, error) {
	payment.ID = primitive.NewObjectID()
	payment.CreatedAt = time.Now()
	payment.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, payment)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}
	return result, nil
}

func (r *paymentRepository) FindPaymentByID(ctx context.Context, id primitive.ObjectID) (*models.Payment, error) {
	var payment models.Payment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&payment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find payment by ID: %w", err)
	}
	return &payment, nil
}

func (r *paymentRepository) GetAllPayments(ctx context.Context, filter bson.M) ([]models.Payment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find payments: %w", err)
	}
	defer cursor.Close(ctx)

	var payments []models.Payment
	if err = cursor.All(ctx, &payments); err != nil {
		return nil, fmt.Errorf("failed to decode payments: %w", err)
	}
	if len(payments) == 0 {
		return []models.Payment{}, nil
	}
	return payments, nil
}

func (r *paymentRepository) UpdatePayment(ctx context.Context, id primitive.ObjectID, updateData bson.M) (*mongo.UpdateResult, error) {
	updateData["updated_at"] = time.Now()
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updateData})
	if err != nil {
		return nil, fmt.Errorf("failed to update payment: %w", err)
	}
	return result, nil
}

func (r *paymentRepository) DeletePayment(ctx context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to delete payment: %w", err)
	}
	return result, nil
}

func (r *paymentRepository) LiveByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Payment, error) {
	return r.GetAllPayments(ctx, bson.M{"project_id": projectID})
}

func (r *paymentRepository) LiveByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Payment, error) {
	return r.GetAllPayments(ctx, bson.M{"project_owner_id": ownerID})
}

func (r *paymentRepository) FindByOwner(ctx context.Context, ownerID primitive.ObjectID, startDate, endDate string) ([]models.Payment, error) {
	filter := bson.M{"project_owner_id": ownerID}
	if startDate != "" && endDate != "" {
		filter["date"] = bson.M{"$gte": startDate, "$lte": endDate}
	}
	return r.GetAllPayments(ctx, filter)
}

func (r *paymentRepository) CountByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{"project_id": projectID})
	if err != nil {
		return 0, fmt.Errorf("failed to count payments by project: %w", err)
	}
	return total, nil
}

func (r *paymentRepository) TotalPaymentsReceived(ctx context.Context) (float64, error) {
	return sumField(ctx, r.collection, "$amount")
}

func (r *paymentRepository) RecentPayments(ctx context.Context, limit int64) ([]models.Payment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find recent payments: %w", err)
	}
	defer cursor.Close(ctx)

	var payments []models.Payment
	if err = cursor.All(ctx, &payments); err != nil {
		return nil, fmt.Errorf("failed to decode recent payments: %w", err)
	}
	if len(payments) == 0 {
		return []models.Payment{}, nil
	}
	return payments, nil
}
