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

var ErrDuplicateAttendance = errors.New("attendance already recorded for this worker and date")

type AttendanceRepository interface {
	CreateAttendance(ctx context.Context, attendance *models.Attendance) (*mongo.InsertOneResult, error)
	FindAttendanceByID(ctx context.Context, id primitive.ObjectID) (*models.Attendance, error)
	GetAllAttendanceWithDetails(ctx context.Context, filter bson.M) ([]models.AttendanceWithDetails, error)
	UpdateAttendance(ctx context.Context, id primitive.ObjectID, updateData bson.M) (*mongo.UpdateResult, error)
	DeleteAttendance(ctx context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error)

	LiveByWorker(ctx context.Context, workerID primitive.ObjectID) ([]models.Attendance, error)
	FindByWorker(ctx context.Context, workerID primitive.ObjectID, startDate, endDate string) ([]models.Attendance, error)
	CountByWorker(ctx context.Context, workerID primitive.ObjectID) (int64, error)
	Report(ctx context.Context, startDate, endDate, groupBy string) ([]models.AttendanceReportRow, error)
	RecentAttendance(ctx context.Context, limit int64) ([]models.AttendanceWithDetails, error)
}

type attendanceRepository struct {
	collection *mongo.Collection
}

func NewAttendanceRepository() AttendanceRepository {
	return &attendanceRepository{
		collection: config.GetCollection(config.AttendanceCollection),
	}
}

func (r *attendanceRepository) CreateAttendance(ctx context.Context, attendance *models.Attendance) (*mongo.InsertOneResult, error) {
	attendance.ID = primitive.NewObjectID()
	attendance.CreatedAt = time.Now()
	attendance.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, attendance)
	if err != nil {
		// The unique (worker_id, date) index enforces one record per day.
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateAttendance
		}
		return nil, fmt.Errorf("failed to create attendance: %w", err)
	}
	return result, nil
}

func (r *attendanceRepository) FindAttendanceByID(ctx context.Context, id primitive.ObjectID) (*models.Attendance, error) {
	var attendance models.Attendance
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&attendance)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find attendance by ID: %w", err)
	}
	return &attendance, nil
}

func (r *attendanceRepository) GetAllAttendanceWithDetails(ctx context.Context, filter bson.M) ([]models.AttendanceWithDetails, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$sort", Value: bson.D{{Key: "date", Value: -1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: config.WorkerCollection},
			{Key: "localField", Value: "worker_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "workerDetails"},
		}}},
		{{Key: "$unwind", Value: "$workerDetails"}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: config.ProjectCollection},
			{Key: "localField", Value: "project_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "projectDetails"},
		}}},
		{{Key: "$unwind", Value: "$projectDetails"}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 1},
			{Key: "date", Value: 1},
			{Key: "worker_id", Value: 1},
			{Key: "project_id", Value: 1},
			{Key: "status", Value: 1},
			{Key: "overtime_hours", Value: 1},
			{Key: "notes", Value: 1},
			{Key: "worker_name", Value: "$workerDetails.name"},
			{Key: "worker_role", Value: "$workerDetails.role"},
			{Key: "project_name", Value: "$projectDetails.name"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate attendance list: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.AttendanceWithDetails
	if err = cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode attendance list: %w", err)
	}
	if len(results) == 0 {
		return []models.AttendanceWithDetails{}, nil
	}
	return results, nil
}

func (r *attendanceRepository) UpdateAttendance(ctx context.Context, id primitive.ObjectID, updateData bson.M) (*mongo.UpdateResult, error) {
	updateData["updated_at"] = time.Now()
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updateData})
	if err != nil {
		return nil, fmt.Errorf("failed to update attendance: %w", err)
	}
	return result, nil
}

func (r *attendanceRepository) DeleteAttendance(ctx context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to delete attendance: %w", err)
	}
	return result, nil
}

func (r *attendanceRepository) LiveByWorker(ctx context.Context, workerID primitive.ObjectID) ([]models.Attendance, error) {
	return r.FindByWorker(ctx, workerID, "", "")
}

func (r *attendanceRepository) FindByWorker(ctx context.Context, workerID primitive.ObjectID, startDate, endDate string) ([]models.Attendance, error) {
	filter := bson.M{"worker_id": workerID}
	if startDate != "" && endDate != "" {
		filter["date"] = bson.M{"$gte": startDate, "$lte": endDate}
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find attendance by worker: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.Attendance
	if err = cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode attendance by worker: %w", err)
	}
	if len(results) == 0 {
		return []models.Attendance{}, nil
	}
	return results, nil
}

func (r *attendanceRepository) CountByWorker(ctx context.Context, workerID primitive.ObjectID) (int64, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{"worker_id": workerID})
	if err != nil {
		return 0, fmt.Errorf("failed to count attendance by worker: %w", err)
	}
	return total, nil
}

// Report buckets the records of a date range by date, worker or project
// and counts statuses per bucket.
func (r *attendanceRepository) Report(ctx context.Context, startDate, endDate, groupBy string) ([]models.AttendanceReportRow, error) {
	var groupKey interface{}
	switch groupBy {
	case "worker":
		groupKey = bson.M{"$toString": "$worker_id"}
	case "project":
		groupKey = bson.M{"$toString": "$project_id"}
	default:
		groupKey = "$date"
	}

	statusCount := func(status string) bson.M {
		return bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$status", status}}, 1, 0}}}
	}

	pipeline := []bson.M{
		{"$match": bson.M{"date": bson.M{"$gte": startDate, "$lte": endDate}}},
		{"$group": bson.M{
			"_id":     groupKey,
			"present": statusCount(models.AttendancePresent),
			"absent":  statusCount(models.AttendanceAbsent),
			"halfday": statusCount(models.AttendanceHalfday),
			"total":   bson.M{"$sum": 1},
		}},
		{"$sort": bson.M{"_id": 1}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate attendance report: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []models.AttendanceReportRow
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode attendance report: %w", err)
	}
	if len(rows) == 0 {
		return []models.AttendanceReportRow{}, nil
	}
	return rows, nil
}

func (r *attendanceRepository) RecentAttendance(ctx context.Context, limit int64) ([]models.AttendanceWithDetails, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: config.WorkerCollection},
			{Key: "localField", Value: "worker_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "workerDetails"},
		}}},
		{{Key: "$unwind", Value: "$workerDetails"}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: config.ProjectCollection},
			{Key: "localField", Value: "project_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "projectDetails"},
		}}},
		{{Key: "$unwind", Value: "$projectDetails"}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 1},
			{Key: "date", Value: 1},
			{Key: "worker_id", Value: 1},
			{Key: "project_id", Value: 1},
			{Key: "status", Value: 1},
			{Key: "overtime_hours", Value: 1},
			{Key: "worker_name", Value: "$workerDetails.name"},
			{Key: "project_name", Value: "$projectDetails.name"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate recent attendance: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.AttendanceWithDetails
	if err = cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode recent attendance: %w", err)
	}
	if len(results) == 0 {
		return []models.AttendanceWithDetails{}, nil
	}
	return results, nil
}
