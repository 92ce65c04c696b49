package mongo

import (
	"context"
	"errors"
	"time"

	"fitcal/workout-planner/internal/calendar"
	"fitcal/workout-planner/internal/domain"
	"fitcal/workout-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const scheduledExerciseCollectionName = "scheduled_exercises"

// mongoScheduledExerciseRepository implements repository.ScheduledExerciseRepository
type mongoScheduledExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoScheduledExerciseRepository creates a new ScheduledExercise repository.
func NewMongoScheduledExerciseRepository(db *mongo.Database) repository.ScheduledExerciseRepository {
	return &mongoScheduledExerciseRepository{
		collection: db.Collection(scheduledExerciseCollectionName),
	}
}

// Create inserts a single scheduled exercise instance.
func (r *mongoScheduledExerciseRepository) Create(ctx context.Context, instance *domain.ScheduledExercise) (primitive.ObjectID, error) {
	if instance.UserID == primitive.NilObjectID || instance.ExerciseID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("scheduled exercise requires userId and exerciseId")
	}
	instance.ID = primitive.NewObjectID()
	instance.Date = calendar.Normalize(instance.Date)
	now := time.Now().UTC()
	instance.CreatedAt = now
	instance.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, instance)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted instance ID")
	}
	return insertedID, nil
}

// CreateMany inserts a batch of instances in one call. Returns the number inserted.
func (r *mongoScheduledExerciseRepository) CreateMany(ctx context.Context, instances []domain.ScheduledExercise) (int, error) {
	if len(instances) == 0 {
		return 0, nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(instances))
	for i := range instances {
		instances[i].ID = primitive.NewObjectID()
		instances[i].Date = calendar.Normalize(instances[i].Date)
		instances[i].CreatedAt = now
		instances[i].UpdatedAt = now
		docs = append(docs, instances[i])
	}
	result, err := r.collection.InsertMany(ctx, docs)
	if result == nil {
		return 0, err
	}
	return len(result.InsertedIDs), err
}

// GetByID retrieves a single instance by ID.
func (r *mongoScheduledExerciseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ScheduledExercise, error) {
	var instance domain.ScheduledExercise
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&instance)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &instance, nil
}

// GetByUserAndDateRange retrieves all instances of a user within [start, end].
func (r *mongoScheduledExerciseRepository) GetByUserAndDateRange(ctx context.Context, userID primitive.ObjectID, start, end time.Time) ([]domain.ScheduledExercise, error) {
	filter := bson.M{
		"userId": userID,
		"date": bson.M{
			"$gte": calendar.Normalize(start),
			"$lte": calendar.Normalize(end),
		},
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var instances []domain.ScheduledExercise
	if err = cursor.All(ctx, &instances); err != nil {
		return nil, err
	}
	return instances, nil
}

// DatesWithPlanInstances returns the distinct dates in range already holding
// instances generated from the plan.
func (r *mongoScheduledExerciseRepository) DatesWithPlanInstances(ctx context.Context, planID primitive.ObjectID, start, end time.Time) (map[time.Time]bool, error) {
	filter := bson.M{
		"workoutPlanId": planID,
		"date": bson.M{
			"$gte": calendar.Normalize(start),
			"$lte": calendar.Normalize(end),
		},
	}
	values, err := r.collection.Distinct(ctx, "date", filter)
	if err != nil {
		return nil, err
	}
	dates := make(map[time.Time]bool, len(values))
	for _, v := range values {
		switch d := v.(type) {
		case primitive.DateTime:
			dates[calendar.Normalize(d.Time())] = true
		case time.Time:
			dates[calendar.Normalize(d)] = true
		}
	}
	return dates, nil
}

// DeleteByPlanAndDateRange removes all of the plan's instances in [start, end].
func (r *mongoScheduledExerciseRepository) DeleteByPlanAndDateRange(ctx context.Context, planID primitive.ObjectID, start, end time.Time) (int64, error) {
	filter := bson.M{
		"workoutPlanId": planID,
		"date": bson.M{
			"$gte": calendar.Normalize(start),
			"$lte": calendar.Normalize(end),
		},
	}
	result, err := r.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// DeleteByUserAndDate clears every instance of the user on one date.
func (r *mongoScheduledExerciseRepository) DeleteByUserAndDate(ctx context.Context, userID primitive.ObjectID, date time.Time) (int64, error) {
	filter := bson.M{"userId": userID, "date": calendar.Normalize(date)}
	result, err := r.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// Update persists the mutable fields of an instance.
func (r *mongoScheduledExerciseRepository) Update(ctx context.Context, instance *domain.ScheduledExercise) error {
	if instance.ID == primitive.NilObjectID {
		return errors.New("scheduled exercise ID is required for update")
	}
	updateDoc := bson.M{
		"$set": bson.M{
			"date":        calendar.Normalize(instance.Date),
			"sets":        instance.Sets,
			"reps":        instance.Reps,
			"weight":      instance.Weight,
			"notes":       instance.Notes,
			"completed":   instance.Completed,
			"completedAt": instance.CompletedAt,
			"updatedAt":   time.Now().UTC(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": instance.ID}, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes an instance owned by the given user.
func (r *mongoScheduledExerciseRepository) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureScheduledExerciseIndexes creates necessary indexes. Call during startup.
func EnsureScheduledExerciseIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Calendar reads: everything for a user in a date window
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index(),
		},
		{
			// Generation/replace: a plan's instances in a date window
			Keys:    bson.D{{Key: "workoutPlanId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
