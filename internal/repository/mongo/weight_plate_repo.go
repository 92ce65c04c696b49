package mongo

import (
	"context"
	"errors"
	"time"

	"fitcal/workout-planner/internal/domain"
	"fitcal/workout-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const weightPlateCollectionName = "weight_plates"

// mongoWeightPlateRepository implements repository.WeightPlateRepository
type mongoWeightPlateRepository struct {
	collection *mongo.Collection
}

// NewMongoWeightPlateRepository creates a new WeightPlate repository.
func NewMongoWeightPlateRepository(db *mongo.Database) repository.WeightPlateRepository {
	return &mongoWeightPlateRepository{
		collection: db.Collection(weightPlateCollectionName),
	}
}

func (r *mongoWeightPlateRepository) Create(ctx context.Context, plate *domain.WeightPlate) (primitive.ObjectID, error) {
	if plate.UserID == primitive.NilObjectID || plate.WeightKg <= 0 {
		return primitive.NilObjectID, errors.New("weight plate requires userId and a positive weight")
	}
	plate.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	plate.CreatedAt = now
	plate.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, plate)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted plate ID")
	}
	return insertedID, nil
}

func (r *mongoWeightPlateRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.WeightPlate, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "weightKg", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var plates []domain.WeightPlate
	if err = cursor.All(ctx, &plates); err != nil {
		return nil, err
	}
	return plates, nil
}

func (r *mongoWeightPlateRepository) Update(ctx context.Context, plate *domain.WeightPlate) error {
	if plate.ID == primitive.NilObjectID {
		return errors.New("weight plate ID is required for update")
	}
	updateDoc := bson.M{
		"$set": bson.M{
			"weightKg":  plate.WeightKg,
			"quantity":  plate.Quantity,
			"updatedAt": time.Now().UTC(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": plate.ID, "userId": plate.UserID}, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoWeightPlateRepository) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
