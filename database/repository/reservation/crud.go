package reservationRepo

import (
	"context"
	"errors"
	"time"

	"tablevoice/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// maxCodeAttempts bounds collision retries when allocating a code.
const maxCodeAttempts = 5

// Create inserts a new reservation with a freshly allocated confirmation
// code and returns the stored record.
func (r *mongoReservationRepo) Create(ctx context.Context, res models.Reservation) (*models.Reservation, error) {
	if res.ID == "" {
		res.ID = uuid.New().String()
	}
	res.Status = models.ReservationActive
	res.CreatedAt = time.Now()
	res.UpdatedAt = time.Now()

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		res.Code = newReservationCode()
		_, err := r.coll.InsertOne(ctx, res)
		if err == nil {
			return &res, nil
		}
		if mongo.IsDuplicateKeyError(err) {
			continue
		}
		return nil, err
	}
	return nil, errors.New("could not allocate a unique reservation code")
}

// GetByCode returns the reservation with the given confirmation code.
func (r *mongoReservationRepo) GetByCode(ctx context.Context, code string) (*models.Reservation, error) {
	var res models.Reservation
	err := r.coll.FindOne(ctx, bson.M{"code": code}).Decode(&res)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Cancel marks an active reservation as cancelled. The record is kept.
func (r *mongoReservationRepo) Cancel(ctx context.Context, code string) error {
	update := bson.M{"$set": bson.M{
		"status":    models.ReservationCancelled,
		"updatedAt": time.Now(),
	}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"code": code}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns the most recent reservations, newest first.
func (r *mongoReservationRepo) List(ctx context.Context, limit int64) ([]models.Reservation, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	opts := options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(limit)
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reservations []models.Reservation
	if err := cursor.All(ctx, &reservations); err != nil {
		return nil, err
	}
	return reservations, nil
}
