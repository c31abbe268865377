package reservationRepo

import (
	"context"
	"errors"
	"log"

	"tablevoice/database"
	"tablevoice/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when no reservation matches the given code.
// Check and cancel flows treat it as a normal outcome, not a failure.
var ErrNotFound = errors.New("reservation not found")

// Repository persists reservation records. Created records get a unique
// short alphanumeric code; cancel flips status and never deletes.
type Repository interface {
	Create(ctx context.Context, res models.Reservation) (*models.Reservation, error)
	GetByCode(ctx context.Context, code string) (*models.Reservation, error)
	Cancel(ctx context.Context, code string) error
	List(ctx context.Context, limit int64) ([]models.Reservation, error)
}

type mongoReservationRepo struct {
	coll *mongo.Collection
}

// NewMongoReservationRepo returns a Repository backed by MongoDB.
func NewMongoReservationRepo() Repository {
	db := database.MongoClient.Database("tablevoice")
	repo := &mongoReservationRepo{
		coll: db.Collection("reservations"),
	}
	if err := repo.EnsureIndexes(context.Background()); err != nil {
		log.Printf("failed to ensure reservation indexes: %v", err)
	}
	return repo
}
