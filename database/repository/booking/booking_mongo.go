package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"wanderstay/database"
	"wanderstay/models"
)

// ErrBookingNotFound is returned when no booking matches the lookup.
var ErrBookingNotFound = errors.New("booking not found")

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

func NewMongoBookingRepo() *MongoBookingRepo {
	coll := database.MongoClient.Database("wanderstay").Collection("bookings")
	repo := &MongoBookingRepo{coll: coll}
	repo.ensureIndexes()
	return repo
}

func (repo *MongoBookingRepo) ensureIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "bookingId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "guestEmail", Value: 1}},
		},
	}
	if _, err := repo.coll.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Printf("failed to ensure booking indexes: %v", err)
	}
}

// Create inserts a confirmed booking document.
func (repo *MongoBookingRepo) Create(ctx context.Context, confirmation *models.BookingConfirmation) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctxWithTimeout, confirmation); err != nil {
		return fmt.Errorf("error creating booking record: %w", err)
	}
	return nil
}

// GetByID retrieves a confirmed booking by its upstream booking id.
func (repo *MongoBookingRepo) GetByID(ctx context.Context, bookingID string) (*models.BookingConfirmation, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var confirmation models.BookingConfirmation
	err := repo.coll.FindOne(ctxWithTimeout, bson.M{"bookingId": bookingID}).Decode(&confirmation)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching booking %s: %w", bookingID, err)
	}
	return &confirmation, nil
}

// ListByGuestEmail returns all confirmed bookings for a guest, newest first.
func (repo *MongoBookingRepo) ListByGuestEmail(ctx context.Context, email string) ([]models.BookingConfirmation, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := repo.coll.Find(ctxWithTimeout, bson.M{"guestEmail": email}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing bookings for %s: %w", email, err)
	}
	defer cursor.Close(ctxWithTimeout)

	var confirmations []models.BookingConfirmation
	if err := cursor.All(ctxWithTimeout, &confirmations); err != nil {
		return nil, fmt.Errorf("error decoding bookings for %s: %w", email, err)
	}
	return confirmations, nil
}
