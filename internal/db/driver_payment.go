package db

import (
	"context"
	"fmt"
	"time"

	"github.com/ukydev/fleet-booking/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDriverPaymentCollection implements DriverPaymentCollection for MongoDB.
type MongoDriverPaymentCollection struct {
	Collection *mongo.Collection
}

// InsertDriverPayment inserts a driver payment and returns it with its generated ID.
func (c *MongoDriverPaymentCollection) InsertDriverPayment(ctx context.Context, payment models.DriverPayment) (*models.DriverPayment, error) {
	if c.Collection == nil {
		return nil, errNilCollection
	}
	now := time.Now()
	payment.ID = primitive.NewObjectID()
	payment.CreatedAt = now
	payment.UpdatedAt = now
	if _, err := c.Collection.InsertOne(ctx, payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// FindDriverPaymentByID finds one driver payment of a booking.
func (c *MongoDriverPaymentCollection) FindDriverPaymentByID(ctx context.Context, bookingID, id string) (*models.DriverPayment, error) {
	if c.Collection == nil {
		return nil, errNilCollection
	}
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var payment models.DriverPayment
	err = c.Collection.FindOne(ctx, bson.M{"_id": oid, "booking_id": bookingID}).Decode(&payment)
	if err != nil {
		return nil, notFound(err, "driver payment")
	}
	return &payment, nil
}

// FindDriverPaymentsByBooking returns the driver payments of the given bookings,
// oldest first.
func (c *MongoDriverPaymentCollection) FindDriverPaymentsByBooking(ctx context.Context, bookingIDs ...string) ([]models.DriverPayment, error) {
	if len(bookingIDs) == 0 {
		return []models.DriverPayment{}, nil
	}
	return c.find(ctx, bson.M{"booking_id": bson.M{"$in": bookingIDs}}, bson.D{{Key: "date", Value: 1}})
}

// FindDriverPaymentsByDriver returns every payment made to a driver, newest first.
func (c *MongoDriverPaymentCollection) FindDriverPaymentsByDriver(ctx context.Context, driverID string) ([]models.DriverPayment, error) {
	return c.find(ctx, bson.M{"driver_id": driverID}, bson.D{{Key: "date", Value: -1}})
}

// ReplaceDriverPayment stores payment over the existing record with the same ID.
func (c *MongoDriverPaymentCollection) ReplaceDriverPayment(ctx context.Context, payment models.DriverPayment) error {
	if c.Collection == nil {
		return errNilCollection
	}
	payment.UpdatedAt = time.Now()
	result, err := c.Collection.ReplaceOne(ctx, bson.M{"_id": payment.ID, "booking_id": payment.BookingID}, payment)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("driver payment %w", ErrNotFound)
	}
	return nil
}

// DeleteDriverPayment deletes one driver payment of a booking.
func (c *MongoDriverPaymentCollection) DeleteDriverPayment(ctx context.Context, bookingID, id string) error {
	if c.Collection == nil {
		return errNilCollection
	}
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	result, err := c.Collection.DeleteOne(ctx, bson.M{"_id": oid, "booking_id": bookingID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("driver payment %w", ErrNotFound)
	}
	return nil
}

// SettleDriverPayments marks every driver payment of a booking settled or
// unsettled and reports how many were changed.
func (c *MongoDriverPaymentCollection) SettleDriverPayments(ctx context.Context, bookingID string, settled bool, at time.Time) (int64, error) {
	if c.Collection == nil {
		return 0, errNilCollection
	}
	update := bson.M{"$set": bson.M{"settled": true, "settled_at": at, "updated_at": at}}
	if !settled {
		update = bson.M{
			"$set":   bson.M{"settled": false, "updated_at": at},
			"$unset": bson.M{"settled_at": ""},
		}
	}
	result, err := c.Collection.UpdateMany(ctx, bson.M{"booking_id": bookingID}, update)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

func (c *MongoDriverPaymentCollection) find(ctx context.Context, filter bson.M, sort bson.D) ([]models.DriverPayment, error) {
	if c.Collection == nil {
		return nil, errNilCollection
	}
	cursor, err := c.Collection.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	payments := []models.DriverPayment{}
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}
