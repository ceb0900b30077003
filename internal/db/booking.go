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

// MongoBookingCollection implements BookingCollection for MongoDB.
type MongoBookingCollection struct {
	Collection *mongo.Collection
}

// InsertBooking inserts a booking and returns it with its generated ID.
func (c *MongoBookingCollection) InsertBooking(ctx context.Context, booking models.Booking) (*models.Booking, error) {
	if c.Collection == nil {
		return nil, errNilCollection
	}
	if booking.ID.IsZero() {
		booking.ID = primitive.NewObjectID()
	}
	if _, err := c.Collection.InsertOne(ctx, booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// FindBookings returns one page of bookings matching q, newest start date first,
// and the total number of matches.
func (c *MongoBookingCollection) FindBookings(ctx context.Context, q models.BookingQuery) ([]models.Booking, int64, error) {
	if c.Collection == nil {
		return nil, 0, errNilCollection
	}
	filter := BookingFilter(q)
	opts := options.Find().
		SetSort(bson.D{{Key: "start_date", Value: -1}}).
		SetSkip(q.Skip()).
		SetLimit(int64(q.Limit))

	cursor, err := c.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, 0, err
	}
	total, err := c.Collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// FindBookingByID finds a booking by its ID within scope.
func (c *MongoBookingCollection) FindBookingByID(ctx context.Context, id string, scope models.RecordScope) (*models.Booking, error) {
	if c.Collection == nil {
		return nil, errNilCollection
	}
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var booking models.Booking
	err = c.Collection.FindOne(ctx, scopeFilter(bson.M{"_id": oid}, scope)).Decode(&booking)
	if err != nil {
		return nil, notFound(err, "booking")
	}
	return &booking, nil
}

// FindBookingsByDriver returns a driver's bookings starting within [from, to].
func (c *MongoBookingCollection) FindBookingsByDriver(ctx context.Context, driverID string, from, to time.Time) ([]models.Booking, error) {
	if c.Collection == nil {
		return nil, errNilCollection
	}
	filter := bson.M{
		"driver_id":  driverID,
		"start_date": bson.M{"$gte": from, "$lte": to},
	}
	cursor, err := c.Collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// UpdateBooking applies the non-nil fields of update. A non-nil change is
// appended to the status history in the same write.
func (c *MongoBookingCollection) UpdateBooking(ctx context.Context, id string, update models.BookingUpdate, change *models.StatusChange) (*models.Booking, error) {
	if c.Collection == nil {
		return nil, errNilCollection
	}
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	set, err := toDoc(update)
	if err != nil {
		return nil, fmt.Errorf("encode booking update: %w", err)
	}
	set["updated_at"] = time.Now()

	doc := bson.M{"$set": set}
	if change != nil {
		doc["$push"] = bson.M{"status_history": change}
	}
	return c.findOneAndUpdate(ctx, bson.M{"_id": oid}, doc)
}

// SetStatus sets the booking status and appends the change to its history.
func (c *MongoBookingCollection) SetStatus(ctx context.Context, id string, scope models.RecordScope, change models.StatusChange) (*models.Booking, error) {
	if c.Collection == nil {
		return nil, errNilCollection
	}
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return c.findOneAndUpdate(ctx, scopeFilter(bson.M{"_id": oid}, scope), bson.M{
		"$set":  bson.M{"status": change.Status, "updated_at": change.Timestamp},
		"$push": bson.M{"status_history": change},
	})
}

// DeleteBooking deletes a booking by its ID.
func (c *MongoBookingCollection) DeleteBooking(ctx context.Context, id string) error {
	if c.Collection == nil {
		return errNilCollection
	}
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	result, err := c.Collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("booking %w", ErrNotFound)
	}
	return nil
}

// AddExpense appends an expense to the booking.
func (c *MongoBookingCollection) AddExpense(ctx context.Context, id string, expense models.Expense) (*models.Booking, error) {
	return c.pushItem(ctx, id, "expenses", expense)
}

// UpdateExpense replaces the fields of one expense in place.
func (c *MongoBookingCollection) UpdateExpense(ctx context.Context, id, expenseID string, expense models.Expense) (*models.Booking, error) {
	return c.setItem(ctx, id, "expenses", expenseID, bson.M{
		"expenses.$.type":        expense.Type,
		"expenses.$.amount":      expense.Amount,
		"expenses.$.description": expense.Description,
		"expenses.$.receipt":     expense.Receipt,
	})
}

// DeleteExpense removes one expense from the booking.
func (c *MongoBookingCollection) DeleteExpense(ctx context.Context, id, expenseID string) (*models.Booking, error) {
	return c.pullItem(ctx, id, "expenses", expenseID)
}

// AddPayment appends a payment to the booking.
func (c *MongoBookingCollection) AddPayment(ctx context.Context, id string, payment models.Payment) (*models.Booking, error) {
	return c.pushItem(ctx, id, "payments", payment)
}

// UpdatePayment replaces the fields of one payment in place.
func (c *MongoBookingCollection) UpdatePayment(ctx context.Context, id, paymentID string, payment models.Payment) (*models.Booking, error) {
	return c.setItem(ctx, id, "payments", paymentID, bson.M{
		"payments.$.amount":       payment.Amount,
		"payments.$.comments":     payment.Comments,
		"payments.$.collected_by": payment.CollectedBy,
		"payments.$.paid_on":      payment.PaidOn,
	})
}

// DeletePayment removes one payment from the booking.
func (c *MongoBookingCollection) DeletePayment(ctx context.Context, id, paymentID string) (*models.Booking, error) {
	return c.pullItem(ctx, id, "payments", paymentID)
}

// AddDutySlips appends uploaded duty slips in one write.
func (c *MongoBookingCollection) AddDutySlips(ctx context.Context, id string, slips []models.DutySlip) (*models.Booking, error) {
	if c.Collection == nil {
		return nil, errNilCollection
	}
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return c.findOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{
		"$push": bson.M{"duty_slips": bson.M{"$each": slips}},
		"$set":  bson.M{"updated_at": time.Now()},
	})
}

// RemoveDutySlip removes the duty slip stored at path.
func (c *MongoBookingCollection) RemoveDutySlip(ctx context.Context, id, path string) (*models.Booking, error) {
	if c.Collection == nil {
		return nil, errNilCollection
	}
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return c.findOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{
		"$pull": bson.M{"duty_slips": bson.M{"path": path}},
		"$set":  bson.M{"updated_at": time.Now()},
	})
}

func (c *MongoBookingCollection) pushItem(ctx context.Context, id, field string, item any) (*models.Booking, error) {
	if c.Collection == nil {
		return nil, errNilCollection
	}
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return c.findOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{
		"$push": bson.M{field: item},
		"$set":  bson.M{"updated_at": time.Now()},
	})
}

// setItem updates the array element matched by itemID through the positional operator.
func (c *MongoBookingCollection) setItem(ctx context.Context, id, field, itemID string, set bson.M) (*models.Booking, error) {
	if c.Collection == nil {
		return nil, errNilCollection
	}
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	itemOID, err := objectID(itemID)
	if err != nil {
		return nil, err
	}
	set["updated_at"] = time.Now()
	return c.findOneAndUpdate(ctx, bson.M{"_id": oid, field + "._id": itemOID}, bson.M{"$set": set})
}

func (c *MongoBookingCollection) pullItem(ctx context.Context, id, field, itemID string) (*models.Booking, error) {
	if c.Collection == nil {
		return nil, errNilCollection
	}
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	itemOID, err := objectID(itemID)
	if err != nil {
		return nil, err
	}
	return c.findOneAndUpdate(ctx, bson.M{"_id": oid, field + "._id": itemOID}, bson.M{
		"$pull": bson.M{field: bson.M{"_id": itemOID}},
		"$set":  bson.M{"updated_at": time.Now()},
	})
}

func (c *MongoBookingCollection) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*models.Booking, error) {
	var booking models.Booking
	err := c.Collection.FindOneAndUpdate(ctx, filter, update, afterUpdate()).Decode(&booking)
	if err != nil {
		return nil, notFound(err, "booking")
	}
	return &booking, nil
}
