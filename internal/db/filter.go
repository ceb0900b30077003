package db

import (
	"github.com/ukydev/fleet-booking/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

// BookingFilter translates a booking query into a MongoDB filter. Date bounds
// apply to the booking's own start and end dates.
func BookingFilter(q models.BookingQuery) bson.M {
	filter := bson.M{}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	if q.Source != "" {
		filter["booking_source"] = q.Source
	}
	if q.StartDate != nil {
		filter["start_date"] = bson.M{"$gte": *q.StartDate}
	}
	if q.EndDate != nil {
		filter["end_date"] = bson.M{"$lte": *q.EndDate}
	}
	if q.DriverID != "" {
		filter["driver_id"] = q.DriverID
	}
	if q.CustomerID != "" {
		filter["customer_id"] = q.CustomerID
	}
	return filter
}

// scopeFilter adds record scoping to a filter.
func scopeFilter(filter bson.M, scope models.RecordScope) bson.M {
	if scope.DriverID != "" {
		filter["driver_id"] = scope.DriverID
	}
	if scope.CustomerID != "" {
		filter["customer_id"] = scope.CustomerID
	}
	return filter
}
