package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDirectory implements DirectoryCollection for one reference collection.
// Documents must carry _id, created_at and updated_at fields.
type MongoDirectory[T any] struct {
	Collection *mongo.Collection
	// Name is used in error messages, e.g. "driver".
	Name string
}

// Insert stores doc with fresh timestamps and returns the stored record.
func (c *MongoDirectory[T]) Insert(ctx context.Context, doc T) (*T, error) {
	if c.Collection == nil {
		return nil, errNilCollection
	}
	fields, err := toDoc(doc)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", c.Name, err)
	}
	now := time.Now()
	oid := primitive.NewObjectID()
	fields["_id"] = oid
	fields["created_at"] = now
	fields["updated_at"] = now

	if _, err := c.Collection.InsertOne(ctx, fields); err != nil {
		return nil, duplicate(err)
	}
	return c.findByOID(ctx, oid)
}

// List returns all records sorted by name.
func (c *MongoDirectory[T]) List(ctx context.Context) ([]T, error) {
	if c.Collection == nil {
		return nil, errNilCollection
	}
	cursor, err := c.Collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FindByID finds a record by its ID.
func (c *MongoDirectory[T]) FindByID(ctx context.Context, id string) (*T, error) {
	if c.Collection == nil {
		return nil, errNilCollection
	}
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return c.findByOID(ctx, oid)
}

// Update overwrites the record's fields with doc. The ID and creation time are kept.
func (c *MongoDirectory[T]) Update(ctx context.Context, id string, doc T) (*T, error) {
	if c.Collection == nil {
		return nil, errNilCollection
	}
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	fields, err := toDoc(doc)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", c.Name, err)
	}
	delete(fields, "_id")
	delete(fields, "created_at")
	fields["updated_at"] = time.Now()

	result, err := c.Collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": fields})
	if err != nil {
		return nil, duplicate(err)
	}
	if result.MatchedCount == 0 {
		return nil, fmt.Errorf("%s %w", c.Name, ErrNotFound)
	}
	return c.findByOID(ctx, oid)
}

// Delete deletes a record by its ID.
func (c *MongoDirectory[T]) Delete(ctx context.Context, id string) error {
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
		return fmt.Errorf("%s %w", c.Name, ErrNotFound)
	}
	return nil
}

// IDByPhones returns the hex ID of the first record whose phone equals one of
// phones. Matching is literal.
func (c *MongoDirectory[T]) IDByPhones(ctx context.Context, phones []string) (string, error) {
	if c.Collection == nil {
		return "", errNilCollection
	}
	if len(phones) == 0 {
		return "", fmt.Errorf("%s %w", c.Name, ErrNotFound)
	}
	var hit struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	opts := options.FindOne().
		SetProjection(bson.M{"_id": 1}).
		SetSort(bson.D{{Key: "created_at", Value: 1}})
	err := c.Collection.FindOne(ctx, bson.M{"phone": bson.M{"$in": phones}}, opts).Decode(&hit)
	if err != nil {
		return "", notFound(err, c.Name)
	}
	return hit.ID.Hex(), nil
}

func (c *MongoDirectory[T]) findByOID(ctx context.Context, oid primitive.ObjectID) (*T, error) {
	var doc T
	if err := c.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, notFound(err, c.Name)
	}
	return &doc, nil
}
