package database

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DataManager provides typed access to a MongoDB collection
type DataManager[T any] struct {
	name       string
	dbInstance *Database
}

// NewDataManager creates a new DataManager for a collection
func NewDataManager[T any](collectionName string, db *Database) *DataManager[T] {
	return &DataManager[T]{
		name:       collectionName,
		dbInstance: db,
	}
}

// Name returns the collection name
func (dm *DataManager[T]) Name() string {
	return dm.name
}

func (dm *DataManager[T]) collection() (*mongo.Collection, error) {
	if !dm.dbInstance.Connected() {
		return nil, ErrStorageUnavailable
	}
	col := dm.dbInstance.GetCollection(dm.name)
	if col == nil {
		return nil, ErrStorageUnavailable
	}
	return col, nil
}

// Get retrieves a single document. A missing document yields (nil, nil).
func (dm *DataManager[T]) Get(ctx context.Context, query bson.M) (*T, error) {
	col, err := dm.collection()
	if err != nil {
		return nil, err
	}

	var result T
	err = col.FindOne(ctx, query).Decode(&result)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, dm.dbInstance.classify(err)
	}
	return &result, nil
}

// GetAll retrieves every document matching a query
func (dm *DataManager[T]) GetAll(ctx context.Context, query bson.M, opts ...*options.FindOptions) ([]T, error) {
	col, err := dm.collection()
	if err != nil {
		return nil, err
	}

	cursor, err := col.Find(ctx, query, opts...)
	if err != nil {
		return nil, dm.dbInstance.classify(err)
	}

	results := make([]T, 0)
	if err := cursor.All(ctx, &results); err != nil {
		return nil, dm.dbInstance.classify(err)
	}
	return results, nil
}

// Upsert applies update to the document matching query, creating it when absent,
// and returns the document as stored after the update.
func (dm *DataManager[T]) Upsert(ctx context.Context, query bson.M, update bson.M) (*T, error) {
	col, err := dm.collection()
	if err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var result T
	err = col.FindOneAndUpdate(ctx, query, update, opts).Decode(&result)
	if mongo.IsDuplicateKeyError(err) {
		// Two concurrent upserts raced on a unique index; the loser retries once as a plain update.
		err = col.FindOneAndUpdate(ctx, query, update, opts).Decode(&result)
	}
	if err != nil {
		return nil, dm.dbInstance.classify(err)
	}
	return &result, nil
}

// Set replaces the fields in data on the document matching query, creating it when absent
func (dm *DataManager[T]) Set(ctx context.Context, query bson.M, data interface{}) (*T, error) {
	return dm.Upsert(ctx, query, bson.M{"$set": data})
}

// Insert stores new documents
func (dm *DataManager[T]) Insert(ctx context.Context, docs ...T) error {
	if len(docs) == 0 {
		return nil
	}
	col, err := dm.collection()
	if err != nil {
		return err
	}

	items := make([]interface{}, len(docs))
	for i := range docs {
		items[i] = docs[i]
	}
	_, err = col.InsertMany(ctx, items, options.InsertMany().SetOrdered(false))
	return dm.dbInstance.classify(err)
}

// Delete removes the document matching query and reports whether one existed
func (dm *DataManager[T]) Delete(ctx context.Context, query bson.M) (bool, error) {
	col, err := dm.collection()
	if err != nil {
		return false, err
	}

	res, err := col.DeleteOne(ctx, query)
	if err != nil {
		return false, dm.dbInstance.classify(err)
	}
	return res.DeletedCount > 0, nil
}

// EnsureIndex creates an index over keys if it does not exist yet
func (dm *DataManager[T]) EnsureIndex(ctx context.Context, keys bson.D, unique bool) error {
	col, err := dm.collection()
	if err != nil {
		return err
	}

	_, err = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    keys,
		Options: options.Index().SetUnique(unique),
	})
	return dm.dbInstance.classify(err)
}
