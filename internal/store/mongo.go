package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/medghazouan/bidayalab/internal/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// newestFirst matches the SQLite driver's ORDER BY created_at DESC, id DESC.
var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

type mongoDriver struct {
	client *mongo.Client
	db     *mongo.Database
}

// MongoOpener returns an Opener for a MongoDB deployment.
func MongoOpener(uri, database string) Opener {
	return func(ctx context.Context) (Driver, error) {
		return OpenMongo(ctx, uri, database)
	}
}

func OpenMongo(ctx context.Context, uri, database string) (Driver, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return &mongoDriver{client: client, db: client.Database(database)}, nil
}

func (d *mongoDriver) EnsureCollection(ctx context.Context, def Definition) error {
	indexes := []mongo.IndexModel{
		{Keys: newestFirst},
	}
	for _, field := range def.Unique {
		indexes = append(indexes, mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true).SetName(def.Name + "_" + field + "_key"),
		})
	}
	if _, err := d.db.Collection(def.Name).Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("ensure collection %s: %w", def.Name, err)
	}
	return nil
}

func (d *mongoDriver) Insert(ctx context.Context, coll string, doc Document) error {
	_, err := d.db.Collection(coll).InsertOne(ctx, doc)
	return mapMongoError(err)
}

func (d *mongoDriver) Replace(ctx context.Context, coll string, doc Document) error {
	filter := bson.D{{Key: "_id", Value: doc.DocMeta().ID}}
	res, err := d.db.Collection(coll).ReplaceOne(ctx, filter, doc)
	if err != nil {
		return mapMongoError(err)
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (d *mongoDriver) Delete(ctx context.Context, coll, id string) error {
	_, err := d.db.Collection(coll).DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	return err
}

func (d *mongoDriver) Get(ctx context.Context, coll, id string, out any) error {
	return d.findOne(ctx, coll, bson.D{{Key: "_id", Value: id}}, out)
}

func (d *mongoDriver) FindOne(ctx context.Context, coll, field string, value any, out any) error {
	return d.findOne(ctx, coll, bson.D{{Key: field, Value: value}}, out)
}

func (d *mongoDriver) findOne(ctx context.Context, coll string, filter bson.D, out any) error {
	opts := options.FindOne().SetSort(newestFirst)
	err := d.db.Collection(coll).FindOne(ctx, filter, opts).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ErrNotFound
	}
	return err
}

func (d *mongoDriver) List(ctx context.Context, coll string, out any) error {
	opts := options.Find().SetSort(newestFirst)
	cursor, err := d.db.Collection(coll).Find(ctx, bson.D{}, opts)
	if err != nil {
		return err
	}
	return cursor.All(ctx, out)
}

func (d *mongoDriver) Count(ctx context.Context, coll, field string, value any) (int64, error) {
	filter := bson.D{}
	if field != "" {
		filter = bson.D{{Key: field, Value: value}}
	}
	return d.db.Collection(coll).CountDocuments(ctx, filter)
}

func (d *mongoDriver) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

func mapMongoError(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}
