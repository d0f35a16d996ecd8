package convstore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/sandipan1/hica/hicaerrors"
	"github.com/sandipan1/hica/thread"
)

const (
	defaultMongoCollection = "threads"
	defaultMongoTimeout    = 5 * time.Second
)

// MongoStore persists one document per thread keyed by thread_id.
// Unlike an append-only memory model that $push-es onto an events array,
// Set here replaces the whole document via $set, matching the
// full-snapshot-overwrite upsert contract: no partial update.
type MongoStore struct {
	client  *mongodriver.Client
	coll    *mongodriver.Collection
	timeout time.Duration
}

// MongoOptions configures a MongoStore.
type MongoOptions struct {
	Client     *mongodriver.Client
	Database   string
	Collection string
	Timeout    time.Duration
}

// NewMongoStore constructs a MongoStore and ensures the thread_id unique
// index exists.
func NewMongoStore(opts MongoOptions) (*MongoStore, error) {
	if opts.Client == nil {
		return nil, hicaerrors.New(hicaerrors.StoreIOError, "mongo client is required")
	}
	if opts.Database == "" {
		return nil, hicaerrors.New(hicaerrors.StoreIOError, "mongo database name is required")
	}
	collectionName := opts.Collection
	if collectionName == "" {
		collectionName = defaultMongoCollection
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultMongoTimeout
	}
	coll := opts.Client.Database(opts.Database).Collection(collectionName)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := ensureThreadIndex(ctx, coll); err != nil {
		return nil, hicaerrors.Wrap(hicaerrors.StoreIOError, "ensure thread_id index", err)
	}
	return &MongoStore{client: opts.Client, coll: coll, timeout: timeout}, nil
}

func (s *MongoStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// Set implements Store.
func (s *MongoStore) Set(ctx context.Context, th *thread.Thread) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	data, err := th.ToSerialized()
	if err != nil {
		return hicaerrors.Wrap(hicaerrors.SerializationError, "serialize thread", err)
	}
	var doc threadDocument
	if err := bson.UnmarshalExtJSON(data, false, &doc); err != nil {
		return hicaerrors.Wrap(hicaerrors.SerializationError, "convert thread to document", err)
	}
	filter := bson.M{"thread_id": th.ThreadID}
	update := bson.M{"$set": bson.M{
		"thread_id": th.ThreadID,
		"events":    doc.Events,
		"metadata":  doc.Metadata,
	}}
	_, err = s.coll.UpdateOne(ctx, filter, update, options.UpdateOne().SetUpsert(true))
	if err != nil {
		return hicaerrors.Wrap(hicaerrors.StoreIOError, "upsert thread document", err)
	}
	return nil
}

// Get implements Store.
func (s *MongoStore) Get(ctx context.Context, id string) (*thread.Thread, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var doc threadDocument
	if err := s.coll.FindOne(ctx, bson.M{"thread_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, hicaerrors.Wrap(hicaerrors.StoreIOError, "query thread document", err)
	}
	return &thread.Thread{ThreadID: doc.ThreadID, Events: doc.Events, Metadata: doc.Metadata}, nil
}

// Delete implements Store.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.coll.DeleteOne(ctx, bson.M{"thread_id": id}); err != nil {
		return hicaerrors.Wrap(hicaerrors.StoreIOError, "delete thread document", err)
	}
	return nil
}

// All implements Store.
func (s *MongoStore) All(ctx context.Context) ([]*thread.Thread, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	cursor, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, hicaerrors.Wrap(hicaerrors.StoreIOError, "list thread documents", err)
	}
	defer cursor.Close(ctx)

	var threads []*thread.Thread
	for cursor.Next(ctx) {
		var doc threadDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, hicaerrors.Wrap(hicaerrors.StoreIOError, "decode thread document", err)
		}
		threads = append(threads, &thread.Thread{ThreadID: doc.ThreadID, Events: doc.Events, Metadata: doc.Metadata})
	}
	return threads, cursor.Err()
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

type threadDocument struct {
	ThreadID string         `bson:"thread_id"`
	Events   []thread.Event `bson:"events"`
	Metadata map[string]any `bson:"metadata,omitempty"`
}

func ensureThreadIndex(ctx context.Context, coll *mongodriver.Collection) error {
	index := mongodriver.IndexModel{
		Keys:    bson.D{{Key: "thread_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	_, err := coll.Indexes().CreateOne(ctx, index)
	return err
}
