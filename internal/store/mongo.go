package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/minkhant-dev/piecerate-api/pkg/config"
	appErrors "github.com/minkhant-dev/piecerate-api/pkg/errors"
)

const (
	fieldID        = "_id"
	fieldNamespace = "client_id"
)

// MongoProvider scopes stores over one shared MongoDB connection. Every
// document carries the namespace in a client_id field that the adapter
// adds on write and strips on read; the record id is the document _id.
type MongoProvider struct {
	db        *mongo.Database
	opTimeout time.Duration
	logger    *zap.Logger
}

// NewMongoProvider connects to MongoDB and verifies the connection.
func NewMongoProvider(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (*MongoProvider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return &MongoProvider{
		db:        client.Database(cfg.MongoDB),
		opTimeout: cfg.OpTimeout,
		logger:    logger,
	}, nil
}

// Close disconnects the underlying client.
func (p *MongoProvider) Close(ctx context.Context) error {
	return p.db.Client().Disconnect(ctx)
}

// Scope returns a store bound to one client namespace.
func (p *MongoProvider) Scope(namespace string) Store {
	if namespace == "" {
		return Unready()
	}
	return &mongoStore{provider: p, namespace: namespace}
}

type mongoStore struct {
	provider  *MongoProvider
	namespace string
}

func (s *mongoStore) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.provider.opTimeout)
}

func (s *mongoStore) GetAll(ctx context.Context, collection string) ([]Record, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	cur, err := s.provider.db.Collection(collection).Find(ctx, bson.M{fieldNamespace: s.namespace})
	if err != nil {
		return nil, mapMongoError(err, "list documents")
	}
	defer cur.Close(ctx)

	var out []Record
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			return nil, mapMongoError(err, "decode document")
		}
		out = append(out, recordFromDoc(doc))
	}
	if err := cur.Err(); err != nil {
		return nil, mapMongoError(err, "iterate documents")
	}
	if out == nil {
		out = []Record{}
	}
	return out, nil
}

func (s *mongoStore) GetPage(ctx context.Context, collection string, req PageRequest) (*Page, error) {
	if req.PageSize <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "page size must be positive")
	}
	after, err := decodeCursor(req.Cursor)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	filter := bson.M{fieldNamespace: s.namespace}
	if after != nil {
		// Everything strictly after the cursor position in the
		// (sortKey desc, _id desc) ordering.
		filter = bson.M{
			fieldNamespace: s.namespace,
			"$or": bson.A{
				bson.M{req.SortKey: bson.M{"$lt": after.Key}},
				bson.M{req.SortKey: after.Key, fieldID: bson.M{"$lt": after.ID}},
			},
		}
	}

	// Fetch one extra record to learn whether a further page exists.
	opts := options.Find().
		SetSort(bson.D{{Key: req.SortKey, Value: -1}, {Key: fieldID, Value: -1}}).
		SetLimit(int64(req.PageSize) + 1)

	cur, err := s.provider.db.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, mapMongoError(err, "page documents")
	}
	defer cur.Close(ctx)

	var items []Record
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			return nil, mapMongoError(err, "decode document")
		}
		items = append(items, recordFromDoc(doc))
	}
	if err := cur.Err(); err != nil {
		return nil, mapMongoError(err, "iterate documents")
	}

	page := &Page{}
	if len(items) > req.PageSize {
		items = items[:req.PageSize]
		last := items[len(items)-1]
		page.NextCursor = encodeCursor(cursor{Key: last.Fields[req.SortKey], ID: last.ID})
	}
	page.Items = items
	return page, nil
}

func (s *mongoStore) Add(ctx context.Context, collection string, rec Record) (Record, error) {
	if rec.ID == "" {
		return Record{}, appErrors.Clone(appErrors.ErrValidation, "record id is required")
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	doc := docFromRecord(rec, s.namespace)
	// Upsert on _id so retried writes of the same record stay idempotent.
	_, err := s.provider.db.Collection(collection).ReplaceOne(ctx,
		bson.M{fieldID: rec.ID, fieldNamespace: s.namespace},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return Record{}, mapMongoError(err, "add document")
	}
	return Record{ID: rec.ID, Fields: cloneFields(rec.Fields)}, nil
}

func (s *mongoStore) Update(ctx context.Context, collection string, rec Record) error {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	res, err := s.provider.db.Collection(collection).ReplaceOne(ctx,
		bson.M{fieldID: rec.ID, fieldNamespace: s.namespace},
		docFromRecord(rec, s.namespace),
	)
	if err != nil {
		return mapMongoError(err, "update document")
	}
	if res.MatchedCount == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "record not found")
	}
	return nil
}

func (s *mongoStore) Delete(ctx context.Context, collection, id string) error {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	res, err := s.provider.db.Collection(collection).DeleteOne(ctx,
		bson.M{fieldID: id, fieldNamespace: s.namespace})
	if err != nil {
		return mapMongoError(err, "delete document")
	}
	if res.DeletedCount == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "record not found")
	}
	return nil
}

func recordFromDoc(doc bson.M) Record {
	rec := Record{Fields: make(map[string]any, len(doc))}
	for k, v := range doc {
		switch k {
		case fieldID:
			if id, ok := v.(string); ok {
				rec.ID = id
			}
		case fieldNamespace:
			// scoping field, not part of the payload
		default:
			rec.Fields[k] = v
		}
	}
	return rec
}

func docFromRecord(rec Record, namespace string) bson.M {
	doc := bson.M{fieldID: rec.ID, fieldNamespace: namespace}
	for k, v := range rec.Fields {
		doc[k] = v
	}
	return doc
}

// mapMongoError folds driver errors into the adapter taxonomy: unknown
// ids are NotFound, authorization failures PermissionDenied, and
// everything else TransientIO (retryable by the caller, never here).
func mapMongoError(err error, action string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return appErrors.Clone(appErrors.ErrNotFound, "record not found")
	}
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && (cmdErr.Code == 13 || cmdErr.Name == "Unauthorized") {
		return appErrors.Wrap(err, appErrors.ErrPermissionDenied.Code, appErrors.ErrPermissionDenied.Status, "permission denied by backend")
	}
	return appErrors.Wrap(err, appErrors.ErrTransientIO.Code, appErrors.ErrTransientIO.Status, "failed to "+action)
}
