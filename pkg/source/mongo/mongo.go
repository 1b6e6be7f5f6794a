// Package mongo loads organization documents from MongoDB.
//
// Positions and relationships live in two collections whose documents use
// the same field names as the JSON format:
//
//	positions:     {id, name, active}
//	relationships: {id, childId, parentId, active}
//
// Both collections are read in ascending id order so that repeated loads
// of unchanged data yield identical documents and therefore identical
// cache keys.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/orgtree/pkg/errors"
	"github.com/matzehuels/orgtree/pkg/graph"
	"github.com/matzehuels/orgtree/pkg/source"
)

// Default collection names.
const (
	DefaultPositions     = "positions"
	DefaultRelationships = "relationships"
)

const connectTimeout = 10 * time.Second

// Config configures a MongoDB loader.
type Config struct {
	URI      string
	Database string

	// Collection names; empty means the defaults above.
	Positions     string
	Relationships string
}

func (c Config) withDefaults() Config {
	if c.Positions == "" {
		c.Positions = DefaultPositions
	}
	if c.Relationships == "" {
		c.Relationships = DefaultRelationships
	}
	return c
}

// Validate reports missing connection settings.
func (c Config) Validate() error {
	if c.URI == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "mongo source requires a uri")
	}
	if c.Database == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "mongo source requires a database")
	}
	return nil
}

// Loader reads documents from a MongoDB database.
type Loader struct {
	client *mongo.Client
	cfg    Config
}

// New connects to MongoDB and verifies the connection with a ping.
// Call Close when done.
func New(ctx context.Context, cfg Config) (*Loader, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "connect to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "ping mongo")
	}
	return &Loader{client: client, cfg: cfg}, nil
}

// NewFromClient wraps an existing client. Close still disconnects it.
func NewFromClient(client *mongo.Client, cfg Config) *Loader {
	return &Loader{client: client, cfg: cfg.withDefaults()}
}

func (l *Loader) Name() string {
	return "mongo:" + l.cfg.Database
}

// Load reads both collections.
func (l *Loader) Load(ctx context.Context) (graph.Document, error) {
	var doc graph.Document
	if err := l.findAll(ctx, l.cfg.Positions, &doc.Positions); err != nil {
		return graph.Document{}, err
	}
	if err := l.findAll(ctx, l.cfg.Relationships, &doc.Relationships); err != nil {
		return graph.Document{}, err
	}
	if doc.Positions == nil {
		doc.Positions = []graph.Position{}
	}
	if doc.Relationships == nil {
		doc.Relationships = []graph.Relationship{}
	}
	if err := source.Validate(doc); err != nil {
		return graph.Document{}, fmt.Errorf("%s: %w", l.Name(), err)
	}
	return doc, nil
}

func (l *Loader) findAll(ctx context.Context, collection string, out any) error {
	coll := l.client.Database(l.cfg.Database).Collection(collection)
	opts := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})

	cursor, err := coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return errors.Wrap(errors.ErrCodeSourceUnavailable, err, "query %s", collection)
	}
	if err := cursor.All(ctx, out); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode %s", collection)
	}
	return nil
}

// Replace overwrites both collections with the contents of doc.
func (l *Loader) Replace(ctx context.Context, doc graph.Document) error {
	db := l.client.Database(l.cfg.Database)

	positions := make([]any, len(doc.Positions))
	for i, p := range doc.Positions {
		positions[i] = p
	}
	relationships := make([]any, len(doc.Relationships))
	for i, r := range doc.Relationships {
		relationships[i] = r
	}

	for name, docs := range map[string][]any{
		l.cfg.Positions:     positions,
		l.cfg.Relationships: relationships,
	} {
		coll := db.Collection(name)
		if _, err := coll.DeleteMany(ctx, bson.D{}); err != nil {
			return errors.Wrap(errors.ErrCodeSourceUnavailable, err, "clear %s", name)
		}
		if len(docs) == 0 {
			continue
		}
		if _, err := coll.InsertMany(ctx, docs); err != nil {
			return errors.Wrap(errors.ErrCodeSourceUnavailable, err, "insert %s", name)
		}
	}
	return nil
}

// Close disconnects the client.
func (l *Loader) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return l.client.Disconnect(ctx)
}

var _ source.Loader = (*Loader)(nil)
