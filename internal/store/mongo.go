package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Harshitk-cp/frontdesk/internal/domain"
)

const auditCollection = "audit_events"

type auditDocument struct {
	ID        string    `bson:"_id"`
	Kind      string    `bson:"kind"`
	Session   string    `bson:"session"`
	Tool      string    `bson:"tool,omitempty"`
	Outcome   string    `bson:"outcome"`
	Detail    string    `bson:"detail,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
}

func toDocument(e *domain.AuditEvent) auditDocument {
	return auditDocument{
		ID:        e.ID.String(),
		Kind:      string(e.Kind),
		Session:   e.Session,
		Tool:      e.Tool,
		Outcome:   string(e.Outcome),
		Detail:    e.Detail,
		CreatedAt: e.CreatedAt,
	}
}

func (d auditDocument) event() (domain.AuditEvent, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return domain.AuditEvent{}, fmt.Errorf("parse audit id %q: %w", d.ID, err)
	}
	return domain.AuditEvent{
		ID:        id,
		Kind:      domain.AuditKind(d.Kind),
		Session:   d.Session,
		Tool:      d.Tool,
		Outcome:   domain.Outcome(d.Outcome),
		Detail:    d.Detail,
		CreatedAt: d.CreatedAt,
	}, nil
}

// MongoAuditStore keeps audit events in a MongoDB collection.
type MongoAuditStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// ConnectMongo dials uri, verifies the connection and returns a store on db.
func ConnectMongo(ctx context.Context, uri, db string) (*MongoAuditStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoAuditStore{client: client, coll: client.Database(db).Collection(auditCollection)}, nil
}

// EnsureIndexes creates the created_at index used by ListRecent.
func (s *MongoAuditStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "created_at", Value: -1}},
		Options: options.Index().SetBackground(true),
	})
	if err != nil {
		return fmt.Errorf("create audit index: %w", err)
	}
	return nil
}

func (s *MongoAuditStore) Record(ctx context.Context, e *domain.AuditEvent) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if _, err := s.coll.InsertOne(ctx, toDocument(e)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (s *MongoAuditStore) ListRecent(ctx context.Context, limit int) ([]domain.AuditEvent, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(clampLimit(limit)))

	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	var docs []auditDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	events := make([]domain.AuditEvent, 0, len(docs))
	for _, d := range docs {
		e, err := d.event()
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

func (s *MongoAuditStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *MongoAuditStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
