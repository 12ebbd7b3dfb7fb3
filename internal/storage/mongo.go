package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/yourname/focustracker/internal"
)

// One collection per entity type, named after the lowercased entity.
const (
	userCollection    = "user"
	sessionCollection = "session"
	eventCollection   = "activityevent"
)

// MongoStore is the document-store gateway. Connection setup is lazy: an
// unset URI yields a store that answers every operation with
// ErrStoreUnavailable while the process itself keeps serving, so the /test
// diagnostic can report the degraded state.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
	logger internal.Logger
}

func NewMongoStore(ctx context.Context, uri, dbName string, logger internal.Logger) (*MongoStore, error) {
	if uri == "" {
		logger.Warn("mongo: DATABASE_URL not set, store starts unavailable")
		return &MongoStore{logger: logger}, nil
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		logger.Errorf("mongo: connect failed: %v", err)
		return nil, err
	}
	return &MongoStore{
		client: client,
		db:     client.Database(dbName),
		logger: logger,
	}, nil
}

// sessionDoc pairs the store-native identifier with the flattened entity
// fields. Conversion between ObjectID and the opaque string id used by the
// rest of the service happens only in this file.
type sessionDoc struct {
	OID     primitive.ObjectID `bson:"_id"`
	Session internal.Session   `bson:",inline"`
}

func (m *MongoStore) available() error {
	if m.db == nil {
		return internal.ErrStoreUnavailable
	}
	return nil
}

// --- UserRepository ---

func (m *MongoStore) CreateUser(ctx context.Context, user *internal.User) (string, error) {
	if err := m.available(); err != nil {
		return "", err
	}
	res, err := m.db.Collection(userCollection).InsertOne(ctx, user)
	if err != nil {
		m.logger.Errorf("mongo: insert user: %v", err)
		return "", err
	}
	return objectIDHex(res.InsertedID)
}

// --- SessionRepository ---

func (m *MongoStore) CreateSession(ctx context.Context, session *internal.Session) (string, error) {
	if err := m.available(); err != nil {
		return "", err
	}
	res, err := m.db.Collection(sessionCollection).InsertOne(ctx, session)
	if err != nil {
		m.logger.Errorf("mongo: insert session: %v", err)
		return "", err
	}
	return objectIDHex(res.InsertedID)
}

func (m *MongoStore) GetSession(ctx context.Context, id string) (*internal.Session, error) {
	if err := m.available(); err != nil {
		return nil, err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, internal.ErrNotFound
	}

	var doc sessionDoc
	err = m.db.Collection(sessionCollection).FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, internal.ErrNotFound
	}
	if err != nil {
		m.logger.Errorf("mongo: find session %s: %v", id, err)
		return nil, err
	}
	return doc.hydrate(), nil
}

func (m *MongoStore) IncrementCounters(ctx context.Context, id string, delta internal.CounterDelta) (*internal.Session, error) {
	if err := m.available(); err != nil {
		return nil, err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, internal.ErrNotFound
	}

	inc := bson.M{}
	if delta.FocusSeconds != 0 {
		inc["total_focus_seconds"] = delta.FocusSeconds
	}
	if delta.IdleSeconds != 0 {
		inc["total_idle_seconds"] = delta.IdleSeconds
	}
	if delta.DistractionsBlocked != 0 {
		inc["distractions_blocked"] = delta.DistractionsBlocked
	}
	update := bson.M{"$set": bson.M{"updated_at": time.Now().UTC()}}
	if len(inc) > 0 {
		update["$inc"] = inc
	}

	var doc sessionDoc
	err = m.db.Collection(sessionCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, internal.ErrNotFound
	}
	if err != nil {
		m.logger.Errorf("mongo: increment session %s: %v", id, err)
		return nil, err
	}
	return doc.hydrate(), nil
}

func (m *MongoStore) EndSession(ctx context.Context, id string, endedAt time.Time) error {
	if err := m.available(); err != nil {
		return err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return internal.ErrNotFound
	}

	res, err := m.db.Collection(sessionCollection).UpdateOne(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"status": internal.StatusEnded, "ended_at": endedAt}},
	)
	if err != nil {
		m.logger.Errorf("mongo: end session %s: %v", id, err)
		return err
	}
	if res.MatchedCount == 0 {
		return internal.ErrNotFound
	}
	return nil
}

func (m *MongoStore) ListSessionsByUser(ctx context.Context, userID string, limit int) ([]internal.Session, error) {
	if err := m.available(); err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "started_at", Value: -1}}).
		SetLimit(int64(limit))
	cur, err := m.db.Collection(sessionCollection).Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		m.logger.Errorf("mongo: list sessions for user %s: %v", userID, err)
		return nil, err
	}
	defer cur.Close(ctx)

	sessions := []internal.Session{}
	for cur.Next(ctx) {
		var doc sessionDoc
		if err := cur.Decode(&doc); err != nil {
			m.logger.Errorf("mongo: decode session: %v", err)
			return nil, err
		}
		sessions = append(sessions, *doc.hydrate())
	}
	return sessions, cur.Err()
}

// --- EventRepository ---

func (m *MongoStore) AppendEvent(ctx context.Context, event *internal.ActivityEvent) (string, error) {
	if err := m.available(); err != nil {
		return "", err
	}
	res, err := m.db.Collection(eventCollection).InsertOne(ctx, event)
	if err != nil {
		m.logger.Errorf("mongo: insert activity event: %v", err)
		return "", err
	}
	return objectIDHex(res.InsertedID)
}

// --- Diagnostics ---

func (m *MongoStore) Ping(ctx context.Context) error {
	if err := m.available(); err != nil {
		return err
	}
	return m.client.Ping(ctx, readpref.Primary())
}

func (m *MongoStore) Collections(ctx context.Context) ([]string, error) {
	if err := m.available(); err != nil {
		return nil, err
	}
	return m.db.ListCollectionNames(ctx, bson.D{})
}

func (m *MongoStore) Close() error {
	if m.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

func (d *sessionDoc) hydrate() *internal.Session {
	s := d.Session
	s.ID = d.OID.Hex()
	return &s
}

func objectIDHex(insertedID interface{}) (string, error) {
	oid, ok := insertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", insertedID)
	}
	return oid.Hex(), nil
}

// --- Compile-time assertions ---
var _ Store = (*MongoStore)(nil)
