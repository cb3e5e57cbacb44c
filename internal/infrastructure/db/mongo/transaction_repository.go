package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/upslab/labportal/internal/core/domain"
	"github.com/upslab/labportal/internal/core/ports"
)

// DefaultTransactionsCollection holds one document per audited request.
const DefaultTransactionsCollection = "transactions"

// TransactionRepository implements ports.TransactionRepository using MongoDB.
type TransactionRepository struct {
	coll *mongo.Collection
}

var _ ports.TransactionRepository = (*TransactionRepository)(nil)

func NewTransactionRepository(db *mongo.Database, collection string) *TransactionRepository {
	if collection == "" {
		collection = DefaultTransactionsCollection
	}
	return &TransactionRepository{coll: db.Collection(collection)}
}

// EnsureIndexes creates the lookup indexes used when reviewing the trail:
// by time and by caller.
func (r *TransactionRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "identity", Value: 1}, {Key: "timestamp", Value: -1}}, Options: options.Index().SetName("identity_timestamp")},
	})
	if err != nil {
		return fmt.Errorf("transactions indexes: %w", err)
	}
	return nil
}

// Insert persists one audit entry. The rendered line is stored alongside the
// structured fields so the trail can be exported as text.
func (r *TransactionRepository) Insert(ctx context.Context, tx domain.Transaction) error {
	identity := tx.Identity
	if identity == "" {
		identity = domain.AnonymousIdentity
	}
	doc := bson.M{
		"timestamp": tx.Timestamp.UTC(),
		"method":    tx.Method,
		"path":      tx.Path,
		"status":    tx.Status,
		"identity":  identity,
		"line":      tx.Line(),
	}
	if tx.RemoteAddr != "" {
		doc["ip"] = tx.RemoteAddr
	}
	if tx.Endpoint != "" {
		doc["endpoint"] = tx.Endpoint
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}
