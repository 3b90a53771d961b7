package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tlc-app/tlc-backend/internal/core/domain"
)

// AuditRepository appends credential events to the auth_events collection.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(collectionAuthEvents)}
}

func (r *AuditRepository) Record(ctx context.Context, event *domain.AuthEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, bson.M{
		"user_id":  event.UserID,
		"username": event.Username,
		"kind":     string(event.Kind),
		"at":       event.At.UTC(),
	})
	return err
}
