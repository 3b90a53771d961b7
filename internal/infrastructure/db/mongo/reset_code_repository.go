package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tlc-app/tlc-backend/internal/core/domain"
)

// ResetCodeRepository implements ports.ResetCodeRepository using MongoDB.
// The unique index on user_id keeps at most one code per user.
type ResetCodeRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewResetCodeRepository(db *mongo.Database) *ResetCodeRepository {
	return &ResetCodeRepository{db: db, coll: db.Collection(collectionResetCodes)}
}

type mongoResetCode struct {
	UserID    primitive.ObjectID `bson:"user_id"`
	Code      int                `bson:"code"`
	CreatedAt time.Time          `bson:"created_at"`
}

// Save upserts the code of code.UserID, replacing any earlier one.
func (r *ResetCodeRepository) Save(ctx context.Context, code *domain.ResetCode) error {
	oid, err := primitive.ObjectIDFromHex(code.UserID)
	if err != nil {
		return domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = r.coll.UpdateOne(ctx,
		bson.M{"user_id": oid},
		bson.M{"$set": bson.M{"code": code.Code, "created_at": code.CreatedAt}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("save reset code: %w", err)
	}
	return nil
}

func (r *ResetCodeRepository) Find(ctx context.Context, userID string) (*domain.ResetCode, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrNoResetRequested
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoResetCode
	if err := r.coll.FindOne(ctx, bson.M{"user_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNoResetRequested
		}
		return nil, fmt.Errorf("find reset code: %w", err)
	}
	return &domain.ResetCode{
		UserID:    doc.UserID.Hex(),
		Code:      doc.Code,
		CreatedAt: doc.CreatedAt.UTC(),
	}, nil
}

func (r *ResetCodeRepository) Delete(ctx context.Context, userID string) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.DeleteOne(ctx, bson.M{"user_id": oid}); err != nil {
		return fmt.Errorf("delete reset code: %w", err)
	}
	return nil
}

// Consume deletes the matching code and writes the new password hash in one
// transaction. Of two concurrent callers presenting the same code, only the
// one whose delete matched goes on to change the password.
func (r *ResetCodeRepository) Consume(ctx context.Context, userID string, code int, passwordHash string) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.ErrNoResetRequested
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return inTransaction(ctx, r.db.Client(), func(sc mongo.SessionContext) error {
		res, err := r.coll.DeleteOne(sc, bson.M{"user_id": oid, "code": code})
		if err != nil {
			return fmt.Errorf("consume reset code: %w", err)
		}
		if res.DeletedCount == 0 {
			return domain.ErrNoResetRequested
		}

		upd, err := r.db.Collection(collectionUsers).UpdateOne(sc, bson.M{"_id": oid}, bson.M{"$set": bson.M{
			"password_hash": passwordHash,
			"updated_at":    time.Now().UTC(),
		}})
		if err != nil {
			return fmt.Errorf("set password: %w", err)
		}
		if upd.MatchedCount == 0 {
			return domain.ErrUserNotFound
		}
		return nil
	})
}
