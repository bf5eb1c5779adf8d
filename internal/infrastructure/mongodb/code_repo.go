package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ErlanBelekov/magic-auth/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const codesCollection = "codes"

type codeDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Code      int                `bson:"code"`
	Email     string             `bson:"email"`
	UserID    string             `bson:"userId,omitempty"`
	ExpiresAt time.Time          `bson:"expiresAt"`
}

func (d *codeDoc) toDomain() *domain.Code {
	return &domain.Code{
		ID:        d.ID.Hex(),
		Code:      d.Code,
		Email:     d.Email,
		UserID:    d.UserID,
		ExpiresAt: d.ExpiresAt,
	}
}

type CodeRepository struct {
	coll *mongo.Collection
}

func NewCodeRepository(db *mongo.Database) *CodeRepository {
	return &CodeRepository{coll: db.Collection(codesCollection)}
}

func (r *CodeRepository) Create(ctx context.Context, code *domain.Code) error {
	d := codeDoc{
		ID:        primitive.NewObjectID(),
		Code:      code.Code,
		Email:     code.Email,
		UserID:    code.UserID,
		ExpiresAt: code.ExpiresAt,
	}
	if _, err := r.coll.InsertOne(ctx, d); err != nil {
		return fmt.Errorf("insert code: %w", err)
	}
	code.ID = d.ID.Hex()
	return nil
}

// Claim consumes the code in a single findOneAndDelete so that two
// concurrent redemptions of the same value cannot both succeed.
func (r *CodeRepository) Claim(ctx context.Context, code int, now time.Time) (*domain.Code, error) {
	filter := bson.M{
		"code":      code,
		"expiresAt": bson.M{"$gt": now},
	}

	var d codeDoc
	err := r.coll.FindOneAndDelete(ctx, filter).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCodeInvalid
		}
		return nil, fmt.Errorf("claim code: %w", err)
	}
	return d.toDomain(), nil
}

func (r *CodeRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"expiresAt": bson.M{"$lte": now}})
	if err != nil {
		return 0, fmt.Errorf("delete expired codes: %w", err)
	}
	return res.DeletedCount, nil
}
