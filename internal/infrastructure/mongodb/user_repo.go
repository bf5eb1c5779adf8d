package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/ErlanBelekov/magic-auth/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const usersCollection = "users"

type userDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Email    string             `bson:"email"`
	Username string             `bson:"username"`
	Role     string             `bson:"role"`
}

func (d *userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:       d.ID.Hex(),
		Email:    d.Email,
		Username: d.Username,
		Role:     d.Role,
	}
}

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var d userDoc
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return d.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	var d userDoc
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return d.toDomain(), nil
}

func (r *UserRepository) Create(ctx context.Context, email, username string) (*domain.User, error) {
	d := userDoc{
		ID:       primitive.NewObjectID(),
		Email:    email,
		Username: username,
		Role:     domain.DefaultRole,
	}
	if _, err := r.coll.InsertOne(ctx, d); err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return d.toDomain(), nil
}
