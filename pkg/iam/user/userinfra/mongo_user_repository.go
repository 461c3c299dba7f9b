package userinfra

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/youssef9656/server/pkg/iam/user"
	"github.com/youssef9656/server/pkg/kernel"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type userDocument struct {
	ID               string     `bson:"_id"`
	Email            string     `bson:"email"`
	Password         string     `bson:"password"`
	Role             string     `bson:"role,omitempty"`
	SessionToken     *string    `bson:"sessionToken,omitempty"`
	SessionCreatedAt *time.Time `bson:"sessionCreatedAt,omitempty"`
	CreatedAt        time.Time  `bson:"createdAt"`
}

func (d *userDocument) toEntity() *user.User {
	return &user.User{
		ID:               kernel.UserID(d.ID),
		Email:            kernel.Email(d.Email),
		PasswordHash:     d.Password,
		Role:             d.Role,
		SessionToken:     d.SessionToken,
		SessionCreatedAt: d.SessionCreatedAt,
		CreatedAt:        d.CreatedAt,
	}
}

type MongoUserRepository struct {
	coll *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection("users")}
}

func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create users email index: %w", err)
	}
	return nil
}

func (r *MongoUserRepository) Create(ctx context.Context, u *user.User) error {
	doc := userDocument{
		ID:               string(u.ID),
		Email:            string(u.Email),
		Password:         u.PasswordHash,
		Role:             u.Role,
		SessionToken:     u.SessionToken,
		SessionCreatedAt: u.SessionCreatedAt,
		CreatedAt:        u.CreatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return user.ErrEmailInUse().WithDetail("email", u.Email)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email kernel.Email) (*user.User, error) {
	return r.findOne(ctx, bson.M{"email": string(email)})
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id kernel.UserID) (*user.User, error) {
	return r.findOne(ctx, bson.M{"_id": string(id)})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*user.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, user.ErrUserNotFound()
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return doc.toEntity(), nil
}

func (r *MongoUserRepository) SetSession(ctx context.Context, id kernel.UserID, token string, at time.Time) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": string(id)},
		bson.M{"$set": bson.M{"sessionToken": token, "sessionCreatedAt": at}},
	)
	if err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	if res.MatchedCount == 0 {
		return user.ErrUserNotFound()
	}
	return nil
}

func (r *MongoUserRepository) ClearSession(ctx context.Context, email kernel.Email) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"email": string(email)},
		bson.M{"$unset": bson.M{"sessionToken": "", "sessionCreatedAt": ""}},
	)
	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
