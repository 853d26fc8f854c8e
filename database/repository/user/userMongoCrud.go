package userRepo

import (
	"context"
	"errors"
	"fmt"

	"moim/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetByID returns a user by their Google account ID.
func (r *mongoUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	var usr models.User
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&usr)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching user %s: %w", id, err)
	}
	return &usr, nil
}

// GetByEmail returns a user by email.
func (r *mongoUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var usr models.User
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&usr)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching user by email: %w", err)
	}
	return &usr, nil
}

// Upsert inserts or replaces a user keyed by ID.
func (r *mongoUserRepo) Upsert(ctx context.Context, user models.User) error {
	opts := options.Replace().SetUpsert(true)
	if _, err := r.coll.ReplaceOne(ctx, bson.M{"id": user.ID}, user, opts); err != nil {
		return fmt.Errorf("error upserting user %s: %w", user.ID, err)
	}
	return nil
}

// Delete removes a user by ID.
func (r *mongoUserRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("error deleting user %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
