package repository

import (
	"context"
	"fmt"
	"time"

	"soundfy-core-shopify-layer/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// lockTTL bounds how long a crashed worker can keep a document locked.
const lockTTL = 30 * time.Second

// tryAcquireLock claims the document lock with a single conditional
// update: the claim succeeds only when no unexpired lock is present.
// A held lock yields domain.ErrRecordLocked without waiting; a missing
// document yields domain.ErrNotFound.
func tryAcquireLock(ctx context.Context, coll *mongo.Collection, filter bson.M) error {
	now := time.Now().UTC()
	claim := bson.M{"$and": bson.A{
		filter,
		bson.M{"$or": bson.A{
			bson.M{"locked_until": bson.M{"$exists": false}},
			bson.M{"locked_until": nil},
			bson.M{"locked_until": bson.M{"$lt": now}},
		}},
	}}
	update := bson.M{"$set": bson.M{"locked_until": now.Add(lockTTL)}}

	err := coll.FindOneAndUpdate(ctx, claim, update).Err()
	if err == nil {
		return nil
	}
	if err != mongo.ErrNoDocuments {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}

	// Claim failed: tell a locked document apart from a missing one.
	if exErr := coll.FindOne(ctx, filter).Err(); exErr == mongo.ErrNoDocuments {
		return domain.ErrNotFound
	} else if exErr != nil {
		return fmt.Errorf("failed to check lock target: %w", exErr)
	}
	return domain.ErrRecordLocked
}

// releaseLock clears the lock marker. Best effort: an unreleased lock
// expires after lockTTL.
func releaseLock(ctx context.Context, coll *mongo.Collection, filter bson.M) {
	_, _ = coll.UpdateOne(ctx, filter, bson.M{"$unset": bson.M{"locked_until": ""}})
}

// withNonBlockingLock runs fn under the document lock, failing fast with
// domain.ErrRecordLocked when another worker holds it.
func withNonBlockingLock(ctx context.Context, coll *mongo.Collection, filter bson.M, fn func(ctx context.Context) error) error {
	if err := tryAcquireLock(ctx, coll, filter); err != nil {
		return err
	}
	defer releaseLock(ctx, coll, filter)
	return fn(ctx)
}

// withBlockingLock runs fn under the document lock, polling until the
// current holder releases it or ctx ends.
func withBlockingLock(ctx context.Context, coll *mongo.Collection, filter bson.M, fn func(ctx context.Context) error) error {
	for {
		err := tryAcquireLock(ctx, coll, filter)
		if err == nil {
			break
		}
		if err != domain.ErrRecordLocked {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}
	defer releaseLock(ctx, coll, filter)
	return fn(ctx)
}
