package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/99minutos/auth-api/internal/core/domain"
)

func newMockT(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func userDoc(id primitive.ObjectID, email string) bson.D {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "name", Value: "Ann"},
		{Key: "email", Value: email},
		{Key: "password_hash", Value: "$2a$10$hash"},
		{Key: "created_at", Value: now},
		{Key: "updated_at", Value: now},
	}
}

func TestUserRepository_Create(t *testing.T) {
	mt := newMockT(t)

	mt.Run("assigns id", func(mt *mtest.T) {
		repo := &UserRepository{col: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		created, err := repo.Create(context.Background(), &domain.User{Name: "Ann", Email: "ann@x.com", PasswordHash: "h"})
		if err != nil {
			mt.Fatalf("Create returned error: %v", err)
		}
		if _, err := primitive.ObjectIDFromHex(created.ID); err != nil {
			mt.Fatalf("expected ObjectID hex id, got %q", created.ID)
		}
		if created.Email != "ann@x.com" || created.PasswordHash != "h" {
			mt.Fatalf("unexpected user: %+v", created)
		}
	})

	mt.Run("duplicate email", func(mt *mtest.T) {
		repo := &UserRepository{col: mt.Coll}
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: users index: uniq_email",
		}))

		_, err := repo.Create(context.Background(), &domain.User{Email: "ann@x.com"})
		if !errors.Is(err, domain.ErrUserExists) {
			mt.Fatalf("expected ErrUserExists, got %v", err)
		}
	})
}

func TestUserRepository_FindByEmail(t *testing.T) {
	mt := newMockT(t)

	mt.Run("found", func(mt *mtest.T) {
		repo := &UserRepository{col: mt.Coll}
		id := primitive.NewObjectID()
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, userDoc(id, "ann@x.com")))

		user, err := repo.FindByEmail(context.Background(), "ann@x.com")
		if err != nil {
			mt.Fatalf("FindByEmail returned error: %v", err)
		}
		if user.ID != id.Hex() || user.Name != "Ann" || user.PasswordHash != "$2a$10$hash" {
			mt.Fatalf("unexpected user: %+v", user)
		}
	})

	mt.Run("missing", func(mt *mtest.T) {
		repo := &UserRepository{col: mt.Coll}
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := repo.FindByEmail(context.Background(), "ghost@x.com")
		if !errors.Is(err, domain.ErrUserNotFound) {
			mt.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestUserRepository_FindByID(t *testing.T) {
	mt := newMockT(t)

	mt.Run("found", func(mt *mtest.T) {
		repo := &UserRepository{col: mt.Coll}
		id := primitive.NewObjectID()
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, userDoc(id, "ann@x.com")))

		user, err := repo.FindByID(context.Background(), id.Hex())
		if err != nil {
			mt.Fatalf("FindByID returned error: %v", err)
		}
		if user.Email != "ann@x.com" {
			mt.Fatalf("unexpected user: %+v", user)
		}
	})

	mt.Run("invalid id", func(mt *mtest.T) {
		repo := &UserRepository{col: mt.Coll}

		_, err := repo.FindByID(context.Background(), "not-an-object-id")
		if !errors.Is(err, domain.ErrUserNotFound) {
			mt.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestUserRepository_UpdatePasswordHash(t *testing.T) {
	mt := newMockT(t)

	mt.Run("updated", func(mt *mtest.T) {
		repo := &UserRepository{col: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		if err := repo.UpdatePasswordHash(context.Background(), primitive.NewObjectID().Hex(), "new-hash"); err != nil {
			mt.Fatalf("UpdatePasswordHash returned error: %v", err)
		}
	})

	mt.Run("no match", func(mt *mtest.T) {
		repo := &UserRepository{col: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := repo.UpdatePasswordHash(context.Background(), primitive.NewObjectID().Hex(), "new-hash")
		if !errors.Is(err, domain.ErrUserNotFound) {
			mt.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})
}
