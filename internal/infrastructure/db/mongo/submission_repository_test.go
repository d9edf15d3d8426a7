package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/formforge/forms-api/internal/core/domain"
)

func TestSubmissionRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ns := "test.submittedforms"

	mt.Run("create sets id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewSubmissionRepository(mt.DB, 0)

		s := &domain.Submission{
			FormID:          primitive.NewObjectID().Hex(),
			SubmittedFields: []domain.SubmittedField{{Label: "Name", Value: "Ann"}},
			SubmittedAt:     time.Now().UTC(),
		}
		require.NoError(mt, repo.Create(context.Background(), s))
		require.NotEmpty(mt, s.ID)
	})

	mt.Run("list by form", func(mt *mtest.T) {
		formID := primitive.NewObjectID()
		doc := submissionDoc{
			ID:     primitive.NewObjectID(),
			FormID: formID,
			SubmittedFields: []submittedFieldDoc{
				{Label: "Name", Value: "Ann"},
				{Label: "Address", Value: bson.D{{Key: "city", Value: "Lisbon"}}},
			},
			SubmittedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
			UserID:      "user-7",
		}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, toDoc(mt, doc)))
		repo := NewSubmissionRepository(mt.DB, 0)

		subs, err := repo.ListByForm(context.Background(), formID.Hex())
		require.NoError(mt, err)
		require.Len(mt, subs, 1)
		require.Equal(mt, formID.Hex(), subs[0].FormID)
		require.Equal(mt, "user-7", subs[0].UserID)
		require.Equal(mt, "Ann", subs[0].SubmittedFields[0].Value)
		require.Equal(mt, map[string]any{"city": "Lisbon"}, subs[0].SubmittedFields[1].Value)
	})

	mt.Run("malformed form id lists nothing", func(mt *mtest.T) {
		repo := NewSubmissionRepository(mt.DB, 0)

		subs, err := repo.ListByForm(context.Background(), "xyz")
		require.NoError(mt, err)
		require.Empty(mt, subs)
	})
}

func TestUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ns := "test.users"

	mt.Run("create", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewUserRepository(mt.DB, 0)

		u, err := repo.Create(context.Background(), &domain.User{Email: "a@example.com", Name: "Ann", PasswordHash: "h"})
		require.NoError(mt, err)
		require.NotEmpty(mt, u.ID)
		require.Equal(mt, "a@example.com", u.Email)
	})

	mt.Run("duplicate email", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key error"}))
		repo := NewUserRepository(mt.DB, 0)

		_, err := repo.Create(context.Background(), &domain.User{Email: "a@example.com"})
		require.ErrorIs(mt, err, domain.ErrUserExists)
	})

	mt.Run("find by email", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, toDoc(mt, mongoUser{
			ID: id, Email: "a@example.com", Name: "Ann", PasswordHash: "hash",
		})))
		repo := NewUserRepository(mt.DB, 0)

		u, err := repo.FindByEmail(context.Background(), "a@example.com")
		require.NoError(mt, err)
		require.Equal(mt, id.Hex(), u.ID)
		require.Equal(mt, "hash", u.PasswordHash)
	})

	mt.Run("unknown email", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		repo := NewUserRepository(mt.DB, 0)

		_, err := repo.FindByEmail(context.Background(), "ghost@example.com")
		require.ErrorIs(mt, err, domain.ErrUserNotFound)
	})
}
