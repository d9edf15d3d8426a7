package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/formforge/forms-api/internal/core/domain"
)

const collectionSubmissions = "submittedforms"

type SubmissionRepository struct {
	col     *mongo.Collection
	timeout time.Duration
}

func NewSubmissionRepository(db *mongo.Database, timeout time.Duration) *SubmissionRepository {
	return &SubmissionRepository{col: db.Collection(collectionSubmissions), timeout: opTimeout(timeout)}
}

type submittedFieldDoc struct {
	Label string `bson:"label"`
	Value any    `bson:"value"`
}

type submissionDoc struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty"`
	FormID          primitive.ObjectID  `bson:"formId"`
	SubmittedFields []submittedFieldDoc `bson:"submittedFields"`
	SubmittedAt     time.Time           `bson:"submittedAt"`
	UserID          string              `bson:"userId,omitempty"`
}

// Create inserts a submission and sets s.ID. The form id must be a valid
// ObjectID; the service has already resolved the form.
func (r *SubmissionRepository) Create(ctx context.Context, s *domain.Submission) error {
	formOID, ok := objectID(s.FormID)
	if !ok {
		return domain.ErrFormNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	fields := make([]submittedFieldDoc, len(s.SubmittedFields))
	for i, f := range s.SubmittedFields {
		fields[i] = submittedFieldDoc{Label: f.Label, Value: f.Value}
	}
	res, err := r.col.InsertOne(ctx, submissionDoc{
		FormID:          formOID,
		SubmittedFields: fields,
		SubmittedAt:     s.SubmittedAt,
		UserID:          s.UserID,
	})
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("insert submission: unexpected id type %T", res.InsertedID)
	}
	s.ID = oid.Hex()
	return nil
}

// ListByForm returns the submissions of a form oldest first. Malformed form
// ids match nothing.
func (r *SubmissionRepository) ListByForm(ctx context.Context, formID string) ([]*domain.Submission, error) {
	formOID, ok := objectID(formID)
	if !ok {
		return []*domain.Submission{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "submittedAt", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"formId": formOID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find submissions: %w", err)
	}

	var docs []submissionDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode submissions: %w", err)
	}

	out := make([]*domain.Submission, len(docs))
	for i, d := range docs {
		fields := make([]domain.SubmittedField, len(d.SubmittedFields))
		for j, f := range d.SubmittedFields {
			fields[j] = domain.SubmittedField{Label: f.Label, Value: plain(f.Value)}
		}
		out[i] = &domain.Submission{
			ID:              d.ID.Hex(),
			FormID:          d.FormID.Hex(),
			UserID:          d.UserID,
			SubmittedFields: fields,
			SubmittedAt:     d.SubmittedAt,
		}
	}
	return out, nil
}

// EnsureIndexes creates necessary indexes on the submissions collection.
func (r *SubmissionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "formId", Value: 1}, {Key: "submittedAt", Value: 1}},
	})
	return err
}
