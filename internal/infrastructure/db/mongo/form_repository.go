package mongo

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/formforge/forms-api/internal/core/domain"
)

const collectionForms = "forms"

type FormRepository struct {
	col     *mongo.Collection
	timeout time.Duration
}

// NewFormRepository returns a repository over the forms collection. Every
// call is bounded by timeout, or a default when timeout is not positive.
func NewFormRepository(db *mongo.Database, timeout time.Duration) *FormRepository {
	return &FormRepository{col: db.Collection(collectionForms), timeout: opTimeout(timeout)}
}

type fieldDoc struct {
	Type        string   `bson:"type"`
	Label       string   `bson:"label"`
	Placeholder string   `bson:"placeholder,omitempty"`
	Required    bool     `bson:"required"`
	MinLength   *int     `bson:"minLength,omitempty"`
	MaxLength   *int     `bson:"maxLength,omitempty"`
	Min         *float64 `bson:"min,omitempty"`
	Max         *float64 `bson:"max,omitempty"`
	Step        *float64 `bson:"step,omitempty"`
	Rows        *int     `bson:"rows,omitempty"`
	Order       int      `bson:"order"`
}

type formDoc struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Title            string             `bson:"title"`
	UserID           string             `bson:"userId"`
	Fields           []fieldDoc         `bson:"fields"`
	IsDeleted        bool               `bson:"isDeleted"`
	CreatedAt        time.Time          `bson:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt"`
	SubmissionCount  int64              `bson:"submissionCount"`
	LastSubmissionAt *time.Time         `bson:"lastSubmissionAt,omitempty"`
}

func toFieldDocs(fields []domain.Field) []fieldDoc {
	docs := make([]fieldDoc, len(fields))
	for i, f := range fields {
		s := f.Spec()
		docs[i] = fieldDoc{
			Type:        string(s.Type),
			Label:       s.Label,
			Placeholder: s.Placeholder,
			Required:    s.Required,
			MinLength:   s.MinLength,
			MaxLength:   s.MaxLength,
			Min:         s.Min,
			Max:         s.Max,
			Step:        s.Step,
			Rows:        s.Rows,
			Order:       f.Order,
		}
	}
	return docs
}

func (d fieldDoc) toDomain(i int) (domain.Field, error) {
	order := d.Order
	f, err := domain.FieldSpec{
		Type:        domain.FieldType(d.Type),
		Label:       d.Label,
		Placeholder: d.Placeholder,
		Required:    d.Required,
		MinLength:   d.MinLength,
		MaxLength:   d.MaxLength,
		Min:         d.Min,
		Max:         d.Max,
		Step:        d.Step,
		Rows:        d.Rows,
		Order:       &order,
	}.Build(fmt.Sprintf("fields[%d]", i))
	if err != nil {
		// Stored data is not caller input; don't let it surface as a 400.
		return domain.Field{}, fmt.Errorf("corrupt stored field: %s", err.Error())
	}
	f.Order = d.Order
	return f, nil
}

func (d *formDoc) toDomain() (*domain.Form, error) {
	fields := make([]domain.Field, len(d.Fields))
	for i, fd := range d.Fields {
		f, err := fd.toDomain(i)
		if err != nil {
			return nil, fmt.Errorf("decode form %s: %w", d.ID.Hex(), err)
		}
		fields[i] = f
	}
	form := &domain.Form{
		ID:              d.ID.Hex(),
		Title:           d.Title,
		UserID:          d.UserID,
		Fields:          fields,
		IsDeleted:       d.IsDeleted,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
		SubmissionCount: d.SubmissionCount,
	}
	if d.LastSubmissionAt != nil {
		form.LastSubmissionAt = *d.LastSubmissionAt
	}
	return form, nil
}

func live(filter bson.M) bson.M {
	filter["isDeleted"] = bson.M{"$ne": true}
	return filter
}

// Create inserts a new form document and sets f.ID.
func (r *FormRepository) Create(ctx context.Context, f *domain.Form) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	doc := formDoc{
		Title:     f.Title,
		UserID:    f.UserID,
		Fields:    toFieldDocs(f.Fields),
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert form: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("insert form: unexpected id type %T", res.InsertedID)
	}
	f.ID = oid.Hex()
	return nil
}

// FindByID retrieves a live form.
func (r *FormRepository) FindByID(ctx context.Context, id string) (*domain.Form, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrFormNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var doc formDoc
	err := r.col.FindOne(ctx, live(bson.M{"_id": oid})).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrFormNotFound
		}
		return nil, fmt.Errorf("find form: %w", err)
	}
	return doc.toDomain()
}

// List streams summaries of live forms in insertion order.
func (r *FormRepository) List(ctx context.Context) iter.Seq2[domain.FormSummary, error] {
	return func(yield func(domain.FormSummary, error) bool) {
		ctx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()

		opts := options.Find().
			SetSort(bson.D{{Key: "_id", Value: 1}}).
			SetProjection(bson.M{"title": 1, "userId": 1, "submissionCount": 1})
		cur, err := r.col.Find(ctx, live(bson.M{}), opts)
		if err != nil {
			yield(domain.FormSummary{}, fmt.Errorf("find forms: %w", err))
			return
		}
		defer cur.Close(ctx)

		for cur.Next(ctx) {
			var doc formDoc
			if err := cur.Decode(&doc); err != nil {
				yield(domain.FormSummary{}, fmt.Errorf("decode form: %w", err))
				return
			}
			summary := domain.FormSummary{
				ID:              doc.ID.Hex(),
				Title:           doc.Title,
				UserID:          doc.UserID,
				SubmissionCount: doc.SubmissionCount,
			}
			if !yield(summary, nil) {
				return
			}
		}
		if err := cur.Err(); err != nil {
			yield(domain.FormSummary{}, fmt.Errorf("iterate forms: %w", err))
		}
	}
}

// Update replaces title, fields and updatedAt with a single $set guarded by
// id and owner, so readers see either the old or the new definition.
func (r *FormRepository) Update(ctx context.Context, f *domain.Form) error {
	oid, ok := objectID(f.ID)
	if !ok {
		return domain.ErrFormNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		live(bson.M{"_id": oid, "userId": f.UserID}),
		bson.M{"$set": bson.M{
			"title":     f.Title,
			"fields":    toFieldDocs(f.Fields),
			"updatedAt": f.UpdatedAt,
		}},
	)
	if err != nil {
		return fmt.Errorf("update form: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrFormNotFound
	}
	return nil
}

// Delete removes the form document. Submissions are left alone.
func (r *FormRepository) Delete(ctx context.Context, id, ownerID string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrFormNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid, "userId": ownerID})
	if err != nil {
		return fmt.Errorf("delete form: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrFormNotFound
	}
	return nil
}

// SoftDelete flags the form as deleted.
func (r *FormRepository) SoftDelete(ctx context.Context, id, ownerID string, at time.Time) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrFormNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		live(bson.M{"_id": oid, "userId": ownerID}),
		bson.M{"$set": bson.M{"isDeleted": true, "updatedAt": at}},
	)
	if err != nil {
		return fmt.Errorf("soft delete form: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrFormNotFound
	}
	return nil
}

// IncrementSubmissions bumps the submission counter and raises
// lastSubmissionAt in one atomic update.
func (r *FormRepository) IncrementSubmissions(ctx context.Context, formID string, at time.Time) error {
	oid, ok := objectID(formID)
	if !ok {
		return domain.ErrFormNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{
			"$inc": bson.M{"submissionCount": 1},
			"$max": bson.M{"lastSubmissionAt": at},
		},
	)
	if err != nil {
		return fmt.Errorf("increment submissions: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrFormNotFound
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the forms collection.
func (r *FormRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}}},
		{Keys: bson.D{{Key: "isDeleted", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
