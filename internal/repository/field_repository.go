// This file defines the Field model and repository methods over the "fields"
// MongoDB collection. A Field is one typed, orderable input definition
// belonging to a form. Fields reference their form by ObjectID but nothing
// enforces that reference; deleting a form must explicitly delete its fields
// or orphans remain.
package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Field represents a field definition document. Optional constraints use
// pointers so partial updates can tell "absent" from zero values.
type Field struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FormID            primitive.ObjectID `bson:"form_id" json:"form_id"`
	Name              string             `bson:"name" json:"name"`
	Label             string             `bson:"label" json:"label"`
	Type              string             `bson:"type" json:"type"`
	Required          bool               `bson:"required" json:"required"`
	AllowNull         bool               `bson:"allow_null" json:"allow_null"`
	AllowBlank        bool               `bson:"allow_blank" json:"allow_blank"`
	IsActive          bool               `bson:"is_active" json:"is_active"`
	Placeholder       string             `bson:"placeholder,omitempty" json:"placeholder,omitempty"`
	HelpText          string             `bson:"help_text,omitempty" json:"help_text,omitempty"`
	Order             int                `bson:"order" json:"order"`
	MinLength         *int               `bson:"min_length,omitempty" json:"min_length,omitempty"`
	MaxLength         *int               `bson:"max_length,omitempty" json:"max_length,omitempty"`
	AllowedExtensions []string           `bson:"allowed_extensions,omitempty" json:"allowed_extensions,omitempty"`
	MaxSizeMB         *int               `bson:"max_size_mb,omitempty" json:"max_size_mb,omitempty"`
	Options           []string           `bson:"options,omitempty" json:"options,omitempty"`
	CreatedBy         string             `bson:"created_by" json:"created_by"`
	CreatedAt         time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at" json:"updated_at"`
}

// FieldOrder is one entry of a bulk reorder request.
type FieldOrder struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
}

// ErrFieldNotFound is returned when a field does not exist or is not visible
// to the requesting user.
var ErrFieldNotFound = errors.New("field not found")

// FieldRepo encapsulates all document-store queries related to fields.
type FieldRepo struct {
	coll *mongo.Collection
}

// NewFieldRepo constructs a FieldRepo over the "fields" collection of the
// provided database handle.
func NewFieldRepo(db *mongo.Database) *FieldRepo {
	return &FieldRepo{coll: db.Collection("fields")}
}

// Collection exposes the underlying collection for the pagination adapter.
func (r *FieldRepo) Collection() *mongo.Collection { return r.coll }

// NextOrder computes the order to assign to a newly created field: one past
// the current maximum for the form, or 1 when the form has no fields yet.
// The read and the subsequent insert are two separate store operations, so
// concurrent creations on the same form can observe the same maximum and
// produce duplicate order values.
func (r *FieldRepo) NextOrder(ctx context.Context, formID primitive.ObjectID) (int, error) {
	opts := options.FindOne().
		SetSort(bson.D{{Key: "order", Value: -1}}).
		SetProjection(bson.M{"order": 1})
	var doc struct {
		Order int `bson:"order"`
	}
	err := r.coll.FindOne(ctx, bson.M{"form_id": formID}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 1, nil
		}
		return 0, err
	}
	return doc.Order + 1, nil
}

// Create inserts a new field document and populates its ID. The caller is
// responsible for assigning Order beforehand.
func (r *FieldRepo) Create(ctx context.Context, f *Field) error {
	res, err := r.coll.InsertOne(ctx, f)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		f.ID = oid
	}
	return nil
}

// GetByID fetches a field by id regardless of owner.
func (r *FieldRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*Field, error) {
	var f Field
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&f)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrFieldNotFound
		}
		return nil, err
	}
	return &f, nil
}

// GetByIDAndOwner fetches a field only if it was created by the given user.
func (r *FieldRepo) GetByIDAndOwner(ctx context.Context, id primitive.ObjectID, owner string) (*Field, error) {
	var f Field
	err := r.coll.FindOne(ctx, bson.M{"_id": id, "created_by": owner}).Decode(&f)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrFieldNotFound
		}
		return nil, err
	}
	return &f, nil
}

// UpdateByID applies a partial $set update and returns the document state
// after the update. Note there is no owner filter here: field update does
// not re-check ownership while field delete does.
func (r *FieldRepo) UpdateByID(ctx context.Context, id primitive.ObjectID, set bson.M) (*Field, error) {
	set["updated_at"] = time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var f Field
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&f)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrFieldNotFound
		}
		return nil, err
	}
	return &f, nil
}

// DeleteByID removes a single field document.
func (r *FieldRepo) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// DeleteByForm removes every field belonging to the given form. Called
// before deleting the form itself to honor the cascade-by-convention.
func (r *FieldRepo) DeleteByForm(ctx context.Context, formID primitive.ObjectID) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{"form_id": formID})
	return err
}

// ListActiveByForm returns every active field of a form. Submission
// validation runs against exactly this set.
func (r *FieldRepo) ListActiveByForm(ctx context.Context, formID primitive.ObjectID) ([]*Field, error) {
	cur, err := r.coll.Find(ctx, bson.M{"form_id": formID, "is_active": true})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*Field
	for cur.Next(ctx) {
		f := new(Field)
		if err := cur.Decode(f); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, cur.Err()
}

// Reorder applies a batch of (field id, new order) updates in one bulk
// write, each scoped to fields created by the given user. Updates for ids
// not owned by the user match zero documents and are not reported as
// individual errors; the returned count reflects exactly what was modified.
// The per-document updates are independent, not transactional: a failure
// mid-batch can leave some but not all updates applied.
func (r *FieldRepo) Reorder(ctx context.Context, owner string, items []FieldOrder) (int64, error) {
	if len(items) == 0 {
		return 0, ErrNoUpdates
	}
	now := time.Now().UTC()
	models := make([]mongo.WriteModel, 0, len(items))
	for _, item := range items {
		oid, err := primitive.ObjectIDFromHex(item.ID)
		if err != nil {
			return 0, err
		}
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": oid, "created_by": owner}).
			SetUpdate(bson.M{"$set": bson.M{"order": item.Order, "updated_at": now}}))
	}
	res, err := r.coll.BulkWrite(ctx, models)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// HasDuplicateOrders reports whether any two reorder entries request the
// same order value. A batch with duplicates is rejected before any write.
func HasDuplicateOrders(items []FieldOrder) bool {
	seen := make(map[int]bool, len(items))
	for _, item := range items {
		if seen[item.Order] {
			return true
		}
		seen[item.Order] = true
	}
	return false
}
