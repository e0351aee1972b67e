// This file defines the Form model and repository methods for CRUD over the
// "forms" MongoDB collection. A Form is a named schema of submittable fields
// owned by the staff user that created it. Ownership lives on the document
// itself as a created_by string referencing the MySQL users table; there is
// no cross-store foreign key, so every owner-scoped read filters on
// created_by explicitly.
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

// Form represents a form schema document. The ID marshals to its hex string
// in JSON, which is also the representation used in assignment records and
// all external payloads.
type Form struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Submit    string             `bson:"submit" json:"submit"`
	ExpiredAt *time.Time         `bson:"expired_at,omitempty" json:"expired_at,omitempty"`
	IsActive  bool               `bson:"is_active" json:"is_active"`
	CreatedBy string             `bson:"created_by" json:"created_by"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// ErrFormNotFound is returned when a form does not exist or is not visible
// to the requesting user.
var ErrFormNotFound = errors.New("form not found")

// FormRepo encapsulates all document-store queries related to forms.
type FormRepo struct {
	coll *mongo.Collection
}

// NewFormRepo constructs a FormRepo over the "forms" collection of the
// provided database handle.
func NewFormRepo(db *mongo.Database) *FormRepo {
	return &FormRepo{coll: db.Collection("forms")}
}

// Collection exposes the underlying collection for the pagination adapter.
func (r *FormRepo) Collection() *mongo.Collection { return r.coll }

// Create inserts a new form document and populates its ID.
func (r *FormRepo) Create(ctx context.Context, f *Form) error {
	res, err := r.coll.InsertOne(ctx, f)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		f.ID = oid
	}
	return nil
}

// GetByID fetches a form by its id regardless of owner.
func (r *FormRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*Form, error) {
	var f Form
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&f)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrFormNotFound
		}
		return nil, err
	}
	return &f, nil
}

// GetByIDAndOwner fetches a form only if it was created by the given user.
// A form owned by someone else is indistinguishable from a missing one.
func (r *FormRepo) GetByIDAndOwner(ctx context.Context, id primitive.ObjectID, owner string) (*Form, error) {
	var f Form
	err := r.coll.FindOne(ctx, bson.M{"_id": id, "created_by": owner}).Decode(&f)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrFormNotFound
		}
		return nil, err
	}
	return &f, nil
}

// GetActiveByID fetches a form only when its is_active flag is set. Used as
// the submission precondition.
func (r *FormRepo) GetActiveByID(ctx context.Context, id primitive.ObjectID) (*Form, error) {
	var f Form
	err := r.coll.FindOne(ctx, bson.M{"_id": id, "is_active": true}).Decode(&f)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrFormNotFound
		}
		return nil, err
	}
	return &f, nil
}

// UpdateByID applies a partial $set update and returns the document state
// after the update. Only the keys present in set are overwritten.
func (r *FormRepo) UpdateByID(ctx context.Context, id primitive.ObjectID, set bson.M) (*Form, error) {
	set["updated_at"] = time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var f Form
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&f)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrFormNotFound
		}
		return nil, err
	}
	return &f, nil
}

// DeleteByID removes a single form document. Callers must delete the form's
// fields first; the cascade is by convention, not enforced by the store.
func (r *FormRepo) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// ExistsByID reports whether a form document with the given id exists.
// Used when validating assignment requests against current store state.
func (r *FormRepo) ExistsByID(ctx context.Context, id primitive.ObjectID) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// IDsByOwner returns the ids of every form created by the given user. Staff
// submission listings use this to scope the submissions query.
func (r *FormRepo) IDsByOwner(ctx context.Context, owner string) ([]primitive.ObjectID, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cur, err := r.coll.Find(ctx, bson.M{"created_by": owner}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		ids = append(ids, doc.ID)
	}
	return ids, cur.Err()
}
