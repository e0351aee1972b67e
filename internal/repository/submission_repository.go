// This file defines the Submission model and repository methods over the
// "submissions" MongoDB collection. A submission records the accepted values
// of one user against a form's active fields at a point in time. Submissions
// are immutable: there are no update or delete operations.
package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Submission represents one accepted submission document. Values maps field
// name to the cleaned accepted value; fields that were absent and not
// required are omitted rather than stored as null.
type Submission struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FormID      primitive.ObjectID `bson:"form_id" json:"form_id"`
	SubmittedBy string             `bson:"submitted_by" json:"submitted_by"`
	Values      map[string]any     `bson:"values" json:"values"`
	SubmittedAt time.Time          `bson:"submitted_at" json:"submitted_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// SubmissionRepo encapsulates document-store queries related to submissions.
type SubmissionRepo struct {
	coll *mongo.Collection
}

// NewSubmissionRepo constructs a SubmissionRepo over the "submissions"
// collection of the provided database handle.
func NewSubmissionRepo(db *mongo.Database) *SubmissionRepo {
	return &SubmissionRepo{coll: db.Collection("submissions")}
}

// Collection exposes the underlying collection for the pagination adapter.
func (r *SubmissionRepo) Collection() *mongo.Collection { return r.coll }

// Create inserts a submission and populates its ID. An empty Values map is
// stored as an empty document, never as null.
func (r *SubmissionRepo) Create(ctx context.Context, s *Submission) error {
	if s.Values == nil {
		s.Values = map[string]any{}
	}
	res, err := r.coll.InsertOne(ctx, s)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		s.ID = oid
	}
	return nil
}
