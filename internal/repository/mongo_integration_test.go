package repository

// Integration tests against a real MongoDB. Set MONGODB_TEST_URI to run
// them, e.g. MONGODB_TEST_URI=mongodb://localhost:27017 go test ./...
// Each test works in a throwaway database that is dropped afterwards.

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func testMongoDB(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)

	db := client.Database("formbuilder_test_" + time.Now().UTC().Format("20060102150405"))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return db
}

func TestNextOrder_SequentialCreation(t *testing.T) {
	db := testMongoDB(t)
	forms := NewFormRepo(db)
	fields := NewFieldRepo(db)
	ctx := context.Background()

	form := &Form{Name: "survey", IsActive: true, CreatedBy: "1"}
	require.NoError(t, forms.Create(ctx, form))

	for want := 1; want <= 3; want++ {
		order, err := fields.NextOrder(ctx, form.ID)
		require.NoError(t, err)
		assert.Equal(t, want, order)

		f := &Field{FormID: form.ID, Name: "f", Label: "F", Type: "text", CreatedBy: "1", Order: order}
		require.NoError(t, fields.Create(ctx, f))
	}
}

func TestDeleteForm_CascadesFields(t *testing.T) {
	db := testMongoDB(t)
	forms := NewFormRepo(db)
	fields := NewFieldRepo(db)
	ctx := context.Background()

	form := &Form{Name: "survey", IsActive: true, CreatedBy: "1"}
	require.NoError(t, forms.Create(ctx, form))
	for i := 0; i < 3; i++ {
		require.NoError(t, fields.Create(ctx, &Field{FormID: form.ID, Name: "f", Label: "F", Type: "text", CreatedBy: "1", Order: i + 1}))
	}

	require.NoError(t, fields.DeleteByForm(ctx, form.ID))
	require.NoError(t, forms.DeleteByID(ctx, form.ID))

	left, err := fields.ListActiveByForm(ctx, form.ID)
	require.NoError(t, err)
	assert.Empty(t, left)
	_, err = forms.GetByID(ctx, form.ID)
	assert.Equal(t, ErrFormNotFound, err)
}

// Field update acts by id without an ownership filter, while delete checks
// the owner. This pins the current asymmetry so a future authorization
// change shows up as a deliberate test update, not a silent behavior shift.
func TestFieldUpdateDeleteOwnershipAsymmetry(t *testing.T) {
	db := testMongoDB(t)
	forms := NewFormRepo(db)
	fields := NewFieldRepo(db)
	ctx := context.Background()

	form := &Form{Name: "survey", IsActive: true, CreatedBy: "1"}
	require.NoError(t, forms.Create(ctx, form))
	f := &Field{FormID: form.ID, Name: "f", Label: "F", Type: "text", CreatedBy: "1", Order: 1}
	require.NoError(t, fields.Create(ctx, f))

	// Another principal can update the field by id.
	updated, err := fields.UpdateByID(ctx, f.ID, bson.M{"label": "Changed"})
	require.NoError(t, err)
	assert.Equal(t, "Changed", updated.Label)

	// The owner-scoped read used by the delete path hides it from them.
	_, err = fields.GetByIDAndOwner(ctx, f.ID, "2")
	assert.Equal(t, ErrFieldNotFound, err)
	_, err = fields.GetByIDAndOwner(ctx, f.ID, "1")
	require.NoError(t, err)
}

func TestReorder_ScopedToOwner(t *testing.T) {
	db := testMongoDB(t)
	forms := NewFormRepo(db)
	fields := NewFieldRepo(db)
	ctx := context.Background()

	form := &Form{Name: "survey", IsActive: true, CreatedBy: "1"}
	require.NoError(t, forms.Create(ctx, form))
	mine := &Field{FormID: form.ID, Name: "a", Label: "A", Type: "text", CreatedBy: "1", Order: 1}
	theirs := &Field{FormID: form.ID, Name: "b", Label: "B", Type: "text", CreatedBy: "2", Order: 2}
	require.NoError(t, fields.Create(ctx, mine))
	require.NoError(t, fields.Create(ctx, theirs))

	// The entry for the other owner's field matches zero documents; only
	// the aggregate modified count reports it.
	modified, err := fields.Reorder(ctx, "1", []FieldOrder{
		{ID: mine.ID.Hex(), Order: 5},
		{ID: theirs.ID.Hex(), Order: 6},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), modified)

	got, err := fields.GetByID(ctx, theirs.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Order)
}
