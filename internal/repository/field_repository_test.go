package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasDuplicateOrders(t *testing.T) {
	assert.False(t, HasDuplicateOrders(nil))
	assert.False(t, HasDuplicateOrders([]FieldOrder{{ID: "a", Order: 1}}))
	assert.False(t, HasDuplicateOrders([]FieldOrder{
		{ID: "a", Order: 1},
		{ID: "b", Order: 2},
		{ID: "c", Order: 3},
	}))
	assert.True(t, HasDuplicateOrders([]FieldOrder{
		{ID: "a", Order: 1},
		{ID: "b", Order: 2},
		{ID: "c", Order: 1},
	}))
	// Same field id twice with distinct orders is not an order conflict.
	assert.False(t, HasDuplicateOrders([]FieldOrder{
		{ID: "a", Order: 1},
		{ID: "a", Order: 2},
	}))
}
