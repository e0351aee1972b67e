package handler

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateFormReq_ExpiredAtNullVsAbsent(t *testing.T) {
	// Absent: the field must not be touched.
	var req updateFormReq
	require.NoError(t, json.Unmarshal([]byte(`{"name":"renamed"}`), &req))
	assert.False(t, req.ExpiredAt.Set)

	// Explicit null: supplied, clears the expiry.
	req = updateFormReq{}
	require.NoError(t, json.Unmarshal([]byte(`{"expired_at":null}`), &req))
	assert.True(t, req.ExpiredAt.Set)
	assert.Nil(t, req.ExpiredAt.Value)

	// A timestamp: supplied with a value.
	req = updateFormReq{}
	require.NoError(t, json.Unmarshal([]byte(`{"expired_at":"2026-01-02T15:04:05Z"}`), &req))
	assert.True(t, req.ExpiredAt.Set)
	require.NotNil(t, req.ExpiredAt.Value)
	assert.Equal(t, time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC), req.ExpiredAt.Value.UTC())
}

func TestNullableTime_RejectsMalformed(t *testing.T) {
	var req updateFormReq
	assert.Error(t, json.Unmarshal([]byte(`{"expired_at":"yesterday"}`), &req))
}
