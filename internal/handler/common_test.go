package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestGetUserID_AcceptedRepresentations(t *testing.T) {
	cases := []struct {
		name string
		set  any
		want uint64
	}{
		{"uint64", uint64(7), 7},
		{"int", 7, 7},
		{"int64", int64(7), 7},
		{"float64 from jwt claims", float64(7), 7},
		{"decimal string", "7", 7},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := testContext(t)
			c.Set("user_id", tc.set)
			got, err := getUserID(c)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetUserID_Rejected(t *testing.T) {
	c := testContext(t)
	_, err := getUserID(c) // nothing set
	assert.Error(t, err)

	c.Set("user_id", "not-a-number")
	_, err = getUserID(c)
	assert.Error(t, err)
}

func TestUserKey(t *testing.T) {
	assert.Equal(t, "0", userKey(0))
	assert.Equal(t, "42", userKey(42))
}

func TestIsStaff(t *testing.T) {
	c := testContext(t)
	assert.False(t, isStaff(c))

	c.Set("role", "USER")
	assert.False(t, isStaff(c))

	c.Set("role", "STAFF")
	assert.True(t, isStaff(c))
}

func TestParseObjectID(t *testing.T) {
	oid, err := parseObjectID("64b2f8a1e4b0c93d2f1a7b4c")
	require.NoError(t, err)
	assert.Equal(t, "64b2f8a1e4b0c93d2f1a7b4c", oid.Hex())

	_, err = parseObjectID("short")
	assert.Error(t, err)
	_, err = parseObjectID("")
	assert.Error(t, err)
}
