package handler // handler defines http handlers

import (
    "errors"  // errors provides the sentinel used by getUserID
    "strconv" // strconv converts context values to numeric types

    "github.com/labstack/echo/v4"                  // echo defines request context types
    "go.mongodb.org/mongo-driver/bson/primitive"   // primitive provides ObjectID parsing
)

// getUserID extracts the user_id from echo.Context and converts it to uint64.
// JWT numeric claims decode as float64, so several representations are
// accepted.
func getUserID(c echo.Context) (uint64, error) {
    v := c.Get("user_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// userKey renders a user id the way it is stored on documents: created_by
// and submitted_by are plain decimal strings referencing the MySQL users
// table, never foreign keys into the document store.
func userKey(uid uint64) string {
    return strconv.FormatUint(uid, 10)
}

// isStaff reports whether the authenticated request carries the STAFF role.
func isStaff(c echo.Context) bool {
    role, _ := c.Get("role").(string)
    return role == "STAFF"
}

// parseObjectID parses a 24-char hex path parameter into an ObjectID.
func parseObjectID(raw string) (primitive.ObjectID, error) {
    return primitive.ObjectIDFromHex(raw)
}
