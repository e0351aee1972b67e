package handler

import (
    "context"  // request-scoped timeouts for store calls
    "net/http" // HTTP status codes
    "time"     // timestamps, timeouts and date-filter parsing

    "github.com/labstack/echo/v4"
    "go.mongodb.org/mongo-driver/bson"
    "go.mongodb.org/mongo-driver/bson/primitive"

    "github.com/iliyamo/dynamic-form-builder/internal/config"
    "github.com/iliyamo/dynamic-form-builder/internal/pagination"
    "github.com/iliyamo/dynamic-form-builder/internal/queue"
    "github.com/iliyamo/dynamic-form-builder/internal/repository"
    queue_publisher "github.com/iliyamo/dynamic-form-builder/internal/service"
    "github.com/iliyamo/dynamic-form-builder/internal/validation"
)

// SubmissionHandler bundles dependencies for submitting and listing
// submissions.
type SubmissionHandler struct {
    Cfg         config.Config
    Forms       *repository.FormRepo
    Fields      *repository.FieldRepo
    Submissions *repository.SubmissionRepo
}

func NewSubmissionHandler(cfg config.Config, forms *repository.FormRepo, fields *repository.FieldRepo, subs *repository.SubmissionRepo) *SubmissionHandler {
    return &SubmissionHandler{Cfg: cfg, Forms: forms, Fields: fields, Submissions: subs}
}

type submitReq struct {
    Values map[string]any `json:"values"`
}

// SubmitForm validates a value map against the form's active fields and
// persists the cleaned result. The form must exist and be active; inactive
// and missing forms are indistinguishable to the caller. Validation never
// short-circuits: the caller gets every per-field failure at once. On
// success a form.submitted event is published best-effort; a broker failure
// never fails the request because the submission is already persisted.
func (h *SubmissionHandler) SubmitForm(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    formID, err := parseObjectID(c.Param("id"))
    if err != nil {
        return c.JSON(http.StatusNotFound, echo.Map{"detail": "form not found or inactive"})
    }
    var req submitReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    form, err := h.Forms.GetActiveByID(ctx, formID)
    if err != nil {
        if err == repository.ErrFormNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"detail": "form not found or inactive"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
    }

    fields, err := h.Fields.ListActiveByForm(ctx, formID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load fields failed"})
    }

    cleaned, errs := validation.ValidateSubmission(fields, req.Values)
    if errs != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
    }

    now := time.Now().UTC()
    sub := &repository.Submission{
        FormID:      formID,
        SubmittedBy: userKey(uid),
        Values:      cleaned,
        SubmittedAt: now,
        UpdatedAt:   now,
    }
    if err := h.Submissions.Create(ctx, sub); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save submission failed"})
    }

    _ = queue_publisher.PublishFormSubmitted(ctx, queue.FormSubmittedEvent{
        SubmissionID: sub.ID.Hex(),
        FormID:       formID.Hex(),
        FormName:     form.Name,
        SubmittedBy:  sub.SubmittedBy,
        FieldCount:   len(cleaned),
        SubmittedAt:  now.Format(time.RFC3339),
    })

    return c.JSON(http.StatusCreated, echo.Map{"submission_id": sub.ID.Hex()})
}

// parseDateRange reads optional start_date/end_date query parameters in
// YYYY-MM-DD form and converts them to inclusive full-day UTC bounds:
// start_date becomes 00:00:00 of that day, end_date the last instant before
// the next day. Unparseable values are ignored rather than rejected.
func parseDateRange(start, end string) bson.M {
    rng := bson.M{}
    if t, err := time.Parse("2006-01-02", start); err == nil {
        rng["$gte"] = t.UTC()
    }
    if t, err := time.Parse("2006-01-02", end); err == nil {
        rng["$lt"] = t.UTC().AddDate(0, 0, 1)
    }
    if len(rng) == 0 {
        return nil
    }
    return rng
}

// ListSubmissions returns one page of submissions visible to the caller,
// newest first. Staff see submissions against any form they created; regular
// users see only their own. Optional start_date/end_date parameters restrict
// the window by submission time.
func (h *SubmissionHandler) ListSubmissions(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    p := pagination.FromQuery(c.QueryParams(), h.Cfg.PageSizeMax)

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    var filter bson.M
    if isStaff(c) {
        ids, err := h.Forms.IDsByOwner(ctx, userKey(uid))
        if err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load forms failed"})
        }
        if len(ids) == 0 {
            return c.JSON(http.StatusOK, pagination.Empty[repository.Submission](p).Response())
        }
        filter = bson.M{"form_id": bson.M{"$in": ids}}
    } else {
        filter = bson.M{"submitted_by": userKey(uid)}
    }

    if rng := parseDateRange(c.QueryParam("start_date"), c.QueryParam("end_date")); rng != nil {
        filter["submitted_at"] = rng
    }
    if raw := c.QueryParam("form_id"); raw != "" {
        if oid, err := primitive.ObjectIDFromHex(raw); err == nil {
            // Narrow within the role scope; an unscoped form id simply
            // intersects to an empty result.
            if prev, ok := filter["form_id"]; ok {
                filter["$and"] = bson.A{bson.M{"form_id": prev}, bson.M{"form_id": oid}}
                delete(filter, "form_id")
            } else {
                filter["form_id"] = oid
            }
        }
    }

    sort := bson.D{{Key: "submitted_at", Value: -1}}
    page, err := pagination.Paginate[repository.Submission](ctx, h.Submissions.Collection(), filter, sort, p)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list submissions failed"})
    }
    return c.JSON(http.StatusOK, page.Response())
}
