package handler

import (
    "context"       // request-scoped timeouts for store calls
    "encoding/json" // nullable expired_at decoding
    "fmt"           // error-map keys for inline field definitions
    "net/http"      // HTTP status codes
    "time"          // timestamps and timeouts

    "github.com/labstack/echo/v4"
    "go.mongodb.org/mongo-driver/bson"
    "go.mongodb.org/mongo-driver/bson/primitive"

    "github.com/iliyamo/dynamic-form-builder/internal/config"
    "github.com/iliyamo/dynamic-form-builder/internal/pagination"
    "github.com/iliyamo/dynamic-form-builder/internal/repository"
    "github.com/iliyamo/dynamic-form-builder/internal/validation"
)

// FormHandler bundles dependencies for form CRUD endpoints.
type FormHandler struct {
    Cfg         config.Config
    Forms       *repository.FormRepo
    Fields      *repository.FieldRepo
    Assignments *repository.AssignmentRepo
}

func NewFormHandler(cfg config.Config, forms *repository.FormRepo, fields *repository.FieldRepo, assignments *repository.AssignmentRepo) *FormHandler {
    return &FormHandler{Cfg: cfg, Forms: forms, Fields: fields, Assignments: assignments}
}

// fieldInput is one inline field definition in a form create payload.
// Boolean attributes use pointers so their defaults (required=false,
// allow_null=true, allow_blank=true, is_active=true) apply only when the
// client omitted the key.
type fieldInput struct {
    Name              string   `json:"name"`
    Label             string   `json:"label"`
    Type              string   `json:"type"`
    Required          *bool    `json:"required"`
    AllowNull         *bool    `json:"allow_null"`
    AllowBlank        *bool    `json:"allow_blank"`
    IsActive          *bool    `json:"is_active"`
    Placeholder       string   `json:"placeholder"`
    HelpText          string   `json:"help_text"`
    MinLength         *int     `json:"min_length"`
    MaxLength         *int     `json:"max_length"`
    AllowedExtensions []string `json:"allowed_extensions"`
    MaxSizeMB         *int     `json:"max_size_mb"`
    Options           []string `json:"options"`
}

// boolOr resolves a pointer boolean attribute against its default.
func boolOr(p *bool, def bool) bool {
    if p != nil {
        return *p
    }
    return def
}

// toField converts an inline definition into a Field document. Order is
// assigned by the caller.
func (in *fieldInput) toField(formID primitive.ObjectID, owner string, now time.Time) *repository.Field {
    return &repository.Field{
        FormID:            formID,
        Name:              in.Name,
        Label:             in.Label,
        Type:              in.Type,
        Required:          boolOr(in.Required, false),
        AllowNull:         boolOr(in.AllowNull, true),
        AllowBlank:        boolOr(in.AllowBlank, true),
        IsActive:          boolOr(in.IsActive, true),
        Placeholder:       in.Placeholder,
        HelpText:          in.HelpText,
        MinLength:         in.MinLength,
        MaxLength:         in.MaxLength,
        AllowedExtensions: in.AllowedExtensions,
        MaxSizeMB:         in.MaxSizeMB,
        Options:           in.Options,
        CreatedBy:         owner,
        CreatedAt:         now,
        UpdatedAt:         now,
    }
}

type createFormReq struct {
    Name      string       `json:"name"`
    Submit    string       `json:"submit"`
    ExpiredAt *time.Time   `json:"expired_at"`
    IsActive  *bool        `json:"is_active"`
    Fields    []fieldInput `json:"fields"`
}

// CreateForm creates a form schema together with its inline field
// definitions. All definitions are validated before anything is written;
// definition errors come back keyed "fields[i]" so clients can point at the
// offending entry. Inline fields get sequential order values starting at 0.
func (h *FormHandler) CreateForm(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req createFormReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if req.Name == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"errors": map[string]string{"name": "This field is required"}})
    }

    owner := userKey(uid)
    now := time.Now().UTC()

    // Validate every inline definition before the first write.
    defErrs := map[string]any{}
    fields := make([]*repository.Field, 0, len(req.Fields))
    for i := range req.Fields {
        f := req.Fields[i].toField(primitive.NilObjectID, owner, now)
        f.Order = i
        if errs := validation.ValidateDefinition(f); errs != nil {
            defErrs[fmt.Sprintf("fields[%d]", i)] = errs
            continue
        }
        fields = append(fields, f)
    }
    if len(defErrs) > 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"errors": defErrs})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    form := &repository.Form{
        Name:      req.Name,
        Submit:    req.Submit,
        ExpiredAt: req.ExpiredAt,
        IsActive:  boolOr(req.IsActive, true),
        CreatedBy: owner,
        CreatedAt: now,
        UpdatedAt: now,
    }
    if err := h.Forms.Create(ctx, form); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create form failed"})
    }
    for _, f := range fields {
        f.FormID = form.ID
        if err := h.Fields.Create(ctx, f); err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create form fields failed"})
        }
    }

    return c.JSON(http.StatusCreated, echo.Map{
        "message": "Form created successfully",
        "form_id": form.ID.Hex(),
    })
}

// nullableTime distinguishes an explicit JSON null from an absent key. A
// pointer cannot tell the two apart, and clearing a form's expiry needs
// exactly that distinction: null is a supplied value that unsets the field.
type nullableTime struct {
    Set   bool
    Value *time.Time
}

func (n *nullableTime) UnmarshalJSON(b []byte) error {
    n.Set = true
    if string(b) == "null" {
        n.Value = nil
        return nil
    }
    var t time.Time
    if err := json.Unmarshal(b, &t); err != nil {
        return err
    }
    n.Value = &t
    return nil
}

type updateFormReq struct {
    Name      *string      `json:"name"`
    Submit    *string      `json:"submit"`
    ExpiredAt nullableTime `json:"expired_at"`
    IsActive  *bool        `json:"is_active"`
}

// UpdateForm applies a partial update to a form's own attributes. Only keys
// present in the payload are written. This endpoint updates by id without
// re-checking ownership; delete does re-check, and the route itself is
// staff-only.
func (h *FormHandler) UpdateForm(c echo.Context) error {
    id, err := parseObjectID(c.Param("id"))
    if err != nil {
        return c.JSON(http.StatusNotFound, echo.Map{"detail": "form not found"})
    }
    var req updateFormReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }

    set := bson.M{}
    if req.Name != nil {
        if *req.Name == "" {
            return c.JSON(http.StatusBadRequest, echo.Map{"errors": map[string]string{"name": "This field is required"}})
        }
        set["name"] = *req.Name
    }
    if req.Submit != nil {
        set["submit"] = *req.Submit
    }
    if req.ExpiredAt.Set {
        if req.ExpiredAt.Value != nil {
            set["expired_at"] = *req.ExpiredAt.Value
        } else {
            // Explicit null clears the expiry.
            set["expired_at"] = nil
        }
    }
    if req.IsActive != nil {
        set["is_active"] = *req.IsActive
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    form, err := h.Forms.UpdateByID(ctx, id, set)
    if err != nil {
        if err == repository.ErrFormNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"detail": "form not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update form failed"})
    }
    return c.JSON(http.StatusOK, form)
}

// DeleteForm removes a form and all of its fields. Ownership is re-checked
// here: a form owned by another staff user is reported as not found rather
// than forbidden. Fields are deleted first so a failure cannot orphan them
// behind a missing form.
func (h *FormHandler) DeleteForm(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := parseObjectID(c.Param("id"))
    if err != nil {
        return c.JSON(http.StatusNotFound, echo.Map{"detail": "form not found"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if _, err := h.Forms.GetByIDAndOwner(ctx, id, userKey(uid)); err != nil {
        if err == repository.ErrFormNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"detail": "form not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
    }
    if err := h.Fields.DeleteByForm(ctx, id); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete form fields failed"})
    }
    if err := h.Forms.DeleteByID(ctx, id); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete form failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "Form deleted successfully"})
}

// ListForms returns one page of forms visible to the caller, newest first.
// Staff see the forms they created; regular users see the forms assigned to
// them. A user with no assignments gets an empty page without touching the
// document store.
func (h *FormHandler) ListForms(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    p := pagination.FromQuery(c.QueryParams(), h.Cfg.PageSizeMax)

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    var filter bson.M
    if isStaff(c) {
        filter = bson.M{"created_by": userKey(uid)}
    } else {
        hexIDs, err := h.Assignments.ListFormIDs(ctx, uid)
        if err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load assignments failed"})
        }
        ids := make([]primitive.ObjectID, 0, len(hexIDs))
        for _, hx := range hexIDs {
            if oid, err := primitive.ObjectIDFromHex(hx); err == nil {
                ids = append(ids, oid)
            }
        }
        if len(ids) == 0 {
            return c.JSON(http.StatusOK, pagination.Empty[repository.Form](p).Response())
        }
        filter = bson.M{"_id": bson.M{"$in": ids}}
    }

    sort := bson.D{{Key: "created_at", Value: -1}}
    page, err := pagination.Paginate[repository.Form](ctx, h.Forms.Collection(), filter, sort, p)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list forms failed"})
    }
    return c.JSON(http.StatusOK, page.Response())
}
