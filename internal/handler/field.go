package handler

import (
    "context"  // request-scoped timeouts for store calls
    "net/http" // HTTP status codes
    "time"     // timestamps and timeouts

    "github.com/labstack/echo/v4"
    "go.mongodb.org/mongo-driver/bson"

    "github.com/iliyamo/dynamic-form-builder/internal/config"
    "github.com/iliyamo/dynamic-form-builder/internal/pagination"
    "github.com/iliyamo/dynamic-form-builder/internal/repository"
    "github.com/iliyamo/dynamic-form-builder/internal/validation"
)

// FieldHandler bundles dependencies for field CRUD and reordering.
type FieldHandler struct {
    Cfg    config.Config
    Forms  *repository.FormRepo
    Fields *repository.FieldRepo
}

func NewFieldHandler(cfg config.Config, forms *repository.FormRepo, fields *repository.FieldRepo) *FieldHandler {
    return &FieldHandler{Cfg: cfg, Forms: forms, Fields: fields}
}

// CreateField adds one field to an existing form. The caller must own the
// form; a form owned by someone else is reported as not found. The new
// field's order is one past the form's current maximum (1 when the form is
// empty), so appending fields keeps them in creation sequence.
func (h *FieldHandler) CreateField(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    formID, err := parseObjectID(c.Param("id"))
    if err != nil {
        return c.JSON(http.StatusNotFound, echo.Map{"detail": "form not found"})
    }
    var req fieldInput
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }

    owner := userKey(uid)
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if _, err := h.Forms.GetByIDAndOwner(ctx, formID, owner); err != nil {
        if err == repository.ErrFormNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"detail": "form not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
    }

    now := time.Now().UTC()
    field := req.toField(formID, owner, now)
    if errs := validation.ValidateDefinition(field); errs != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
    }

    order, err := h.Fields.NextOrder(ctx, formID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "compute order failed"})
    }
    field.Order = order

    if err := h.Fields.Create(ctx, field); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create field failed"})
    }
    return c.JSON(http.StatusCreated, field)
}

// ListFields returns one page of a form's fields sorted by order. There is
// no ownership or assignment filter at this layer: any authenticated user
// that knows a form id can read its field definitions.
func (h *FieldHandler) ListFields(c echo.Context) error {
    formID, err := parseObjectID(c.Param("id"))
    if err != nil {
        return c.JSON(http.StatusNotFound, echo.Map{"detail": "form not found"})
    }
    p := pagination.FromQuery(c.QueryParams(), h.Cfg.PageSizeMax)

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    filter := bson.M{"form_id": formID}
    sort := bson.D{{Key: "order", Value: 1}, {Key: "created_at", Value: 1}}
    page, err := pagination.Paginate[repository.Field](ctx, h.Fields.Collection(), filter, sort, p)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list fields failed"})
    }
    return c.JSON(http.StatusOK, page.Response())
}

type updateFieldReq struct {
    Name              *string  `json:"name"`
    Label             *string  `json:"label"`
    Type              *string  `json:"type"`
    Required          *bool    `json:"required"`
    AllowNull         *bool    `json:"allow_null"`
    AllowBlank        *bool    `json:"allow_blank"`
    IsActive          *bool    `json:"is_active"`
    Placeholder       *string  `json:"placeholder"`
    HelpText          *string  `json:"help_text"`
    Order             *int     `json:"order"`
    MinLength         *int     `json:"min_length"`
    MaxLength         *int     `json:"max_length"`
    AllowedExtensions []string `json:"allowed_extensions"`
    MaxSizeMB         *int     `json:"max_size_mb"`
    Options           []string `json:"options"`
}

// UpdateField applies a partial update to a field definition. The updated
// definition (current state merged with the patch) is re-validated before
// writing. Like form update, this endpoint does not re-check ownership;
// field delete does.
func (h *FieldHandler) UpdateField(c echo.Context) error {
    id, err := parseObjectID(c.Param("id"))
    if err != nil {
        return c.JSON(http.StatusNotFound, echo.Map{"detail": "field not found"})
    }
    var req updateFieldReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    current, err := h.Fields.GetByID(ctx, id)
    if err != nil {
        if err == repository.ErrFieldNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"detail": "field not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
    }

    // Merge the patch onto the current state so the definition can be
    // re-validated as a whole (e.g. switching type to file requires the
    // file attributes to be present after the merge).
    set := bson.M{}
    if req.Name != nil {
        current.Name = *req.Name
        set["name"] = *req.Name
    }
    if req.Label != nil {
        current.Label = *req.Label
        set["label"] = *req.Label
    }
    if req.Type != nil {
        current.Type = *req.Type
        set["type"] = *req.Type
    }
    if req.Required != nil {
        current.Required = *req.Required
        set["required"] = *req.Required
    }
    if req.AllowNull != nil {
        current.AllowNull = *req.AllowNull
        set["allow_null"] = *req.AllowNull
    }
    if req.AllowBlank != nil {
        current.AllowBlank = *req.AllowBlank
        set["allow_blank"] = *req.AllowBlank
    }
    if req.IsActive != nil {
        current.IsActive = *req.IsActive
        set["is_active"] = *req.IsActive
    }
    if req.Placeholder != nil {
        current.Placeholder = *req.Placeholder
        set["placeholder"] = *req.Placeholder
    }
    if req.HelpText != nil {
        current.HelpText = *req.HelpText
        set["help_text"] = *req.HelpText
    }
    if req.Order != nil {
        current.Order = *req.Order
        set["order"] = *req.Order
    }
    if req.MinLength != nil {
        current.MinLength = req.MinLength
        set["min_length"] = *req.MinLength
    }
    if req.MaxLength != nil {
        current.MaxLength = req.MaxLength
        set["max_length"] = *req.MaxLength
    }
    if req.AllowedExtensions != nil {
        current.AllowedExtensions = req.AllowedExtensions
        set["allowed_extensions"] = req.AllowedExtensions
    }
    if req.MaxSizeMB != nil {
        current.MaxSizeMB = req.MaxSizeMB
        set["max_size_mb"] = *req.MaxSizeMB
    }
    if req.Options != nil {
        current.Options = req.Options
        set["options"] = req.Options
    }

    if errs := validation.ValidateDefinition(current); errs != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
    }

    field, err := h.Fields.UpdateByID(ctx, id, set)
    if err != nil {
        if err == repository.ErrFieldNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"detail": "field not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update field failed"})
    }
    return c.JSON(http.StatusOK, field)
}

// DeleteField removes one field. Unlike update, delete re-checks ownership:
// a field created by another staff user is reported as not found.
func (h *FieldHandler) DeleteField(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := parseObjectID(c.Param("id"))
    if err != nil {
        return c.JSON(http.StatusNotFound, echo.Map{"detail": "field not found"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if _, err := h.Fields.GetByIDAndOwner(ctx, id, userKey(uid)); err != nil {
        if err == repository.ErrFieldNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"detail": "field not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
    }
    if err := h.Fields.DeleteByID(ctx, id); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete field failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "Field deleted successfully"})
}

type reorderReq struct {
    Orders []repository.FieldOrder `json:"orders"`
}

// ReorderFields applies a bulk order update to the caller's fields. The
// batch is rejected up front when any entry has a malformed id, a
// non-positive order, or when two entries request the same order. Entries
// for fields the caller does not own match nothing and fall out of the
// modified count.
func (h *FieldHandler) ReorderFields(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req reorderReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if len(req.Orders) == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"detail": "no updates performed"})
    }
    for _, item := range req.Orders {
        if _, err := parseObjectID(item.ID); err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid field id: " + item.ID})
        }
        if item.Order < 1 {
            return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Order values must be 1 or greater."})
        }
    }
    if repository.HasDuplicateOrders(req.Orders) {
        return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Duplicate order values are not allowed."})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    modified, err := h.Fields.Reorder(ctx, userKey(uid), req.Orders)
    if err != nil {
        if err == repository.ErrNoUpdates {
            return c.JSON(http.StatusBadRequest, echo.Map{"detail": "no updates performed"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reorder failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "message":  "Fields reordered successfully",
        "modified": modified,
    })
}
