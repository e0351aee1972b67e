package handler

import (
    "context"  // request-scoped timeouts for store calls
    "net/http" // HTTP status codes
    "strconv"  // path-parameter parsing
    "strings"  // string normalization
    "time"     // timeouts

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/dynamic-form-builder/internal/config"
    "github.com/iliyamo/dynamic-form-builder/internal/pagination"
    "github.com/iliyamo/dynamic-form-builder/internal/repository"
    "github.com/iliyamo/dynamic-form-builder/internal/utils"
)

// UserHandler bundles dependencies for staff user management and form
// assignment.
type UserHandler struct {
    Cfg         config.Config
    Users       *repository.UserRepo
    Forms       *repository.FormRepo
    Assignments *repository.AssignmentRepo
}

func NewUserHandler(cfg config.Config, users *repository.UserRepo, forms *repository.FormRepo, assignments *repository.AssignmentRepo) *UserHandler {
    return &UserHandler{Cfg: cfg, Users: users, Forms: forms, Assignments: assignments}
}

type createUserReq struct {
    Username        string `json:"username"`
    Email           string `json:"email"`
    Password        string `json:"password"`
    ConfirmPassword string `json:"confirm_password"`
}

// managedUser is the representation of a staff-managed account in responses.
// The password hash never leaves the server; a generated plaintext password
// is returned exactly once, at creation.
type managedUser struct {
    ID       uint64 `json:"id"`
    Username string `json:"username"`
    Email    string `json:"email"`
    Role     string `json:"role"`
    IsActive bool   `json:"is_active"`
}

// CreateUser creates a managed account on behalf of the calling staff user.
// The new account always gets the USER role and records its creator. When no
// password is supplied one is generated and returned in the response; when
// one is supplied it must match confirm_password.
func (h *UserHandler) CreateUser(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req createUserReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Username = strings.TrimSpace(req.Username)
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))
    if req.Username == "" || req.Email == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/email required"})
    }

    password := req.Password
    generated := ""
    if password == "" {
        generated, err = utils.GeneratePassword()
        if err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "generate password failed"})
        }
        password = generated
    } else if req.ConfirmPassword != password {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "Password not matching."})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    newID, err := h.Users.CreateManaged(ctx, uid, req.Username, req.Email, password, h.Cfg.BcryptCost)
    if err != nil {
        if err == repository.ErrConflict {
            return c.JSON(http.StatusConflict, echo.Map{"error": "could not create user"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
    }

    resp := echo.Map{
        "user": managedUser{ID: newID, Username: req.Username, Email: req.Email, Role: "USER", IsActive: true},
    }
    if generated != "" {
        resp["generated_password"] = generated
    }
    return c.JSON(http.StatusCreated, resp)
}

// ListUsers returns one page of accounts created by the calling staff user,
// optionally filtered by email substring via ?search=. The relational store
// handles the windowing directly, so this endpoint reuses only the
// pagination math, not the document-store adapter.
func (h *UserHandler) ListUsers(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    p := pagination.FromQuery(c.QueryParams(), h.Cfg.PageSizeMax)

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    users, total, err := h.Users.ListByCreator(ctx, uid, c.QueryParam("search"), p.PageSize, int(p.Skip()))
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list users failed"})
    }

    out := make([]managedUser, 0, len(users))
    for _, u := range users {
        out = append(out, managedUser{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role, IsActive: u.IsActive})
    }
    page := pagination.Page[managedUser]{
        Results:   out,
        Count:     total,
        Current:   p.Page,
        TotalPage: pagination.TotalPages(total, p.PageSize),
    }
    return c.JSON(http.StatusOK, page.Response())
}

type assignFormsReq struct {
    FormIDs []string `json:"form_ids"`
}

// AssignForms replaces the target user's form assignment set with the given
// one. The target must be a user created by the calling staff user; other
// users are reported as not found. All form ids are validated against the
// document store up front: any malformed or unknown id rejects the entire
// request before anything is written. The reconciliation itself is
// transactional, so the assignment ledger never ends up half-updated.
func (h *UserHandler) AssignForms(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil {
        return c.JSON(http.StatusNotFound, echo.Map{"detail": "user not found"})
    }
    var req assignFormsReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if _, err := h.Users.GetByIDAndCreator(ctx, targetID, uid); err != nil {
        if err == repository.ErrUserNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"detail": "user not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
    }

    var missing []string
    for _, raw := range req.FormIDs {
        oid, err := parseObjectID(raw)
        if err != nil {
            missing = append(missing, raw)
            continue
        }
        ok, err := h.Forms.ExistsByID(ctx, oid)
        if err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "validate forms failed"})
        }
        if !ok {
            missing = append(missing, raw)
        }
    }
    if len(missing) > 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{
            "detail": "These form IDs do not exist: " + strings.Join(missing, ", "),
        })
    }

    res, err := h.Assignments.Reconcile(ctx, targetID, req.FormIDs)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "assign forms failed"})
    }
    return c.JSON(http.StatusCreated, res)
}
