package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/dynamic-form-builder/internal/utils"
)

// User mirrors the 'users' table. Staff users (role STAFF) own forms and the
// users they created; regular users (role USER) only see forms assigned to
// them. CreatedBy records which staff user created a managed account and is
// NULL for self-registered users.
type User struct {
	ID           uint64
	Username     string
	Email        string
	PasswordHash string
	Role         string
	CreatedBy    sql.NullInt64
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// ErrUserNotFound is returned when a user row does not exist or is not
// visible to the requester.
var ErrUserNotFound = errors.New("user not found")

// Create inserts a self-registered user and returns its ID. Duplicate
// username or email unique keys surface as ErrConflict so handlers can
// report a generic creation failure.
func (r *UserRepo) Create(ctx context.Context, username, email, password, role string, cost int) (uint64, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, role) VALUES (?,?,?,?)",
		username, email, hash, role)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrConflict
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// CreateManaged inserts a user account on behalf of a staff creator. The
// new account always gets the USER role and records the creator's id.
func (r *UserRepo) CreateManaged(ctx context.Context, creatorID uint64, username, email, password string, cost int) (uint64, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, role, created_by) VALUES (?,?,?,'USER',?)",
		username, email, hash, creatorID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrConflict
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,username,email,password_hash,role,created_by,is_active,created_at,updated_at FROM users WHERE email=? LIMIT 1",
		email).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedBy, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (User, error) {
	var u User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,username,email,password_hash,role,created_by,is_active,created_at,updated_at FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedBy, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetByIDAndCreator fetches a user only if it was created by the given
// staff user. Users created by other staff are reported as not found.
func (r *UserRepo) GetByIDAndCreator(ctx context.Context, id, creatorID uint64) (User, error) {
	var u User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,username,email,password_hash,role,created_by,is_active,created_at,updated_at FROM users WHERE id=? AND created_by=? LIMIT 1",
		id, creatorID).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedBy, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	return u, nil
}

// ListByCreator returns one page of users created by the given staff user,
// optionally filtered by an email substring, plus the total match count.
func (r *UserRepo) ListByCreator(ctx context.Context, creatorID uint64, search string, limit, offset int) ([]User, int64, error) {
	where := "created_by = ?"
	args := []any{creatorID}
	if s := strings.TrimSpace(search); s != "" {
		where += " AND email LIKE ?"
		args = append(args, "%"+strings.ToLower(s)+"%")
	}

	var total int64
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := "SELECT id,username,email,password_hash,role,created_by,is_active,created_at,updated_at FROM users WHERE " +
		where + " ORDER BY id DESC LIMIT ? OFFSET ?"
	rows, err := r.DB.QueryContext(ctx, q, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedBy, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
