// This file defines the form assignment ledger: a MySQL join table granting
// non-staff users visibility of specific forms. Form ids are stored as
// opaque 24-char hex strings, not foreign keys into the document store;
// whether a form still exists is checked at request-validation time, so a
// form deleted between validation and commit leaves a dangling assignment
// (an accepted limitation).
package repository

import (
	"context"
	"database/sql"
)

// AssignmentResult reports the outcome of one reconciliation: which form
// ids were added, which were removed, and the size of the desired set.
type AssignmentResult struct {
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
	Total   int      `json:"total"`
}

// AssignmentRepo encapsulates queries over the 'form_assignments' table.
type AssignmentRepo struct{ DB *sql.DB }

func NewAssignmentRepo(db *sql.DB) *AssignmentRepo { return &AssignmentRepo{DB: db} }

// ListFormIDs returns every form id assigned to the given user.
func (r *AssignmentRepo) ListFormIDs(ctx context.Context, userID uint64) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT form_id FROM form_assignments WHERE user_id=?", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// Reconcile replaces a user's assignment set with the desired one. The
// existing set is read, diffed against desired, and the removals and
// additions are applied inside a single transaction: either both take
// effect or neither does. Partial application would leave an inconsistent
// assignment set, which is why this is the one write path in the system
// wrapped in a relational transaction.
func (r *AssignmentRepo) Reconcile(ctx context.Context, userID uint64, desired []string) (AssignmentResult, error) {
	existing, err := r.ListFormIDs(ctx, userID)
	if err != nil {
		return AssignmentResult{}, err
	}

	toAdd, toRemove := DiffAssignments(existing, desired)
	res := AssignmentResult{Added: toAdd, Removed: toRemove, Total: len(dedupe(desired))}
	if len(toAdd) == 0 && len(toRemove) == 0 {
		// Already reconciled; no store mutation performed.
		return res, nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return AssignmentResult{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, id := range toRemove {
		if _, err = tx.ExecContext(ctx,
			"DELETE FROM form_assignments WHERE user_id=? AND form_id=?", userID, id); err != nil {
			return AssignmentResult{}, err
		}
	}
	for _, id := range toAdd {
		if _, err = tx.ExecContext(ctx,
			"INSERT INTO form_assignments (user_id, form_id) VALUES (?,?)", userID, id); err != nil {
			return AssignmentResult{}, err
		}
	}
	if err = tx.Commit(); err != nil {
		return AssignmentResult{}, err
	}
	return res, nil
}

// DiffAssignments computes the set difference between the existing and
// desired form id sets. Duplicates in either input collapse; result order
// follows first appearance in the input slices.
func DiffAssignments(existing, desired []string) (toAdd, toRemove []string) {
	have := make(map[string]bool, len(existing))
	for _, id := range existing {
		have[id] = true
	}
	want := make(map[string]bool, len(desired))
	for _, id := range desired {
		want[id] = true
	}

	toAdd = []string{}
	seen := make(map[string]bool, len(desired))
	for _, id := range desired {
		if !have[id] && !seen[id] {
			toAdd = append(toAdd, id)
			seen[id] = true
		}
	}
	toRemove = []string{}
	for _, id := range existing {
		if !want[id] {
			toRemove = append(toRemove, id)
		}
	}
	return toAdd, toRemove
}

// dedupe collapses duplicate ids preserving first-appearance order.
func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
