package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/etnz/dcf"
	"github.com/google/uuid"
)

// Valuation is the set of assumptions recorded for a property.
//
// A property has at most one valuation.
type Valuation struct {
	ID          string
	PropertyID  string
	CreatedAt   time.Time
	Assumptions dcf.Assumptions
}

// MarshalJSON writes the assumptions fields next to the valuation identifiers.
func (v Valuation) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(v.Assumptions)
	if err != nil {
		return nil, err
	}
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	for key, value := range map[string]any{"id": v.ID, "property_id": v.PropertyID, "created_at": v.CreatedAt} {
		if fields[key], err = json.Marshal(value); err != nil {
			return nil, err
		}
	}
	return json.Marshal(fields)
}

const valuationColumns = `id, property_id, created_at, assumptions`

func scanValuation(row rowScanner) (Valuation, error) {
	var v Valuation
	var createdAt int64
	var assumptions string
	if err := row.Scan(&v.ID, &v.PropertyID, &createdAt, &assumptions); err != nil {
		return Valuation{}, err
	}
	v.CreatedAt = fromMillis(createdAt)
	if err := json.Unmarshal([]byte(assumptions), &v.Assumptions); err != nil {
		return Valuation{}, fmt.Errorf("valuation %q has corrupted assumptions: %w", v.ID, err)
	}
	return v, nil
}

// PutValuation records the assumptions of a property, replacing the previous ones.
//
// It reports whether the valuation was created.
func (s *Store) PutValuation(ctx context.Context, propertyID string, a dcf.Assumptions) (Valuation, bool, error) {
	if _, err := s.Property(ctx, propertyID); err != nil {
		return Valuation{}, false, err
	}
	data, err := json.Marshal(a)
	if err != nil {
		return Valuation{}, false, fmt.Errorf("encode assumptions: %w", err)
	}

	_, err = s.Valuation(ctx, propertyID)
	created := errors.Is(err, ErrNotFound)
	if err != nil && !created {
		return Valuation{}, false, err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO valuations (id, property_id, created_at, assumptions) VALUES (?, ?, ?, ?)
		 ON CONFLICT(property_id) DO UPDATE SET created_at = excluded.created_at, assumptions = excluded.assumptions`,
		uuid.NewString(), propertyID, toMillis(s.now()), string(data),
	)
	if err != nil {
		return Valuation{}, false, fmt.Errorf("put valuation: %w", err)
	}
	v, err := s.Valuation(ctx, propertyID)
	return v, created, err
}

// Valuation returns the valuation of a property.
func (s *Store) Valuation(ctx context.Context, propertyID string) (Valuation, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+valuationColumns+` FROM valuations WHERE property_id = ?`, propertyID)
	v, err := scanValuation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Valuation{}, fmt.Errorf("valuation of property %q: %w", propertyID, ErrNotFound)
	}
	if err != nil {
		return Valuation{}, fmt.Errorf("get valuation: %w", err)
	}
	return v, nil
}

// ValuationByID returns the valuation id.
func (s *Store) ValuationByID(ctx context.Context, id string) (Valuation, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+valuationColumns+` FROM valuations WHERE id = ?`, id)
	v, err := scanValuation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Valuation{}, fmt.Errorf("valuation %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return Valuation{}, fmt.Errorf("get valuation: %w", err)
	}
	return v, nil
}

// DeleteValuation deletes the valuation id.
func (s *Store) DeleteValuation(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM valuations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete valuation: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("valuation %q: %w", id, ErrNotFound)
	}
	return nil
}
