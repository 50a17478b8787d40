package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Portfolio is a named group of properties.
type Portfolio struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func scanPortfolio(row rowScanner) (Portfolio, error) {
	var p Portfolio
	var createdAt int64
	if err := row.Scan(&p.ID, &p.Name, &createdAt); err != nil {
		return Portfolio{}, err
	}
	p.CreatedAt = fromMillis(createdAt)
	return p, nil
}

// CreatePortfolio creates an empty portfolio.
func (s *Store) CreatePortfolio(ctx context.Context, name string) (Portfolio, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Portfolio{}, fmt.Errorf("%w: name is required", ErrInvalid)
	}
	p := Portfolio{ID: uuid.NewString(), Name: name, CreatedAt: fromMillis(toMillis(s.now()))}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO portfolios (id, name, created_at) VALUES (?, ?, ?)`,
		p.ID, p.Name, toMillis(p.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return Portfolio{}, fmt.Errorf("%w: portfolio %q", ErrConflict, name)
		}
		return Portfolio{}, fmt.Errorf("create portfolio: %w", err)
	}
	return p, nil
}

// Portfolio returns the portfolio id.
func (s *Store) Portfolio(ctx context.Context, id string) (Portfolio, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, created_at FROM portfolios WHERE id = ?`, id)
	p, err := scanPortfolio(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Portfolio{}, fmt.Errorf("portfolio %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return Portfolio{}, fmt.Errorf("get portfolio: %w", err)
	}
	return p, nil
}

// Portfolios returns every portfolio by name.
func (s *Store) Portfolios(ctx context.Context) ([]Portfolio, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, created_at FROM portfolios ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list portfolios: %w", err)
	}
	defer rows.Close()

	list := []Portfolio{}
	for rows.Next() {
		p, err := scanPortfolio(rows)
		if err != nil {
			return nil, fmt.Errorf("scan portfolio: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// PortfolioProperties returns the properties of the portfolio id.
func (s *Store) PortfolioProperties(ctx context.Context, id string) ([]Property, error) {
	if _, err := s.Portfolio(ctx, id); err != nil {
		return nil, err
	}
	return s.queryProperties(ctx,
		`SELECT `+propertyColumns+` FROM properties WHERE portfolio_id = ? ORDER BY created_at, address`, id)
}

// FindPortfolio returns the portfolio whose ID or name is ref.
func (s *Store) FindPortfolio(ctx context.Context, ref string) (Portfolio, error) {
	ref = strings.TrimSpace(ref)
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM portfolios WHERE id = ? OR name = ? ORDER BY id = ? DESC LIMIT 1`,
		ref, ref, ref)
	p, err := scanPortfolio(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Portfolio{}, fmt.Errorf("portfolio %q: %w", ref, ErrNotFound)
	}
	if err != nil {
		return Portfolio{}, fmt.Errorf("find portfolio: %w", err)
	}
	return p, nil
}
