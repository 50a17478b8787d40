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

// Property is a real-estate asset, identified by its address.
type Property struct {
	ID          string    `json:"id"`
	Address     string    `json:"address"`
	Postcode    string    `json:"postcode"`
	ListingLink string    `json:"listing_link,omitempty"`
	PortfolioID string    `json:"portfolio_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

const propertyColumns = `id, address, postcode, listing_link, COALESCE(portfolio_id, ''), created_at`

func scanProperty(row rowScanner) (Property, error) {
	var p Property
	var createdAt int64
	if err := row.Scan(&p.ID, &p.Address, &p.Postcode, &p.ListingLink, &p.PortfolioID, &createdAt); err != nil {
		return Property{}, err
	}
	p.CreatedAt = fromMillis(createdAt)
	return p, nil
}

// nullable stores empty strings as NULL.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// clean trims p fields and checks the address and the portfolio.
func (s *Store) clean(ctx context.Context, p Property) (Property, error) {
	p.Address = strings.TrimSpace(p.Address)
	p.Postcode = strings.TrimSpace(p.Postcode)
	p.ListingLink = strings.TrimSpace(p.ListingLink)
	p.PortfolioID = strings.TrimSpace(p.PortfolioID)
	if p.Address == "" {
		return p, fmt.Errorf("%w: address is required", ErrInvalid)
	}
	if p.PortfolioID != "" {
		if _, err := s.Portfolio(ctx, p.PortfolioID); err != nil {
			return p, fmt.Errorf("portfolio %q: %w", p.PortfolioID, err)
		}
	}
	return p, nil
}

// CreateProperty inserts a new property and returns it with its ID and creation time.
func (s *Store) CreateProperty(ctx context.Context, p Property) (Property, error) {
	p, err := s.clean(ctx, p)
	if err != nil {
		return Property{}, err
	}
	p.ID = uuid.NewString()
	p.CreatedAt = fromMillis(toMillis(s.now()))

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO properties (id, address, postcode, listing_link, portfolio_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.Address, p.Postcode, p.ListingLink, nullable(p.PortfolioID), toMillis(p.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return Property{}, fmt.Errorf("%w: property with address %q", ErrConflict, p.Address)
		}
		return Property{}, fmt.Errorf("create property: %w", err)
	}
	return p, nil
}

// UpdateProperty replaces the address, postcode, listing link and portfolio of an
// existing property.
func (s *Store) UpdateProperty(ctx context.Context, p Property) (Property, error) {
	current, err := s.Property(ctx, p.ID)
	if err != nil {
		return Property{}, err
	}
	p, err = s.clean(ctx, p)
	if err != nil {
		return Property{}, err
	}
	p.CreatedAt = current.CreatedAt

	_, err = s.db.ExecContext(ctx,
		`UPDATE properties SET address = ?, postcode = ?, listing_link = ?, portfolio_id = ? WHERE id = ?`,
		p.Address, p.Postcode, p.ListingLink, nullable(p.PortfolioID), p.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return Property{}, fmt.Errorf("%w: property with address %q", ErrConflict, p.Address)
		}
		return Property{}, fmt.Errorf("update property: %w", err)
	}
	return p, nil
}

// Property returns the property id.
func (s *Store) Property(ctx context.Context, id string) (Property, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+propertyColumns+` FROM properties WHERE id = ?`, id)
	p, err := scanProperty(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Property{}, fmt.Errorf("property %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return Property{}, fmt.Errorf("get property: %w", err)
	}
	return p, nil
}

// Properties returns every property, oldest first.
func (s *Store) Properties(ctx context.Context) ([]Property, error) {
	return s.queryProperties(ctx, `SELECT `+propertyColumns+` FROM properties ORDER BY created_at, address`)
}

// DeleteProperty deletes a property and its valuation.
func (s *Store) DeleteProperty(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM properties WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete property: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("property %q: %w", id, ErrNotFound)
	}
	return nil
}

func (s *Store) queryProperties(ctx context.Context, query string, args ...any) ([]Property, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	defer rows.Close()

	list := []Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("scan property: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	return list, nil
}

// FindProperty returns the property whose ID or address is ref, addresses compared
// without case.
func (s *Store) FindProperty(ctx context.Context, ref string) (Property, error) {
	ref = strings.TrimSpace(ref)
	row := s.db.QueryRowContext(ctx,
		`SELECT `+propertyColumns+` FROM properties WHERE id = ? OR address = ? COLLATE NOCASE ORDER BY id = ? DESC LIMIT 1`,
		ref, ref, ref)
	p, err := scanProperty(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Property{}, fmt.Errorf("property %q: %w", ref, ErrNotFound)
	}
	if err != nil {
		return Property{}, fmt.Errorf("find property: %w", err)
	}
	return p, nil
}
