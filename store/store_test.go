package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/etnz/dcf"
	"github.com/shopspring/decimal"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "pvs.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	s.now = func() time.Time { return time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(context.Background(), " "); !errors.Is(err, ErrInvalid) {
		t.Fatalf("Open() error = %v, want %v", err, ErrInvalid)
	}
}

func TestOpenInMemory(t *testing.T) {
	s, err := Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("Open() unexpected error: %v", err)
	}
	defer s.Close()
	if _, err := s.CreatePortfolio(context.Background(), "memory"); err != nil {
		t.Fatalf("create portfolio: %v", err)
	}
}

func TestProperty_CRUD(t *testing.T) {
	ctx := context.Background()
	s := openTempStore(t)

	p, err := s.CreateProperty(ctx, Property{Address: " 1 Main St ", Postcode: "E1 6AN"})
	if err != nil {
		t.Fatalf("create property: %v", err)
	}
	if p.ID == "" || p.Address != "1 Main St" {
		t.Fatalf("created property = %+v", p)
	}

	got, err := s.Property(ctx, p.ID)
	if err != nil {
		t.Fatalf("get property: %v", err)
	}
	if got != p {
		t.Errorf("get property = %+v, want %+v", got, p)
	}

	p.ListingLink = "https://example.com/listing/1"
	if _, err := s.UpdateProperty(ctx, p); err != nil {
		t.Fatalf("update property: %v", err)
	}
	got, _ = s.Property(ctx, p.ID)
	if got.ListingLink != p.ListingLink {
		t.Errorf("listing link = %q, want %q", got.ListingLink, p.ListingLink)
	}

	list, err := s.Properties(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("list properties = %v, %v", list, err)
	}

	if err := s.DeleteProperty(ctx, p.ID); err != nil {
		t.Fatalf("delete property: %v", err)
	}
	if _, err := s.Property(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("get deleted property error = %v, want %v", err, ErrNotFound)
	}
	if err := s.DeleteProperty(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete deleted property error = %v, want %v", err, ErrNotFound)
	}
}

func TestProperty_Errors(t *testing.T) {
	ctx := context.Background()
	s := openTempStore(t)
	first, err := s.CreateProperty(ctx, Property{Address: "1 Main St"})
	if err != nil {
		t.Fatalf("create property: %v", err)
	}
	second, err := s.CreateProperty(ctx, Property{Address: "2 Main St"})
	if err != nil {
		t.Fatalf("create property: %v", err)
	}

	tests := []struct {
		name string
		run  func() error
		want error
	}{
		{"missing address", func() error { _, err := s.CreateProperty(ctx, Property{}); return err }, ErrInvalid},
		{"duplicate address", func() error { _, err := s.CreateProperty(ctx, Property{Address: "1 Main St"}); return err }, ErrConflict},
		{"update to a taken address", func() error {
			second.Address = first.Address
			_, err := s.UpdateProperty(ctx, second)
			return err
		}, ErrConflict},
		{"update unknown", func() error { _, err := s.UpdateProperty(ctx, Property{ID: "nope", Address: "x"}); return err }, ErrNotFound},
		{"unknown portfolio", func() error {
			_, err := s.CreateProperty(ctx, Property{Address: "3 Main St", PortfolioID: "nope"})
			return err
		}, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestValuation_PutReplaces(t *testing.T) {
	ctx := context.Background()
	s := openTempStore(t)
	p, err := s.CreateProperty(ctx, Property{Address: "1 Main St"})
	if err != nil {
		t.Fatalf("create property: %v", err)
	}
	if _, err := s.Valuation(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("valuation before put error = %v, want %v", err, ErrNotFound)
	}

	a := dcf.Assumptions{InitialInvestment: decimal.NewFromInt(200000), DiscountRate: decimal.RequireFromString("7.25"), HoldingPeriod: 10}
	v, created, err := s.PutValuation(ctx, p.ID, a)
	if err != nil || !created {
		t.Fatalf("put valuation = %v, %v, want created", created, err)
	}
	a.HoldingPeriod = 15
	w, created, err := s.PutValuation(ctx, p.ID, a)
	if err != nil || created {
		t.Fatalf("put valuation again = %v, %v, want replaced", created, err)
	}
	if w.ID != v.ID {
		t.Errorf("replaced valuation ID = %q, want %q", w.ID, v.ID)
	}
	if w.Assumptions.HoldingPeriod != 15 || !w.Assumptions.DiscountRate.Equal(a.DiscountRate) {
		t.Errorf("assumptions = %+v, want %+v", w.Assumptions, a)
	}

	byID, err := s.ValuationByID(ctx, v.ID)
	if err != nil || byID.PropertyID != p.ID {
		t.Fatalf("valuation by id = %+v, %v", byID, err)
	}

	if err := s.DeleteValuation(ctx, v.ID); err != nil {
		t.Fatalf("delete valuation: %v", err)
	}
	if _, err := s.ValuationByID(ctx, v.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted valuation error = %v, want %v", err, ErrNotFound)
	}
	if _, _, err := s.PutValuation(ctx, "nope", a); !errors.Is(err, ErrNotFound) {
		t.Errorf("put valuation of an unknown property error = %v, want %v", err, ErrNotFound)
	}
}

func TestValuation_DeletedWithProperty(t *testing.T) {
	ctx := context.Background()
	s := openTempStore(t)
	p, _ := s.CreateProperty(ctx, Property{Address: "1 Main St"})
	v, _, err := s.PutValuation(ctx, p.ID, dcf.Assumptions{HoldingPeriod: 1})
	if err != nil {
		t.Fatalf("put valuation: %v", err)
	}
	if err := s.DeleteProperty(ctx, p.ID); err != nil {
		t.Fatalf("delete property: %v", err)
	}
	if _, err := s.ValuationByID(ctx, v.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("valuation of a deleted property error = %v, want %v", err, ErrNotFound)
	}
}

func TestPortfolio(t *testing.T) {
	ctx := context.Background()
	s := openTempStore(t)
	pf, err := s.CreatePortfolio(ctx, "London")
	if err != nil {
		t.Fatalf("create portfolio: %v", err)
	}
	if _, err := s.CreatePortfolio(ctx, "London"); !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate portfolio error = %v, want %v", err, ErrConflict)
	}
	if _, err := s.CreatePortfolio(ctx, ""); !errors.Is(err, ErrInvalid) {
		t.Errorf("unnamed portfolio error = %v, want %v", err, ErrInvalid)
	}

	for _, address := range []string{"1 Main St", "2 Main St"} {
		if _, err := s.CreateProperty(ctx, Property{Address: address, PortfolioID: pf.ID}); err != nil {
			t.Fatalf("create property: %v", err)
		}
	}
	if _, err := s.CreateProperty(ctx, Property{Address: "elsewhere"}); err != nil {
		t.Fatalf("create property: %v", err)
	}

	props, err := s.PortfolioProperties(ctx, pf.ID)
	if err != nil {
		t.Fatalf("portfolio properties: %v", err)
	}
	if len(props) != 2 {
		t.Errorf("portfolio has %d properties, want 2", len(props))
	}
	if _, err := s.PortfolioProperties(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown portfolio error = %v, want %v", err, ErrNotFound)
	}

	list, err := s.Portfolios(ctx)
	if err != nil || len(list) != 1 || list[0] != pf {
		t.Errorf("portfolios = %v, %v, want [%v]", list, err, pf)
	}
}

func TestFind(t *testing.T) {
	ctx := context.Background()
	s := openTempStore(t)
	pf, err := s.CreatePortfolio(ctx, "north")
	if err != nil {
		t.Fatalf("create portfolio: %v", err)
	}
	p, err := s.CreateProperty(ctx, Property{Address: "1 Main St", PortfolioID: pf.ID})
	if err != nil {
		t.Fatalf("create property: %v", err)
	}

	for _, ref := range []string{p.ID, "1 Main St", " 1 MAIN st "} {
		got, err := s.FindProperty(ctx, ref)
		if err != nil || got.ID != p.ID {
			t.Errorf("FindProperty(%q) = %+v, %v, want %s", ref, got, err, p.ID)
		}
	}
	if _, err := s.FindProperty(ctx, "2 Main St"); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindProperty() error = %v, want %v", err, ErrNotFound)
	}

	for _, ref := range []string{pf.ID, "north"} {
		got, err := s.FindPortfolio(ctx, ref)
		if err != nil || got.ID != pf.ID {
			t.Errorf("FindPortfolio(%q) = %+v, %v, want %s", ref, got, err, pf.ID)
		}
	}
	if _, err := s.FindPortfolio(ctx, "south"); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindPortfolio() error = %v, want %v", err, ErrNotFound)
	}
}
