package repository

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"stayagent/internal/model"

	"github.com/gocarina/gocsv"
)

// Catalog errors.
var (
	ErrListingNotFound    = errors.New("listing not found")
	ErrListingUnavailable = errors.New("listing no longer available")
)

// CatalogRepository holds the listing catalog in memory, backed by a CSV
// file that is read on startup and rewritten in place after each
// successful booking. The catalog is shared by all conversations, so
// every access goes through the lock.
type CatalogRepository struct {
	path string

	mu       sync.RWMutex
	listings []*model.Listing
	byID     map[int64]*model.Listing
}

// NewCatalogRepository loads the catalog from the given CSV file.
func NewCatalogRepository(path string) (*CatalogRepository, error) {
	r := &CatalogRepository{path: path}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload re-reads the catalog file, replacing the in-memory table.
func (r *CatalogRepository) Reload() error {
	f, err := os.Open(r.path)
	if err != nil {
		return fmt.Errorf("failed to open catalog %s: %w", r.path, err)
	}
	defer f.Close()

	var listings []*model.Listing
	if err := gocsv.UnmarshalFile(f, &listings); err != nil {
		return fmt.Errorf("failed to parse catalog %s: %w", r.path, err)
	}

	byID := make(map[int64]*model.Listing, len(listings))
	for _, l := range listings {
		byID[l.ListingID] = l
	}

	r.mu.Lock()
	r.listings = listings
	r.byID = byID
	r.mu.Unlock()
	return nil
}

// All returns a snapshot of the catalog in file order.
func (r *CatalogRepository) All() []model.Listing {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Listing, 0, len(r.listings))
	for _, l := range r.listings {
		out = append(out, *l)
	}
	return out
}

// GetByID returns a copy of the listing with the given id.
func (r *CatalogRepository) GetByID(id int64) (*model.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.byID[id]
	if !ok {
		return nil, ErrListingNotFound
	}
	cp := *l
	return &cp, nil
}

// Count returns the number of catalog rows.
func (r *CatalogRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.listings)
}

// Book atomically checks availability, flips the listing to Booked and
// persists the catalog. The check and the flip happen under one lock so
// two concurrent bookings of the same listing cannot both succeed. On a
// persist failure the in-memory flip is rolled back.
func (r *CatalogRepository) Book(id int64) (*model.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.byID[id]
	if !ok {
		return nil, ErrListingNotFound
	}
	if !l.IsAvailable() {
		return nil, ErrListingUnavailable
	}

	prev := l.Availability
	l.Availability = model.AvailabilityBooked
	if err := r.persistLocked(); err != nil {
		l.Availability = prev
		return nil, fmt.Errorf("failed to persist catalog: %w", err)
	}

	cp := *l
	return &cp, nil
}

// MarkAllAvailable flips every listing back to Available and persists.
// Used by the administrative reset.
func (r *CatalogRepository) MarkAllAvailable() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, l := range r.listings {
		l.Availability = model.AvailabilityAvailable
	}
	if err := r.persistLocked(); err != nil {
		return fmt.Errorf("failed to persist catalog: %w", err)
	}
	return nil
}

// persistLocked rewrites the catalog file. Callers must hold mu.
func (r *CatalogRepository) persistLocked() error {
	f, err := os.Create(r.path)
	if err != nil {
		return err
	}
	defer f.Close()

	return gocsv.MarshalFile(&r.listings, f)
}
