package repository

import (
	"fmt"
	"os"
	"sync"

	"stayagent/internal/model"

	"github.com/gocarina/gocsv"
)

// ReservationLog is an append-only CSV sink with one row per successful
// reservation. The file is created with headers on first use and
// existing rows are never rewritten except by Clear.
type ReservationLog struct {
	path string
	mu   sync.Mutex
}

// NewReservationLog creates a reservation log backed by the given file.
func NewReservationLog(path string) *ReservationLog {
	return &ReservationLog{path: path}
}

// Append writes one reservation row, creating the file with headers if
// it does not exist or is empty.
func (l *ReservationLog) Append(r *model.Reservation) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	rows := []*model.Reservation{r}

	info, err := os.Stat(l.path)
	fresh := os.IsNotExist(err) || (err == nil && info.Size() == 0)

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open reservation log %s: %w", l.path, err)
	}
	defer f.Close()

	if fresh {
		if err := gocsv.MarshalFile(&rows, f); err != nil {
			return fmt.Errorf("failed to write reservation log: %w", err)
		}
		return nil
	}

	if err := gocsv.MarshalWithoutHeaders(&rows, f); err != nil {
		return fmt.Errorf("failed to append reservation: %w", err)
	}
	return nil
}

// All returns every recorded reservation. A missing or empty log file
// yields an empty slice, not an error.
func (l *ReservationLog) All() ([]model.Reservation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.readLocked()
}

// ListByUsername returns the reservations made by one account, newest
// first.
func (l *ReservationLog) ListByUsername(username string) ([]model.Reservation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	all, err := l.readLocked()
	if err != nil {
		return nil, err
	}

	out := make([]model.Reservation, 0)
	for _, r := range all {
		if r.Username == username {
			out = append(out, r)
		}
	}
	// Rows are appended chronologically; reverse for newest first.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// Clear rewrites the log with headers only. This is the administrative
// reset path; normal operation never removes rows.
func (l *ReservationLog) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Create(l.path)
	if err != nil {
		return fmt.Errorf("failed to clear reservation log %s: %w", l.path, err)
	}
	defer f.Close()

	empty := []*model.Reservation{}
	if err := gocsv.MarshalFile(&empty, f); err != nil {
		return fmt.Errorf("failed to write reservation log headers: %w", err)
	}
	return nil
}

func (l *ReservationLog) readLocked() ([]model.Reservation, error) {
	info, err := os.Stat(l.path)
	if os.IsNotExist(err) || (err == nil && info.Size() == 0) {
		return []model.Reservation{}, nil
	}

	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open reservation log %s: %w", l.path, err)
	}
	defer f.Close()

	var rows []*model.Reservation
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse reservation log %s: %w", l.path, err)
	}

	out := make([]model.Reservation, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	return out, nil
}
