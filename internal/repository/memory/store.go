// Package memory keeps every repository in process for service and handler
// tests. It is test-only: cmd/api always wires the postgresql repositories.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/comment"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/document"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/organization"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/performance"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/window"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
)

type dataset struct {
	users         map[string]auth.User
	organizations map[string]organization.Organization
	employees     map[string]employee.Employee
	schedules     map[string]schedule.Schedule
	shifts        map[string]schedule.Shift      // by schedule id
	assignments   map[string]schedule.Assignment // by assignmentKey
	vets          map[string]window.VET          // by schedule id
	vtos          map[string]window.VTO          // by schedule id
	records       map[string]performance.Record  // by recordKey
	comments      map[string]comment.Comment
	documents     map[string]document.Document
}

func newDataset() *dataset {
	return &dataset{
		users:         make(map[string]auth.User),
		organizations: make(map[string]organization.Organization),
		employees:     make(map[string]employee.Employee),
		schedules:     make(map[string]schedule.Schedule),
		shifts:        make(map[string]schedule.Shift),
		assignments:   make(map[string]schedule.Assignment),
		vets:          make(map[string]window.VET),
		vtos:          make(map[string]window.VTO),
		records:       make(map[string]performance.Record),
		comments:      make(map[string]comment.Comment),
		documents:     make(map[string]document.Document),
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (d *dataset) clone() *dataset {
	return &dataset{
		users:         cloneMap(d.users),
		organizations: cloneMap(d.organizations),
		employees:     cloneMap(d.employees),
		schedules:     cloneMap(d.schedules),
		shifts:        cloneMap(d.shifts),
		assignments:   cloneMap(d.assignments),
		vets:          cloneMap(d.vets),
		vtos:          cloneMap(d.vtos),
		records:       cloneMap(d.records),
		comments:      cloneMap(d.comments),
		documents:     cloneMap(d.documents),
	}
}

// Store holds all tables. Transactions are serialized and roll back by
// restoring the snapshot taken when they began.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex
	data *dataset
	now  func() time.Time
}

func NewStore() *Store {
	return &Store{
		data: newDataset(),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

type txKey struct{}

type transactor struct {
	store *Store
}

// Transactor returns the database.Transactor for this store.
func (s *Store) Transactor() database.Transactor {
	return &transactor{store: s}
}

// WithinTransaction implements database.Transactor.
func (t *transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	t.store.txMu.Lock()
	defer t.store.txMu.Unlock()

	t.store.mu.Lock()
	snapshot := t.store.data.clone()
	t.store.mu.Unlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		t.store.mu.Lock()
		t.store.data = snapshot
		t.store.mu.Unlock()
		return err
	}
	return nil
}

func paginate[T any](items []T, page, limit int) []T {
	if limit <= 0 {
		return items
	}
	start := (page - 1) * limit
	if start < 0 {
		start = 0
	}
	if start >= len(items) {
		return []T{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func sortedValues[K comparable, V any](m map[K]V, keep func(V) bool, less func(a, b V) bool) []V {
	out := make([]V, 0, len(m))
	for _, v := range m {
		if keep == nil || keep(v) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
