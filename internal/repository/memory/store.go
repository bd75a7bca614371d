// Package memory provides map-backed repositories for tests and for running
// the API without PostgreSQL (DB_DRIVER=memory).
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/absence"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/adjustment"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/apilog"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/crud"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timerecord"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
)

// Store holds every table. Repositories built from the same Store see each
// other's writes.
type Store struct {
	txMu sync.Mutex

	companies   *table[company.Company]
	users       *table[user.User]
	timeRecords *table[timerecord.TimeRecord]
	absences    *table[absence.Absence]
	adjustments *table[adjustment.Adjustment]
	apiLogs     *table[apilog.Entry]
}

func NewStore() *Store {
	return &Store{
		companies:   newTable[company.Company](),
		users:       newTable[user.User](),
		timeRecords: newTable[timerecord.TimeRecord](),
		absences:    newTable[absence.Absence](),
		adjustments: newTable[adjustment.Adjustment](),
		apiLogs:     newTable[apilog.Entry](),
	}
}

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error {
	return nil
}

var errDuplicateID = errors.New("memory: duplicate id")

type table[T any] struct {
	mu   sync.RWMutex
	rows map[string]T
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]T)}
}

func (t *table[T]) get(id string) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.rows[id]
	return v, ok
}

// put stores v under id after checking it against every other row with
// conflict. When mustExist is set the id has to be present already, and
// reports false when it is not; otherwise it must be new.
func (t *table[T]) put(ctx context.Context, id string, v T, mustExist bool, conflict func(existing T) error) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, exists := t.rows[id]
	if mustExist && !exists {
		return false, nil
	}
	if !mustExist && exists {
		return true, errDuplicateID
	}
	if conflict != nil {
		for otherID, other := range t.rows {
			if otherID == id {
				continue
			}
			if err := conflict(other); err != nil {
				return exists, err
			}
		}
	}
	t.remember(ctx, id)
	t.rows[id] = v
	return true, nil
}

func (t *table[T]) delete(ctx context.Context, id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return false
	}
	t.remember(ctx, id)
	delete(t.rows, id)
	return true
}

// update applies fn to the row under the write lock. fn returns the new row.
func (t *table[T]) update(ctx context.Context, id string, fn func(current T) (T, error)) (T, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	current, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, false, nil
	}
	next, err := fn(current)
	if err != nil {
		return current, true, err
	}
	t.remember(ctx, id)
	t.rows[id] = next
	return next, true, nil
}

func (t *table[T]) filter(keep func(T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]T, 0)
	for _, v := range t.rows {
		if keep == nil || keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func (t *table[T]) deleteWhere(ctx context.Context, match func(T) bool) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	var n int64
	for id, v := range t.rows {
		if match(v) {
			t.remember(ctx, id)
			delete(t.rows, id)
			n++
		}
	}
	return n
}

// remember journals the row under id as it is now, so a failing transaction
// carried by ctx can put it back. The caller holds t.mu.
func (t *table[T]) remember(ctx context.Context, id string) {
	j := journalFrom(ctx)
	if j == nil {
		return
	}
	prev, existed := t.rows[id]
	j.record(func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if existed {
			t.rows[id] = prev
		} else {
			delete(t.rows, id)
		}
	})
}

// paginate slices sorted items; a zero page returns them all.
func paginate[T any](items []T, p crud.Page) []T {
	if p.Limit <= 0 {
		return items
	}
	start := p.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

type txKey struct{}

// journal holds the undo steps for every row written inside one transaction.
// Rows the transaction never wrote are left alone on rollback.
type journal struct {
	mu   sync.Mutex
	undo []func()
}

func journalFrom(ctx context.Context) *journal {
	j, _ := ctx.Value(txKey{}).(*journal)
	return j
}

func (j *journal) record(undo func()) {
	j.mu.Lock()
	j.undo = append(j.undo, undo)
	j.mu.Unlock()
}

func (j *journal) rollback() {
	j.mu.Lock()
	defer j.mu.Unlock()
	for i := len(j.undo) - 1; i >= 0; i-- {
		j.undo[i]()
	}
	j.undo = nil
}

type transactor struct {
	store *Store
}

// NewTransactor returns a Transactor that serializes units of work and undoes
// the rows fn wrote when it fails.
func NewTransactor(s *Store) database.Transactor {
	return &transactor{store: s}
}

func (t *transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if journalFrom(ctx) != nil {
		return fn(ctx)
	}

	t.store.txMu.Lock()
	defer t.store.txMu.Unlock()

	j := &journal{}
	defer func() {
		if p := recover(); p != nil {
			j.rollback()
			panic(p)
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, j)); err != nil {
		j.rollback()
	}
	return err
}
