// Package memory keeps every table in process memory. It honors the same constraints as the
// Postgres schema (unique emails, unique enrollment pairs, foreign keys and their ON DELETE
// actions) and supports transactions by snapshot and restore. Writers are serialized; readers
// may observe the writes of a transaction still in flight.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yigit/eduadmin/internal/app/models"
)

type assignmentKey struct {
	courseID     int64
	instructorID int64
}

type tables struct {
	seq         int64
	users       map[int64]models.User
	departments map[int64]models.Department
	courses     map[int64]models.Course
	instructors map[int64]models.Instructor
	enrollments map[int64]models.Enrollment
	assignments map[assignmentKey]time.Time
	resetTokens map[string]models.PasswordResetToken
}

func newTables() *tables {
	return &tables{
		users:       map[int64]models.User{},
		departments: map[int64]models.Department{},
		courses:     map[int64]models.Course{},
		instructors: map[int64]models.Instructor{},
		enrollments: map[int64]models.Enrollment{},
		assignments: map[assignmentKey]time.Time{},
		resetTokens: map[string]models.PasswordResetToken{},
	}
}

func (t *tables) nextID() int64 {
	t.seq++
	return t.seq
}

// clone copies every map. Stored values are never mutated in place, so copying the structs is enough.
func (t *tables) clone() *tables {
	c := newTables()
	c.seq = t.seq
	for k, v := range t.users {
		c.users[k] = v
	}
	for k, v := range t.departments {
		c.departments[k] = v
	}
	for k, v := range t.courses {
		c.courses[k] = v
	}
	for k, v := range t.instructors {
		c.instructors[k] = v
	}
	for k, v := range t.enrollments {
		c.enrollments[k] = v
	}
	for k, v := range t.assignments {
		c.assignments[k] = v
	}
	for k, v := range t.resetTokens {
		c.resetTokens[k] = v
	}
	return c
}

// DB is the in-memory database shared by the repositories of this package
type DB struct {
	mu      sync.RWMutex
	writeMu sync.Mutex
	t       *tables
}

// New creates an empty database
func New() *DB {
	return &DB{t: newTables()}
}

type txKey struct{}

func (d *DB) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*DB)
	return owner == d
}

// WithTransaction runs fn with every write serialized; an error or panic restores the state
// as it was before fn started. Nested calls join the outer transaction.
func (d *DB) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if d.inTx(ctx) {
		return fn(ctx)
	}

	d.writeMu.Lock()
	defer d.writeMu.Unlock()

	d.mu.RLock()
	snapshot := d.t.clone()
	d.mu.RUnlock()

	restore := func() {
		d.mu.Lock()
		d.t = snapshot
		d.mu.Unlock()
	}

	defer func() {
		if r := recover(); r != nil {
			restore()
			panic(r)
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, d)); err != nil {
		restore()
	}
	return err
}

func (d *DB) write(ctx context.Context, fn func(t *tables) error) error {
	if !d.inTx(ctx) {
		d.writeMu.Lock()
		defer d.writeMu.Unlock()
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return fn(d.t)
}

func (d *DB) read(fn func(t *tables)) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	fn(d.t)
}

// Ping always succeeds
func (d *DB) Ping(context.Context) error {
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func cloneInt64(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTime(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneGrade(p *models.Grade) *models.Grade {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func sortedIDs[V any](m map[int64]V) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
