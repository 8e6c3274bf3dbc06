package records

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// DateLayout is the short date format stamped on new performance records.
const DateLayout = "1/2/2006"

// Operation names reported in a [Change].
const (
	OpLoad     = "load"
	OpRegister = "register"
	OpScores   = "scores"
	OpPromote  = "promote"
	OpDelete   = "delete"
	OpClear    = "clear"
)

// Change describes a completed, persisted mutation.
type Change struct {
	Op        string    `json:"op"`
	StudentID string    `json:"student_id,omitempty"`
	Count     int       `json:"count"`
	At        time.Time `json:"at"`
}

// Registration is the data-entry form for a new student. Age and Form are
// the raw input values.
type Registration struct {
	Name   string
	ID     string
	Age    string
	Gender string
	Form   string
}

// Store owns the student collection and keeps it identical to the storage
// slot after every mutation.
//
// Every operation holds the store lock from read through persist, so
// operations run one at a time in arrival order.
type Store struct {
	mu       sync.Mutex
	adapter  *Adapter
	students []Student
	now      func() time.Time
	logger   *slog.Logger
	hooks    []func(Change)
}

// Option configures a [Store].
type Option func(*Store)

// WithLogger sets the store logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the clock used to date performance records.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithChangeHook registers fn to run after each persisted mutation.
// Hooks run synchronously while the store lock is held and must not call
// back into the store.
func WithChangeHook(fn func(Change)) Option {
	return func(s *Store) {
		if fn != nil {
			s.hooks = append(s.hooks, fn)
		}
	}
}

// NewStore creates an empty store persisting to slot. Call [Store.Load]
// to populate it from storage.
func NewStore(slot Slot, opts ...Option) *Store {
	s := &Store{
		students: []Student{},
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.adapter = NewAdapter(slot, s.logger)
	return s
}

// Load replaces the in-memory collection with the slot contents and returns
// the number of students loaded.
func (s *Store) Load(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.students = s.adapter.Load(ctx)
	s.logger.Info("students loaded", "count", len(s.students))
	s.emit(Change{Op: OpLoad, Count: len(s.students)})
	return len(s.students)
}

// Students returns a deep copy of the collection in insertion order.
func (s *Store) Students() []Student {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Student, len(s.students))
	for i, st := range s.students {
		out[i] = st.clone()
	}
	return out
}

// Len returns the number of students.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.students)
}

// At returns the student at a positional index.
func (s *Store) At(index int) (Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.students) {
		return Student{}, invalid(ErrNotFound, "No student at row %d.", index)
	}
	return s.students[index].clone(), nil
}

// Get returns the student with the given id (case-insensitive, trimmed).
func (s *Store) Get(id string) (Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Student{}, notFound(id)
	}
	return s.students[i].clone(), nil
}

// IsIDUnique reports whether no student already uses id.
func (s *Store) IsIDUnique(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(id) < 0
}

func (s *Store) indexOf(id string) int {
	key := normalizeID(id)
	for i, st := range s.students {
		if normalizeID(st.ID) == key {
			return i
		}
	}
	return -1
}

func notFound(id string) error {
	return invalid(ErrNotFound, "Student %q not found.", strings.TrimSpace(id))
}

// Register validates reg and appends a new student with an empty history.
//
// Checks run in order and the first failure wins: name and id present,
// id not a dot segment ("." or ".." cannot travel in a URL path), age an integer in [10,30], id unique, form in [1,4]. Nothing is persisted
// on failure.
func (s *Store) Register(ctx context.Context, reg Registration, p Prompter) (Student, error) {
	name := strings.TrimSpace(reg.Name)
	id := strings.TrimSpace(reg.ID)
	if name == "" || id == "" {
		return Student{}, invalid(ErrMissingField, "Full name and Student ID are required!")
	}
	if id == "." || id == ".." {
		return Student{}, invalid(ErrReservedID, "Student ID %q is not allowed.", id)
	}

	age, ok := parseInt(reg.Age)
	if !ok || age < MinAge || age > MaxAge {
		return Student{}, invalid(ErrAgeOutOfRange, "Age must be between %d and %d.", MinAge, MaxAge)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(id) >= 0 {
		return Student{}, invalid(ErrDuplicateID, "ID %q already exists! Please use a unique ID.", id)
	}

	form, ok := parseInt(reg.Form)
	if !ok || form < MinForm || form > MaxForm {
		return Student{}, invalid(ErrFormOutOfRange, "Form must be between %d and %d.", MinForm, MaxForm)
	}

	st := Student{
		ID:          id,
		Name:        name,
		Age:         age,
		Gender:      strings.TrimSpace(reg.Gender),
		Form:        form,
		Performance: []PerformanceRecord{},
	}

	next := append(s.snapshot(), st)
	if err := s.commit(ctx, next, Change{Op: OpRegister, StudentID: id}); err != nil {
		return Student{}, err
	}

	notify(p, "SUCCESS! Student registered. Redirecting to student list...")
	return st.clone(), nil
}

// Promote moves the student up one form after confirmation. It reports
// whether the promotion happened; a declined confirmation is not an error.
// Earlier performance records keep their form tag.
func (s *Store) Promote(ctx context.Context, id string, p Prompter) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false, notFound(id)
	}
	st := s.students[i]
	if !st.CanPromote() {
		return false, invalid(ErrFinalForm, "%s has completed Form %d.", st.Name, MaxForm)
	}

	newForm := st.Form + 1
	if !confirmed(p, fmt.Sprintf("Promote %s from Form %d to Form %d?", st.Name, st.Form, newForm)) {
		return false, nil
	}

	next := s.snapshot()
	next[i].Form = newForm
	if err := s.commit(ctx, next, Change{Op: OpPromote, StudentID: st.ID}); err != nil {
		return false, err
	}

	notify(p, fmt.Sprintf("%s is now in Form %d", st.Name, newForm))
	return true, nil
}

// Delete removes the student after confirmation. Students after it shift
// down one position.
func (s *Store) Delete(ctx context.Context, id string, p Prompter) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false, notFound(id)
	}
	st := s.students[i]
	if !confirmed(p, fmt.Sprintf("Delete %s? This cannot be undone.", st.Name)) {
		return false, nil
	}

	cur := s.snapshot()
	next := append(cur[:i:i], cur[i+1:]...)
	if err := s.commit(ctx, next, Change{Op: OpDelete, StudentID: st.ID}); err != nil {
		return false, err
	}

	notify(p, fmt.Sprintf("Student %q deleted.", st.Name))
	return true, nil
}

// Clear removes every student after confirmation.
func (s *Store) Clear(ctx context.Context, p Prompter) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !confirmed(p, "DELETE ALL STUDENTS? This action cannot be undone!") {
		return false, nil
	}
	if err := s.commit(ctx, []Student{}, Change{Op: OpClear}); err != nil {
		return false, err
	}

	notify(p, "All student data has been cleared.")
	return true, nil
}

// appendRecord stamps subjects with the student's current form and today's
// date and appends them to the history.
func (s *Store) appendRecord(ctx context.Context, id string, subjects Subjects) (Student, PerformanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Student{}, PerformanceRecord{}, notFound(id)
	}

	next := s.snapshot()
	rec := PerformanceRecord{
		Form:     next[i].Form,
		Date:     s.now().Format(DateLayout),
		Subjects: subjects.clone(),
	}
	next[i].Performance = append(next[i].Performance, rec)
	if err := s.commit(ctx, next, Change{Op: OpScores, StudentID: next[i].ID}); err != nil {
		return Student{}, PerformanceRecord{}, err
	}
	return next[i].clone(), rec.clone(), nil
}

// snapshot deep-copies the collection so a mutation can be prepared
// without touching live state.
func (s *Store) snapshot() []Student {
	out := make([]Student, len(s.students), len(s.students)+1)
	for i, st := range s.students {
		out[i] = st.clone()
	}
	return out
}

// commit persists next and only then makes it the live collection, so a
// failed write leaves memory and storage unchanged. Caller holds s.mu.
func (s *Store) commit(ctx context.Context, next []Student, ch Change) error {
	if err := s.adapter.Save(ctx, next); err != nil {
		s.logger.Error("failed to persist students", "op", ch.Op, "student_id", ch.StudentID, "error", err)
		return err
	}
	s.students = next
	ch.Count = len(next)
	s.logger.Info("students updated", "op", ch.Op, "student_id", ch.StudentID, "count", ch.Count)
	s.emit(ch)
	return nil
}

func (s *Store) emit(ch Change) {
	ch.At = s.now()
	for _, fn := range s.hooks {
		fn(ch)
	}
}
