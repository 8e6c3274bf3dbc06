package records

import (
	"context"
	"fmt"
	"sync"
)

// DefaultScore prefills a subject with no usable prior score.
const DefaultScore = 50

// Entry is the performance-entry dialog. It is either closed or open for
// exactly one student; Save and Cancel both close it.
type Entry struct {
	store *Store

	mu        sync.Mutex
	open      bool
	studentID string
	prefill   map[Subject]int
}

// NewEntry returns a closed dialog bound to the store.
func (s *Store) NewEntry() *Entry {
	return &Entry{store: s}
}

// OpenEntry returns a dialog already open for the student with id.
func (s *Store) OpenEntry(id string) (*Entry, error) {
	e := s.NewEntry()
	if err := e.Open(id); err != nil {
		return nil, err
	}
	return e, nil
}

// Open selects the student and prefills every subject from the latest
// record. Subjects that are missing or zero in that record, or all subjects
// when there is no history, prefill to [DefaultScore].
func (e *Entry) Open(id string) error {
	st, err := e.store.Get(id)
	if err != nil {
		return err
	}

	prefill := make(map[Subject]int, len(AllSubjects))
	latest, hasLatest := st.Latest()
	for _, subj := range AllSubjects {
		prefill[subj] = DefaultScore
		if !hasLatest {
			continue
		}
		if v, ok := latest.Subjects.Get(subj); ok && v != 0 {
			prefill[subj] = v
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.open = true
	e.studentID = st.ID
	e.prefill = prefill
	return nil
}

// IsOpen reports whether a student is selected.
func (e *Entry) IsOpen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.open
}

// StudentID returns the selected student's id, or "" when closed.
func (e *Entry) StudentID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.studentID
}

// Prefill returns a copy of the initial subject values.
func (e *Entry) Prefill() map[Subject]int {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[Subject]int, len(e.prefill))
	for k, v := range e.prefill {
		out[k] = v
	}
	return out
}

// Cancel discards pending edits and closes the dialog.
func (e *Entry) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.close()
}

func (e *Entry) close() {
	e.open = false
	e.studentID = ""
	e.prefill = nil
}

// Save parses one raw input per subject and appends a new record. If any
// input is not an integer in [0,100] nothing is saved and the dialog stays
// open. On success the dialog closes.
func (e *Entry) Save(ctx context.Context, inputs map[Subject]string, p Prompter) (PerformanceRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.open {
		notify(p, "No student selected.")
		return PerformanceRecord{}, invalid(ErrNoSelection, "No student selected.")
	}

	var subjects Subjects
	for _, subj := range AllSubjects {
		v, ok := parseInt(inputs[subj])
		if !ok || v < MinScore || v > MaxScore {
			msg := fmt.Sprintf("All scores must be numbers between %d and %d.", MinScore, MaxScore)
			notify(p, msg)
			return PerformanceRecord{}, invalid(ErrScoreOutOfRange, "%s", msg)
		}
		subjects.Set(subj, v)
	}

	st, rec, err := e.store.appendRecord(ctx, e.studentID, subjects)
	if err != nil {
		if IsNotFound(err) {
			e.close()
		}
		return PerformanceRecord{}, err
	}
	e.close()

	notify(p, fmt.Sprintf("Scores saved for %s (Form %d)", st.Name, st.Form))
	return rec, nil
}
