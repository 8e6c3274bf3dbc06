package records

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
)

// Form bounds. Form 4 is terminal.
const (
	MinForm = 1
	MaxForm = 4
)

// Age bounds accepted at registration.
const (
	MinAge = 10
	MaxAge = 30
)

// Score bounds for a single subject.
const (
	MinScore = 0
	MaxScore = 100
)

// Subject is one of the nine fixed subject keys.
type Subject string

const (
	Physics     Subject = "physics"
	Chemistry   Subject = "chemistry"
	Biology     Subject = "biology"
	English     Subject = "english"
	Mathematics Subject = "mathematics"
	Civics      Subject = "civics"
	Kiswahili   Subject = "kiswahili"
	History     Subject = "history"
	Geography   Subject = "geography"
)

// AllSubjects lists the subjects in display order.
var AllSubjects = []Subject{
	Physics, Chemistry, Biology,
	English, Mathematics, Civics,
	Kiswahili, History, Geography,
}

// Title returns the subject name as shown in reports ("Physics").
func (s Subject) Title() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// Student is one registered student.
type Student struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Age         int                 `json:"age"`
	Gender      string              `json:"gender"`
	Form        int                 `json:"form"`
	Performance []PerformanceRecord `json:"performance"`
}

// Latest returns the most recent performance record, or false if the
// student has no history.
func (s Student) Latest() (PerformanceRecord, bool) {
	if len(s.Performance) == 0 {
		return PerformanceRecord{}, false
	}
	return s.Performance[len(s.Performance)-1], true
}

// CanPromote reports whether the student is below the terminal form.
func (s Student) CanPromote() bool {
	return s.Form < MaxForm
}

// clone returns a deep copy so callers cannot mutate store state.
func (s Student) clone() Student {
	cp := s
	cp.Performance = make([]PerformanceRecord, len(s.Performance))
	for i, rec := range s.Performance {
		cp.Performance[i] = rec.clone()
	}
	return cp
}

// PerformanceRecord is one term's snapshot of scores. Records are never
// modified after they are appended.
type PerformanceRecord struct {
	Form     int      `json:"form"`
	Date     string   `json:"date"`
	Subjects Subjects `json:"subjects"`
}

func (r PerformanceRecord) clone() PerformanceRecord {
	cp := r
	cp.Subjects = r.Subjects.clone()
	return cp
}

// Subjects holds one score per subject. A nil entry is a missing score:
// the key was absent from storage or held a non-number.
type Subjects struct {
	Physics     *int `json:"physics"`
	Chemistry   *int `json:"chemistry"`
	Biology     *int `json:"biology"`
	English     *int `json:"english"`
	Mathematics *int `json:"mathematics"`
	Civics      *int `json:"civics"`
	Kiswahili   *int `json:"kiswahili"`
	History     *int `json:"history"`
	Geography   *int `json:"geography"`
}

// field returns a pointer to the slot holding the score for subj.
func (s *Subjects) field(subj Subject) **int {
	switch subj {
	case Physics:
		return &s.Physics
	case Chemistry:
		return &s.Chemistry
	case Biology:
		return &s.Biology
	case English:
		return &s.English
	case Mathematics:
		return &s.Mathematics
	case Civics:
		return &s.Civics
	case Kiswahili:
		return &s.Kiswahili
	case History:
		return &s.History
	case Geography:
		return &s.Geography
	}
	return nil
}

// Get returns the score for subj and whether it is present.
func (s Subjects) Get(subj Subject) (int, bool) {
	f := s.field(subj)
	if f == nil || *f == nil {
		return 0, false
	}
	return **f, true
}

// Set records a score for subj. Unknown subjects are ignored.
func (s *Subjects) Set(subj Subject, score int) {
	if f := s.field(subj); f != nil {
		v := score
		*f = &v
	}
}

// Scores returns the present scores in display order.
func (s Subjects) Scores() []int {
	scores := make([]int, 0, len(AllSubjects))
	for _, subj := range AllSubjects {
		if v, ok := s.Get(subj); ok {
			scores = append(scores, v)
		}
	}
	return scores
}

// UnmarshalJSON decodes subject scores leniently: a key that is absent,
// null, not a number or not a whole number becomes a missing score instead
// of failing the whole collection.
func (s *Subjects) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Subjects{}
	for _, subj := range AllSubjects {
		msg, ok := raw[string(subj)]
		if !ok || bytes.Equal(bytes.TrimSpace(msg), []byte("null")) {
			continue
		}
		var f float64
		if err := json.Unmarshal(msg, &f); err != nil || !isStoredScore(f) {
			continue
		}
		s.Set(subj, int(f))
	}
	return nil
}

// isStoredScore reports whether f can be held as a score without loss.
// Fractions and values beyond 32 bits are treated as missing.
func isStoredScore(f float64) bool {
	return f == math.Trunc(f) && f >= math.MinInt32 && f <= math.MaxInt32
}

func (s Subjects) clone() Subjects {
	var cp Subjects
	for _, subj := range AllSubjects {
		if v, ok := s.Get(subj); ok {
			cp.Set(subj, v)
		}
	}
	return cp
}

// normalizeID is the comparison form of a student identifier.
func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
