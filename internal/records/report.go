package records

import (
	"fmt"
	"strings"
)

// Details returns the read-only report for the student with id.
func (s *Store) Details(id string) (string, error) {
	st, err := s.Get(id)
	if err != nil {
		return "", err
	}
	return Report(st), nil
}

// Report formats demographics and the full performance history, oldest
// record first.
func Report(st Student) string {
	var b strings.Builder
	b.WriteString("STUDENT DETAILS\n")
	b.WriteString("========================\n")
	fmt.Fprintf(&b, "Name: %s\n", st.Name)
	fmt.Fprintf(&b, "ID: %s\n", st.ID)
	fmt.Fprintf(&b, "Age: %d\n", st.Age)
	fmt.Fprintf(&b, "Gender: %s\n", st.Gender)
	fmt.Fprintf(&b, "Current Form: %d\n\n", st.Form)
	b.WriteString("ACADEMIC RECORDS:\n")

	if len(st.Performance) == 0 {
		b.WriteString("No scores recorded yet.")
		return b.String()
	}

	for _, rec := range st.Performance {
		date := rec.Date
		if date == "" {
			date = "N/A"
		}
		fmt.Fprintf(&b, "\n--- Form %d (%s) ---\n", rec.Form, date)
		// two subjects per line, the last one alone
		for i := 0; i < len(AllSubjects); i += 2 {
			b.WriteString(scoreLabel(rec.Subjects, AllSubjects[i]))
			if i+1 < len(AllSubjects) {
				b.WriteString(", ")
				b.WriteString(scoreLabel(rec.Subjects, AllSubjects[i+1]))
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

func scoreLabel(subjects Subjects, subj Subject) string {
	v, ok := subjects.Get(subj)
	if !ok {
		return subj.Title() + ": " + NoData
	}
	return fmt.Sprintf("%s: %d", subj.Title(), v)
}
