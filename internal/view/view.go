// Package view renders the student table shown by the dashboard.
//
// Rendering is a pure function of the collection and always produces the
// whole table body; there is no incremental update.
package view

import (
	"fmt"
	"html/template"
	"io"

	"github.com/jpalmerr/olevel/internal/records"
)

// EmptyMessage is shown in place of rows when there are no students.
const EmptyMessage = "No students registered yet."

// Row is one rendered table row. Index is the row position used by the
// action controls; ID is the stable key the API is addressed by.
type Row struct {
	Index        int    `json:"index"`
	ID           string `json:"id"`
	Name         string `json:"name"`
	Age          int    `json:"age"`
	Gender       string `json:"gender"`
	Form         int    `json:"form"`
	Average      string `json:"average"`
	CanPromote   bool   `json:"can_promote"`
	PromoteLabel string `json:"promote_label"`
}

// Table is the complete table state.
type Table struct {
	Rows  []Row  `json:"rows"`
	Empty bool   `json:"empty"`
	Note  string `json:"empty_message,omitempty"`
}

// Build computes the table for students in collection order.
func Build(students []records.Student) Table {
	if len(students) == 0 {
		return Table{Rows: []Row{}, Empty: true, Note: EmptyMessage}
	}
	rows := make([]Row, len(students))
	for i, st := range students {
		rows[i] = Row{
			Index:        i,
			ID:           st.ID,
			Name:         st.Name,
			Age:          st.Age,
			Gender:       st.Gender,
			Form:         st.Form,
			Average:      records.FormatAverage(st.Performance),
			CanPromote:   st.CanPromote(),
			PromoteLabel: PromoteLabel(st),
		}
	}
	return Table{Rows: rows}
}

// PromoteLabel is the promote control text for st.
func PromoteLabel(st records.Student) string {
	if !st.CanPromote() {
		return fmt.Sprintf("COMPLETED FORM %d", records.MaxForm)
	}
	return fmt.Sprintf("FORM %d → %d", st.Form, st.Form+1)
}

var bodyTemplate = template.Must(template.New("tbody").Parse(`{{if .Empty}}<tr class="empty"><td colspan="7">{{.Note}}</td></tr>
{{else}}{{range .Rows}}<tr data-id="{{.ID}}">
  <td><code><strong>{{.ID}}</strong></code></td>
  <td><strong>{{.Name}}</strong></td>
  <td>{{.Age}}</td>
  <td>{{.Gender}}</td>
  <td><span class="badge-form">FORM {{.Form}}</span></td>
  <td><span class="score-badge">{{.Average}}</span></td>
  <td class="student-actions">
    <button class="btn btn-sm btn-outline view-details" data-index="{{.Index}}" data-id="{{.ID}}">VIEW</button>
    <button class="btn btn-sm btn-outline add-score" data-index="{{.Index}}" data-id="{{.ID}}">SCORES</button>
    {{if .CanPromote}}<button class="btn btn-sm btn-outline promote-btn" data-index="{{.Index}}" data-id="{{.ID}}">{{.PromoteLabel}}</button>{{else}}<button class="btn btn-sm" disabled>{{.PromoteLabel}}</button>{{end}}
    <button class="btn btn-sm delete-btn" data-index="{{.Index}}" data-id="{{.ID}}">DELETE</button>
  </td>
</tr>
{{end}}{{end}}`))

// RenderBody writes the HTML table body (or the placeholder row) for t.
// Student-supplied text is escaped.
func RenderBody(w io.Writer, t Table) error {
	return bodyTemplate.Execute(w, t)
}
