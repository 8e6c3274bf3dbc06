package server

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/jpalmerr/olevel/internal/records"
)

type openEntryResponse struct {
	Token     string         `json:"token"`
	StudentID string         `json:"student_id"`
	Name      string         `json:"name"`
	Form      int            `json:"form"`
	Subjects  []string       `json:"subjects"`
	Prefill   map[string]int `json:"prefill"`
}

type saveEntryRequest struct {
	Scores map[string]inputValue `json:"scores"`
}

type saveEntryResponse struct {
	OK      bool                      `json:"ok"`
	Message string                    `json:"message"`
	Record  records.PerformanceRecord `json:"record"`
}

// handleOpenEntry opens a score-entry dialog and returns its session token.
func (s *Server) handleOpenEntry(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	entry, err := s.store.OpenEntry(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	st, err := s.store.Get(id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	token := uuid.NewString()
	s.entriesMu.Lock()
	s.pruneEntriesLocked()
	s.entries[token] = &entrySession{entry: entry, opened: s.now()}
	s.entriesMu.Unlock()

	subjects := make([]string, len(records.AllSubjects))
	prefill := make(map[string]int, len(records.AllSubjects))
	for i, subj := range records.AllSubjects {
		subjects[i] = string(subj)
	}
	for subj, v := range entry.Prefill() {
		prefill[string(subj)] = v
	}

	writeJSON(w, http.StatusOK, openEntryResponse{
		Token:     token,
		StudentID: st.ID,
		Name:      st.Name,
		Form:      st.Form,
		Subjects:  subjects,
		Prefill:   prefill,
	}, s.logger)
}

// handleSaveEntry saves the dialog's scores. A rejected sheet leaves the
// dialog open so the user can correct it.
func (s *Server) handleSaveEntry(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")

	var req saveEntryRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid score sheet."}, s.logger)
		return
	}

	entry := s.lookupEntry(token)
	if entry == nil {
		// a closed dialog; Save reports the missing selection
		entry = s.store.NewEntry()
	}

	inputs := make(map[records.Subject]string, len(req.Scores))
	for k, v := range req.Scores {
		inputs[records.Subject(k)] = string(v)
	}

	p := &records.Scripted{}
	rec, err := entry.Save(r.Context(), inputs, p)
	if !entry.IsOpen() {
		s.dropEntry(token)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, saveEntryResponse{OK: true, Message: p.LastNotice(), Record: rec}, s.logger)
}

// handleCancelEntry discards the dialog. Cancelling an unknown or already
// closed dialog succeeds.
func (s *Server) handleCancelEntry(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	if entry := s.lookupEntry(token); entry != nil {
		entry.Cancel()
	}
	s.dropEntry(token)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) lookupEntry(token string) *records.Entry {
	if _, err := uuid.Parse(token); err != nil {
		return nil
	}
	s.entriesMu.Lock()
	defer s.entriesMu.Unlock()
	if sess, ok := s.entries[token]; ok {
		return sess.entry
	}
	return nil
}

func (s *Server) dropEntry(token string) {
	s.entriesMu.Lock()
	defer s.entriesMu.Unlock()
	delete(s.entries, token)
}

// openEntries returns the number of open dialogs.
func (s *Server) openEntries() int {
	s.entriesMu.Lock()
	defer s.entriesMu.Unlock()
	return len(s.entries)
}

// pruneEntriesLocked closes dialogs abandoned for longer than entryTTL.
// Caller holds entriesMu.
func (s *Server) pruneEntriesLocked() {
	cutoff := s.now().Add(-entryTTL)
	for token, sess := range s.entries {
		if sess.opened.Before(cutoff) {
			sess.entry.Cancel()
			delete(s.entries, token)
		}
	}
}
