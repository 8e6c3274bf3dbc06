package server

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/jpalmerr/olevel/internal/records"
	"github.com/jpalmerr/olevel/internal/view"
)

type registerRequest struct {
	Name   string     `json:"name"`
	ID     string     `json:"id"`
	Age    inputValue `json:"age"`
	Gender string     `json:"gender"`
	Form   inputValue `json:"form"`
}

type registerResponse struct {
	Student         records.Student `json:"student"`
	Message         string          `json:"message"`
	RedirectAfterMs int64           `json:"redirect_after_ms"`
}

type detailsResponse struct {
	Student records.Student `json:"student"`
	Average string          `json:"average"`
	Report  string          `json:"report"`
}

type promoteRequest struct {
	Confirmed bool `json:"confirmed"`
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, view.Build(s.store.Students()), s.logger)
}

// handleTable returns the table body as an HTML fragment.
func (s *Server) handleTable(w http.ResponseWriter, _ *http.Request) {
	var buf bytes.Buffer
	if err := view.RenderBody(&buf, view.Build(s.store.Students())); err != nil {
		s.logger.Error("failed to render table", "error", err)
		http.Error(w, "Failed to render table", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Error("failed to write table response", "error", err)
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid registration form."}, s.logger)
		return
	}

	p := &records.Scripted{}
	st, err := s.store.Register(r.Context(), records.Registration{
		Name:   req.Name,
		ID:     req.ID,
		Age:    string(req.Age),
		Gender: req.Gender,
		Form:   string(req.Form),
	}, p)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, registerResponse{
		Student:         st,
		Message:         p.LastNotice(),
		RedirectAfterMs: s.opts.RedirectDelay.Milliseconds(),
	}, s.logger)
}

func (s *Server) handleDetails(w http.ResponseWriter, r *http.Request) {
	st, err := s.store.Get(r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detailsResponse{
		Student: st,
		Average: records.FormatAverage(st.Performance),
		Report:  records.Report(st),
	}, s.logger)
}

func (s *Server) handlePromote(w http.ResponseWriter, r *http.Request) {
	var req promoteRequest
	// an empty body is allowed; confirmation may come from the query
	if err := decodeBody(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body."}, s.logger)
		return
	}
	req.Confirmed = req.Confirmed || confirmedParam(r)

	p := &records.Scripted{Answer: req.Confirmed}
	done, err := s.store.Promote(r.Context(), r.PathValue("id"), p)
	s.finishConfirmed(w, p, done, err)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	p := &records.Scripted{Answer: confirmedParam(r)}
	done, err := s.store.Delete(r.Context(), r.PathValue("id"), p)
	s.finishConfirmed(w, p, done, err)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	p := &records.Scripted{Answer: confirmedParam(r)}
	done, err := s.store.Clear(r.Context(), p)
	s.finishConfirmed(w, p, done, err)
}

// finishConfirmed writes the outcome of a confirm-gated operation.
func (s *Server) finishConfirmed(w http.ResponseWriter, p *records.Scripted, done bool, err error) {
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !done {
		prompt := ""
		if prompts := p.Prompts(); len(prompts) > 0 {
			prompt = prompts[len(prompts)-1]
		}
		writeJSON(w, http.StatusConflict, confirmResponse{
			Error:   "Confirmation required.",
			Confirm: prompt,
		}, s.logger)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{OK: true, Message: p.LastNotice()}, s.logger)
}
