package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/jpalmerr/olevel/internal/records"
)

// maxBodyBytes bounds request bodies; a registration or score sheet is tiny.
const maxBodyBytes = 64 << 10

type errorResponse struct {
	Error string `json:"error"`
}

// confirmResponse asks the client to confirm and repeat the request.
type confirmResponse struct {
	Error   string `json:"error"`
	Confirm string `json:"confirm"`
}

type messageResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, code int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

// writeError maps store errors to status codes. Validation failures carry
// their user-facing message; anything else is a storage failure.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var ve *records.ValidationError
	if !errors.As(err, &ve) {
		s.logger.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to save student records."}, s.logger)
		return
	}

	if s.opts.Metrics != nil {
		s.opts.Metrics.ObserveRejection(rejectionReason(ve.Kind))
	}

	code := http.StatusBadRequest
	switch {
	case errors.Is(err, records.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, records.ErrDuplicateID), errors.Is(err, records.ErrFinalForm):
		code = http.StatusConflict
	}
	writeJSON(w, code, errorResponse{Error: ve.Message}, s.logger)
}

func rejectionReason(kind error) string {
	switch kind {
	case records.ErrMissingField:
		return "missing_field"
	case records.ErrReservedID:
		return "reserved_id"
	case records.ErrAgeOutOfRange:
		return "age_out_of_range"
	case records.ErrFormOutOfRange:
		return "form_out_of_range"
	case records.ErrDuplicateID:
		return "duplicate_id"
	case records.ErrScoreOutOfRange:
		return "score_out_of_range"
	case records.ErrNoSelection:
		return "no_selection"
	case records.ErrNotFound:
		return "not_found"
	case records.ErrFinalForm:
		return "final_form"
	}
	return "other"
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

// inputValue is a form field that clients may send as a JSON string or
// number; either way the store sees the raw text.
type inputValue string

func (v *inputValue) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = inputValue(s)
		return nil
	}
	if string(data) == "null" {
		*v = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*v = inputValue(n.String())
	return nil
}

// confirmedParam reads ?confirmed=true.
func confirmedParam(r *http.Request) bool {
	ok, _ := strconv.ParseBool(strings.TrimSpace(r.URL.Query().Get("confirmed")))
	return ok
}
