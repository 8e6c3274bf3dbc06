package server

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/jpalmerr/olevel/internal/records"
)

func scoresBody(value string) string {
	parts := make([]string, len(records.AllSubjects))
	for i, subj := range records.AllSubjects {
		parts[i] = `"` + string(subj) + `":` + value
	}
	return `{"scores":{` + strings.Join(parts, ",") + `}}`
}

func (e *testEnv) openEntry(t *testing.T, id string) openEntryResponse {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/students/"+id+"/entry", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("open entry: status = %d, body %s", rec.Code, rec.Body.String())
	}
	return decode[openEntryResponse](t, rec)
}

func TestEntry_OpenPrefillsDefaults(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "A1", "Asha", 2)

	resp := env.openEntry(t, "A1")
	if resp.Token == "" {
		t.Fatal("token is empty")
	}
	if resp.Form != 2 || resp.Name != "Asha" {
		t.Errorf("resp = %+v", resp)
	}
	if len(resp.Subjects) != 9 || resp.Subjects[0] != "physics" {
		t.Errorf("subjects = %v", resp.Subjects)
	}
	for _, subj := range resp.Subjects {
		if resp.Prefill[subj] != records.DefaultScore {
			t.Errorf("prefill[%s] = %d, want %d", subj, resp.Prefill[subj], records.DefaultScore)
		}
	}
	if env.srv.openEntries() != 1 {
		t.Errorf("open entries = %d, want 1", env.srv.openEntries())
	}
}

func TestEntry_SaveFlow(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "A1", "Asha", 2)
	resp := env.openEntry(t, "A1")

	// rejected sheet keeps the dialog open
	rec := env.do(t, http.MethodPost, "/api/entries/"+resp.Token, scoresBody("101"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("out of range status = %d, want 400", rec.Code)
	}
	if got := decode[errorResponse](t, rec).Error; got != "All scores must be numbers between 0 and 100." {
		t.Errorf("error = %q", got)
	}
	if env.srv.openEntries() != 1 {
		t.Error("dialog should stay open after a rejected save")
	}

	rec = env.do(t, http.MethodPost, "/api/entries/"+resp.Token, scoresBody(`"77"`))
	if rec.Code != http.StatusOK {
		t.Fatalf("save status = %d, body %s", rec.Code, rec.Body.String())
	}
	saved := decode[saveEntryResponse](t, rec)
	if saved.Message != "Scores saved for Asha (Form 2)" {
		t.Errorf("message = %q", saved.Message)
	}
	if env.srv.openEntries() != 0 {
		t.Error("dialog should close after save")
	}

	st, _ := env.store.Get("A1")
	if len(st.Performance) != 1 {
		t.Fatalf("performance len = %d, want 1", len(st.Performance))
	}
	if avg := records.FormatAverage(st.Performance); avg != "77%" {
		t.Errorf("average = %q, want 77%%", avg)
	}

	// the token is spent
	rec = env.do(t, http.MethodPost, "/api/entries/"+resp.Token, scoresBody("60"))
	if got := decode[errorResponse](t, rec).Error; got != "No student selected." {
		t.Errorf("reused token error = %q", got)
	}
}

func TestEntry_Cancel(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "A1", "Asha", 1)
	resp := env.openEntry(t, "A1")

	rec := env.do(t, http.MethodDelete, "/api/entries/"+resp.Token, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("cancel status = %d", rec.Code)
	}
	if env.srv.openEntries() != 0 {
		t.Error("dialog should be closed")
	}

	rec = env.do(t, http.MethodPost, "/api/entries/"+resp.Token, scoresBody("60"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("save after cancel status = %d, want 400", rec.Code)
	}
	st, _ := env.store.Get("A1")
	if len(st.Performance) != 0 {
		t.Error("cancel must not append a record")
	}
}

func TestEntry_UnknownStudentAndToken(t *testing.T) {
	env := newTestEnv(t)

	if rec := env.do(t, http.MethodPost, "/api/students/ghost/entry", ""); rec.Code != http.StatusNotFound {
		t.Errorf("open for unknown student status = %d, want 404", rec.Code)
	}
	if rec := env.do(t, http.MethodPost, "/api/entries/not-a-uuid", scoresBody("60")); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown token status = %d, want 400", rec.Code)
	}
}

func TestEntry_AbandonedDialogsPruned(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "A1", "Asha", 1)

	now := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	env.srv.now = func() time.Time { return now }
	old := env.openEntry(t, "A1")

	now = now.Add(2 * entryTTL)
	env.openEntry(t, "A1")

	if env.srv.openEntries() != 1 {
		t.Errorf("open entries = %d, want 1 after pruning", env.srv.openEntries())
	}
	if env.srv.lookupEntry(old.Token) != nil {
		t.Error("abandoned dialog should be pruned")
	}
}
