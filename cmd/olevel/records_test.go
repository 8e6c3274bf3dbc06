package main

import (
	"path/filepath"
	"strings"
	"testing"
)

// fileConfig points the CLI at a fresh JSON file slot.
func fileConfig(t *testing.T) string {
	t.Helper()
	data := filepath.Join(t.TempDir(), "students.json")
	return writeConfig(t, "storage:\n  driver: file\n  path: "+data+"\n")
}

func mustExecute(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	out, err := execute(t, stdin, args...)
	if err != nil {
		t.Fatalf("%v error = %v", args, err)
	}
	return out
}

func registerAsha(t *testing.T, cfg string) {
	t.Helper()
	mustExecute(t, "", "register", "-c", cfg,
		"--name", "Asha Mushi", "--id", "A1", "--age", "15", "--gender", "Female", "--form", "3")
}

func TestList_Empty(t *testing.T) {
	out := mustExecute(t, "", "list", "-c", fileConfig(t))
	if !strings.Contains(out, "No students registered yet.") {
		t.Errorf("output = %q, want empty message", out)
	}
}

func TestRegisterAndList(t *testing.T) {
	cfg := fileConfig(t)
	registerAsha(t, cfg)

	out := mustExecute(t, "", "list", "-c", cfg)
	for _, want := range []string{"A1", "Asha Mushi", "FORM 3", "—", "FORM 3 → 4"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q\nGot: %s", want, out)
		}
	}
}

func TestRegister_ValidationMessage(t *testing.T) {
	cfg := fileConfig(t)
	registerAsha(t, cfg)

	_, err := execute(t, "", "register", "-c", cfg, "--name", "Other", "--id", "a1", "--age", "16")
	if err == nil {
		t.Fatal("duplicate register expected error, got nil")
	}
	if err.Error() != `ID "a1" already exists! Please use a unique ID.` {
		t.Errorf("error = %q", err.Error())
	}

	_, err = execute(t, "", "register", "-c", cfg, "--name", "Kid", "--id", "K1", "--age", "9")
	if err == nil || err.Error() != "Age must be between 10 and 30." {
		t.Errorf("error = %v, want age message", err)
	}
}

func TestScoresAndShow(t *testing.T) {
	cfg := fileConfig(t)
	registerAsha(t, cfg)

	out := mustExecute(t, "", "scores", "A1", "-c", cfg, "--physics", "80", "--mathematics", "90")
	if !strings.Contains(out, "Scores saved for Asha Mushi (Form 3)") {
		t.Errorf("scores output = %q", out)
	}

	out = mustExecute(t, "", "show", "A1", "-c", cfg)
	for _, want := range []string{"STUDENT DETAILS", "Name: Asha Mushi", "--- Form 3", "Physics: 80", "Mathematics: 90", "Civics: 50"} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q\nGot: %s", want, out)
		}
	}

	out, err := execute(t, "", "scores", "A1", "-c", cfg, "--civics", "101")
	if err == nil || err.Error() != "All scores must be numbers between 0 and 100." {
		t.Errorf("error = %v, want score range message", err)
	}
	if strings.Contains(out, "All scores must be") {
		t.Errorf("rejection should only surface as the command error, got output %q", out)
	}
}

func TestPromote_Confirmation(t *testing.T) {
	cfg := fileConfig(t)
	registerAsha(t, cfg)

	out := mustExecute(t, "n\n", "promote", "A1", "-c", cfg)
	if !strings.Contains(out, "Promote Asha Mushi from Form 3 to Form 4? [y/N]") {
		t.Errorf("prompt missing, got %q", out)
	}
	if strings.Contains(out, "is now in Form 4") {
		t.Error("declined promotion should not notify")
	}

	out = mustExecute(t, "y\n", "promote", "A1", "-c", cfg)
	if !strings.Contains(out, "Asha Mushi is now in Form 4") {
		t.Errorf("output = %q, want promotion notice", out)
	}

	_, err := execute(t, "", "promote", "A1", "-c", cfg, "--yes")
	if err == nil || err.Error() != "Asha Mushi has completed Form 4." {
		t.Errorf("error = %v, want final form message", err)
	}
}

func TestDeleteAndClear(t *testing.T) {
	cfg := fileConfig(t)
	registerAsha(t, cfg)
	mustExecute(t, "", "register", "-c", cfg, "--name", "Baraka", "--id", "B2", "--age", "14")

	out := mustExecute(t, "", "delete", "A1", "-c", cfg, "-y")
	if !strings.Contains(out, `Student "Asha Mushi" deleted.`) {
		t.Errorf("delete output = %q", out)
	}

	if _, err := execute(t, "", "show", "A1", "-c", cfg); err == nil {
		t.Error("show after delete expected error, got nil")
	}

	// EOF on stdin declines
	mustExecute(t, "", "clear", "-c", cfg)
	if out := mustExecute(t, "", "list", "-c", cfg); !strings.Contains(out, "B2") {
		t.Error("declined clear should keep students")
	}

	out = mustExecute(t, "yes\n", "clear", "-c", cfg)
	if !strings.Contains(out, "All student data has been cleared.") {
		t.Errorf("clear output = %q", out)
	}
	if out := mustExecute(t, "", "list", "-c", cfg); !strings.Contains(out, "No students registered yet.") {
		t.Errorf("list after clear = %q", out)
	}
}
