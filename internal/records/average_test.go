package records

import (
	"encoding/json"
	"testing"
)

func scoresRecord(form int, scores map[Subject]int) PerformanceRecord {
	var subjects Subjects
	for subj, v := range scores {
		subjects.Set(subj, v)
	}
	return PerformanceRecord{Form: form, Date: "1/1/2026", Subjects: subjects}
}

func TestAverage(t *testing.T) {
	tests := []struct {
		name    string
		history []PerformanceRecord
		want    int
		wantOK  bool
		display string
	}{
		{
			name:    "no history",
			history: nil,
			wantOK:  false,
			display: NoData,
		},
		{
			name:    "latest record has no scores",
			history: []PerformanceRecord{scoresRecord(1, nil)},
			wantOK:  false,
			display: NoData,
		},
		{
			name: "three present scores",
			history: []PerformanceRecord{
				scoresRecord(1, map[Subject]int{Physics: 80, Chemistry: 70, Biology: 90}),
			},
			want:    80,
			wantOK:  true,
			display: "80%",
		},
		{
			name: "only the latest record counts",
			history: []PerformanceRecord{
				scoresRecord(1, map[Subject]int{Physics: 10}),
				scoresRecord(2, map[Subject]int{Physics: 60, English: 70}),
			},
			want:    65,
			wantOK:  true,
			display: "65%",
		},
		{
			name: "rounds half up",
			history: []PerformanceRecord{
				scoresRecord(1, map[Subject]int{Physics: 50, English: 51}),
			},
			want:    51,
			wantOK:  true,
			display: "51%",
		},
		{
			name: "rounds down below half",
			history: []PerformanceRecord{
				scoresRecord(1, map[Subject]int{Physics: 50, English: 50, Civics: 51}),
			},
			want:    50,
			wantOK:  true,
			display: "50%",
		},
		{
			name: "zero scores count",
			history: []PerformanceRecord{
				scoresRecord(1, map[Subject]int{Physics: 0, English: 0}),
			},
			want:    0,
			wantOK:  true,
			display: "0%",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Average(tt.history)
			if ok != tt.wantOK {
				t.Fatalf("Average() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("Average() = %d, want %d", got, tt.want)
			}
			if d := FormatAverage(tt.history); d != tt.display {
				t.Errorf("FormatAverage() = %q, want %q", d, tt.display)
			}
		})
	}
}

func TestAverage_NullScoresFromStorage(t *testing.T) {
	var rec PerformanceRecord
	data := `{"form":1,"date":"","subjects":{"physics":null,"chemistry":"NaN"}}`
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if _, ok := Average([]PerformanceRecord{rec}); ok {
		t.Error("Average() ok = true, want false for all-missing scores")
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"42", 42, true},
		{"  17 ", 17, true},
		{"+5", 5, true},
		{"-1", -1, true},
		{"12abc", 12, true},
		{"3.9", 3, true},
		{"", 0, false},
		{"abc", 0, false},
		{"-", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseInt(tt.in)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("parseInt(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
