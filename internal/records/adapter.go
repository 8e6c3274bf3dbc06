package records

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// Slot is one named durable storage location holding a serialized blob.
//
// Read returns an error when the slot has never been written; callers of
// [Adapter.Load] never see it.
type Slot interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
}

// Adapter serializes the student collection to a [Slot] as a JSON array.
type Adapter struct {
	slot   Slot
	logger *slog.Logger
}

// NewAdapter returns an adapter over slot. A nil logger uses slog.Default().
func NewAdapter(slot Slot, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{slot: slot, logger: logger}
}

// Load reads the collection from the slot. Missing or unparsable content
// yields an empty collection; the failure is logged and never returned.
func (a *Adapter) Load(ctx context.Context) []Student {
	data, err := a.slot.Read(ctx)
	if err != nil {
		a.logger.Debug("storage slot unreadable, starting empty", "error", err)
		return []Student{}
	}
	students, err := decode(data)
	if err != nil {
		a.logger.Warn("storage slot corrupt, starting empty", "error", err)
		return []Student{}
	}
	return students
}

// Save overwrites the slot with the full collection.
func (a *Adapter) Save(ctx context.Context, students []Student) error {
	data, err := encode(students)
	if err != nil {
		return err
	}
	if err := a.slot.Write(ctx, data); err != nil {
		return fmt.Errorf("failed to write storage slot: %w", err)
	}
	return nil
}

func encode(students []Student) ([]byte, error) {
	if students == nil {
		students = []Student{}
	}
	data, err := json.Marshal(students)
	if err != nil {
		return nil, fmt.Errorf("failed to encode students: %w", err)
	}
	return data, nil
}

func decode(data []byte) ([]Student, error) {
	var students []Student
	if err := json.Unmarshal(data, &students); err != nil {
		return nil, err
	}
	if students == nil {
		// "null" is valid JSON but not a collection
		return []Student{}, nil
	}
	for i := range students {
		if students[i].Performance == nil {
			students[i].Performance = []PerformanceRecord{}
		}
	}
	return students, nil
}
