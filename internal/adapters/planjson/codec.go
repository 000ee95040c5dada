// Package planjson reads and writes the plan export format.
//
// An export wraps the plan with a format version:
//
//	{"version": 1, "exported_at": "...", "plan": {...}}
package planjson

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
	"trip-planner-service/internal/adapters/memory"
	"trip-planner-service/internal/domain"
)

// FormatVersion is written into every export and is the only version
// Decode accepts.
const FormatVersion = 1

type document struct {
	Version    int                `json:"version"`
	ExportedAt time.Time          `json:"exported_at"`
	Plan       *domain.TravelPlan `json:"plan"`
}

// Encode writes plan as an indented export document.
func Encode(w io.Writer, plan domain.TravelPlan, exportedAt time.Time) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(document{Version: FormatVersion, ExportedAt: exportedAt.UTC(), Plan: &plan}); err != nil {
		return fmt.Errorf("encode plan %s: %w", plan.ID, err)
	}
	return nil
}

// Decode reads an export document and checks every plan invariant by
// loading it into a memory store. A plan without an id gets a new one.
func Decode(r io.Reader) (domain.TravelPlan, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return domain.TravelPlan{}, fmt.Errorf("decode plan: %w: %w", domain.ErrValidation, err)
	}
	if doc.Version != FormatVersion {
		return domain.TravelPlan{}, fmt.Errorf("decode plan: %w: unsupported format version %d", domain.ErrValidation, doc.Version)
	}
	if doc.Plan == nil {
		return domain.TravelPlan{}, fmt.Errorf("decode plan: %w: document has no plan", domain.ErrValidation)
	}

	store, err := memory.FromPlan(*doc.Plan)
	if err != nil {
		return domain.TravelPlan{}, fmt.Errorf("decode plan: %w", err)
	}
	return store.Snapshot(), nil
}
