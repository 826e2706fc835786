package domain

import (
	"context"
	"time"
)

// SimulationRecord is the persisted summary of one completed run.
// Per-point fields are not stored; they are cheap to recompute.
type SimulationRecord struct {
	Params      ClinicalParameters `json:"params"`
	MeanTAWSS   float64            `json:"mean_tawss_pa"`
	MeanOSI     float64            `json:"mean_osi"`
	VeinFlow    float64            `json:"vein_flow_ml_min"`
	Probability float64            `json:"probability"`
	Timestamp   time.Time          `json:"timestamp"`
}

// SimulationRepository defines the persistence interface for simulation
// history. The domain defines the interface; implementations live in
// internal/repository.
type SimulationRepository interface {
	// SaveSimulation persists a completed run summary.
	SaveSimulation(ctx context.Context, rec SimulationRecord) error

	// GetHistory retrieves run summaries within a time range.
	GetHistory(ctx context.Context, from, to time.Time) ([]SimulationRecord, error)

	// Health checks backend connectivity.
	Health(ctx context.Context) error
}
