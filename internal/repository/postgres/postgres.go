package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/harrykososuta/avf-simulator/internal/domain"
)

// PostgresRepository implements domain.SimulationRepository
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// SaveSimulation persists a completed run summary to PostgreSQL
func (r *PostgresRepository) SaveSimulation(ctx context.Context, rec domain.SimulationRecord) error {
	query := `
		INSERT INTO simulation_runs (
			artery_diameter, vein_diameter, anastomosis_angle, flow_rate,
			hematocrit, heart_rate, systolic_ratio,
			mean_tawss, mean_osi, vein_flow, probability, timestamp
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.pool.Exec(ctx, query,
		rec.Params.ArteryDiameter, rec.Params.VeinDiameter, rec.Params.AnastomosisAngle, rec.Params.FlowRate,
		rec.Params.Hematocrit, rec.Params.HeartRate, rec.Params.SystolicRatio,
		rec.MeanTAWSS, rec.MeanOSI, rec.VeinFlow, rec.Probability, rec.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to save simulation record: %w", err)
	}

	return nil
}

// GetHistory retrieves run summaries from PostgreSQL
func (r *PostgresRepository) GetHistory(ctx context.Context, from, to time.Time) ([]domain.SimulationRecord, error) {
	query := `
		SELECT artery_diameter, vein_diameter, anastomosis_angle, flow_rate,
			   hematocrit, heart_rate, systolic_ratio,
			   mean_tawss, mean_osi, vein_flow, probability, timestamp
		FROM simulation_runs
		WHERE timestamp BETWEEN $1 AND $2
		ORDER BY timestamp DESC
		LIMIT 100
	`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query simulation runs: %w", err)
	}
	defer rows.Close()

	var results []domain.SimulationRecord
	for rows.Next() {
		var rec domain.SimulationRecord
		err := rows.Scan(
			&rec.Params.ArteryDiameter, &rec.Params.VeinDiameter, &rec.Params.AnastomosisAngle, &rec.Params.FlowRate,
			&rec.Params.Hematocrit, &rec.Params.HeartRate, &rec.Params.SystolicRatio,
			&rec.MeanTAWSS, &rec.MeanOSI, &rec.VeinFlow, &rec.Probability, &rec.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan simulation row: %w", err)
		}
		results = append(results, rec)
	}

	return results, nil
}

// Health checks database connectivity
func (r *PostgresRepository) Health(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: health check failed: %w", err)
	}
	return nil
}
