package domain

import "time"

// BloodProperties is the self-consistent viscosity solution for one
// branch (flow rate + diameter + hematocrit). Recomputed per call.
type BloodProperties struct {
	Viscosity       float64 `json:"viscosity_pa_s"`
	Density         float64 `json:"density_kg_m3"`
	ReynoldsNumber  float64 `json:"reynolds_number"`
	ShearRate       float64 `json:"shear_rate_1_s"`
	WallShearStress float64 `json:"wall_shear_stress_pa"`
	Converged       bool    `json:"converged"`
}

// FlowSplit partitions total inflow between the draining vein and the
// distal artery. VeinFlowRate+DistalFlowRate equals the total inflow.
type FlowSplit struct {
	VeinFlowRate   float64 `json:"vein_flow_rate_ml_min"`
	DistalFlowRate float64 `json:"distal_flow_rate_ml_min"`
	VeinFraction   float64 `json:"vein_fraction"`
}

// VelocityVector is one sample of the descriptive velocity field.
type VelocityVector struct {
	Position  Point   `json:"position"`
	VX        float64 `json:"vx"`
	VY        float64 `json:"vy"`
	Magnitude float64 `json:"magnitude_m_s"`
}

// WSSData holds the per-wall-point hemodynamic indices.
// TAWSS >= 0 Pa, OSI in [0, 0.5], RRT in [0, 100] 1/Pa.
type WSSData struct {
	TAWSS float64 `json:"tawss_pa"`
	OSI   float64 `json:"osi"`
	RRT   float64 `json:"rrt_1_pa"`
}

// WallShearSample pairs a wall point with its computed indices.
type WallShearSample struct {
	Point WallPoint `json:"point"`
	WSS   WSSData   `json:"wss"`
}

// HemodynamicMetrics are the aggregate scalars reduced over all wall points.
type HemodynamicMetrics struct {
	MeanTAWSS          float64 `json:"mean_tawss_pa"`
	MaxTAWSS           float64 `json:"max_tawss_pa"`
	MinTAWSS           float64 `json:"min_tawss_pa"`
	MeanOSI            float64 `json:"mean_osi"`
	MaxOSI             float64 `json:"max_osi"`
	MeanRRT            float64 `json:"mean_rrt_1_pa"`
	ReynoldsNumber     float64 `json:"reynolds_number"`
	DeanNumber         float64 `json:"dean_number"`
	WSSGradient        float64 `json:"wss_gradient_pa_mm"`
	EffectiveViscosity float64 `json:"effective_viscosity_pa_s"`
	TotalFlowRate      float64 `json:"total_flow_rate_ml_min"`
}

// HemodynamicsResult is the full output of one orchestrated run.
type HemodynamicsResult struct {
	WallWSS       []WallShearSample  `json:"wall_wss"`
	Metrics       HemodynamicMetrics `json:"metrics"`
	FlowSplit     FlowSplit          `json:"flow_split"`
	Waveform      []float64          `json:"waveform"`
	VelocityField []VelocityVector   `json:"velocity_field"`
}

// SimulationResult is what the API returns for a full pipeline run.
type SimulationResult struct {
	Params     ClinicalParameters   `json:"params"`
	Geometry   VesselGeometry       `json:"geometry"`
	Result     HemodynamicsResult   `json:"hemodynamics"`
	Prediction MaturationPrediction `json:"prediction"`
	Timeline   []TimelinePoint      `json:"timeline"`
	Timestamp  time.Time            `json:"timestamp"`
}
