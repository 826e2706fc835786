package domain

import "fmt"

// ClinicalParameters is the immutable input set for one simulation run.
// Units: mm for diameters, degrees for angle, mL/min for flow,
// ratio (0-1) for hematocrit and systolic ratio, bpm for heart rate.
type ClinicalParameters struct {
	ArteryDiameter   float64 `json:"artery_diameter_mm"`
	VeinDiameter     float64 `json:"vein_diameter_mm"`
	AnastomosisAngle float64 `json:"anastomosis_angle_deg"`
	FlowRate         float64 `json:"flow_rate_ml_min"`
	Hematocrit       float64 `json:"hematocrit"`
	HeartRate        float64 `json:"heart_rate_bpm"`
	SystolicRatio    float64 `json:"systolic_ratio"`
}

// NewDefaultParameters returns a typical radiocephalic AVF configuration.
func NewDefaultParameters() ClinicalParameters {
	return ClinicalParameters{
		ArteryDiameter:   4.0,
		VeinDiameter:     4.0,
		AnastomosisAngle: 45,
		FlowRate:         600,
		Hematocrit:       0.40,
		HeartRate:        75,
		SystolicRatio:    0.35,
	}
}

// Validate rejects parameters outside the documented clinical ranges.
// The core assumes validated inputs; everything inside the ranges is
// handled by clamps, not errors.
func (p ClinicalParameters) Validate() error {
	if p.ArteryDiameter <= 0 || p.ArteryDiameter > 20 {
		return fmt.Errorf("invalid parameter: artery diameter %.2f mm must be in (0, 20]", p.ArteryDiameter)
	}
	if p.VeinDiameter <= 0 || p.VeinDiameter > 20 {
		return fmt.Errorf("invalid parameter: vein diameter %.2f mm must be in (0, 20]", p.VeinDiameter)
	}
	if p.AnastomosisAngle <= 0 || p.AnastomosisAngle > 90 {
		return fmt.Errorf("invalid parameter: anastomosis angle %.1f deg must be in (0, 90]", p.AnastomosisAngle)
	}
	if p.FlowRate <= 0 || p.FlowRate > 5000 {
		return fmt.Errorf("invalid parameter: flow rate %.1f mL/min must be in (0, 5000]", p.FlowRate)
	}
	if p.Hematocrit <= 0 || p.Hematocrit >= 1 {
		return fmt.Errorf("invalid parameter: hematocrit %.2f must be in (0, 1)", p.Hematocrit)
	}
	if p.HeartRate < 30 || p.HeartRate > 220 {
		return fmt.Errorf("invalid parameter: heart rate %.0f bpm must be in [30, 220]", p.HeartRate)
	}
	if p.SystolicRatio <= 0 || p.SystolicRatio >= 1 {
		return fmt.Errorf("invalid parameter: systolic ratio %.2f must be in (0, 1)", p.SystolicRatio)
	}
	return nil
}
