package domain

// MaturationPrediction is the scored outcome estimate for one run.
// Factors maps each scoring dimension to the points it contributed.
type MaturationPrediction struct {
	TotalScore  float64            `json:"total_score"`
	Probability float64            `json:"probability"`
	Factors     map[string]float64 `json:"factors"`
	RiskFactors []string           `json:"risk_factors"`
}

// TimelinePoint is one week of the projected maturation course.
type TimelinePoint struct {
	Week        int     `json:"week"`
	Probability float64 `json:"probability"`
	FlowRate    float64 `json:"flow_rate_ml_min"`
}
