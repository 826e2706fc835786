package service

import (
	"math"

	"github.com/harrykososuta/avf-simulator/internal/domain"
	"github.com/harrykososuta/avf-simulator/pkg/utils"
)

// Logistic mapping from total score to maturation probability, and the
// exponential-saturation timeline. Breakpoints below are
// literature-derived fixed constants.
const (
	logisticSlope    = 0.1
	logisticMidpoint = 50.0

	timelineWeeks      = 12
	timelineSaturation = 0.3 // per-week exponential rate
	timelineFlowGrowth = 0.8 // max fractional flow increase at full maturation
)

// PredictionService scores clinical parameters and computed metrics
// into a maturation outcome estimate.
type PredictionService struct{}

// NewPredictionService creates a new prediction service
func NewPredictionService() *PredictionService {
	return &PredictionService{}
}

// PredictMaturation derives the maturation score, probability and risk
// factors from the parameter set and the aggregate hemodynamics.
func (s *PredictionService) PredictMaturation(params domain.ClinicalParameters, metrics domain.HemodynamicMetrics) domain.MaturationPrediction {
	factors := map[string]float64{
		"vein_diameter":     scoreVeinDiameter(params.VeinDiameter),
		"artery_diameter":   scoreArteryDiameter(params.ArteryDiameter),
		"flow_rate":         scoreFlowRate(params.FlowRate),
		"tawss":             scoreTAWSS(metrics.MeanTAWSS),
		"osi":               scoreOSI(metrics.MeanOSI),
		"anastomosis_angle": scoreAngle(params.AnastomosisAngle),
		"hematocrit":        scoreHematocrit(params.Hematocrit),
	}

	total := 0.0
	for _, v := range factors {
		total += v
	}

	probability := 1 / (1 + math.Exp(-logisticSlope*(total-logisticMidpoint)))

	return domain.MaturationPrediction{
		TotalScore:  total,
		Probability: utils.RoundTo(probability, 4),
		Factors:     factors,
		RiskFactors: riskFactors(params, metrics),
	}
}

// PredictTimeline projects the 12-week maturation course as an
// exponential-saturation curve scaled by the initial probability.
// Illustrative output; not re-derived from the physical model.
func (s *PredictionService) PredictTimeline(prediction domain.MaturationPrediction, params domain.ClinicalParameters) []domain.TimelinePoint {
	timeline := make([]domain.TimelinePoint, 0, timelineWeeks+1)
	for week := 0; week <= timelineWeeks; week++ {
		saturation := 1 - math.Exp(-timelineSaturation*float64(week))
		timeline = append(timeline, domain.TimelinePoint{
			Week:        week,
			Probability: utils.RoundTo(prediction.Probability*saturation, 4),
			FlowRate:    utils.RoundTo(params.FlowRate*(1+timelineFlowGrowth*prediction.Probability*saturation), 1),
		})
	}
	return timeline
}

// Sub-scores. Each is a step function of one input; together they sum
// to at most 100.

func scoreVeinDiameter(d float64) float64 {
	switch {
	case d >= 2.5:
		return 20
	case d >= 2.0:
		return 14
	case d >= 1.5:
		return 8
	default:
		return 2
	}
}

func scoreArteryDiameter(d float64) float64 {
	switch {
	case d >= 3.0:
		return 15
	case d >= 2.0:
		return 10
	default:
		return 4
	}
}

func scoreFlowRate(q float64) float64 {
	switch {
	case q >= 600:
		return 20
	case q >= 400:
		return 15
	case q >= 250:
		return 9
	default:
		return 3
	}
}

func scoreTAWSS(tawss float64) float64 {
	switch {
	case tawss >= 1.0 && tawss <= 7.0:
		return 15
	case tawss >= 0.5 && tawss <= 10.0:
		return 9
	default:
		return 3
	}
}

func scoreOSI(osi float64) float64 {
	switch {
	case osi < 0.1:
		return 10
	case osi < 0.2:
		return 7
	case osi < 0.3:
		return 4
	default:
		return 1
	}
}

func scoreAngle(angle float64) float64 {
	switch {
	case angle >= 30 && angle <= 60:
		return 10
	case angle >= 20 && angle <= 75:
		return 7
	default:
		return 3
	}
}

func scoreHematocrit(hct float64) float64 {
	switch {
	case hct >= 0.30 && hct <= 0.45:
		return 10
	case hct <= 0.50:
		return 6
	default:
		return 2
	}
}

// riskFactors lists triggered clinical warnings. Informational only;
// never feeds back into the score.
func riskFactors(params domain.ClinicalParameters, metrics domain.HemodynamicMetrics) []string {
	var risks []string
	if params.VeinDiameter < 2.0 {
		risks = append(risks, "Small vein diameter (<2.0 mm) impairs maturation")
	}
	if params.ArteryDiameter < 2.0 {
		risks = append(risks, "Small artery diameter (<2.0 mm) limits inflow")
	}
	if params.FlowRate < 300 {
		risks = append(risks, "Low flow rate (<300 mL/min) increases failure risk")
	}
	if metrics.MeanTAWSS < 0.5 {
		risks = append(risks, "Low wall shear stress (<0.5 Pa) promotes neointimal hyperplasia")
	}
	if metrics.MeanTAWSS > 10 {
		risks = append(risks, "Very high wall shear stress (>10 Pa) risks endothelial damage")
	}
	if metrics.MeanOSI > 0.25 {
		risks = append(risks, "High oscillatory shear index (>0.25) indicates disturbed flow")
	}
	if params.AnastomosisAngle > 60 {
		risks = append(risks, "Steep anastomosis angle (>60 deg) promotes flow separation")
	}
	if params.Hematocrit > 0.50 {
		risks = append(risks, "Elevated hematocrit (>0.50) raises blood viscosity")
	}
	return risks
}
