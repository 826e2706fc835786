package service

import (
	"math"
	"strings"
	"testing"

	"github.com/harrykososuta/avf-simulator/internal/domain"
)

func TestPredictionFavorableScenario(t *testing.T) {
	hemo := newHemoService()
	pred := NewPredictionService()

	params := domain.NewDefaultParameters()
	result, err := hemo.ComputeHemodynamics(params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	prediction := pred.PredictMaturation(params, result.Metrics)
	if prediction.Probability <= 0.5 {
		t.Fatalf("expected favorable probability, got %.4f (score %.1f)", prediction.Probability, prediction.TotalScore)
	}
	if len(prediction.Factors) != 7 {
		t.Fatalf("expected 7 scoring factors, got %d", len(prediction.Factors))
	}
}

func TestPredictionAdverseScenario(t *testing.T) {
	hemo := newHemoService()
	pred := NewPredictionService()

	params := domain.ClinicalParameters{
		ArteryDiameter:   1.5,
		VeinDiameter:     1.5,
		AnastomosisAngle: 85,
		FlowRate:         150,
		Hematocrit:       0.55,
		HeartRate:        75,
		SystolicRatio:    0.35,
	}
	result, err := hemo.ComputeHemodynamics(params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	prediction := pred.PredictMaturation(params, result.Metrics)
	if prediction.Probability >= 0.5 {
		t.Fatalf("expected adverse probability, got %.4f (score %.1f)", prediction.Probability, prediction.TotalScore)
	}

	var veinFlagged, flowFlagged bool
	for _, risk := range prediction.RiskFactors {
		if strings.Contains(risk, "vein diameter") {
			veinFlagged = true
		}
		if strings.Contains(risk, "flow rate") {
			flowFlagged = true
		}
	}
	if !veinFlagged || !flowFlagged {
		t.Fatalf("expected small-vein and low-flow risk factors, got %v", prediction.RiskFactors)
	}
}

func TestLogisticMapping(t *testing.T) {
	// The logistic mapping should give ~50% at score 50, ~80% at 70 and
	// ~95% at 90.
	cases := map[float64]float64{50: 0.5, 70: 0.88, 90: 0.98}
	for score, want := range cases {
		got := 1 / (1 + math.Exp(-logisticSlope*(score-logisticMidpoint)))
		if math.Abs(got-want) > 0.01 {
			t.Fatalf("logistic(%0.f) = %.4f, want about %.2f", score, got, want)
		}
	}
}

func TestSubScoreBreakpoints(t *testing.T) {
	if got := scoreVeinDiameter(2.5); got != 20 {
		t.Fatalf("vein 2.5 mm: got %.0f, want 20", got)
	}
	if got := scoreVeinDiameter(1.9); got != 8 {
		t.Fatalf("vein 1.9 mm: got %.0f, want 8", got)
	}
	if got := scoreFlowRate(600); got != 20 {
		t.Fatalf("flow 600: got %.0f, want 20", got)
	}
	if got := scoreTAWSS(3.0); got != 15 {
		t.Fatalf("TAWSS 3.0 Pa: got %.0f, want 15", got)
	}
	if got := scoreTAWSS(12.0); got != 3 {
		t.Fatalf("TAWSS 12.0 Pa: got %.0f, want 3", got)
	}
	if got := scoreAngle(45); got != 10 {
		t.Fatalf("angle 45: got %.0f, want 10", got)
	}
	if got := scoreHematocrit(0.55); got != 2 {
		t.Fatalf("hct 0.55: got %.0f, want 2", got)
	}
}

func TestTimelineProjection(t *testing.T) {
	pred := NewPredictionService()
	params := domain.NewDefaultParameters()
	prediction := domain.MaturationPrediction{Probability: 0.8}

	timeline := pred.PredictTimeline(prediction, params)
	if len(timeline) != 13 {
		t.Fatalf("expected 13 weekly points, got %d", len(timeline))
	}
	if timeline[0].Week != 0 || timeline[0].Probability != 0 {
		t.Fatalf("week 0 should start at zero probability, got %+v", timeline[0])
	}
	for i := 1; i < len(timeline); i++ {
		if timeline[i].Probability < timeline[i-1].Probability {
			t.Fatalf("probability regressed at week %d", timeline[i].Week)
		}
		if timeline[i].FlowRate < params.FlowRate {
			t.Fatalf("flow rate fell below baseline at week %d", timeline[i].Week)
		}
	}
	final := timeline[len(timeline)-1]
	if final.Probability > prediction.Probability {
		t.Fatalf("saturation curve exceeded initial probability: %.4f", final.Probability)
	}
}
