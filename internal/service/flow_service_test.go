package service

import (
	"math"
	"testing"

	"github.com/harrykososuta/avf-simulator/internal/domain"
)

func flowParams(angle float64) domain.ClinicalParameters {
	p := domain.NewDefaultParameters()
	p.AnastomosisAngle = angle
	return p
}

func TestFlowSplitConservation(t *testing.T) {
	s := NewFlowService()
	for _, angle := range []float64{15, 30, 45, 60, 75, 90} {
		for _, dv := range []float64{1.5, 3.0, 5.0} {
			p := flowParams(angle)
			p.VeinDiameter = dv
			split := s.ComputeFlowSplit(p)

			if split.VeinFraction < 0 || split.VeinFraction > 1 {
				t.Fatalf("vein fraction %.4f outside [0,1] at angle=%.0f dv=%.1f", split.VeinFraction, angle, dv)
			}
			sum := split.VeinFlowRate + split.DistalFlowRate
			if math.Abs(sum-p.FlowRate) > 1e-9*p.FlowRate {
				t.Fatalf("flow not conserved: %.9f + %.9f != %.1f", split.VeinFlowRate, split.DistalFlowRate, p.FlowRate)
			}
		}
	}
}

func TestFlowSplitAngleRaisesVeinResistance(t *testing.T) {
	s := NewFlowService()
	shallow := s.ComputeFlowSplit(flowParams(20))
	steep := s.ComputeFlowSplit(flowParams(85))
	if steep.VeinFraction >= shallow.VeinFraction {
		t.Fatalf("expected steeper angle to reduce vein fraction: %.4f vs %.4f",
			steep.VeinFraction, shallow.VeinFraction)
	}
}

func TestWaveformMeanAndFloor(t *testing.T) {
	s := NewFlowService()
	for _, hr := range []float64{50, 75, 120} {
		for _, sys := range []float64{0.1, 0.35, 0.6} {
			wave := s.GenerateWaveform(hr, sys, 64)
			if len(wave) != 64 {
				t.Fatalf("expected 64 steps, got %d", len(wave))
			}
			mean := 0.0
			for _, v := range wave {
				if v < waveformFloor-1e-12 {
					t.Fatalf("waveform value %.6f below floor at hr=%.0f sys=%.2f", v, hr, sys)
				}
				mean += v
			}
			mean /= float64(len(wave))
			if math.Abs(mean-1) > 1e-9 {
				t.Fatalf("waveform mean %.12f not 1.0 at hr=%.0f sys=%.2f", mean, hr, sys)
			}
		}
	}
}

func TestWaveformDeterministic(t *testing.T) {
	s := NewFlowService()
	a := s.GenerateWaveform(75, 0.35, 32)
	b := s.GenerateWaveform(75, 0.35, 32)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("waveform not deterministic at step %d: %.12f vs %.12f", i, a[i], b[i])
		}
	}
}

func TestVelocityFieldFinite(t *testing.T) {
	flowSvc := NewFlowService()
	geoSvc := NewGeometryService()
	p := domain.NewDefaultParameters()

	geo, err := geoSvc.GenerateGeometry(p.ArteryDiameter, p.VeinDiameter, p.AnastomosisAngle)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	split := flowSvc.ComputeFlowSplit(p)
	field := flowSvc.ComputeVelocityField(p, geo, split)

	if len(field) == 0 {
		t.Fatal("expected a non-empty velocity field")
	}
	for _, v := range field {
		if math.IsNaN(v.Magnitude) || math.IsInf(v.Magnitude, 0) || v.Magnitude < 0 {
			t.Fatalf("invalid velocity magnitude %.6f at %+v", v.Magnitude, v.Position)
		}
		if math.IsNaN(v.VX) || math.IsNaN(v.VY) {
			t.Fatalf("non-finite velocity components at %+v", v.Position)
		}
	}
}
