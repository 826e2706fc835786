package service

import (
	"math"

	"github.com/harrykososuta/avf-simulator/internal/domain"
)

// Resistive-network and waveform constants.
const (
	// Nominal branch lengths for the Hagen-Poiseuille resistance analogy.
	// Intentionally independent of the generated geometry's actual vein
	// arc length; see DESIGN.md.
	veinBranchLength   = 100.0 // mm
	distalBranchLength = 80.0  // mm

	waveformFloor     = 0.15
	refSystolicRatio  = 0.35
	waveformMeanTol   = 1e-12
	waveformNormIters = 100

	// Fourier amplitudes of the normalized pulsatile waveform. The
	// fundamental is scaled by systolicRatio/refSystolicRatio.
	waveA1 = 0.60
	waveA2 = 0.25
	waveA3 = 0.10
)

// Fundamental phase puts the systolic peak near 15% of the cycle.
var wavePhases = [3]float64{math.Pi/2 - 0.3*math.Pi, -math.Pi / 4, math.Pi / 6}

// FlowService computes flow partition, pulsatile waveform and the
// descriptive velocity field.
type FlowService struct{}

// NewFlowService creates a new flow service
func NewFlowService() *FlowService {
	return &FlowService{}
}

// ComputeFlowSplit partitions total inflow between the draining vein and
// the distal artery with a two-resistor parallel-conductance analogy,
// R proportional to L/r^4. The vein branch resistance is inflated by an
// angle-dependent entrance-loss factor growing with (angle/90)^2.
func (s *FlowService) ComputeFlowSplit(params domain.ClinicalParameters) domain.FlowSplit {
	ra := params.ArteryDiameter / 2
	rv := params.VeinDiameter / 2
	angleFrac := params.AnastomosisAngle / 90

	veinResistance := veinBranchLength / math.Pow(rv, 4) * (1 + angleFrac*angleFrac)
	distalResistance := distalBranchLength / math.Pow(ra, 4)

	veinConductance := 1 / veinResistance
	distalConductance := 1 / distalResistance
	veinFraction := veinConductance / (veinConductance + distalConductance)

	return domain.FlowSplit{
		VeinFlowRate:   veinFraction * params.FlowRate,
		DistalFlowRate: (1 - veinFraction) * params.FlowRate,
		VeinFraction:   veinFraction,
	}
}

// GenerateWaveform returns the normalized pulsatile flow multiplier over
// one cardiac cycle (period 60/heartRate seconds), sampled at the given
// number of steps. The series is floored at 0.15 and renormalized so its
// mean is exactly 1.0; it multiplies baseline WSS to form a time series.
func (s *FlowService) GenerateWaveform(heartRate, systolicRatio float64, steps int) []float64 {
	if steps < 1 {
		steps = 1
	}
	a1 := waveA1 * systolicRatio / refSystolicRatio

	wave := make([]float64, steps)
	for k := 0; k < steps; k++ {
		t := float64(k) / float64(steps)
		v := 1 +
			a1*math.Sin(2*math.Pi*t+wavePhases[0]) +
			waveA2*math.Sin(4*math.Pi*t+wavePhases[1]) +
			waveA3*math.Sin(6*math.Pi*t+wavePhases[2])
		wave[k] = math.Max(waveformFloor, v)
	}

	// Floor-preserving renormalization: rescale to unit mean, re-apply
	// the floor, repeat. The clamped mass shrinks the residual
	// geometrically, so this lands well inside tolerance.
	for i := 0; i < waveformNormIters; i++ {
		mean := 0.0
		for _, v := range wave {
			mean += v
		}
		mean /= float64(steps)
		if math.Abs(mean-1) < waveformMeanTol {
			break
		}
		for k := range wave {
			wave[k] = math.Max(waveformFloor, wave[k]/mean)
		}
	}
	return wave
}

// ComputeVelocityField samples Poiseuille parabolic profiles over the
// artery and along the vein centerline. Descriptive output for
// visualization; never fed back into the WSS computation.
func (s *FlowService) ComputeVelocityField(params domain.ClinicalParameters, geo domain.VesselGeometry, split domain.FlowSplit) []domain.VelocityVector {
	ra := geo.ArteryRadius * 1e-3 // m
	rv := geo.VeinRadius * 1e-3
	arteryArea := math.Pi * ra * ra
	veinArea := math.Pi * rv * rv

	toSI := 1e-6 / 60.0 // mL/min -> m³/s
	vTotal := params.FlowRate * toSI / arteryArea
	vDistal := split.DistalFlowRate * toSI / arteryArea
	vVein := split.VeinFlowRate * toSI / veinArea

	theta := params.AnastomosisAngle * math.Pi / 180
	veinDir := domain.Point{X: math.Cos(theta), Y: math.Sin(theta)}

	field := make([]domain.VelocityVector, 0, 160)

	// Artery grid: proximal carries the full inflow, distal the residual,
	// and the junction zone blends direction toward the vein takeoff.
	offsets := [5]float64{-0.8, -0.4, 0, 0.4, 0.8}
	for x := -arteryHalfLength + 2; x <= arteryHalfLength-2; x += 4 {
		for _, off := range offsets {
			y := off * geo.ArteryRadius
			parabolic := 1 - off*off

			var vMean float64
			dir := domain.Point{X: 1, Y: 0}
			switch {
			case x < geo.HeelX:
				vMean = vTotal
			case x > geo.ToeX:
				vMean = vDistal
			default:
				frac := (x - geo.HeelX) / (geo.ToeX - geo.HeelX)
				vMean = vTotal + (vDistal-vTotal)*frac
				bend := frac * split.VeinFraction
				dir.X = (1 - bend) + bend*veinDir.X
				dir.Y = bend * veinDir.Y
				norm := math.Sqrt(dir.X*dir.X + dir.Y*dir.Y)
				dir.X /= norm
				dir.Y /= norm
			}

			mag := 2 * vMean * parabolic
			field = append(field, domain.VelocityVector{
				Position:  domain.Point{X: x, Y: y},
				VX:        mag * dir.X,
				VY:        mag * dir.Y,
				Magnitude: mag,
			})
		}
	}

	// Vein: transverse profiles at intervals along the curved centerline.
	veinOffsets := [3]float64{-0.6, 0, 0.6}
	for i := 0; i < len(geo.VeinCenterline); i += 5 {
		c := geo.VeinCenterline[i]
		var tan domain.Point
		if i+1 < len(geo.VeinCenterline) {
			next := geo.VeinCenterline[i+1]
			dx, dy := next.X-c.X, next.Y-c.Y
			norm := math.Sqrt(dx*dx + dy*dy)
			tan = domain.Point{X: dx / norm, Y: dy / norm}
		} else {
			tan = veinDistalDir
		}
		normal := domain.Point{X: -tan.Y, Y: tan.X}

		for _, off := range veinOffsets {
			parabolic := 1 - off*off
			mag := 2 * vVein * parabolic
			field = append(field, domain.VelocityVector{
				Position: domain.Point{
					X: c.X + off*geo.VeinRadius*normal.X,
					Y: c.Y + off*geo.VeinRadius*normal.Y,
				},
				VX:        mag * tan.X,
				VY:        mag * tan.Y,
				Magnitude: mag,
			})
		}
	}

	return field
}
