package service

import (
	"math"

	"github.com/harrykososuta/avf-simulator/internal/domain"
	"github.com/harrykososuta/avf-simulator/pkg/utils"
)

// Orchestrator constants.
const (
	waveformSteps = 32

	smoothingAmplitude = 0.08
	smoothingCycles    = 3

	nonRecircOSICap = 0.15
	osiCVScale      = 0.25

	// Directional model for recirculating regions: samples past the
	// phase threshold reverse with an angle-dependent magnitude.
	reversalPhaseThreshold = 0.5
	reversalFractionBase   = 0.40
	reversalFractionSlope  = 0.50
	recircVeinInnerAngle   = 30.0 // deg; vein inner recirculates past this

	rrtDenominatorFloor = 0.01 // caps RRT at 100

	deanCurvatureMultiple = 3.0 // curvature radius as multiple of vein diameter
)

// HemodynamicsService orchestrates geometry, blood properties and the
// flow solver into per-wall-point WSS indices and aggregate metrics.
type HemodynamicsService struct {
	blood    *HemorheologyService
	geometry *GeometryService
	flow     *FlowService
}

// NewHemodynamicsService creates a new hemodynamics service
func NewHemodynamicsService(blood *HemorheologyService, geometry *GeometryService, flow *FlowService) *HemodynamicsService {
	return &HemodynamicsService{
		blood:    blood,
		geometry: geometry,
		flow:     flow,
	}
}

// regionFactor is the empirical per-region WSS correction, a fixed
// function of the anastomosis angle and the vein/artery diameter ratio.
// The floor is the only region scaled into the low-WSS regime.
func regionFactor(region domain.RegionType, angleDeg, diameterRatio float64) float64 {
	sinA := math.Sin(angleDeg * math.Pi / 180)
	frac := angleDeg / 90
	switch region {
	case domain.RegionProximalArtery:
		return 0.95
	case domain.RegionDistalArtery:
		return 0.72
	case domain.RegionAnastomosisHeel:
		return 0.50 - 0.10*frac
	case domain.RegionAnastomosisToe:
		return 1.25 + 0.45*sinA
	case domain.RegionAnastomosisFloor:
		return 0.32 - 0.12*frac
	case domain.RegionVeinOuter:
		return 0.85 + 0.35*sinA*diameterRatio
	case domain.RegionVeinInner:
		return 0.65 - 0.20*frac
	case domain.RegionAnastomosisOuter:
		return 0.95 + 0.30*sinA
	}
	return 1.0
}

// recirculating reports whether a region uses the directional OSI model.
func recirculating(region domain.RegionType, angleDeg float64) bool {
	if region == domain.RegionAnastomosisFloor {
		return true
	}
	return region == domain.RegionVeinInner && angleDeg > recircVeinInnerAngle
}

// ComputeHemodynamics runs the full per-point pipeline for one
// parameter set. Pure: identical parameters yield identical output.
func (s *HemodynamicsService) ComputeHemodynamics(params domain.ClinicalParameters) (domain.HemodynamicsResult, error) {
	geo, err := s.geometry.GenerateGeometry(params.ArteryDiameter, params.VeinDiameter, params.AnastomosisAngle)
	if err != nil {
		return domain.HemodynamicsResult{}, err
	}

	split := s.flow.ComputeFlowSplit(params)
	wave := s.flow.GenerateWaveform(params.HeartRate, params.SystolicRatio, waveformSteps)
	velocity := s.flow.ComputeVelocityField(params, geo, split)

	// Branch-wise self-consistent viscosity solves. The artery baseline
	// follows the distal branch; the full-inflow solve supplies the
	// aggregate Reynolds number and effective viscosity.
	arteryBlood := s.blood.ComputeBloodProperties(split.DistalFlowRate, params.ArteryDiameter, params.Hematocrit)
	veinBlood := s.blood.ComputeBloodProperties(split.VeinFlowRate, params.VeinDiameter, params.Hematocrit)
	baseBlood := s.blood.ComputeBloodProperties(params.FlowRate, params.ArteryDiameter, params.Hematocrit)

	nonRecircOSI := math.Min(nonRecircOSICap, osiCVScale*coefficientOfVariation(wave))
	diameterRatio := params.VeinDiameter / params.ArteryDiameter

	samples := make([]domain.WallShearSample, 0, len(geo.WallPoints))
	for _, wp := range geo.WallPoints {
		base := arteryBlood.WallShearStress
		if wp.Region.VeinAssociated() {
			base = veinBlood.WallShearStress
		}
		factor := regionFactor(wp.Region, params.AnastomosisAngle, diameterRatio)
		smooth := 1 + smoothingAmplitude*math.Sin(2*math.Pi*smoothingCycles*wp.ParamPosition)
		baseline := base * factor * smooth

		tawss := 0.0
		for _, w := range wave {
			tawss += math.Abs(baseline * w)
		}
		tawss /= float64(len(wave))

		var osi float64
		if recirculating(wp.Region, params.AnastomosisAngle) {
			osi = s.directionalOSI(baseline, wave, params.AnastomosisAngle)
		} else {
			osi = nonRecircOSI
		}
		osi = utils.Clamp(osi, 0, 0.5)

		rrt := 1 / math.Max(rrtDenominatorFloor, (1-2*osi)*tawss)

		samples = append(samples, domain.WallShearSample{
			Point: wp,
			WSS:   domain.WSSData{TAWSS: tawss, OSI: osi, RRT: rrt},
		})
	}

	metrics := s.aggregate(params, samples, baseBlood)

	return domain.HemodynamicsResult{
		WallWSS:       samples,
		Metrics:       metrics,
		FlowSplit:     split,
		Waveform:      wave,
		VelocityField: velocity,
	}, nil
}

// directionalOSI applies the signed-phase model: late-cycle samples
// reverse with an angle-dependent magnitude, and OSI measures how much
// of the shear magnitude cancels over the cycle.
func (s *HemodynamicsService) directionalOSI(baseline float64, wave []float64, angleDeg float64) float64 {
	reversal := reversalFractionBase + reversalFractionSlope*angleDeg/90

	var signedSum, magnitudeSum float64
	for k, w := range wave {
		phase := float64(k) / float64(len(wave))
		v := baseline * w
		if phase > reversalPhaseThreshold {
			v = -reversal * v
		}
		signedSum += v
		magnitudeSum += math.Abs(v)
	}
	if magnitudeSum < 1e-12 {
		return 0
	}
	return utils.Clamp(0.5*(1-math.Abs(signedSum)/magnitudeSum), 0, 0.5)
}

// aggregate reduces per-point indices into the scalar metrics set.
func (s *HemodynamicsService) aggregate(params domain.ClinicalParameters, samples []domain.WallShearSample, blood domain.BloodProperties) domain.HemodynamicMetrics {
	m := domain.HemodynamicMetrics{
		MinTAWSS:           math.Inf(1),
		ReynoldsNumber:     blood.ReynoldsNumber,
		EffectiveViscosity: blood.Viscosity,
		TotalFlowRate:      params.FlowRate,
	}
	if len(samples) == 0 {
		m.MinTAWSS = 0
		return m
	}

	for _, sm := range samples {
		m.MeanTAWSS += sm.WSS.TAWSS
		m.MeanOSI += sm.WSS.OSI
		m.MeanRRT += sm.WSS.RRT
		m.MaxTAWSS = math.Max(m.MaxTAWSS, sm.WSS.TAWSS)
		m.MinTAWSS = math.Min(m.MinTAWSS, sm.WSS.TAWSS)
		m.MaxOSI = math.Max(m.MaxOSI, sm.WSS.OSI)
	}
	n := float64(len(samples))
	m.MeanTAWSS /= n
	m.MeanOSI /= n
	m.MeanRRT /= n

	curvatureRadius := deanCurvatureMultiple * params.VeinDiameter
	m.DeanNumber = blood.ReynoldsNumber * math.Sqrt(params.VeinDiameter/(2*curvatureRadius))
	m.WSSGradient = (m.MaxTAWSS - m.MinTAWSS) / params.ArteryDiameter

	return m
}

// coefficientOfVariation of the normalized waveform (mean is 1.0 by
// construction, kept explicit for clarity).
func coefficientOfVariation(wave []float64) float64 {
	if len(wave) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range wave {
		mean += v
	}
	mean /= float64(len(wave))
	if mean == 0 {
		return 0
	}
	variance := 0.0
	for _, v := range wave {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(wave))
	return math.Sqrt(variance) / mean
}
