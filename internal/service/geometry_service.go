package service

import (
	"fmt"
	"math"

	"github.com/harrykososuta/avf-simulator/internal/domain"
	"github.com/harrykososuta/avf-simulator/pkg/utils"
)

// Geometry sampling and sizing constants. Sample counts are fixed so
// wall-point counts stay deterministic for a given parameter set.
const (
	arteryHalfLength = 40.0 // mm, artery spans [-40, 40]
	arterySamples    = 81
	veinSamples      = 50
	veinLengthScale  = 40.0 // mm, nominal vein segment length

	carveDepthRatio = 0.3 // stoma carve depth as fraction of artery radius
	toePatchSamples = 12

	// Region thresholds as multiples of the artery radius. Fixed design
	// constants: the wall-point classification tests encode them.
	floorRegionRadii = 1.5
	heelToeRadii     = 1.5
	anastOuterRadii  = 2.0
)

// Fixed distal direction the vein curve bends back toward, (1,4)/|(1,4)|.
var veinDistalDir = domain.Point{X: 0.24254, Y: 0.97014}

// GeometryService builds the 2-D vessel-junction shape.
type GeometryService struct{}

// NewGeometryService creates a new geometry service
func NewGeometryService() *GeometryService {
	return &GeometryService{}
}

// cubicBezier evaluates the curve at t in [0,1].
func cubicBezier(p0, p1, p2, p3 domain.Point, t float64) domain.Point {
	u := 1 - t
	a := u * u * u
	b := 3 * u * u * t
	c := 3 * u * t * t
	d := t * t * t
	return domain.Point{
		X: a*p0.X + b*p1.X + c*p2.X + d*p3.X,
		Y: a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
	}
}

// cubicBezierTangent is the normalized derivative at t.
func cubicBezierTangent(p0, p1, p2, p3 domain.Point, t float64) domain.Point {
	u := 1 - t
	dx := 3*u*u*(p1.X-p0.X) + 6*u*t*(p2.X-p1.X) + 3*t*t*(p3.X-p2.X)
	dy := 3*u*u*(p1.Y-p0.Y) + 6*u*t*(p2.Y-p1.Y) + 3*t*t*(p3.Y-p2.Y)
	norm := math.Sqrt(dx*dx + dy*dy)
	if norm < 1e-12 {
		return domain.Point{X: 1, Y: 0}
	}
	return domain.Point{X: dx / norm, Y: dy / norm}
}

// GenerateGeometry builds the complete junction geometry from the artery
// diameter, vein diameter (mm) and anastomosis angle (degrees).
func (s *GeometryService) GenerateGeometry(arteryDiameter, veinDiameter, angle float64) (domain.VesselGeometry, error) {
	if arteryDiameter <= 0 || veinDiameter <= 0 {
		return domain.VesselGeometry{}, fmt.Errorf("geometry: diameters must be positive, got artery=%.2f vein=%.2f", arteryDiameter, veinDiameter)
	}
	if angle <= 0 || angle > 90 {
		return domain.VesselGeometry{}, fmt.Errorf("geometry: anastomosis angle %.1f deg must be in (0, 90]", angle)
	}

	ra := arteryDiameter / 2
	rv := veinDiameter / 2
	theta := angle * math.Pi / 180
	anastomosis := domain.Point{X: 0, Y: ra}

	// Stoma opening along the artery upper wall. The 1/sin(angle) entrance
	// projection diverges at shallow angles, so the width is clamped.
	opening := utils.Clamp(veinDiameter/math.Sin(theta), veinDiameter, 3*veinDiameter)
	heelX := -0.4 * opening
	toeX := 0.6 * opening

	geo := domain.VesselGeometry{
		AnastomosisPoint: anastomosis,
		ArteryRadius:     ra,
		VeinRadius:       rv,
		ArteryLength:     2 * arteryHalfLength,
		OpeningWidth:     opening,
		HeelX:            heelX,
		ToeX:             toeX,
	}

	// Artery centerline and walls, straight horizontal polylines. The
	// upper wall is carved inward across the opening to form the stoma.
	geo.ArteryCenterline = make([]domain.Point, arterySamples)
	geo.ArteryUpperWall = make([]domain.Point, arterySamples)
	geo.ArteryLowerWall = make([]domain.Point, arterySamples)
	for i := 0; i < arterySamples; i++ {
		x := -arteryHalfLength + float64(i)*2*arteryHalfLength/float64(arterySamples-1)
		geo.ArteryCenterline[i] = domain.Point{X: x, Y: 0}
		upperY := ra
		if x > heelX && x < toeX {
			upperY = ra - carveDepthRatio*ra*math.Sin(math.Pi*(x-heelX)/opening)
		}
		geo.ArteryUpperWall[i] = domain.Point{X: x, Y: upperY}
		geo.ArteryLowerWall[i] = domain.Point{X: x, Y: -ra}
	}

	// Vein centerline: cubic Bezier leaving the anastomosis tangent to
	// the prescribed angle and bending back toward the fixed distal
	// direction.
	p0 := anastomosis
	p1 := domain.Point{
		X: p0.X + 0.35*veinLengthScale*math.Cos(theta),
		Y: p0.Y + 0.35*veinLengthScale*math.Sin(theta),
	}
	p3 := domain.Point{X: p0.X + 0.45*veinLengthScale, Y: p0.Y + 0.85*veinLengthScale}
	p2 := domain.Point{
		X: p3.X - 0.3*veinLengthScale*veinDistalDir.X,
		Y: p3.Y - 0.3*veinLengthScale*veinDistalDir.Y,
	}

	geo.VeinCenterline = make([]domain.Point, veinSamples)
	geo.VeinOuterWall = make([]domain.Point, veinSamples)
	geo.VeinInnerWall = make([]domain.Point, veinSamples)
	arcLength := 0.0
	for i := 0; i < veinSamples; i++ {
		t := float64(i) / float64(veinSamples-1)
		c := cubicBezier(p0, p1, p2, p3, t)
		tan := cubicBezierTangent(p0, p1, p2, p3, t)
		normal := domain.Point{X: -tan.Y, Y: tan.X}
		geo.VeinCenterline[i] = c
		geo.VeinOuterWall[i] = domain.Point{X: c.X + rv*normal.X, Y: c.Y + rv*normal.Y}
		geo.VeinInnerWall[i] = domain.Point{X: c.X - rv*normal.X, Y: c.Y - rv*normal.Y}
		if i > 0 {
			prev := geo.VeinCenterline[i-1]
			arcLength += utils.Distance(prev.X, prev.Y, c.X, c.Y)
		}
	}
	geo.VeinLength = arcLength

	geo.ToePatch = s.buildToePatch(geo, toeX, ra)
	geo.RecirculationZone = s.buildRecirculationZone(toeX, ra, rv, angle)
	geo.WallPoints = s.classifyWallPoints(geo)

	return geo, nil
}

// buildToePatch bridges the vein outer wall to the artery upper wall at
// the toe with a secondary Bezier.
func (s *GeometryService) buildToePatch(geo domain.VesselGeometry, toeX, ra float64) []domain.Point {
	// First outer-wall sample clear of the artery lumen.
	start := geo.VeinOuterWall[0]
	for _, p := range geo.VeinOuterWall {
		if !s.insideArtery(p, ra) {
			start = p
			break
		}
	}
	end := domain.Point{X: toeX, Y: ra}
	span := utils.Distance(start.X, start.Y, end.X, end.Y)
	c1 := domain.Point{X: start.X + 0.3*span, Y: start.Y - 0.15*span}
	c2 := domain.Point{X: end.X - 0.3*span, Y: end.Y + 0.15*span}

	patch := make([]domain.Point, toePatchSamples)
	for i := 0; i < toePatchSamples; i++ {
		t := float64(i) / float64(toePatchSamples-1)
		patch[i] = cubicBezier(start, c1, c2, end, t)
	}
	return patch
}

// buildRecirculationZone estimates the stagnation pocket downstream of
// the floor. Heuristic, advisory output only: an ellipse whose size
// grows with the anastomosis angle.
func (s *GeometryService) buildRecirculationZone(toeX, ra, rv, angle float64) []domain.Point {
	frac := angle / 90
	cx := toeX
	cy := -0.3 * ra
	semiMajor := ra * (0.6 + 0.9*frac) * (0.5 + 0.5*rv/ra)
	semiMinor := ra * (0.25 + 0.45*frac)

	const n = 16
	zone := make([]domain.Point, n)
	for i := 0; i < n; i++ {
		phi := 2 * math.Pi * float64(i) / n
		zone[i] = domain.Point{
			X: cx + semiMajor*math.Cos(phi),
			Y: cy + semiMinor*math.Sin(phi),
		}
	}
	return zone
}

// insideArtery reports whether a point lies within the artery lumen.
// Used as the exclusion predicate for vein-wall samples that start
// inside the artery and are not physical wall locations. A predicate,
// not an index skip, so behavior is stable under sample-count changes.
func (s *GeometryService) insideArtery(p domain.Point, ra float64) bool {
	return math.Abs(p.Y) < ra-1e-9 && math.Abs(p.X) <= arteryHalfLength
}

// classifyWallPoints consolidates all wall contours into one ordered,
// region-tagged wall-point sequence. Points inside the stoma opening and
// vein-wall points inside the artery lumen are excluded.
func (s *GeometryService) classifyWallPoints(geo domain.VesselGeometry) []domain.WallPoint {
	ra := geo.ArteryRadius
	points := make([]domain.WallPoint, 0, 2*arterySamples+2*veinSamples)

	// Artery upper wall: heel and toe flank the opening.
	for i, p := range geo.ArteryUpperWall {
		if p.X > geo.HeelX && p.X < geo.ToeX {
			continue // opening segment
		}
		t := float64(i) / float64(arterySamples-1)
		var region domain.RegionType
		switch {
		case p.X <= geo.HeelX && p.X >= geo.HeelX-heelToeRadii*ra:
			region = domain.RegionAnastomosisHeel
		case p.X < geo.HeelX:
			region = domain.RegionProximalArtery
		case p.X >= geo.ToeX && p.X <= geo.ToeX+heelToeRadii*ra:
			region = domain.RegionAnastomosisToe
		default:
			region = domain.RegionDistalArtery
		}
		points = append(points, domain.WallPoint{Position: p, ParamPosition: t, Region: region, Contour: "artery_upper"})
	}

	// Artery lower wall: the floor faces the stoma.
	for i, p := range geo.ArteryLowerWall {
		t := float64(i) / float64(arterySamples-1)
		var region domain.RegionType
		switch {
		case math.Abs(p.X) <= floorRegionRadii*ra:
			region = domain.RegionAnastomosisFloor
		case p.X < 0:
			region = domain.RegionProximalArtery
		default:
			region = domain.RegionDistalArtery
		}
		points = append(points, domain.WallPoint{Position: p, ParamPosition: t, Region: region, Contour: "artery_lower"})
	}

	// Vein walls: near-junction samples geometrically inside the artery
	// are excluded; the outer wall close to the junction forms the
	// anastomosis outer region.
	for i, p := range geo.VeinOuterWall {
		if s.insideArtery(p, ra) {
			continue
		}
		t := float64(i) / float64(veinSamples-1)
		region := domain.RegionVeinOuter
		if utils.Distance(p.X, p.Y, geo.AnastomosisPoint.X, geo.AnastomosisPoint.Y) <= anastOuterRadii*ra {
			region = domain.RegionAnastomosisOuter
		}
		points = append(points, domain.WallPoint{Position: p, ParamPosition: t, Region: region, Contour: "vein_outer"})
	}
	for i, p := range geo.VeinInnerWall {
		if s.insideArtery(p, ra) {
			continue
		}
		t := float64(i) / float64(veinSamples-1)
		points = append(points, domain.WallPoint{Position: p, ParamPosition: t, Region: domain.RegionVeinInner, Contour: "vein_inner"})
	}

	return points
}
