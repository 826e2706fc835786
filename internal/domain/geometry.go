package domain

// Point is a 2-D position in millimeters. The artery runs along the
// x-axis with the anastomosis at x=0; y grows toward the vein.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// RegionType labels a wall point with its anatomical sub-region.
// The set is closed: classification must always produce one of these.
type RegionType string

const (
	RegionProximalArtery   RegionType = "proximal_artery"
	RegionDistalArtery     RegionType = "distal_artery"
	RegionVeinOuter        RegionType = "vein_outer"
	RegionVeinInner        RegionType = "vein_inner"
	RegionAnastomosisToe   RegionType = "anastomosis_toe"
	RegionAnastomosisHeel  RegionType = "anastomosis_heel"
	RegionAnastomosisFloor RegionType = "anastomosis_floor"
	RegionAnastomosisOuter RegionType = "anastomosis_outer"
)

// AllRegions lists every valid RegionType.
var AllRegions = []RegionType{
	RegionProximalArtery,
	RegionDistalArtery,
	RegionVeinOuter,
	RegionVeinInner,
	RegionAnastomosisToe,
	RegionAnastomosisHeel,
	RegionAnastomosisFloor,
	RegionAnastomosisOuter,
}

// VeinAssociated reports whether WSS at this region derives from the
// vein branch flow rather than the artery branch.
func (r RegionType) VeinAssociated() bool {
	switch r {
	case RegionVeinOuter, RegionVeinInner, RegionAnastomosisOuter:
		return true
	}
	return false
}

// WallPoint is one sampled location on a vessel wall contour.
// ParamPosition is the normalized arc parameter in [0,1], monotonic
// along the contour the point was sampled from.
type WallPoint struct {
	Position      Point      `json:"position"`
	ParamPosition float64    `json:"param_position"`
	Region        RegionType `json:"region"`
	Contour       string     `json:"contour"`
}

// VesselGeometry is the complete 2-D junction shape for one parameter set.
type VesselGeometry struct {
	ArteryCenterline []Point `json:"artery_centerline"`
	VeinCenterline   []Point `json:"vein_centerline"`

	ArteryUpperWall []Point `json:"artery_upper_wall"`
	ArteryLowerWall []Point `json:"artery_lower_wall"`
	VeinOuterWall   []Point `json:"vein_outer_wall"`
	VeinInnerWall   []Point `json:"vein_inner_wall"`
	ToePatch        []Point `json:"toe_patch"`

	AnastomosisPoint  Point       `json:"anastomosis_point"`
	WallPoints        []WallPoint `json:"wall_points"`
	RecirculationZone []Point     `json:"recirculation_zone"`

	ArteryRadius float64 `json:"artery_radius_mm"`
	VeinRadius   float64 `json:"vein_radius_mm"`
	ArteryLength float64 `json:"artery_length_mm"`
	VeinLength   float64 `json:"vein_length_mm"`
	OpeningWidth float64 `json:"opening_width_mm"`
	HeelX        float64 `json:"heel_x_mm"`
	ToeX         float64 `json:"toe_x_mm"`
}
