package service

import (
	"math"
	"reflect"
	"testing"

	"github.com/harrykososuta/avf-simulator/internal/domain"
)

func TestWallPointParamPositionsAndRegions(t *testing.T) {
	s := NewGeometryService()
	geo, err := s.GenerateGeometry(4.0, 4.0, 45)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(geo.WallPoints) == 0 {
		t.Fatal("expected wall points")
	}

	valid := make(map[domain.RegionType]bool)
	for _, r := range domain.AllRegions {
		valid[r] = true
	}

	lastParam := map[string]float64{}
	for _, wp := range geo.WallPoints {
		if wp.ParamPosition < 0 || wp.ParamPosition > 1 {
			t.Fatalf("param position %.4f outside [0,1]", wp.ParamPosition)
		}
		if !valid[wp.Region] {
			t.Fatalf("unknown region %q", wp.Region)
		}
		if prev, ok := lastParam[wp.Contour]; ok && wp.ParamPosition <= prev {
			t.Fatalf("param position not monotonic on contour %s: %.4f after %.4f",
				wp.Contour, wp.ParamPosition, prev)
		}
		lastParam[wp.Contour] = wp.ParamPosition
	}
}

func TestWallPointCountDeterministic(t *testing.T) {
	s := NewGeometryService()
	a, err := s.GenerateGeometry(3.5, 2.8, 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := s.GenerateGeometry(3.5, 2.8, 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatal("geometry is not deterministic for identical input")
	}
}

func TestRightAngleGeometryStable(t *testing.T) {
	s := NewGeometryService()
	for _, angle := range []float64{89.9, 90} {
		geo, err := s.GenerateGeometry(4.0, 4.0, angle)
		if err != nil {
			t.Fatalf("angle %.1f: unexpected error: %v", angle, err)
		}
		for _, wp := range geo.WallPoints {
			if math.IsNaN(wp.Position.X) || math.IsNaN(wp.Position.Y) ||
				math.IsInf(wp.Position.X, 0) || math.IsInf(wp.Position.Y, 0) {
				t.Fatalf("angle %.1f: non-finite wall point %+v", angle, wp.Position)
			}
		}
		if geo.OpeningWidth < geo.VeinRadius*2 {
			t.Fatalf("angle %.1f: opening width %.3f below vein diameter", angle, geo.OpeningWidth)
		}
	}
}

func TestGeometryRejectsInvalidInput(t *testing.T) {
	s := NewGeometryService()
	cases := map[string][3]float64{
		"negative artery": {-1, 4, 45},
		"zero vein":       {4, 0, 45},
		"zero angle":      {4, 4, 0},
		"angle beyond 90": {4, 4, 95},
	}
	for name, c := range cases {
		if _, err := s.GenerateGeometry(c[0], c[1], c[2]); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestOpeningSegmentExcluded(t *testing.T) {
	s := NewGeometryService()
	geo, err := s.GenerateGeometry(4.0, 4.0, 45)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, wp := range geo.WallPoints {
		if wp.Contour == "artery_upper" && wp.Position.X > geo.HeelX && wp.Position.X < geo.ToeX {
			t.Fatalf("wall point %+v inside the stoma opening", wp.Position)
		}
	}
}

func TestVeinWallPointsOutsideArteryLumen(t *testing.T) {
	s := NewGeometryService()
	geo, err := s.GenerateGeometry(4.0, 4.0, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, wp := range geo.WallPoints {
		if wp.Contour != "vein_outer" && wp.Contour != "vein_inner" {
			continue
		}
		found = true
		inside := math.Abs(wp.Position.Y) < geo.ArteryRadius-1e-9 && math.Abs(wp.Position.X) <= geo.ArteryLength/2
		if inside {
			t.Fatalf("vein wall point %+v lies inside the artery lumen", wp.Position)
		}
	}
	if !found {
		t.Fatal("expected vein wall points in the consolidated set")
	}
}

func TestAllEightRegionsPresent(t *testing.T) {
	s := NewGeometryService()
	geo, err := s.GenerateGeometry(4.0, 4.0, 45)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	seen := map[domain.RegionType]bool{}
	for _, wp := range geo.WallPoints {
		seen[wp.Region] = true
	}
	for _, r := range domain.AllRegions {
		if !seen[r] {
			t.Fatalf("region %q absent from classified wall points", r)
		}
	}
}
