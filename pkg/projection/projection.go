// Package projection turns geographic coordinates into positions on the
// plane that cpp_on_rails lays its graph out on.
package projection

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// EarthRadiusKm is the mean radius of the Earth.
const EarthRadiusKm = 6371.0

// DefaultScale spreads nodes far enough apart for the renderer.
const DefaultScale = 5.0

var ErrInvalidProjection = errors.New("invalid projection")

type Projector interface {
	Project(lat, lon float64) (x, y float64, err error)
}

// Planar is a flat approximation of the surface around a reference point.
// Distances are in kilometres before scaling and are only meaningful near
// the reference point.
type Planar struct {
	RefLat float64
	RefLon float64
	Scale  float64
}

func (p Planar) Project(lat, lon float64) (float64, float64, error) {
	latRad := radians(lat)
	lonRad := radians(lon)
	refLatRad := radians(p.RefLat)
	refLonRad := radians(p.RefLon)
	x := (lonRad - refLonRad) * EarthRadiusKm * math.Cos(refLatRad)
	y := (latRad - refLatRad) * EarthRadiusKm
	return x * p.Scale, y * p.Scale, nil
}

// Degrees uses longitude and latitude directly as x and y.
type Degrees struct {
	LatScale float64
	LonScale float64
}

func (d Degrees) Project(lat, lon float64) (float64, float64, error) {
	return lon * d.LonScale, lat * d.LatScale, nil
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Parse builds a projector from its name: "plane", "osgb" or "epsg:<code>".
func Parse(name string, scale float64) (Projector, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch {
	case name == "" || name == "plane":
		return Planar{Scale: scale}, nil
	case name == "osgb":
		return NewNationalGrid(scale)
	case strings.HasPrefix(name, "epsg:"):
		code, err := strconv.Atoi(strings.TrimPrefix(name, "epsg:"))
		if err != nil || !knownEPSG(code) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidProjection, name)
		}
		return EPSG{Code: code, Scale: scale}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidProjection, name)
	}
}
