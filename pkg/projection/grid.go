package projection

import (
	"fmt"
	"math"

	"github.com/fofanov/go-osgb"
	"github.com/wroge/wgs84"
)

// NationalGrid projects onto the OSGB36 British National Grid using the
// OSTN15 transformation. Coordinates are in kilometres before scaling.
// Stations outside the OSTN15 grid cannot be projected.
type NationalGrid struct {
	trans osgb.CoordinateTransformer
	Scale float64
}

func NewNationalGrid(scale float64) (*NationalGrid, error) {
	trans, err := osgb.NewOSTN15Transformer()
	if err != nil {
		return nil, fmt.Errorf("error constructing coordinate transformer: %v", err)
	}
	return &NationalGrid{trans: trans, Scale: scale}, nil
}

func (g *NationalGrid) Project(lat, lon float64) (float64, float64, error) {
	gpsCoord := osgb.NewETRS89Coord(lon, lat, 0)
	ngCoord, err := g.trans.ToNationalGrid(gpsCoord)
	if err != nil {
		return 0, 0, fmt.Errorf("error converting (%f, %f) to National Grid: %v", lat, lon, err)
	}
	return ngCoord.Easting / 1000.0 * g.Scale, ngCoord.Northing / 1000.0 * g.Scale, nil
}

// EPSG projects into the coordinate reference system with the given EPSG
// code, for instance 3857 (web mercator) or 3035 (ETRS89 Lambert equal area).
// Projected metres are converted to kilometres before scaling.
type EPSG struct {
	Code  int
	Scale float64
}

func (e EPSG) Project(lat, lon float64) (float64, float64, error) {
	x, y, _ := wgs84.LonLat().To(wgs84.EPSG().Code(e.Code))(lon, lat, 0)
	if math.IsNaN(x) || math.IsNaN(y) {
		return 0, 0, fmt.Errorf("cannot project (%f, %f) to EPSG:%d", lat, lon, e.Code)
	}
	return x / 1000.0 * e.Scale, y / 1000.0 * e.Scale, nil
}

// knownEPSG reports whether wgs84 has a coordinate reference system for code.
func knownEPSG(code int) bool {
	return code > 0 && wgs84.EPSG().Code(code) != nil
}
