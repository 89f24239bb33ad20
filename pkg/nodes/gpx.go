package nodes

import (
	"encoding/xml"
	"io"

	"github.com/twpayne/go-gpx"
)

// WriteGPX writes the nodes as GPX waypoints at their original latitude and
// longitude, with the country as the waypoint type.
func WriteGPX(w io.Writer, nodes []*Node, creator string) error {
	g := &gpx.GPX{
		Version: "1.1",
		Creator: creator,
		Wpt:     make([]*gpx.WptType, len(nodes)),
	}
	for i, n := range nodes {
		g.Wpt[i] = &gpx.WptType{
			Lat:  n.Latitude,
			Lon:  n.Longitude,
			Name: n.Name,
			Type: n.Country,
		}
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	return g.WriteIndent(w, "", "  ")
}
