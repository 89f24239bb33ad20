package config

import (
	"fmt"
	"os"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/ray1729/stations-for-rails/pkg/projection"
)

type Config struct {
	Input     string       `yaml:"input"`
	Nodes     string       `yaml:"nodes"`
	Positions string       `yaml:"positions"`
	GPX       string       `yaml:"gpx"`
	CSV       CSVConfig    `yaml:"csv"`
	Plane     PlaneConfig  `yaml:"plane"`
	Degrees   DegreeConfig `yaml:"degrees"`
	// MinSeparation reports node pairs placed closer than this; 0 disables
	// the check.
	MinSeparation float64 `yaml:"min_separation"`
}

type CSVConfig struct {
	Comma      string `yaml:"comma"`
	Comment    string `yaml:"comment"`
	LazyQuotes bool   `yaml:"lazy_quotes"`
}

type PlaneConfig struct {
	Projection   string  `yaml:"projection"`
	Scale        float64 `yaml:"scale"`
	RefLat       float64 `yaml:"ref_lat"`
	RefLon       float64 `yaml:"ref_lon"`
	Normalize    bool    `yaml:"normalize"`
	RequireFlags bool    `yaml:"require_flags"`
	// StrictFlags also reads f, false, 0, n and no as an unset flag.
	StrictFlags bool     `yaml:"strict_flags"`
	Countries   []string `yaml:"countries"`
	// ExcludeCountries drops the listed countries instead of keeping them.
	ExcludeCountries bool `yaml:"exclude_countries"`
}

type DegreeConfig struct {
	LatScale float64 `yaml:"lat_scale"`
	LonScale float64 `yaml:"lon_scale"`
}

func Default() *Config {
	return &Config{
		Input:     "stations.csv",
		Nodes:     "nodes.txt",
		Positions: "positions.txt",
		CSV:       CSVConfig{Comma: ";"},
		Plane: PlaneConfig{
			Projection:   "plane",
			Scale:        projection.DefaultScale,
			RequireFlags: true,
		},
		Degrees: DegreeConfig{
			LatScale: projection.DefaultScale,
			LonScale: projection.DefaultScale,
		},
	}
}

// Load reads the YAML file at path over the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening %s for reading: %v", path, err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("error parsing %s: %v", path, err)
	}
	if _, err := ParseRune(cfg.CSV.Comma); err != nil {
		return nil, fmt.Errorf("error parsing %s: csv.comma: %v", path, err)
	}
	if _, err := ParseRune(cfg.CSV.Comment); err != nil {
		return nil, fmt.Errorf("error parsing %s: csv.comment: %v", path, err)
	}
	return cfg, nil
}

// ParseRune returns the single character in s, or 0 when s is empty.
// The word "tab" stands for a tab character.
func ParseRune(s string) (rune, error) {
	if s == "" {
		return 0, nil
	}
	if s == "tab" || s == `\t` {
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("expected a single character, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

// Projector builds the projection for the plane command.
func (c PlaneConfig) Projector() (projection.Projector, error) {
	p, err := projection.Parse(c.Projection, c.Scale)
	if err != nil {
		return nil, err
	}
	if planar, ok := p.(projection.Planar); ok {
		planar.RefLat = c.RefLat
		planar.RefLon = c.RefLon
		return planar, nil
	}
	return p, nil
}

func (c DegreeConfig) Projector() projection.Projector {
	return projection.Degrees{LatScale: c.LatScale, LonScale: c.LonScale}
}
