package pipeline

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/ray1729/stations-for-rails/pkg/nodes"
	"github.com/ray1729/stations-for-rails/pkg/projection"
	"github.com/ray1729/stations-for-rails/pkg/stations"
)

const (
	StageProcess   = "Processing Stations"
	StageNormalize = "Normalizing Nodes Positions"
	StageNodes     = "Writing Nodes"
	StagePositions = "Writing Nodes Positions"
)

// Observer is told how far each stage of a run has got.
type Observer interface {
	Progress(stage string, current, total int)
	Done(stage string)
}

type discard struct{}

func (discard) Progress(string, int, int) {}
func (discard) Done(string)               {}

// Discard is an Observer that ignores progress.
var Discard Observer = discard{}

type Options struct {
	Input         string
	NodesFile     string
	PositionsFile string
	// GPXFile is optional; no GPX is written when it is empty.
	GPXFile   string
	Dialect   stations.Dialect
	Countries []string
	// ExcludeCountries turns Countries into a deny-list.
	ExcludeCountries bool
	// RequireFlags drops stations that are not flagged as city, main
	// station and airport. Only an empty cell is unset unless StrictFlags
	// is also given.
	RequireFlags  bool
	StrictFlags   bool
	CountryCase   nodes.CountryCase
	Projector     projection.Projector
	Normalize     bool
	MinSeparation float64
}

type Result struct {
	Nodes *nodes.Collection
	// Blank counts stations dropped because their name is empty.
	Blank      int
	Normalized bool
	MinX       float64
	MinY       float64
	Crowded    []nodes.Pair
}

// Run reads the stations table and writes the node and position files
// described by opts.
func Run(opts Options, obs Observer) (*Result, error) {
	if obs == nil {
		obs = Discard
	}
	if opts.Projector == nil {
		return nil, errors.New("no projection configured")
	}
	log.Printf("Reading stations from %s", opts.Input)
	records, err := stations.ReadFile(opts.Input, opts.Dialect, opts.RequireFlags)
	if err != nil {
		return nil, err
	}
	res, err := Build(records, opts, obs)
	if err != nil {
		return nil, err
	}
	if err := Write(res, opts, obs); err != nil {
		return nil, err
	}
	return res, nil
}

// Build filters, deduplicates and positions the records, normalizing the
// positions if requested. The records are sorted by country in place.
func Build(records []*stations.Record, opts Options, obs Observer) (*Result, error) {
	if obs == nil {
		obs = Discard
	}
	var filters []stations.Filter
	if f := stations.FilterCountries(opts.Countries...); f != nil {
		if opts.ExcludeCountries {
			f = f.Complement()
		}
		filters = append(filters, f)
	}
	if opts.RequireFlags {
		filters = append(filters, stations.FilterStationFlags(opts.StrictFlags))
	}
	stations.SortByCountry(records)

	res := &Result{Nodes: nodes.NewCollection(opts.CountryCase)}
	for i, r := range records {
		obs.Progress(StageProcess, i+1, len(records))
		if !stations.Wanted(r, filters...) {
			continue
		}
		name := nodes.FormatName(r.Name)
		if name == "" {
			res.Blank++
			continue
		}
		if res.Nodes.Has(name) {
			continue
		}
		x, y, err := opts.Projector.Project(r.Latitude, r.Longitude)
		if err != nil {
			return nil, &stations.RowError{Row: r.Row, Err: err}
		}
		if _, err := res.Nodes.Add(r, x, y); err != nil {
			return nil, err
		}
	}
	obs.Done(StageProcess)

	if opts.Normalize {
		res.MinX, res.MinY, res.Normalized = nodes.Normalize(res.Nodes.Nodes())
		if res.Normalized {
			log.Printf("Normalized min values: [%s, %s]", nodes.FormatCoord(res.MinX), nodes.FormatCoord(res.MinY))
		} else {
			log.Printf("No station has a non-zero position, positions left as they are")
		}
		obs.Progress(StageNormalize, res.Nodes.Len(), res.Nodes.Len())
		obs.Done(StageNormalize)
	}
	if opts.MinSeparation > 0 {
		res.Crowded = nodes.FindCrowded(res.Nodes.Nodes(), opts.MinSeparation)
	}
	return res, nil
}

// Write produces the output files for a built result.
func Write(res *Result, opts Options, obs Observer) error {
	if obs == nil {
		obs = Discard
	}
	ns := res.Nodes.Nodes()
	err := nodes.WriteFile(opts.NodesFile, func(w io.Writer) error {
		return nodes.WriteNodes(w, ns, progress(StageNodes, len(ns), obs))
	})
	if err != nil {
		return err
	}
	obs.Done(StageNodes)
	err = nodes.WriteFile(opts.PositionsFile, func(w io.Writer) error {
		return nodes.WritePositions(w, ns, progress(StagePositions, len(ns), obs))
	})
	if err != nil {
		return err
	}
	obs.Done(StagePositions)
	if opts.GPXFile != "" {
		err = nodes.WriteFile(opts.GPXFile, func(w io.Writer) error {
			return nodes.WriteGPX(w, ns, "stations-for-rails")
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func progress(stage string, total int, obs Observer) nodes.Progress {
	return func(written int) {
		obs.Progress(stage, written, total)
	}
}

// WriteSummary prints the per-country counts and totals of a run. Nothing
// is written until the whole summary is assembled.
func (r *Result) WriteSummary(w io.Writer, files ...string) error {
	tally := r.Nodes.Tally()
	var b strings.Builder
	b.WriteString("Unique station counts by country:\n")
	for _, country := range tally.Countries() {
		fmt.Fprintf(&b, "%s: %d station(s)\n", country, tally.Count(country))
	}
	if r.Blank > 0 {
		fmt.Fprintf(&b, "Skipped %d station(s) with a blank name\n", r.Blank)
	}
	for _, p := range r.Crowded {
		fmt.Fprintf(&b, "%s and %s are only %s apart\n", p.A.Name, p.B.Name, nodes.FormatCoord(p.Distance))
	}
	if len(files) > 0 {
		b.WriteString("Done, check out " + strings.Join(files, " & ") + "\n")
	}
	fmt.Fprintf(&b, "\tFinished totaling %d stations\n", r.Nodes.Len())
	fmt.Fprintf(&b, "\tFinished totaling %d countries\n", len(tally.Countries()))
	_, err := io.WriteString(w, b.String())
	return err
}
