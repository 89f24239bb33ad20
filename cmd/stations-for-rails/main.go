package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/ray1729/stations-for-rails/pkg/config"
	"github.com/ray1729/stations-for-rails/pkg/nodes"
	"github.com/ray1729/stations-for-rails/pkg/pipeline"
	"github.com/ray1729/stations-for-rails/pkg/projection"
	"github.com/ray1729/stations-for-rails/pkg/stations"
)

var sharedFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Read settings from the YAML file `FILE`",
	},
	&cli.StringFlag{
		Name:    "input",
		Aliases: []string{"i"},
		Usage:   "Stations table to read (CSV, or a zip archive of CSV files)",
		Value:   "stations.csv",
	},
	&cli.StringFlag{
		Name:  "nodes",
		Usage: "File to write node names to",
		Value: "nodes.txt",
	},
	&cli.StringFlag{
		Name:  "positions",
		Usage: "File to write node positions to",
		Value: "positions.txt",
	},
	&cli.StringFlag{
		Name:  "gpx",
		Usage: "Also write the stations as GPX waypoints to `FILE`",
	},
	&cli.StringFlag{
		Name:  "comma",
		Usage: "Field delimiter of the stations table",
		Value: ";",
	},
	&cli.Float64Flag{
		Name:  "min-separation",
		Usage: "Report nodes placed closer together than `DIST`",
	},
	&cli.BoolFlag{
		Name:    "quiet",
		Aliases: []string{"q"},
		Usage:   "Do not show progress bars",
	},
}

var planeFlags = []cli.Flag{
	&cli.BoolFlag{
		Name:    "normalize",
		Aliases: []string{"n"},
		Usage:   "Normalize the positions",
	},
	&cli.StringFlag{
		Name:  "projection",
		Usage: "Projection to use: plane, osgb or epsg:CODE",
		Value: "plane",
	},
	&cli.Float64Flag{
		Name:  "scale",
		Usage: "Scaling factor, big factors separate the nodes more",
		Value: projection.DefaultScale,
	},
	&cli.BoolFlag{
		Name:  "all",
		Usage: "Keep stations that are not flagged as city, main station and airport",
	},
	&cli.BoolFlag{
		Name:  "strict-flags",
		Usage: "Also treat f, false, 0, n and no as an unset station flag",
	},
	&cli.BoolFlag{
		Name:    "exclude",
		Aliases: []string{"x"},
		Usage:   "Drop the given countries instead of keeping them",
	},
}

var degreesFlags = []cli.Flag{
	&cli.Float64Flag{
		Name:  "lat-scale",
		Usage: "Scaling factor for latitude",
		Value: projection.DefaultScale,
	},
	&cli.Float64Flag{
		Name:  "lon-scale",
		Usage: "Scaling factor for longitude",
		Value: projection.DefaultScale,
	},
}

func main() {
	log.SetFlags(0)
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "stations-for-rails",
		Usage:     "Generate node and position files for cpp_on_rails from a stations table",
		ArgsUsage: "[COUNTRY...] (flags go before the countries)",
		Flags:     append(append([]cli.Flag{}, sharedFlags...), planeFlags...),
		Action:    planeAction,
		Commands: []*cli.Command{
			{
				Name:      "plane",
				Usage:     "Project stations onto a plane, keeping only the given countries",
				ArgsUsage: "[COUNTRY...] (flags go before the countries)",
				Flags:     append(append([]cli.Flag{}, sharedFlags...), planeFlags...),
				Action:    planeAction,
			},
			{
				Name:   "degrees",
				Usage:  "Use scaled latitude and longitude as positions",
				Flags:  append(append([]cli.Flag{}, sharedFlags...), degreesFlags...),
				Action: degreesAction,
			},
		},
	}
}

func planeAction(c *cli.Context) error {
	countries, err := countryArgs(c.Args().Slice())
	if err != nil {
		return err
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet("normalize") {
		cfg.Plane.Normalize = c.Bool("normalize")
	}
	if c.IsSet("projection") {
		cfg.Plane.Projection = c.String("projection")
	}
	if c.IsSet("scale") {
		cfg.Plane.Scale = c.Float64("scale")
	}
	if c.IsSet("all") {
		cfg.Plane.RequireFlags = !c.Bool("all")
	}
	if c.IsSet("strict-flags") {
		cfg.Plane.StrictFlags = c.Bool("strict-flags")
	}
	if c.IsSet("exclude") {
		cfg.Plane.ExcludeCountries = c.Bool("exclude")
	}
	if len(countries) > 0 {
		cfg.Plane.Countries = countries
	}
	proj, err := cfg.Plane.Projector()
	if err != nil {
		return err
	}
	opts, err := options(cfg)
	if err != nil {
		return err
	}
	opts.Countries = cfg.Plane.Countries
	opts.ExcludeCountries = cfg.Plane.ExcludeCountries
	opts.RequireFlags = cfg.Plane.RequireFlags
	opts.StrictFlags = cfg.Plane.StrictFlags
	opts.CountryCase = nodes.UpperCase
	opts.Projector = proj
	opts.Normalize = cfg.Plane.Normalize
	return run(c, cfg, opts)
}

// countryArgs returns the positional country codes. Flag parsing stops at
// the first country, so anything after it that looks like a flag is an
// error rather than a country code.
func countryArgs(args []string) ([]string, error) {
	for _, a := range args {
		if strings.HasPrefix(a, "-") {
			return nil, fmt.Errorf("flag %s given after the country codes, flags must come first", a)
		}
	}
	return args, nil
}

func degreesAction(c *cli.Context) error {
	if c.Args().Present() {
		return cli.Exit("degrees takes no arguments", 2)
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet("lat-scale") {
		cfg.Degrees.LatScale = c.Float64("lat-scale")
	}
	if c.IsSet("lon-scale") {
		cfg.Degrees.LonScale = c.Float64("lon-scale")
	}
	opts, err := options(cfg)
	if err != nil {
		return err
	}
	opts.CountryCase = nodes.RawCase
	opts.Projector = cfg.Degrees.Projector()
	return run(c, cfg, opts)
}

// loadConfig applies the config file, if any, and then the shared flags.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if name := c.String("config"); name != "" {
		var err error
		cfg, err = config.Load(name)
		if err != nil {
			return nil, err
		}
	}
	if c.IsSet("input") {
		cfg.Input = c.String("input")
	}
	if c.IsSet("nodes") {
		cfg.Nodes = c.String("nodes")
	}
	if c.IsSet("positions") {
		cfg.Positions = c.String("positions")
	}
	if c.IsSet("gpx") {
		cfg.GPX = c.String("gpx")
	}
	if c.IsSet("comma") {
		cfg.CSV.Comma = c.String("comma")
	}
	if c.IsSet("min-separation") {
		cfg.MinSeparation = c.Float64("min-separation")
	}
	return cfg, nil
}

func options(cfg *config.Config) (pipeline.Options, error) {
	comma, err := config.ParseRune(cfg.CSV.Comma)
	if err != nil {
		return pipeline.Options{}, fmt.Errorf("invalid delimiter: %v", err)
	}
	comment, err := config.ParseRune(cfg.CSV.Comment)
	if err != nil {
		return pipeline.Options{}, fmt.Errorf("invalid comment character: %v", err)
	}
	return pipeline.Options{
		Input:         cfg.Input,
		NodesFile:     cfg.Nodes,
		PositionsFile: cfg.Positions,
		GPXFile:       cfg.GPX,
		Dialect: stations.Dialect{
			Comma:      comma,
			Comment:    comment,
			LazyQuotes: cfg.CSV.LazyQuotes,
		},
		MinSeparation: cfg.MinSeparation,
	}, nil
}

func run(c *cli.Context, cfg *config.Config, opts pipeline.Options) error {
	var obs pipeline.Observer = pipeline.Discard
	if !c.Bool("quiet") {
		obs = newProgressBar(os.Stderr)
	}
	fmt.Println("Starting data scraping!")
	res, err := pipeline.Run(opts, obs)
	if err != nil {
		return err
	}
	files := []string{cfg.Nodes, cfg.Positions}
	if cfg.GPX != "" {
		files = append(files, cfg.GPX)
	}
	return res.WriteSummary(os.Stdout, files...)
}
