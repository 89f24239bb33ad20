package stations

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Record is a single row of the stations table.
type Record struct {
	Name          string
	Country       string
	Latitude      float64
	Longitude     float64
	IsCity        string
	IsMainStation string
	IsAirport     string
	// Row is the 1-based line on which the record starts, header included.
	Row int
}

// Dialect describes how the stations table is delimited.
type Dialect struct {
	Comma      rune
	Comment    rune
	LazyQuotes bool
}

// DefaultDialect matches the semicolon separated stations.csv published by Trainline.
var DefaultDialect = Dialect{Comma: ';'}

const (
	ColName          = "name"
	ColCountry       = "country"
	ColLatitude      = "latitude"
	ColLongitude     = "longitude"
	ColIsCity        = "is_city"
	ColIsMainStation = "is_main_station"
	ColIsAirport     = "is_airport"
)

var requiredColumns = []string{ColName, ColCountry, ColLatitude, ColLongitude}

var flagColumns = []string{ColIsCity, ColIsMainStation, ColIsAirport}

var ErrMissingColumn = errors.New("missing column")

// RowError reports a row that could not be turned into a Record.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

type Scanner struct {
	csvReader  *csv.Reader
	columns    map[string]int
	row        int
	nextRecord *Record
	err        error
}

// NewScanner reads the header row from r and returns a scanner over the
// remaining rows. The flag columns are only required when requireFlags is set.
// An empty input yields a scanner with no records.
func NewScanner(r io.Reader, d Dialect, requireFlags bool) (*Scanner, error) {
	br := bufio.NewReader(r)
	err := skipBOM(br)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(br)
	if d.Comma != 0 {
		cr.Comma = d.Comma
	}
	cr.Comment = d.Comment
	cr.LazyQuotes = d.LazyQuotes
	cr.ReuseRecord = true

	s := &Scanner{csvReader: cr, columns: make(map[string]int)}
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			s.err = io.EOF
			return s, nil
		}
		return nil, fmt.Errorf("error reading header: %v", err)
	}
	s.row, _ = cr.FieldPos(0)
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		if _, seen := s.columns[h]; !seen {
			s.columns[h] = i
		}
	}
	wanted := requiredColumns
	if requireFlags {
		wanted = append(append([]string{}, requiredColumns...), flagColumns...)
	}
	for _, c := range wanted {
		if _, ok := s.columns[c]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
	}
	return s, nil
}

var BOM = [3]byte{0xef, 0xbb, 0xbf}

func skipBOM(br *bufio.Reader) error {
	xs, err := br.Peek(3)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	if xs[0] == BOM[0] && xs[1] == BOM[1] && xs[2] == BOM[2] {
		br.Discard(3)
	}
	return nil
}

func (s *Scanner) Scan() bool {
	if s.err != nil {
		return false
	}
	rawRecord, err := s.csvReader.Read()
	if err != nil {
		s.err = err
		return false
	}
	s.row, _ = s.csvReader.FieldPos(0)
	s.nextRecord, err = s.parseRecord(rawRecord)
	if err != nil {
		s.err = &RowError{Row: s.row, Err: err}
		return false
	}
	return true
}

// Err returns the first error that stopped the scan, or nil at end of input.
func (s *Scanner) Err() error {
	if errors.Is(s.err, io.EOF) {
		return nil
	}
	return s.err
}

func (s *Scanner) Record() *Record {
	return s.nextRecord
}

func (s *Scanner) field(xs []string, name string) string {
	i, ok := s.columns[name]
	if !ok || i >= len(xs) {
		return ""
	}
	return xs[i]
}

func (s *Scanner) parseRecord(xs []string) (*Record, error) {
	record := Record{
		Name:          s.field(xs, ColName),
		Country:       s.field(xs, ColCountry),
		IsCity:        s.field(xs, ColIsCity),
		IsMainStation: s.field(xs, ColIsMainStation),
		IsAirport:     s.field(xs, ColIsAirport),
		Row:           s.row,
	}
	for _, c := range []struct {
		name string
		p    *float64
	}{{ColLatitude, &record.Latitude}, {ColLongitude, &record.Longitude}} {
		// Stations without known coordinates are kept at 0.
		v := strings.TrimSpace(s.field(xs, c.name))
		if v == "" {
			continue
		}
		var err error
		*c.p, err = strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q", c.name, v)
		}
	}
	return &record, nil
}

// Truthy reports whether a flag cell counts as set, which is anything but
// an empty cell. A cell holding "f" is set.
func Truthy(s string) bool {
	return strings.TrimSpace(s) != ""
}

// StrictTruthy is Truthy, except that the usual spellings of false
// (f, false, 0, n, no) also count as unset.
func StrictTruthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "f", "false", "0", "n", "no":
		return false
	}
	return true
}
