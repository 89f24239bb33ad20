package stations

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"
)

type Filter func(*Record) bool

func (f Filter) Complement() Filter {
	return func(r *Record) bool {
		return !f(r)
	}
}

// FilterCountries keeps records whose country, compared case-insensitively,
// is one of codes. It returns nil when codes is empty.
func FilterCountries(codes ...string) Filter {
	if len(codes) == 0 {
		return nil
	}
	wanted := make(map[string]bool, len(codes))
	for _, c := range codes {
		wanted[strings.ToUpper(c)] = true
	}
	return func(r *Record) bool {
		return wanted[strings.ToUpper(r.Country)]
	}
}

// FilterStationFlags keeps records flagged as city, main station and
// airport. Only empty cells count as unset unless strict is given, in which
// case StrictTruthy decides.
func FilterStationFlags(strict bool) Filter {
	set := Truthy
	if strict {
		set = StrictTruthy
	}
	return func(r *Record) bool {
		return set(r.IsCity) && set(r.IsMainStation) && set(r.IsAirport)
	}
}

func Wanted(r *Record, filters ...Filter) bool {
	for _, f := range filters {
		if f != nil && !f(r) {
			return false
		}
	}
	return true
}

// SortByCountry orders records by country, keeping the original order of
// records from the same country.
func SortByCountry(records []*Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Country < records[j].Country
	})
}

// Read returns every record of the table read from r.
func Read(r io.Reader, d Dialect, requireFlags bool) ([]*Record, error) {
	s, err := NewScanner(r, d, requireFlags)
	if err != nil {
		return nil, err
	}
	var records []*Record
	for s.Scan() {
		records = append(records, s.Record())
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// ReadFile reads the stations table from filename. A .zip archive is read
// member by member, taking every .csv file it contains in archive order.
func ReadFile(filename string, d Dialect, requireFlags bool) ([]*Record, error) {
	if strings.EqualFold(path.Ext(filename), ".zip") {
		return readZip(filename, d, requireFlags)
	}
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("error opening %s for reading: %v", filename, err)
	}
	defer f.Close()
	records, err := Read(f, d, requireFlags)
	if err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", filename, err)
	}
	return records, nil
}

func readZip(filename string, d Dialect, requireFlags bool) ([]*Record, error) {
	r, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("error opening %s for reading: %v", filename, err)
	}
	defer r.Close()

	var records []*Record
	for _, f := range r.File {
		if !strings.HasSuffix(strings.ToLower(f.Name), ".csv") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("error opening %s: %v", f.Name, err)
		}
		xs, err := Read(rc, d, requireFlags)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("error parsing %s: %w", f.Name, err)
		}
		records = append(records, xs...)
	}
	return records, nil
}
