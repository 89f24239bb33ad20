package stations

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sample = "\xef\xbb\xbfid;name;country;latitude;longitude;is_city;is_main_station;is_airport\n" +
	"1;Paris Nord;FR;48.8809;2.3553;t;t;f\n" +
	"2;  Berlin   Hbf ;de;52.5251;13.3694;t;t;t\n" +
	"3;Nowhere;GB;;;;;\n"

func TestRead(t *testing.T) {
	records, err := Read(strings.NewReader(sample), DefaultDialect, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	r := records[1]
	if r.Name != "  Berlin   Hbf " || r.Country != "de" || r.Latitude != 52.5251 || r.Longitude != 13.3694 {
		t.Errorf("unexpected record %+v", r)
	}
	if r.Row != 3 {
		t.Errorf("row = %d, want 3", r.Row)
	}
	if records[2].Latitude != 0 || records[2].Longitude != 0 {
		t.Errorf("empty coordinates should read as zero, got %+v", records[2])
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		requireFlags bool
		wantColumn   bool
		wantRow      int
	}{
		{
			name:       "missing required column",
			input:      "name;country;latitude\nA;FR;1\n",
			wantColumn: true,
		},
		{
			name:         "missing flag column",
			input:        "name;country;latitude;longitude\nA;FR;1;2\n",
			requireFlags: true,
			wantColumn:   true,
		},
		{
			name:    "non-numeric latitude",
			input:   "name;country;latitude;longitude\nA;FR;1;2\nB;FR;north;2\n",
			wantRow: 3,
		},
		{
			name:  "short row",
			input: "name;country;latitude;longitude\nA;FR;1\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input), DefaultDialect, tt.requireFlags)
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := errors.Is(err, ErrMissingColumn); got != tt.wantColumn {
				t.Errorf("errors.Is(err, ErrMissingColumn) = %v, want %v (err: %v)", got, tt.wantColumn, err)
			}
			var rowErr *RowError
			if tt.wantRow != 0 {
				if !errors.As(err, &rowErr) || rowErr.Row != tt.wantRow {
					t.Errorf("expected a RowError for row %d, got %v", tt.wantRow, err)
				}
			}
		})
	}
}

func TestReadEmpty(t *testing.T) {
	for _, input := range []string{"", "name;country;latitude;longitude\n"} {
		records, err := Read(strings.NewReader(input), DefaultDialect, false)
		if err != nil {
			t.Errorf("Read(%q) error = %v", input, err)
		}
		if len(records) != 0 {
			t.Errorf("Read(%q) returned %d records", input, len(records))
		}
	}
}

func TestCommaDialect(t *testing.T) {
	input := "name,country,latitude,longitude\n\"Lyon, Part-Dieu\",FR,45.76,4.86\n"
	records, err := Read(strings.NewReader(input), Dialect{Comma: ','}, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Name != "Lyon, Part-Dieu" {
		t.Errorf("unexpected records %+v", records)
	}
}

func TestFilters(t *testing.T) {
	records, err := Read(strings.NewReader(sample), DefaultDialect, true)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name    string
		filters []Filter
		want    []string
	}{
		{"none", nil, []string{"FR", "de", "GB"}},
		{"countries", []Filter{FilterCountries("fr", "DE")}, []string{"FR", "de"}},
		{"no countries", []Filter{FilterCountries()}, []string{"FR", "de", "GB"}},
		{"flags", []Filter{FilterStationFlags(false)}, []string{"FR", "de"}},
		{"not flags", []Filter{FilterStationFlags(false).Complement()}, []string{"GB"}},
		{"strict flags", []Filter{FilterStationFlags(true)}, []string{"de"}},
		{"not countries", []Filter{FilterCountries("de").Complement()}, []string{"FR", "GB"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, r := range records {
				if Wanted(r, tt.filters...) {
					got = append(got, r.Country)
				}
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		cell   string
		want   bool
		strict bool
	}{
		{"", false, false},
		{" ", false, false},
		{"f", true, false},
		{"FALSE", true, false},
		{"0", true, false},
		{"no", true, false},
		{"t", true, true},
		{"true", true, true},
		{"1", true, true},
		{"yes", true, true},
	}
	for _, tt := range tests {
		if got := Truthy(tt.cell); got != tt.want {
			t.Errorf("Truthy(%q) = %v, want %v", tt.cell, got, tt.want)
		}
		if got := StrictTruthy(tt.cell); got != tt.strict {
			t.Errorf("StrictTruthy(%q) = %v, want %v", tt.cell, got, tt.strict)
		}
	}
}

func TestRowIsStartLineOfRecord(t *testing.T) {
	input := "name;country;latitude;longitude\n" +
		"\"Gare\nde Lyon\";FR;48.84;2.37\n" +
		"B;FR;north;2\n"
	_, err := Read(strings.NewReader(input), DefaultDialect, false)
	var rowErr *RowError
	if !errors.As(err, &rowErr) {
		t.Fatalf("expected a RowError, got %v", err)
	}
	if rowErr.Row != 4 {
		t.Errorf("row = %d, want 4", rowErr.Row)
	}

	records, err := Read(strings.NewReader(strings.Replace(input, "north", "48.5", 1)), DefaultDialect, false)
	if err != nil {
		t.Fatal(err)
	}
	if records[0].Row != 2 || records[1].Row != 4 {
		t.Errorf("rows = %d, %d, want 2, 4", records[0].Row, records[1].Row)
	}
}

func TestSortByCountryIsStable(t *testing.T) {
	records := []*Record{
		{Name: "a", Country: "DE"},
		{Name: "b", Country: "FR"},
		{Name: "c", Country: "DE"},
		{Name: "d", Country: "AT"},
		{Name: "e", Country: "FR"},
	}
	SortByCountry(records)
	var got []string
	for _, r := range records {
		got = append(got, r.Name)
	}
	if strings.Join(got, "") != "dacbe" {
		t.Errorf("sorted order %v", got)
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadFile(filepath.Join(dir, "stations.csv"), DefaultDialect, false)
	if err == nil || !strings.Contains(err.Error(), "stations.csv") {
		t.Errorf("expected error naming the missing file, got %v", err)
	}

	zipName := filepath.Join(dir, "stations.zip")
	f, err := os.Create(zipName)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	for _, name := range []string{"DATA/a.csv", "README.txt", "DATA/b.csv"} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		w.Write([]byte(sample))
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	records, err := ReadFile(zipName, DefaultDialect, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 6 {
		t.Errorf("got %d records from zip, want 6", len(records))
	}
}
