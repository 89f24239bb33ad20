package nodes

import (
	"errors"
	"regexp"
	"strings"

	"github.com/ray1729/stations-for-rails/pkg/stations"
)

var whitespace = regexp.MustCompile(`\s+`)

// FormatName trims the name and replaces each run of whitespace with an
// underscore, giving a single token the renderer accepts as a node name.
func FormatName(name string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(name), "_")
}

type Node struct {
	Name      string
	Country   string
	Latitude  float64
	Longitude float64
	X         float64
	Y         float64
}

type CountryCase int

const (
	UpperCase CountryCase = iota
	RawCase
)

func (c CountryCase) Apply(country string) string {
	if c == UpperCase {
		return strings.ToUpper(country)
	}
	return country
}

var ErrEmptyName = errors.New("station name is empty")

// Tally counts unique nodes per country, remembering the order in which
// countries first appeared.
type Tally struct {
	order  []string
	counts map[string]int
}

func NewTally() *Tally {
	return &Tally{counts: make(map[string]int)}
}

func (t *Tally) Inc(country string) {
	if _, seen := t.counts[country]; !seen {
		t.order = append(t.order, country)
	}
	t.counts[country]++
}

func (t *Tally) Count(country string) int {
	return t.counts[country]
}

// Countries returns the countries in order of first appearance.
func (t *Tally) Countries() []string {
	return t.order
}

func (t *Tally) Total() int {
	var n int
	for _, c := range t.counts {
		n += c
	}
	return n
}

// Collection accumulates unique nodes in insertion order.
type Collection struct {
	nodes  []*Node
	byName map[string]*Node
	tally  *Tally
	casing CountryCase
}

func NewCollection(casing CountryCase) *Collection {
	return &Collection{
		byName: make(map[string]*Node),
		tally:  NewTally(),
		casing: casing,
	}
}

// Add inserts a node for the record unless a node with the same formatted
// name already exists, in which case it returns false and changes nothing.
// A record whose name is blank is rejected with ErrEmptyName.
func (c *Collection) Add(r *stations.Record, x, y float64) (bool, error) {
	name := FormatName(r.Name)
	if name == "" {
		return false, ErrEmptyName
	}
	if c.Has(name) {
		return false, nil
	}
	n := &Node{
		Name:      name,
		Country:   c.casing.Apply(r.Country),
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		X:         x,
		Y:         y,
	}
	c.nodes = append(c.nodes, n)
	c.byName[name] = n
	c.tally.Inc(n.Country)
	return true, nil
}

func (c *Collection) Has(name string) bool {
	_, ok := c.byName[name]
	return ok
}

func (c *Collection) Get(name string) (*Node, bool) {
	n, ok := c.byName[name]
	return n, ok
}

func (c *Collection) Nodes() []*Node {
	return c.nodes
}

func (c *Collection) Len() int {
	return len(c.nodes)
}

func (c *Collection) Tally() *Tally {
	return c.tally
}
