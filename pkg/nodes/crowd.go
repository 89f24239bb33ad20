package nodes

import (
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"
)

// Pair is two nodes placed closer together than the requested separation.
type Pair struct {
	A        *Node
	B        *Node
	Distance float64
}

type spatialNode struct {
	index  int
	node   *Node
	bounds *rtreego.Rect
}

func (s *spatialNode) Bounds() *rtreego.Rect {
	return s.bounds
}

// FindCrowded returns every pair of nodes whose positions are less than
// minSeparation apart, ordered by the position of the nodes in the input.
func FindCrowded(nodes []*Node, minSeparation float64) []Pair {
	if minSeparation <= 0 || len(nodes) < 2 {
		return nil
	}
	objs := make([]rtreego.Spatial, len(nodes))
	items := make([]*spatialNode, len(nodes))
	for i, n := range nodes {
		p := rtreego.Point{n.X, n.Y}
		items[i] = &spatialNode{index: i, node: n, bounds: p.ToRect(minSeparation / 2)}
		objs[i] = items[i]
	}
	rt := rtreego.NewTree(2, 25, 50, objs...)

	var pairs []Pair
	for _, a := range items {
		var found []*spatialNode
		for _, obj := range rt.SearchIntersect(a.bounds) {
			b := obj.(*spatialNode)
			if b.index <= a.index {
				continue
			}
			found = append(found, b)
		}
		sort.Slice(found, func(i, j int) bool {
			return found[i].index < found[j].index
		})
		for _, b := range found {
			d := math.Hypot(a.node.X-b.node.X, a.node.Y-b.node.Y)
			if d < minSeparation {
				pairs = append(pairs, Pair{A: a.node, B: b.node, Distance: d})
			}
		}
	}
	return pairs
}
