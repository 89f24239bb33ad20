package nodes

// Normalize shifts and flips node positions so that the smallest x and y of
// the positioned nodes end up at the origin, with y growing downwards as the
// renderer expects.
//
// Nodes with either coordinate exactly zero (usually stations with unknown
// coordinates) are left out when the minimum is computed, but are still
// shifted and flipped along with every other node.
//
// It returns the minimum values used, and false without touching any node
// when no node has both coordinates non-zero.
func Normalize(nodes []*Node) (minX, minY float64, ok bool) {
	for _, n := range nodes {
		if n.X == 0 || n.Y == 0 {
			continue
		}
		if !ok || n.X < minX {
			minX = n.X
		}
		if !ok || n.Y < minY {
			minY = n.Y
		}
		ok = true
	}
	if !ok {
		return 0, 0, false
	}
	for _, n := range nodes {
		n.X -= minX
		n.Y = -n.Y + minY
	}
	return minX, minY, true
}
