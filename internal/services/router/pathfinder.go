package router

import (
	"github.com/gagliardetto/solana-go"
)

const (
	MinHops = 1
	MaxHops = 3
)

// ValidateMaxHops rejects hop bounds outside [MinHops, MaxHops].
func ValidateMaxHops(maxHops int) error {
	if maxHops < MinHops || maxHops > MaxHops {
		return ErrConfig
	}
	return nil
}

// pathState is one BFS frontier entry: the token reached and the edges taken.
type pathState struct {
	token TokenID
	path  []Edge
}

// visited reports whether token is the start of p or already reached by p.
func (s pathState) visited(start, token TokenID) bool {
	if token == start {
		return true
	}
	for _, e := range s.path {
		if e.To == token {
			return true
		}
	}
	return false
}

// FindPaths enumerates every simple path from one token to another with at
// most maxHops edges, in breadth-first order. A token never repeats within a
// path; different paths may share tokens.
func (g *Graph) FindPaths(from, to solana.PublicKey, maxHops int) [][]Edge {
	start, ok := g.registry.GetID(from)
	if !ok {
		return nil
	}
	dest, ok := g.registry.GetID(to)
	if !ok {
		return nil
	}

	var paths [][]Edge
	queue := []pathState{{token: start}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.token == dest && len(cur.path) > 0 {
			paths = append(paths, cur.path)
			continue
		}
		if len(cur.path) >= maxHops {
			continue
		}

		for _, e := range g.Edges(cur.token) {
			if cur.visited(start, e.To) {
				continue
			}
			// copy so sibling branches never share a backing array
			next := make([]Edge, len(cur.path)+1)
			copy(next, cur.path)
			next[len(cur.path)] = e
			queue = append(queue, pathState{token: e.To, path: next})
		}
	}
	return paths
}
