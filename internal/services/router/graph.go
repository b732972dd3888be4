package router

import (
	"github.com/gagliardetto/solana-go"

	"github.com/hxuan190/liquidity-router/internal/domain"
)

// TokenID is a compact integer identifier for tokens
type TokenID uint32

// TokenRegistry maps PublicKey to compact integer IDs for slice-indexed
// adjacency. It is filled once while a Graph is built and read-only after.
type TokenRegistry struct {
	toID   map[solana.PublicKey]TokenID
	toMint []solana.PublicKey
}

func NewTokenRegistry() *TokenRegistry {
	return &TokenRegistry{
		toID:   make(map[solana.PublicKey]TokenID),
		toMint: make([]solana.PublicKey, 0),
	}
}

// GetOrCreate returns the ID for a mint, creating one if it doesn't exist
func (r *TokenRegistry) GetOrCreate(mint solana.PublicKey) TokenID {
	if id, ok := r.toID[mint]; ok {
		return id
	}
	id := TokenID(len(r.toMint))
	r.toID[mint] = id
	r.toMint = append(r.toMint, mint)
	return id
}

func (r *TokenRegistry) GetID(mint solana.PublicKey) (TokenID, bool) {
	id, ok := r.toID[mint]
	return id, ok
}

func (r *TokenRegistry) GetMint(id TokenID) solana.PublicKey {
	if int(id) >= len(r.toMint) {
		return solana.PublicKey{}
	}
	return r.toMint[id]
}

func (r *TokenRegistry) Size() int {
	return len(r.toMint)
}

// Edge is one direction of one pool.
type Edge struct {
	PoolIndex int
	From      TokenID
	To        TokenID
	AToB      bool
}

// Graph is the directed token multigraph of a pool snapshot: every pool adds
// an A->B and a B->A edge. A Graph is immutable once built and is only valid
// for the snapshot it was built from.
type Graph struct {
	pools    []*domain.Pool
	registry *TokenRegistry
	adj      [][]Edge
	edges    int
}

func NewGraph(pools []*domain.Pool) *Graph {
	g := &Graph{
		pools:    pools,
		registry: NewTokenRegistry(),
	}
	for idx, pool := range pools {
		if pool == nil {
			continue
		}
		a := g.registry.GetOrCreate(pool.TokenA)
		b := g.registry.GetOrCreate(pool.TokenB)
		g.ensureCapacity(a, b)

		g.adj[a] = append(g.adj[a], Edge{PoolIndex: idx, From: a, To: b, AToB: true})
		g.adj[b] = append(g.adj[b], Edge{PoolIndex: idx, From: b, To: a, AToB: false})
		g.edges += 2
	}
	return g
}

func (g *Graph) ensureCapacity(ids ...TokenID) {
	for _, id := range ids {
		for int(id) >= len(g.adj) {
			g.adj = append(g.adj, nil)
		}
	}
}

func (g *Graph) Pools() []*domain.Pool {
	return g.pools
}

func (g *Graph) Pool(e Edge) *domain.Pool {
	return g.pools[e.PoolIndex]
}

func (g *Graph) Registry() *TokenRegistry {
	return g.registry
}

// Edges returns the outgoing edges of a token.
func (g *Graph) Edges(from TokenID) []Edge {
	if int(from) >= len(g.adj) {
		return nil
	}
	return g.adj[from]
}

func (g *Graph) EdgeCount() int {
	return g.edges
}

func (g *Graph) TokenCount() int {
	return g.registry.Size()
}
