// Package graph implements the directed capacitated flow network the
// solver operates on. Vertices are identified by name; each ordered
// vertex pair carries at most one edge, indexed for constant-time
// residual lookup.
package graph

import (
	"flownet/pkg/apperror"
)

// Vertex is a named node of the network. Edges holds every edge incident
// to the vertex, outgoing and incoming together; direction is determined
// per edge by comparing endpoints.
type Vertex struct {
	Name  string
	Edges []*Edge
}

// Edge is a directed capacitated connection between two vertices.
// Capacity is the remaining capacity and decreases as flow is pushed;
// OriginalCapacity keeps the value the edge was created with.
type Edge struct {
	From             *Vertex
	To               *Vertex
	Capacity         float64
	OriginalCapacity float64
	Payload          any
	IsResidual       bool
}

// Flow returns the flow currently assigned to the edge.
func (e *Edge) Flow() float64 {
	return e.OriginalCapacity - e.Capacity
}

// Network is a directed flow network.
type Network struct {
	vertices []*Vertex
	members  map[*Vertex]bool
	pairs    map[*Vertex]map[*Vertex]*Edge
	byName   map[string][]*Vertex
}

// NewNetwork creates an empty network.
func NewNetwork() *Network {
	return &Network{
		members: make(map[*Vertex]bool),
		pairs:   make(map[*Vertex]map[*Vertex]*Edge),
		byName:  make(map[string][]*Vertex),
	}
}

// AddVertex adds a vertex with the given name and returns it.
// Duplicate names are permitted at insertion; VertexByName reports them.
func (n *Network) AddVertex(name string) *Vertex {
	v := &Vertex{Name: name}
	n.vertices = append(n.vertices, v)
	n.members[v] = true
	n.byName[name] = append(n.byName[name], v)
	return v
}

// Contains reports whether the vertex belongs to the network.
func (n *Network) Contains(v *Vertex) bool {
	return n.members[v]
}

// InsertEdge adds a directed edge from one vertex to another. Negative
// capacities are rejected. When an edge for the ordered pair already
// exists, the capacity accumulates onto it and the existing edge is
// returned.
func (n *Network) InsertEdge(from, to *Vertex, capacity float64, payload any) (*Edge, error) {
	if from == nil || to == nil {
		return nil, apperror.New(apperror.CodeNilInput, "edge endpoints must not be nil")
	}
	if !n.members[from] || !n.members[to] {
		return nil, apperror.New(apperror.CodeDanglingEdge, "edge endpoint does not belong to the network").
			WithDetails("from", from.Name).
			WithDetails("to", to.Name)
	}
	if capacity < 0 {
		return nil, apperror.New(apperror.CodeNegativeCapacity, "edge capacity must be non-negative").
			WithDetails("from", from.Name).
			WithDetails("to", to.Name).
			WithDetails("capacity", capacity)
	}

	if existing := n.EdgeBetween(from, to); existing != nil {
		existing.Capacity += capacity
		existing.OriginalCapacity += capacity
		if payload != nil && existing.Payload == nil {
			existing.Payload = payload
		}
		return existing, nil
	}

	e := &Edge{
		From:             from,
		To:               to,
		Capacity:         capacity,
		OriginalCapacity: capacity,
		Payload:          payload,
	}
	n.link(e)
	return e, nil
}

// InsertResidual adds a zero-capacity residual edge for the ordered pair.
// The caller must have checked that no edge exists for the pair.
func (n *Network) InsertResidual(from, to *Vertex) *Edge {
	e := &Edge{
		From:       from,
		To:         to,
		IsResidual: true,
	}
	n.link(e)
	return e
}

func (n *Network) link(e *Edge) {
	e.From.Edges = append(e.From.Edges, e)
	e.To.Edges = append(e.To.Edges, e)

	if n.pairs[e.From] == nil {
		n.pairs[e.From] = make(map[*Vertex]*Edge)
	}
	n.pairs[e.From][e.To] = e
}

// EdgeBetween returns the edge for the ordered pair, or nil.
func (n *Network) EdgeBetween(from, to *Vertex) *Edge {
	return n.pairs[from][to]
}

// VertexByName returns the single vertex with the given name. Zero
// matches and multiple matches are both errors.
func (n *Network) VertexByName(name string) (*Vertex, error) {
	matches := n.byName[name]
	switch len(matches) {
	case 0:
		return nil, apperror.NewWithField(apperror.CodeNotFound, "no vertex with this name exists", name)
	case 1:
		return matches[0], nil
	default:
		return nil, apperror.NewWithField(apperror.CodeAmbiguousVertex, "multiple vertices share this name", name).
			WithDetails("count", len(matches))
	}
}

// Vertices returns the vertices in insertion order.
func (n *Network) Vertices() []*Vertex {
	return n.vertices
}

// VertexCount returns the number of vertices.
func (n *Network) VertexCount() int {
	return len(n.vertices)
}

// EdgeCount returns the number of edges, residual edges included.
func (n *Network) EdgeCount() int {
	count := 0
	for _, m := range n.pairs {
		count += len(m)
	}
	return count
}

// Edges returns all edges of the network, residual edges included.
// Order follows vertex insertion order, then target insertion.
func (n *Network) Edges() []*Edge {
	var edges []*Edge
	for _, v := range n.vertices {
		for _, e := range v.Edges {
			if e.From == v {
				edges = append(edges, e)
			}
		}
	}
	return edges
}
