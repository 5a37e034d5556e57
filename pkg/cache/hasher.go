package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"flownet/pkg/model"
)

// GraphHash computes a deterministic hash of a graph for use as a cache key.
func GraphHash(graph *model.GraphSpec) string {
	if graph == nil {
		return ""
	}

	data := graphToCanonical(graph)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:16])
}

// graphToCanonical builds a deterministic byte representation of a graph.
// Vertex order and edge order in the request must not affect the hash.
func graphToCanonical(graph *model.GraphSpec) []byte {
	vertices := make([]string, len(graph.Vertices))
	copy(vertices, graph.Vertices)
	sort.Strings(vertices)

	edges := make([]model.EdgeSpec, len(graph.Edges))
	copy(edges, graph.Edges)
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		if edges[i].To != edges[j].To {
			return edges[i].To < edges[j].To
		}
		return edges[i].Capacity < edges[j].Capacity
	})

	var result []byte

	result = append(result, []byte(fmt.Sprintf("s:%s,t:%s;", graph.Source, graph.Sink))...)

	for _, v := range vertices {
		result = append(result, []byte(fmt.Sprintf("n:%s;", v))...)
	}

	for _, e := range edges {
		result = append(result, []byte(fmt.Sprintf("e:%s:%s:%.6f;", e.From, e.To, e.Capacity))...)
	}

	return result
}

// BuildSolveKey builds a cache key for a solve result.
func BuildSolveKey(graphHash, algorithm, traversal string) string {
	return fmt.Sprintf("solve:%s:%s:%s", algorithm, traversal, graphHash)
}

// QuickHash hashes arbitrary data.
func QuickHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ShortHash returns a short hash (16 hex characters).
func ShortHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:8])
}
