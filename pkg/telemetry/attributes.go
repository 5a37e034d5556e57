package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Standard attribute keys.
const (
	// Graph
	AttrGraphNodes  = "graph.nodes"
	AttrGraphEdges  = "graph.edges"
	AttrGraphSource = "graph.source"
	AttrGraphSink   = "graph.sink"

	// Algorithm
	AttrAlgorithm  = "algorithm.name"
	AttrTraversal  = "algorithm.traversal"
	AttrIterations = "algorithm.iterations"
	AttrMaxFlow    = "algorithm.max_flow"

	// Validation
	AttrValidationErrors = "validation.errors"
	AttrValidationPassed = "validation.passed"

	// Cache
	AttrCacheHit = "cache.hit"
)

// GraphAttributes returns attributes describing a graph.
func GraphAttributes(nodes, edges int, source, sink string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrGraphNodes, nodes),
		attribute.Int(AttrGraphEdges, edges),
		attribute.String(AttrGraphSource, source),
		attribute.String(AttrGraphSink, sink),
	}
}

// AlgorithmAttributes returns attributes describing a solve run.
func AlgorithmAttributes(name, traversal string, iterations int, maxFlow float64) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrAlgorithm, name),
		attribute.String(AttrTraversal, traversal),
		attribute.Int(AttrIterations, iterations),
		attribute.Float64(AttrMaxFlow, maxFlow),
	}
}

// ValidationAttributes returns attributes describing a validation outcome.
func ValidationAttributes(errorsCount int, passed bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrValidationErrors, errorsCount),
		attribute.Bool(AttrValidationPassed, passed),
	}
}
