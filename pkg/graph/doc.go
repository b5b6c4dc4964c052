// Package graph defines the design graph produced by evaluating a model
// script. The design graph is an immutable DAG of primitives, transforms,
// boolean operations and groups; each root is one named part.
package graph
