// Package metrics records Prometheus metrics for node and workflow
// execution and serves them over HTTP.
//
// Node metrics are labelled by node type and status ("ok" or "error"):
//
//	image_nodes_node_duration_seconds
//	image_nodes_node_runs_total
//
// Workflow metrics are labelled by status only:
//
//	image_nodes_workflow_duration_seconds
//	image_nodes_workflow_runs_total
//
// The HTTP handler exposes /metrics and /healthz.
package metrics
