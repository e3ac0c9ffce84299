// Package metrics records fan-out activity as Prometheus collectors on a
// private registry and samples the process's own memory use.
package metrics
