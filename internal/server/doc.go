// Package server exposes the Prometheus metrics and a liveness probe over
// HTTP while omnisum runs. It serves only GET endpoints and never accepts
// work; the fan-out itself is driven by the CLI or the dashboard.
package server
