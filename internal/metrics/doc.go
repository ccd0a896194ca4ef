// Package metrics provides the observability hooks of a blogindex run.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no call site needs a nil check:
//
//	agg := aggregate.New(cfg, aggregate.Deps{Recorder: metrics.NoopRecorder{}})
//
// When a textfile path is configured the CLI swaps in a PrometheusRecorder
// backed by its own registry and writes the registry in the node-exporter
// textfile format after each run:
//
//	rec := metrics.NewPrometheusRecorder(nil)
//	...
//	err := rec.WriteTextfile("/var/lib/node_exporter/blogindex.prom")
package metrics
