// Package metrics records what synchronization passes do.
//
// Components receive a Recorder and default to NoopRecorder, so metrics cost
// nothing unless enabled:
//
//	sync := docsync.New(opts, exec, docsync.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//
// There is no scrape endpoint. A pass run with --metrics-file writes the
// registry with WriteTextfile, for node_exporter's textfile collector.
package metrics
