// Package metrics provides build metrics for sitemapper.
//
// Components receive a Recorder. NoopRecorder is the default and does
// nothing; PrometheusRecorder keeps the metrics in a Prometheus registry that
// WriteTextfile exports in the text exposition format, for collection by the
// node-exporter textfile collector. sitemapper runs as a short-lived process,
// so there is no HTTP endpoint to scrape.
package metrics
