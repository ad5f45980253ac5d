// Package watch implements the monitoring pipeline: it walks the configured
// targets sequentially, detects content changes against the stored
// fingerprints, and hands the per-target outcomes to the digest composer and
// the notification sink.
package watch
