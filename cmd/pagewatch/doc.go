// Package main hosts the pagewatch entrypoint.
//
// Architecture overview:
//   - One process invocation is one monitoring pass: load configuration,
//     load persisted state, visit every target once, save state, deliver a
//     digest, exit. Scheduling lives outside the binary (cron, systemd
//     timers, CI schedules).
//   - Fetch pipeline: each target goes through fetch.Strategy, which starts
//     on the plain colly client (or headless Chrome for hostile hosts),
//     escalates blocked responses to the remote reader fallback, and
//     normalizes whatever tier won into canonical text.
//   - Change detection: internal/watch compares SHA-256 fingerprints of the
//     normalized text against the prior run and builds a bounded diff
//     preview for every change via internal/diff.
//   - Persistence: internal/state keeps one aggregate fingerprints.json plus
//     a per-target content snapshot under pages/. State is saved exactly
//     once per run, before delivery, so a Telegram outage never loses
//     observations.
//   - Delivery: internal/digest renders Telegram-HTML blocks and splits them
//     into chunks under the message size cap; internal/notify/telegram sends
//     them. Missing credentials downgrade the run to detection-only.
//   - Plumbing: Viper populates config from file and environment (PAGEWATCH_*
//     plus the legacy TG_BOT_TOKEN/TG_CHAT_ID names); zap provides structured
//     logging tagged with a per-run UUID; Prometheus counters are dumped to a
//     node-exporter textfile when metrics.textfile_path is set.
//
// Operational notes:
//   - The pass is strictly sequential; a run's wall-clock time is bounded by
//     targets x retries x timeout in the worst case.
//   - SIGINT/SIGTERM let the in-flight attempt finish or time out, then the
//     run saves state, skips the digest, and exits non-zero.
//   - Run locally: go run ./cmd/pagewatch -config pagewatch.yaml (or rely on
//     defaults plus env overrides).
package main
