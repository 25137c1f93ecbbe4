// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
//   - IngestionService: extract → chunk → embed → index, owns the snapshot
//   - SearchService: vector and keyword queries over the snapshot
//   - HistoryService: past ingestion outcomes
//   - SettingsService: defaults, config file and environment
//   - Watcher: full re-ingestion when a file changes
//
// Services are pure Go with no CGO or external dependencies.
package services
