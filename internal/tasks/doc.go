// Package tasks orchestrates bulk collection operations with real-time progress reporting.
//
// # Core Operations
//
// The [Engine] interface defines two operations:
//
//  1. [Engine.Refresh] : Bulk metadata refresh
//     - Lists every album in the user's catalog
//     - Re-fetches each album's metadata from the streaming service
//     - Upserts the results so names, covers, and popularity stay current
//     - Records per-album failures without aborting the run
//
//  2. [Engine.ImportLibrary] : Saved-library import
//     - Pages through the user's saved albums on the service
//     - Upserts each album into the catalog
//     - Optionally files every imported album into a target box
//
// # Concurrency and Rate Limiting
//
// Refresh runs a bounded worker pool sharing one [rate.Limiter] so
// concurrent fetches stay inside the service's request budget. Import is
// sequential because the library endpoint is paginated.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
package tasks
