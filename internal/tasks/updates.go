package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ListCollection Phase = iota
	RefreshAlbum
	FetchLibrary
	ImportAlbum
)

func (p Phase) String() string {
	switch p {
	case ListCollection:
		return "list_collection"
	case RefreshAlbum:
		return "refresh_album"
	case FetchLibrary:
		return "fetch_library"
	case ImportAlbum:
		return "import_album"
	default:
		return ""
	}
}

func listCollectionUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ListCollection,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d albums in collection", total),
	}
}

func refreshingAlbumUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RefreshAlbum,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Refreshing: %s...", step, total, name),
	}
}

func refreshCompletedUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RefreshAlbum,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, name),
	}
}

func refreshFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RefreshAlbum,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}

func fetchLibraryUpdate(offset int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchLibrary,
		Step:    offset,
		Total:   0,
		Message: fmt.Sprintf("Fetching saved albums (offset %d)...", offset),
	}
}

func importAlbumUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ImportAlbum,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Imported: %s", step, total, name),
	}
}
