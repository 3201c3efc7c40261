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
	LoadFavorites Phase = iota
	ResolveMeal
	WriteCard
	WriteManifest
)

func (p Phase) String() string {
	switch p {
	case LoadFavorites:
		return "load_favorites"
	case ResolveMeal:
		return "resolve_meal"
	case WriteCard:
		return "write_card"
	case WriteManifest:
		return "write_manifest"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func loadingFavoritesUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   LoadFavorites,
		Step:    0,
		Total:   1,
		Message: "Fetching favorites...",
	}
}

func loadedFavoritesUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LoadFavorites,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d favorites", count),
	}
}

func resolvingMealUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveMeal,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching recipe: %s...", step, total, name),
	}
}

func cardWrittenUpdate(step, total int, name string, filesCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteCard,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, name, filesCount),
	}
}

func cardFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteCard,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}

func manifestWrittenUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteManifest,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Manifest written to %s", path),
		Data:    path,
	}
}
