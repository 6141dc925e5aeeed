package loader

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rescuesim/rescue-engine/pkg/rescue"
	"github.com/rescuesim/rescue-engine/pkg/storage"
)

// Bundle is everything a player session needs, loaded read-only per
// session start.
type Bundle struct {
	Rescue  *rescue.RescueItem
	Stories []rescue.Story // ordered by their order field
	Library rescue.Library
}

// Loader resolves scenario content from the remote store. It performs no
// retries: a failed load surfaces as an error and the caller shows an
// unavailable state until it tries again.
type Loader struct {
	store  storage.Store
	logger *slog.Logger
}

// New creates a scenario loader.
func New(store storage.Store, logger *slog.Logger) *Loader {
	return &Loader{store: store, logger: logger}
}

// LoadScenario fetches a rescue item, its ordered stories, and the full
// content library.
func (l *Loader) LoadScenario(ctx context.Context, rescueID string) (*Bundle, error) {
	item, err := l.store.GetRescue(ctx, rescueID)
	if err != nil {
		return nil, fmt.Errorf("failed to load rescue %s: %w", rescueID, err)
	}
	if item == nil {
		return nil, fmt.Errorf("rescue %s not found", rescueID)
	}

	stories, err := l.store.ListStories(ctx, rescueID)
	if err != nil {
		return nil, fmt.Errorf("failed to load stories for rescue %s: %w", rescueID, err)
	}
	if len(stories) == 0 {
		return nil, fmt.Errorf("rescue %s has no scenes", rescueID)
	}

	items, err := l.store.ListLibraryItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load content library: %w", err)
	}

	lib := rescue.NewLibrary(items)
	// Flag cyclic parent chains on load so authors hear about them; the
	// runtime itself tolerates them.
	for id := range lib {
		lib.Depth(id, func(bad string) {
			l.logger.Warn("library item has a cyclic parent chain", "item_id", bad)
		})
	}

	l.logger.Debug("scenario loaded",
		"rescue_id", rescueID,
		"scenes", len(stories),
		"library_items", len(items))

	return &Bundle{Rescue: item, Stories: stories, Library: lib}, nil
}

// LoadLibraryItem resolves a single library item; nil when absent.
func (l *Loader) LoadLibraryItem(ctx context.Context, id string) (*rescue.LibraryItem, error) {
	return l.store.GetLibraryItem(ctx, id)
}

// LoadLibraryChildren lists children of a folder; nil parent selects roots.
func (l *Loader) LoadLibraryChildren(ctx context.Context, parentID *string) ([]rescue.LibraryItem, error) {
	return l.store.ListLibraryChildren(ctx, parentID)
}
