package storage

import (
	"context"

	"github.com/rescuesim/rescue-engine/pkg/rescue"
)

// Store defines the remote document-store collaborator: typed CRUD over the
// three collections the product uses. Lookups for missing documents return
// (nil, nil); callers treat nil as not-found.
type Store interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Rescue items
	GetRescue(ctx context.Context, id string) (*rescue.RescueItem, error)
	ListRescues(ctx context.Context) ([]rescue.RescueItem, error)
	SaveRescue(ctx context.Context, item *rescue.RescueItem) error
	DeleteRescue(ctx context.Context, id string) error

	// Library items (tree via ParentID)
	GetLibraryItem(ctx context.Context, id string) (*rescue.LibraryItem, error)
	ListLibraryItems(ctx context.Context) ([]rescue.LibraryItem, error)
	// ListLibraryChildren filters by parent id; nil selects root items.
	ListLibraryChildren(ctx context.Context, parentID *string) ([]rescue.LibraryItem, error)
	SaveLibraryItem(ctx context.Context, item *rescue.LibraryItem) error
	DeleteLibraryItem(ctx context.Context, id string) error

	// Stories (scenes), ordered by their order field
	GetStory(ctx context.Context, id string) (*rescue.Story, error)
	ListStories(ctx context.Context, rescueID string) ([]rescue.Story, error)
	SaveStory(ctx context.Context, story *rescue.Story) error
	DeleteStory(ctx context.Context, id string) error
}

// BlobStore defines the binary-object collaborator for background images
// and icon assets.
type BlobStore interface {
	Upload(ctx context.Context, path string, data []byte) error
	Download(ctx context.Context, path string) ([]byte, error)
	Delete(ctx context.Context, path string) error
}
