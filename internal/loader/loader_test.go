package loader

import (
	"context"
	"log/slog"
	"os"
	"reflect"
	"testing"

	"github.com/rescuesim/rescue-engine/pkg/rescue"
	"github.com/rescuesim/rescue-engine/pkg/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func seedStore(t *testing.T) *storage.MockStore {
	t.Helper()
	ctx := context.Background()
	store := storage.NewMockStore()

	item := &rescue.RescueItem{
		ID: "r1", Name: "Cardiac Arrest",
		Parameters: []rescue.Parameter{
			{ID: "pressure", Label: "Pressure", Category: rescue.CategoryNumber, Value: rescue.NumberValue(80)},
		},
	}
	if err := store.SaveRescue(ctx, item); err != nil {
		t.Fatal(err)
	}
	for _, s := range []rescue.Story{
		{ID: "s2", RescueID: "r1", Order: 2, Name: "Stabilize"},
		{ID: "s1", RescueID: "r1", Order: 1, Name: "Arrival"},
	} {
		s := s
		if err := store.SaveStory(ctx, &s); err != nil {
			t.Fatal(err)
		}
	}
	if err := store.SaveLibraryItem(ctx, &rescue.LibraryItem{ID: "f1", Type: rescue.TypeFolder}); err != nil {
		t.Fatal(err)
	}
	return store
}

func TestLoader_LoadScenario(t *testing.T) {
	store := seedStore(t)
	l := New(store, testLogger())

	bundle, err := l.LoadScenario(context.Background(), "r1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if bundle.Rescue.Name != "Cardiac Arrest" {
		t.Errorf("rescue name = %q", bundle.Rescue.Name)
	}
	if len(bundle.Stories) != 2 || bundle.Stories[0].ID != "s1" {
		t.Errorf("stories not ordered: %+v", bundle.Stories)
	}
	if bundle.Library.Resolve("f1") == nil {
		t.Error("library not loaded")
	}
}

func TestLoader_MissingRescue(t *testing.T) {
	l := New(storage.NewMockStore(), testLogger())

	if _, err := l.LoadScenario(context.Background(), "ghost"); err == nil {
		t.Error("expected error for missing rescue")
	}
}

func TestLoader_RescueWithoutScenes(t *testing.T) {
	store := storage.NewMockStore()
	_ = store.SaveRescue(context.Background(), &rescue.RescueItem{ID: "r1"})
	l := New(store, testLogger())

	if _, err := l.LoadScenario(context.Background(), "r1"); err == nil {
		t.Error("expected error for rescue with no scenes")
	}
}

// Loading the same rescue twice without intervening writes yields identical
// definitions and story order.
func TestLoader_IdempotentReload(t *testing.T) {
	store := seedStore(t)
	l := New(store, testLogger())
	ctx := context.Background()

	first, err := l.LoadScenario(ctx, "r1")
	if err != nil {
		t.Fatal(err)
	}
	second, err := l.LoadScenario(ctx, "r1")
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(first.Rescue.Parameters, second.Rescue.Parameters) {
		t.Error("parameter definitions differ between reloads")
	}
	if !reflect.DeepEqual(first.Stories, second.Stories) {
		t.Error("story lists differ between reloads")
	}
}
