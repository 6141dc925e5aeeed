package player

import (
	"testing"
	"time"

	"github.com/rescuesim/rescue-engine/pkg/rescue"
)

// twoSceneScenario is the reference example: one pressure parameter at 0
// climbing +5 per tick, two scenes, each exiting at a delta of 20.
func twoSceneScenario() Config {
	item := &rescue.RescueItem{
		ID:   "r1",
		Name: "Cardiac Arrest",
		Parameters: []rescue.Parameter{
			{ID: "pressure", Label: "Pressure", Category: rescue.CategoryNumber,
				Value: rescue.NumberValue(0),
				Timer: &rescue.TimerDiscriminator{Kind: rescue.KindValue, Min: 5, Max: 5}},
		},
	}
	restriction := []rescue.Restriction{{Params: []rescue.Threshold{{ID: "pressure", Value: 20}}}}
	stories := []rescue.Story{
		{ID: "s1", Name: "Arrival", RescueID: "r1", Order: 1,
			Data: rescue.StoryData{Scene: rescue.SceneData{Restritions: restriction}}},
		{ID: "s2", Name: "Stabilize", RescueID: "r1", Order: 2,
			Data: rescue.StoryData{Scene: rescue.SceneData{Restritions: restriction}}},
	}
	return Config{
		Rescue:  item,
		Stories: stories,
		Library: rescue.NewLibrary(nil),
	}
}

func TestSession_TransitionAtThreshold(t *testing.T) {
	s := NewSession(twoSceneScenario())

	// Ticks 1-3 leave pressure below the threshold delta of 20.
	for i := 0; i < 3; i++ {
		s.Tick()
		if s.SceneIndex() != 0 {
			t.Fatalf("scene advanced early at tick %d", i+1)
		}
	}

	// Tick 4: pressure=20, |20-0| >= 20, scene advances.
	s.Tick()
	if s.SceneIndex() != 1 {
		t.Fatalf("expected scene 1 after 4 ticks, got %d", s.SceneIndex())
	}
	if s.Completed() {
		t.Fatal("completion must not fire on an intermediate transition")
	}
}

func TestSession_SnapshotRebaselinesAfterTransition(t *testing.T) {
	s := NewSession(twoSceneScenario())

	for i := 0; i < 4; i++ {
		s.Tick()
	}
	// Scene 2 starts with pressure=20 as its baseline; the same threshold
	// now needs pressure to reach 40.
	for i := 0; i < 3; i++ {
		s.Tick()
		if s.Completed() {
			t.Fatalf("completed early, pressure delta only %d", (i+1)*5)
		}
	}
	s.Tick() // pressure=40
	if !s.Completed() {
		t.Fatal("expected completion at pressure 40")
	}
}

func TestSession_CompletionSignalsOnce(t *testing.T) {
	cfg := twoSceneScenario()
	var completions, sceneChanges int
	cfg.Sink = func(e Event) {
		switch e.Type {
		case EventCompleted:
			completions++
		case EventSceneChanged:
			sceneChanges++
		}
	}
	s := NewSession(cfg)

	lastIndex := 0
	for i := 0; i < 20; i++ {
		s.Tick()
		// Scene index is non-decreasing across any sequence of ticks.
		if idx := s.SceneIndex(); idx < lastIndex {
			t.Fatalf("scene index went backwards: %d -> %d", lastIndex, idx)
		} else {
			lastIndex = idx
		}
	}

	if completions != 1 {
		t.Errorf("completion fired %d times, want exactly 1", completions)
	}
	if sceneChanges != 1 {
		t.Errorf("scene changed %d times, want 1", sceneChanges)
	}
	if s.SceneIndex() != 1 {
		t.Errorf("final scene index = %d, want 1 (never past the last scene)", s.SceneIndex())
	}
}

func TestSession_NoRestrictionsNeverTransitions(t *testing.T) {
	cfg := twoSceneScenario()
	cfg.Stories[0].Data.Scene.Restritions = nil
	s := NewSession(cfg)

	for i := 0; i < 50; i++ {
		s.Tick()
	}
	if s.SceneIndex() != 0 || s.Completed() {
		t.Error("a scene without restrictions must never auto-transition")
	}
}

func TestSession_UnknownRestrictionParameterSkipped(t *testing.T) {
	cfg := twoSceneScenario()
	cfg.Stories[0].Data.Scene.Restritions = []rescue.Restriction{
		{Params: []rescue.Threshold{{ID: "ghost", Value: 1}}},
	}
	s := NewSession(cfg)

	for i := 0; i < 10; i++ {
		s.Tick()
	}
	if s.SceneIndex() != 0 {
		t.Error("restriction on an unknown parameter must be skipped, not crash or fire")
	}
}

func TestSession_SceneChangeResetsTriggers(t *testing.T) {
	cfg := twoSceneScenario()
	cfg.Library = rescue.NewLibrary([]rescue.LibraryItem{
		{ID: "f1", Type: rescue.TypeFolder},
		{ID: "t1", Type: rescue.TypeTrigger, Trigger: &rescue.TriggerData{
			ButtonType: rescue.ButtonToggle, LinkedItemID: "f1",
		}},
	})
	s := NewSession(cfg)

	s.Press("t1")
	if _, _, ok := s.triggers.ActiveFolder(); !ok {
		t.Fatal("folder should be open before the transition")
	}

	for i := 0; i < 4; i++ {
		s.Tick()
	}
	if s.SceneIndex() != 1 {
		t.Fatal("expected transition")
	}
	// Switching scenes clears the active folder regardless of toggle history.
	if _, _, ok := s.triggers.ActiveFolder(); ok {
		t.Error("scene change must clear the active folder")
	}
	if s.triggers.IsActive("t1") {
		t.Error("scene change must clear toggle state")
	}
}

func TestSession_SelectFolderChildOverride(t *testing.T) {
	cfg := twoSceneScenario()
	cfg.Library = rescue.NewLibrary([]rescue.LibraryItem{
		{ID: "f1", Type: rescue.TypeFolder},
		{ID: "adrenaline", Name: "Adrenaline", Type: rescue.TypeMedicine, ParentID: strPtr("f1")},
		{ID: "t1", Type: rescue.TypeTrigger, Trigger: &rescue.TriggerData{
			ButtonType: rescue.ButtonToggle, LinkedItemID: "f1",
		}},
	})
	// The trigger's scene item carries an override: selecting the
	// adrenaline child writes pressure-equivalent value 30 under its id.
	cfg.Stories[0].Data.Scene.Items = []rescue.SceneItem{{
		TriggerID: "t1",
		Parameters: []rescue.Parameter{
			{ID: "adrenaline", Category: rescue.CategoryNumber, Value: rescue.NumberValue(30)},
		},
	}}
	cfg.Stories[0].Data.Scene.Restritions = []rescue.Restriction{
		{Params: []rescue.Threshold{{ID: "adrenaline", Value: 25}}},
	}
	s := NewSession(cfg)

	s.Press("t1")
	s.SelectFolderChild("adrenaline", "t1")

	// The override bypasses the timer and re-runs the evaluator.
	if s.SceneIndex() != 1 {
		t.Errorf("override should have satisfied the restriction, scene = %d", s.SceneIndex())
	}
	if v, ok := s.engine.Value("adrenaline"); !ok || v != 30 {
		t.Errorf("adrenaline = %v, %v; want 30, true", v, ok)
	}
}

func TestSession_SelectFolderChildNoMatchIsNoop(t *testing.T) {
	cfg := twoSceneScenario()
	s := NewSession(cfg)

	s.SelectFolderChild("nothing", "nobody")
	if s.SceneIndex() != 0 {
		t.Error("unmatched folder child selection must be a no-op")
	}
}

func TestSession_PressAfterCompletionIgnored(t *testing.T) {
	cfg := twoSceneScenario()
	cfg.Library = rescue.NewLibrary([]rescue.LibraryItem{
		{ID: "t1", Type: rescue.TypeTrigger, Trigger: &rescue.TriggerData{ButtonType: rescue.ButtonToggle}},
	})
	s := NewSession(cfg)

	for i := 0; i < 8; i++ {
		s.Tick()
	}
	if !s.Completed() {
		t.Fatal("expected completion")
	}
	s.Press("t1")
	if s.triggers.IsActive("t1") {
		t.Error("presses after completion must be ignored")
	}

	ticks := s.Ticks()
	s.Tick()
	if s.Ticks() != ticks {
		t.Error("ticks after completion must be ignored")
	}
}

func TestSession_TickerLifecycle(t *testing.T) {
	cfg := twoSceneScenario()
	cfg.TickInterval = 5 * time.Millisecond
	s := NewSession(cfg)
	s.Start()
	defer s.Close()

	deadline := time.After(2 * time.Second)
	for !s.Completed() {
		select {
		case <-deadline:
			t.Fatal("ticker-driven session did not complete in time")
		case <-time.After(5 * time.Millisecond):
		}
	}

	// Close is idempotent and safe after completion already stopped the loop.
	s.Close()
	s.Close()
}
