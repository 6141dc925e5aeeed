package player

import (
	"testing"

	"github.com/rescuesim/rescue-engine/pkg/rescue"
)

func frameScenario() Config {
	cfg := twoSceneScenario()
	cfg.Rescue.Parameters = append(cfg.Rescue.Parameters, rescue.Parameter{
		ID: "eta", Label: "Ambulance ETA", Category: rescue.CategoryDuration,
		Value: rescue.ClockValue("00:08:00"),
	})
	cfg.Library = rescue.NewLibrary([]rescue.LibraryItem{
		{ID: "f1", Name: "Kit", Type: rescue.TypeFolder},
		{ID: "bandage", Name: "Bandage", Type: rescue.TypeMedicine, ParentID: strPtr("f1"), Order: 1},
		{ID: "splint", Name: "Splint", Type: rescue.TypeMedicine, ParentID: strPtr("f1"), Order: 2},
		{ID: "t1", Name: "Open Kit", Type: rescue.TypeTrigger, Trigger: &rescue.TriggerData{
			ButtonType: rescue.ButtonToggle, LinkedItemID: "f1",
			OnSVG: "on", OffSVG: "off",
		}},
	})
	cfg.Stories[0].Data.Scene.BackgroundImage = "images/street.png"
	cfg.Stories[0].Data.Scene.Items = []rescue.SceneItem{
		{TriggerID: "t1", Position: rescue.Point{X: 25, Y: 70}, Size: rescue.Dimensions{Width: 10, Height: 12}},
		{TriggerID: "dangling"},
	}
	return cfg
}

func TestSession_Frame(t *testing.T) {
	s := NewSession(frameScenario())
	f := s.Frame()

	if f.SceneIndex != 0 || f.SceneCount != 2 || f.Completed {
		t.Errorf("unexpected frame header: %+v", f)
	}
	if f.Background != "images/street.png" {
		t.Errorf("background = %q", f.Background)
	}

	// Dangling trigger references render nothing.
	if len(f.Elements) != 1 {
		t.Fatalf("expected 1 element, got %d", len(f.Elements))
	}
	el := f.Elements[0]
	if el.TriggerID != "t1" || el.X != 25 || el.Y != 70 || el.Width != 10 || el.Height != 12 {
		t.Errorf("element placement wrong: %+v", el)
	}
	if el.Icon != "off" || el.Active {
		t.Errorf("inactive toggle should render off icon: %+v", el)
	}

	if len(f.Parameters) != 2 {
		t.Fatalf("expected 2 parameter badges, got %d", len(f.Parameters))
	}
	if f.Parameters[0].Display != "0" {
		t.Errorf("numeric badge display = %q, want 0", f.Parameters[0].Display)
	}
	if f.Parameters[1].Display != "00:08:00" {
		t.Errorf("duration badge display = %q", f.Parameters[1].Display)
	}

	if len(f.FolderItems) != 0 {
		t.Error("no folder badges before any press")
	}
}

func TestSession_FrameFolderReveal(t *testing.T) {
	s := NewSession(frameScenario())
	s.Press("t1")
	f := s.Frame()

	if len(f.FolderItems) != 2 {
		t.Fatalf("expected 2 folder badges, got %d", len(f.FolderItems))
	}
	if f.FolderItems[0].ItemID != "bandage" || f.FolderItems[1].ItemID != "splint" {
		t.Errorf("folder badges out of order: %+v", f.FolderItems)
	}
	if f.FolderItems[0].TriggerID != "t1" {
		t.Errorf("folder badge should carry the opening trigger, got %q", f.FolderItems[0].TriggerID)
	}
	if f.Elements[0].Icon != "on" || !f.Elements[0].Active {
		t.Errorf("active toggle should render on icon: %+v", f.Elements[0])
	}
}

func TestSession_FrameAfterCompletion(t *testing.T) {
	s := NewSession(frameScenario())
	for i := 0; i < 8; i++ {
		s.Tick()
	}
	f := s.Frame()
	if !f.Completed {
		t.Fatal("frame should report completion")
	}
	if f.Ticks != 8 {
		t.Errorf("ticks = %d, want 8", f.Ticks)
	}
}
