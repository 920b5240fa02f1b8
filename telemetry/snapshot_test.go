package telemetry

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	snapshot := &Snapshot{
		Version:     SnapshotVersion,
		Seed:        42,
		FieldWidth:  1000,
		FieldHeight: 1000,
		Tick:        12000,
		FieldTotal:  318.5,
		Colonies: []ColonyState{
			{
				ID:        0,
				X:         500,
				Y:         500,
				Collected: 1250,
				Ants: []AntState{
					{ID: 1, X: 512.5, Y: 498.25, Heading: 0.3, Carried: 5, Mode: "returning", BirthTick: 0},
					{ID: 2, X: 420, Y: 610, Heading: 0.9, Mode: "searching", BirthTick: 40},
				},
			},
		},
		Food: []FoodState{{X: 600, Y: 500, Amount: 245}},
		Bookmark: &Bookmark{
			Type:        BookmarkPileDepleted,
			Tick:        12000,
			Description: "Test bookmark",
		},
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if filepath.Base(path) != "snapshot_12000_pile_depleted.json" {
		t.Errorf("unexpected snapshot name %s", filepath.Base(path))
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if loaded.Seed != 42 || loaded.Tick != 12000 {
		t.Errorf("header mismatch: seed %d tick %d", loaded.Seed, loaded.Tick)
	}
	if len(loaded.Colonies) != 1 || len(loaded.Colonies[0].Ants) != 2 {
		t.Fatalf("colony data lost: %+v", loaded.Colonies)
	}
	if got := loaded.Colonies[0].Ants[0]; got != snapshot.Colonies[0].Ants[0] {
		t.Errorf("ant = %+v, want %+v", got, snapshot.Colonies[0].Ants[0])
	}
	if len(loaded.Food) != 1 || loaded.Food[0].Amount != 245 {
		t.Errorf("food = %+v", loaded.Food)
	}
	if loaded.Bookmark == nil || loaded.Bookmark.Type != BookmarkPileDepleted {
		t.Errorf("bookmark = %+v", loaded.Bookmark)
	}
}

func TestSnapshotWithoutBookmark(t *testing.T) {
	tmpDir := t.TempDir()

	path, err := SaveSnapshot(&Snapshot{Version: SnapshotVersion, Tick: 7}, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if filepath.Base(path) != "snapshot_7.json" {
		t.Errorf("unexpected snapshot name %s", filepath.Base(path))
	}
}

func TestLoadSnapshotRejectsVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.json")
	if err := os.WriteFile(path, []byte(`{"version": 99}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSnapshot(path); err == nil {
		t.Error("expected error for unknown snapshot version")
	}
}

func TestLoadSnapshotMissing(t *testing.T) {
	if _, err := LoadSnapshot(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
