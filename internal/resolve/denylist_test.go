package resolve

import (
	"os"
	"path/filepath"
	"testing"

	"longbox/internal/convstore"
)

func TestDefaultDenylist(t *testing.T) {
	list := DefaultDenylist()

	tests := []struct {
		kind convstore.Kind
		id   int64
		want bool
	}{
		{convstore.KindCharacter, 3115, true},  // Stan Lee
		{convstore.KindCharacter, 56661, true}, // Barack Obama
		{convstore.KindCharacter, 100, false},
		{convstore.KindTeam, 44930, true}, // Zombies
		{convstore.KindTeam, 44930 + 1, false},
		{convstore.KindCreator, 67476, true},
		{convstore.KindArc, 3115, false},
		{convstore.KindIssue, 3115, false},
	}
	for _, tt := range tests {
		if got := list.Contains(tt.kind, tt.id); got != tt.want {
			t.Errorf("Contains(%s, %d) = %v, want %v", tt.kind, tt.id, got, tt.want)
		}
	}
}

func TestLoadDenylistFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "denylist.toml")
	content := "characters = [1, 2]\narcs = [9]\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	list, err := LoadDenylist(path)
	if err != nil {
		t.Fatalf("LoadDenylist: %v", err)
	}
	if !list.Contains(convstore.KindCharacter, 1) || !list.Contains(convstore.KindArc, 9) {
		t.Error("loaded ids missing")
	}
	if list.Contains(convstore.KindCharacter, 3115) {
		t.Error("custom denylist should not include embedded defaults")
	}
}

func TestLoadDenylistEmptyPathUsesDefault(t *testing.T) {
	list, err := LoadDenylist("")
	if err != nil {
		t.Fatalf("LoadDenylist: %v", err)
	}
	if !list.Contains(convstore.KindCharacter, 3115) {
		t.Error("empty path should return the embedded default")
	}
}
