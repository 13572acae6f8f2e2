package resolve

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"longbox/internal/convstore"
)

//go:embed denylist.toml
var defaultDenylist []byte

// Denylist is the static never-import set, keyed by resource kind. Loaded
// once at startup and read-only afterwards.
type Denylist struct {
	ids map[convstore.Kind]map[int64]bool
}

type denylistFile struct {
	Characters []int64 `toml:"characters"`
	Teams      []int64 `toml:"teams"`
	Creators   []int64 `toml:"creators"`
	Arcs       []int64 `toml:"arcs"`
}

// DefaultDenylist returns the denylist shipped with the binary.
func DefaultDenylist() *Denylist {
	list, err := parseDenylist(defaultDenylist)
	if err != nil {
		// The embedded file is validated by tests; a parse failure here is a
		// build defect.
		panic(fmt.Sprintf("embedded denylist: %v", err))
	}
	return list
}

// LoadDenylist reads a denylist from a TOML file. An empty path returns the
// embedded default.
func LoadDenylist(path string) (*Denylist, error) {
	if path == "" {
		return DefaultDenylist(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read denylist: %w", err)
	}
	list, err := parseDenylist(data)
	if err != nil {
		return nil, fmt.Errorf("parse denylist %s: %w", path, err)
	}
	return list, nil
}

func parseDenylist(data []byte) (*Denylist, error) {
	var file denylistFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	list := &Denylist{ids: make(map[convstore.Kind]map[int64]bool)}
	list.add(convstore.KindCharacter, file.Characters)
	list.add(convstore.KindTeam, file.Teams)
	list.add(convstore.KindCreator, file.Creators)
	list.add(convstore.KindArc, file.Arcs)
	return list, nil
}

func (d *Denylist) add(kind convstore.Kind, ids []int64) {
	if len(ids) == 0 {
		return
	}
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	d.ids[kind] = set
}

// Contains reports whether the id is denied for the kind.
func (d *Denylist) Contains(kind convstore.Kind, id int64) bool {
	return d.ids[kind][id]
}
