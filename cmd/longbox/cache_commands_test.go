package main

import (
	"path/filepath"
	"testing"

	"longbox/internal/convstore"
)

func TestParseCacheTarget(t *testing.T) {
	store, err := convstore.Open(filepath.Join(t.TempDir(), "conversions.db"), nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	namespace, kind, err := parseCacheTarget(store, "source", "character")
	if err != nil {
		t.Fatalf("parseCacheTarget: %v", err)
	}
	if namespace != store.Source() || kind != convstore.KindCharacter {
		t.Errorf("got (%v, %v)", namespace, kind)
	}

	namespace, kind, err = parseCacheTarget(store, "gcd", "issue")
	if err != nil {
		t.Fatalf("parseCacheTarget: %v", err)
	}
	if namespace != store.Grassroots() || kind != convstore.KindIssue {
		t.Errorf("got (%v, %v)", namespace, kind)
	}

	if _, _, err := parseCacheTarget(store, "metron", "issue"); err == nil {
		t.Error("unknown namespace accepted")
	}
	if _, _, err := parseCacheTarget(store, "source", "widget"); err == nil {
		t.Error("unknown kind accepted")
	}
}

func TestParseIDPair(t *testing.T) {
	sourceID, destID, err := parseIDPair("100", "55")
	if err != nil || sourceID != 100 || destID != 55 {
		t.Errorf("parseIDPair = (%d, %d, %v)", sourceID, destID, err)
	}
	if _, _, err := parseIDPair("x", "55"); err == nil {
		t.Error("bad source id accepted")
	}
	if _, _, err := parseIDPair("100", "y"); err == nil {
		t.Error("bad destination id accepted")
	}
}
