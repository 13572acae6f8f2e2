package convstore_test

import (
	"context"
	"path/filepath"
	"testing"

	"longbox/internal/convstore"
)

func openStore(t *testing.T) *convstore.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "conversions.db")
	store, err := convstore.Open(path, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreThenGet(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.Source().Store(ctx, convstore.KindCharacter, 100, 55); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	id, ok, err := store.Source().Get(ctx, convstore.KindCharacter, 100)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok || id != 55 {
		t.Fatalf("expected (55, true), got (%d, %v)", id, ok)
	}
}

func TestGetMissingReturnsAbsent(t *testing.T) {
	store := openStore(t)

	id, ok, err := store.Source().Get(context.Background(), convstore.KindTeam, 9999)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok || id != 0 {
		t.Fatalf("expected absence, got (%d, %v)", id, ok)
	}
}

func TestNamespacesAreIndependent(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.Source().Store(ctx, convstore.KindIssue, 42, 7); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	if _, ok, err := store.Grassroots().Get(ctx, convstore.KindIssue, 42); err != nil {
		t.Fatalf("Get failed: %v", err)
	} else if ok {
		t.Fatal("grassroots namespace must not see source records")
	}
}

func TestDuplicateRowsReadFirstMatch(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.Source().Store(ctx, convstore.KindCreator, 200, 10); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if err := store.Source().Store(ctx, convstore.KindCreator, 200, 11); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	id, ok, err := store.Source().Get(ctx, convstore.KindCreator, 200)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok || id != 10 {
		t.Fatalf("expected first match 10, got (%d, %v)", id, ok)
	}
}

func TestEditUpdatesDestination(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.Source().Store(ctx, convstore.KindArc, 1, 2); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if err := store.Source().Edit(ctx, convstore.KindArc, 1, 3); err != nil {
		t.Fatalf("Edit failed: %v", err)
	}

	id, ok, err := store.Source().Get(ctx, convstore.KindArc, 1)
	if err != nil || !ok {
		t.Fatalf("Get after edit failed: id=%d ok=%v err=%v", id, ok, err)
	}
	if id != 3 {
		t.Fatalf("expected edited id 3, got %d", id)
	}
}

func TestDeleteVerifiesAbsence(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.Grassroots().Store(ctx, convstore.KindIssue, 77, 88); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	removed, err := store.Grassroots().Delete(ctx, convstore.KindIssue, 77)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !removed {
		t.Fatal("expected delete to report success")
	}

	if _, ok, _ := store.Grassroots().Get(ctx, convstore.KindIssue, 77); ok {
		t.Fatal("record still present after delete")
	}
}

func TestListReturnsKindRecords(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	for _, rec := range []struct{ src, dst int64 }{{3, 30}, {1, 10}, {2, 20}} {
		if err := store.Source().Store(ctx, convstore.KindTeam, rec.src, rec.dst); err != nil {
			t.Fatalf("Store failed: %v", err)
		}
	}
	if err := store.Source().Store(ctx, convstore.KindArc, 9, 90); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	records, err := store.Source().List(ctx, convstore.KindTeam)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 team records, got %d", len(records))
	}
	for i, want := range []int64{1, 2, 3} {
		if records[i].SourceID != want {
			t.Fatalf("expected ordered source ids, got %#v", records)
		}
	}
}

func TestSecondSessionIsRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conversions.db")
	first, err := convstore.Open(path, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer first.Close()

	if _, err := convstore.Open(path, nil); err == nil {
		t.Fatal("expected second session to be rejected while locked")
	}
}

func TestParseKindRoundTrip(t *testing.T) {
	for _, k := range convstore.Kinds() {
		parsed, err := convstore.ParseKind(k.String())
		if err != nil || parsed != k {
			t.Fatalf("round trip failed for %v: %v", k, err)
		}
	}
	if _, err := convstore.ParseKind("universe"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}
