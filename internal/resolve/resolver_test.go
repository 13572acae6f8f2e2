package resolve

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"longbox/internal/catalog"
	"longbox/internal/convstore"
	"longbox/internal/imaging"
	"longbox/internal/operator"
	"longbox/internal/source"
)

type fakeCatalog struct {
	searchResults map[string][]catalog.SearchResult
	searchCalls   int
	createID      int64
	createErr     error
	created       []catalog.Payload
}

func (f *fakeCatalog) Search(_ context.Context, _ catalog.Resource, name string) ([]catalog.SearchResult, error) {
	f.searchCalls++
	return f.searchResults[name], nil
}

func (f *fakeCatalog) Create(_ context.Context, payload catalog.Payload) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.created = append(f.created, payload)
	return f.createID, nil
}

type fakeSource struct {
	characters map[int64]*source.Character
	teams      map[int64]*source.Team
	creators   map[int64]*source.Creator
	arcs       map[int64]*source.Arc
	fetchCalls int
}

func (f *fakeSource) Character(_ context.Context, id int64) (*source.Character, error) {
	f.fetchCalls++
	if c, ok := f.characters[id]; ok {
		return c, nil
	}
	return nil, errors.New("character not found")
}

func (f *fakeSource) Team(_ context.Context, id int64) (*source.Team, error) {
	f.fetchCalls++
	if t, ok := f.teams[id]; ok {
		return t, nil
	}
	return nil, errors.New("team not found")
}

func (f *fakeSource) Creator(_ context.Context, id int64) (*source.Creator, error) {
	f.fetchCalls++
	if c, ok := f.creators[id]; ok {
		return c, nil
	}
	return nil, errors.New("creator not found")
}

func (f *fakeSource) Arc(_ context.Context, id int64) (*source.Arc, error) {
	f.fetchCalls++
	if a, ok := f.arcs[id]; ok {
		return a, nil
	}
	return nil, errors.New("arc not found")
}

type fakeImages struct{}

func (fakeImages) Fetch(context.Context, string, imaging.Kind) (string, error) {
	return "", nil
}

func openNamespace(t *testing.T) *convstore.Namespace {
	t.Helper()
	store, err := convstore.Open(filepath.Join(t.TempDir(), "conversions.db"), nil)
	if err != nil {
		t.Fatalf("open conversion store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store.Source()
}

func newResolver(store *convstore.Namespace, cat *fakeCatalog, src *fakeSource, op operator.Operator) *Resolver {
	return New(store, cat, src, fakeImages{}, op, DefaultDenylist(), nil)
}

func TestResolvePicksFromSearchAndCaches(t *testing.T) {
	store := openNamespace(t)
	cat := &fakeCatalog{searchResults: map[string][]catalog.SearchResult{
		"Bruce Wayne": {
			{ID: 55, Name: "Bruce Wayne"},
			{ID: 56, Name: "Bruce Wayne (Earth-2)"},
		},
	}}
	script := &operator.Script{ChooseAnswers: []operator.ChooseAnswer{{Value: 55}}}
	resolver := newResolver(store, cat, &fakeSource{}, script)

	id, ok, err := resolver.Resolve(context.Background(), convstore.KindCharacter, Ref{ID: 100, Name: "Bruce Wayne"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !ok || id != 55 {
		t.Fatalf("Resolve = (%d, %v), want (55, true)", id, ok)
	}

	searchesBefore := cat.searchCalls
	promptsBefore := script.PromptCount()

	id, ok, err = resolver.Resolve(context.Background(), convstore.KindCharacter, Ref{ID: 100, Name: "Bruce Wayne"})
	if err != nil {
		t.Fatalf("second Resolve: %v", err)
	}
	if !ok || id != 55 {
		t.Fatalf("second Resolve = (%d, %v), want (55, true)", id, ok)
	}
	if cat.searchCalls != searchesBefore {
		t.Errorf("cached hit ran %d extra searches", cat.searchCalls-searchesBefore)
	}
	if script.PromptCount() != promptsBefore {
		t.Errorf("cached hit prompted the operator")
	}
}

func TestResolveSecondarySearch(t *testing.T) {
	store := openNamespace(t)
	cat := &fakeCatalog{searchResults: map[string][]catalog.SearchResult{
		"Dick Grayson": {{ID: 77, Name: "Nightwing"}},
	}}
	script := &operator.Script{
		ConfirmAnswers: []bool{true},
		InputAnswers:   []string{"Dick Grayson"},
		ChooseAnswers:  []operator.ChooseAnswer{{Value: 77}},
	}
	resolver := newResolver(store, cat, &fakeSource{}, script)

	id, ok, err := resolver.Resolve(context.Background(), convstore.KindCharacter, Ref{ID: 101, Name: "Nightwing of Bludhaven"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !ok || id != 77 {
		t.Fatalf("Resolve = (%d, %v), want (77, true)", id, ok)
	}
	if cat.searchCalls != 2 {
		t.Errorf("searchCalls = %d, want 2", cat.searchCalls)
	}
}

func TestResolveIgnoreIsStickyForRun(t *testing.T) {
	store := openNamespace(t)
	cat := &fakeCatalog{}
	// No search matches, no retry, decline create, accept ignore.
	script := &operator.Script{ConfirmAnswers: []bool{false, false, true}}
	resolver := newResolver(store, cat, &fakeSource{}, script)

	_, ok, err := resolver.Resolve(context.Background(), convstore.KindTeam, Ref{ID: 300, Name: "Outsiders"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if ok {
		t.Fatal("Resolve should have skipped")
	}

	searchesBefore := cat.searchCalls
	promptsBefore := script.PromptCount()

	_, ok, err = resolver.Resolve(context.Background(), convstore.KindTeam, Ref{ID: 300, Name: "Outsiders"})
	if err != nil {
		t.Fatalf("second Resolve: %v", err)
	}
	if ok {
		t.Fatal("ignored id resolved")
	}
	if cat.searchCalls != searchesBefore || script.PromptCount() != promptsBefore {
		t.Errorf("ignored id triggered collaborator calls")
	}
}

func TestResolveDeclineWithoutIgnoreAsksAgain(t *testing.T) {
	store := openNamespace(t)
	cat := &fakeCatalog{}
	script := &operator.Script{ConfirmAnswers: []bool{false, false, false, false, false, false}}
	resolver := newResolver(store, cat, &fakeSource{}, script)

	for i := 0; i < 2; i++ {
		_, ok, err := resolver.Resolve(context.Background(), convstore.KindTeam, Ref{ID: 301, Name: "Outsiders"})
		if err != nil {
			t.Fatalf("Resolve %d: %v", i, err)
		}
		if ok {
			t.Fatalf("Resolve %d should have skipped", i)
		}
	}
	// Both calls searched: declining without ignoring only affects one call.
	if cat.searchCalls != 2 {
		t.Errorf("searchCalls = %d, want 2", cat.searchCalls)
	}
}

func TestResolveDenylistedSkipsSilently(t *testing.T) {
	store := openNamespace(t)
	cat := &fakeCatalog{}
	script := &operator.Script{}
	resolver := newResolver(store, cat, &fakeSource{}, script)

	// Stan Lee's upstream id is denylisted for characters.
	_, ok, err := resolver.Resolve(context.Background(), convstore.KindCharacter, Ref{ID: 3115, Name: "Stan Lee"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if ok {
		t.Fatal("denylisted id resolved")
	}
	if cat.searchCalls != 0 || script.PromptCount() != 0 {
		t.Errorf("denylisted id triggered collaborator calls")
	}
}

func TestResolveCreateOnConfirm(t *testing.T) {
	store := openNamespace(t)
	cat := &fakeCatalog{createID: 888}
	src := &fakeSource{characters: map[int64]*source.Character{
		102: {
			ID:      102,
			Name:    "Stephanie Brown",
			Summary: "The Spoiler.",
			Teams:   []source.Ref{{ID: 900, Name: "Batman Family"}},
		},
	}}
	// Confirm create, keep the name, accept the upstream description, then
	// resolve the nested team: no matches, no retry, decline team create,
	// decline team ignore.
	script := &operator.Script{
		ConfirmAnswers: []bool{false, true, true, false, false, false},
		InputAnswers:   []string{""},
	}
	resolver := newResolver(store, cat, src, script)

	id, ok, err := resolver.Resolve(context.Background(), convstore.KindCharacter, Ref{ID: 102, Name: "Stephanie Brown"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !ok || id != 888 {
		t.Fatalf("Resolve = (%d, %v), want (888, true)", id, ok)
	}
	if len(cat.created) != 1 {
		t.Fatalf("created %d payloads, want 1", len(cat.created))
	}
	payload, isCharacter := cat.created[0].(catalog.CharacterPayload)
	if !isCharacter {
		t.Fatalf("created payload type %T", cat.created[0])
	}
	if payload.Name != "Stephanie Brown" || payload.SourceID != 102 {
		t.Errorf("unexpected payload %+v", payload)
	}
	if payload.Description != "The Spoiler." {
		t.Errorf("Description = %q, want the upstream summary", payload.Description)
	}

	cached, present, err := store.Get(context.Background(), convstore.KindCharacter, 102)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !present || cached != 888 {
		t.Errorf("cache = (%d, %v), want (888, true)", cached, present)
	}
}

func TestResolveCreateFailureDegradesToSkip(t *testing.T) {
	store := openNamespace(t)
	cat := &fakeCatalog{createErr: &catalog.APIError{StatusCode: 400, Detail: "duplicate"}}
	src := &fakeSource{arcs: map[int64]*source.Arc{
		500: {ID: 500, Name: "Knightfall"},
	}}
	script := &operator.Script{
		ConfirmAnswers: []bool{false, true, true},
		InputAnswers:   []string{"Bane breaks the Bat."},
	}
	resolver := newResolver(store, cat, src, script)

	_, ok, err := resolver.Resolve(context.Background(), convstore.KindArc, Ref{ID: 500, Name: "Knightfall"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if ok {
		t.Fatal("failed create should skip, not resolve")
	}
	if _, present, _ := store.Get(context.Background(), convstore.KindArc, 500); present {
		t.Error("failed create wrote to the cache")
	}
}

func TestResolveManySkipsAndDeduplicates(t *testing.T) {
	store := openNamespace(t)
	ctx := context.Background()
	if err := store.Store(ctx, convstore.KindCreator, 10, 700); err != nil {
		t.Fatal(err)
	}
	if err := store.Store(ctx, convstore.KindCreator, 11, 700); err != nil {
		t.Fatal(err)
	}
	cat := &fakeCatalog{}
	resolver := newResolver(store, cat, &fakeSource{}, &operator.Script{})

	ids, err := resolver.ResolveMany(ctx, convstore.KindCreator, []Ref{
		{ID: 10, Name: "Chris Claremont"},
		{ID: 11, Name: "C. Claremont"},
		{ID: 69288, Name: "Robert Simpson"}, // denylisted creator
	})
	if err != nil {
		t.Fatalf("ResolveMany: %v", err)
	}
	if len(ids) != 1 || ids[0] != 700 {
		t.Errorf("ids = %v, want [700]", ids)
	}
}
