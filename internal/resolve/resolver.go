package resolve

import (
	"context"
	"fmt"
	"log/slog"

	"longbox/internal/catalog"
	"longbox/internal/convstore"
	"longbox/internal/imaging"
	"longbox/internal/logging"
	"longbox/internal/operator"
	"longbox/internal/source"
)

// Ref is an upstream entity reference as embedded in a fetched record.
type Ref struct {
	ID   int64
	Name string
}

// Catalog is the slice of the destination client the resolver needs.
type Catalog interface {
	Search(ctx context.Context, res catalog.Resource, name string) ([]catalog.SearchResult, error)
	Create(ctx context.Context, payload catalog.Payload) (int64, error)
}

// Source is the slice of the upstream client the resolver needs.
type Source interface {
	Character(ctx context.Context, id int64) (*source.Character, error)
	Team(ctx context.Context, id int64) (*source.Team, error)
	Creator(ctx context.Context, id int64) (*source.Creator, error)
	Arc(ctx context.Context, id int64) (*source.Arc, error)
}

// ImageFetcher downloads an entity image for upload.
type ImageFetcher interface {
	Fetch(ctx context.Context, rawURL string, kind imaging.Kind) (string, error)
}

var kindResources = map[convstore.Kind]catalog.Resource{
	convstore.KindCharacter: catalog.ResourceCharacter,
	convstore.KindTeam:      catalog.ResourceTeam,
	convstore.KindArc:       catalog.ResourceArc,
	convstore.KindCreator:   catalog.ResourceCreator,
}

// Resolver turns upstream references into destination ids. One Resolver
// serves one import run; its session ignore set lives and dies with it.
type Resolver struct {
	store    *convstore.Namespace
	catalog  Catalog
	source   Source
	images   ImageFetcher
	op       operator.Operator
	denylist *Denylist
	ignored  map[convstore.Kind]map[int64]bool
	logger   *slog.Logger
}

// New creates a Resolver with an empty session ignore set.
func New(store *convstore.Namespace, cat Catalog, src Source, images ImageFetcher, op operator.Operator, denylist *Denylist, logger *slog.Logger) *Resolver {
	if denylist == nil {
		denylist = DefaultDenylist()
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Resolver{
		store:    store,
		catalog:  cat,
		source:   src,
		images:   images,
		op:       op,
		denylist: denylist,
		ignored:  make(map[convstore.Kind]map[int64]bool),
		logger:   logging.WithComponent(logger, "resolver"),
	}
}

// Resolve produces the destination id for one upstream reference. The boolean
// is false when the entity was skipped: denied, ignored, declined, or failed.
// Only operator transport failures surface as errors; collaborator failures
// degrade to a skip so one bad entity never aborts a run.
func (r *Resolver) Resolve(ctx context.Context, kind convstore.Kind, ref Ref) (int64, bool, error) {
	if r.denylist.Contains(kind, ref.ID) {
		r.logger.Debug("denylisted reference skipped",
			logging.String("kind", kind.String()),
			logging.Int64("source_id", ref.ID),
		)
		return 0, false, nil
	}
	if r.ignored[kind][ref.ID] {
		return 0, false, nil
	}

	if destID, ok, err := r.store.Get(ctx, kind, ref.ID); err != nil {
		return 0, false, err
	} else if ok {
		return destID, true, nil
	}

	if ref.Name != "" {
		destID, chosen, err := r.searchAndChoose(ctx, kind, ref.Name)
		if err != nil {
			return 0, false, err
		}
		if !chosen {
			destID, chosen, err = r.secondarySearch(ctx, kind, ref)
			if err != nil {
				return 0, false, err
			}
		}
		if chosen {
			if err := r.store.Store(ctx, kind, ref.ID, destID); err != nil {
				return 0, false, err
			}
			return destID, true, nil
		}
	}

	return r.createOrDecline(ctx, kind, ref)
}

// ResolveMany resolves a batch of references, dropping skips and duplicate
// destination ids.
func (r *Resolver) ResolveMany(ctx context.Context, kind convstore.Kind, refs []Ref) ([]int64, error) {
	var (
		ids  []int64
		seen = make(map[int64]bool)
	)
	for _, ref := range refs {
		id, ok, err := r.Resolve(ctx, kind, ref)
		if err != nil {
			return nil, err
		}
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}

// searchAndChoose runs one destination search and lets the operator pick. A
// search failure is reported and treated as zero results.
func (r *Resolver) searchAndChoose(ctx context.Context, kind convstore.Kind, name string) (int64, bool, error) {
	results, err := r.catalog.Search(ctx, kindResources[kind], name)
	if err != nil {
		r.op.Warn("Search for %s %q failed: %v", kind, name, err)
		return 0, false, nil
	}
	if len(results) == 0 {
		r.op.Warn("No %s matches for %q", kind, name)
		return 0, false, nil
	}

	options := make([]operator.Option, 0, len(results))
	for _, result := range results {
		options = append(options, operator.Option{Label: result.Name, Value: result.ID})
	}
	return r.op.Choose(fmt.Sprintf("Which %s matches %q?", kind, name), options)
}

// secondarySearch gives the operator one chance to retry with another name.
func (r *Resolver) secondarySearch(ctx context.Context, kind convstore.Kind, ref Ref) (int64, bool, error) {
	retry, err := r.op.Confirm(fmt.Sprintf("Search for %s %q again with a different name?", kind, ref.Name))
	if err != nil || !retry {
		return 0, false, err
	}
	name, err := r.op.Input(fmt.Sprintf("Alternate name for %s %q", kind, ref.Name))
	if err != nil {
		return 0, false, err
	}
	if name == "" {
		return 0, false, nil
	}
	return r.searchAndChoose(ctx, kind, name)
}

// createOrDecline is the tail of the resolution flow: offer creation, and on
// decline offer to stop asking about this id for the rest of the run.
func (r *Resolver) createOrDecline(ctx context.Context, kind convstore.Kind, ref Ref) (int64, bool, error) {
	label := ref.Name
	if label == "" {
		label = fmt.Sprintf("id %d", ref.ID)
	}
	create, err := r.op.Confirm(fmt.Sprintf("Create %s %q on the catalog?", kind, label))
	if err != nil {
		return 0, false, err
	}
	if create {
		destID, err := r.create(ctx, kind, ref)
		if err != nil {
			r.op.Error("Creating %s %q failed: %v", kind, label, err)
			return r.offerIgnore(kind, ref)
		}
		if err := r.store.Store(ctx, kind, ref.ID, destID); err != nil {
			return 0, false, err
		}
		r.op.Success("Created %s %q as #%d", kind, label, destID)
		return destID, true, nil
	}
	return r.offerIgnore(kind, ref)
}

// offerIgnore asks whether to stop prompting for this id this run. Arcs are
// rare enough that declining one is never remembered.
func (r *Resolver) offerIgnore(kind convstore.Kind, ref Ref) (int64, bool, error) {
	if kind == convstore.KindArc {
		return 0, false, nil
	}
	ignore, err := r.op.Confirm(fmt.Sprintf("Skip %s id %d for the rest of this run?", kind, ref.ID))
	if err != nil {
		return 0, false, err
	}
	if ignore {
		if r.ignored[kind] == nil {
			r.ignored[kind] = make(map[int64]bool)
		}
		r.ignored[kind][ref.ID] = true
	}
	return 0, false, nil
}
