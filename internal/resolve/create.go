package resolve

import (
	"context"
	"fmt"

	"longbox/internal/catalog"
	"longbox/internal/convstore"
	"longbox/internal/imaging"
	"longbox/internal/source"
)

// create fetches full upstream detail and submits a destination create call.
// Nested references (a character's teams and creators) resolve recursively
// through the same resolver, so they hit the same cache and ignore sets.
func (r *Resolver) create(ctx context.Context, kind convstore.Kind, ref Ref) (int64, error) {
	switch kind {
	case convstore.KindCharacter:
		return r.createCharacter(ctx, ref)
	case convstore.KindTeam:
		return r.createTeam(ctx, ref)
	case convstore.KindCreator:
		return r.createCreator(ctx, ref)
	case convstore.KindArc:
		return r.createArc(ctx, ref)
	default:
		return 0, fmt.Errorf("cannot create %s entities interactively", kind)
	}
}

func (r *Resolver) createCharacter(ctx context.Context, ref Ref) (int64, error) {
	detail, err := r.source.Character(ctx, ref.ID)
	if err != nil {
		return 0, fmt.Errorf("fetch character detail: %w", err)
	}
	name, err := r.confirmName(detail.Name)
	if err != nil {
		return 0, err
	}
	desc, err := r.describe(convstore.KindCharacter, name, detail.Summary)
	if err != nil {
		return 0, err
	}

	teams, err := r.ResolveMany(ctx, convstore.KindTeam, fromRefs(detail.Teams))
	if err != nil {
		return 0, err
	}
	creators, err := r.ResolveMany(ctx, convstore.KindCreator, fromRefs(detail.Creators))
	if err != nil {
		return 0, err
	}

	return r.catalog.Create(ctx, catalog.CharacterPayload{
		Name:        name,
		Description: desc,
		ImagePath:   r.fetchImage(ctx, detail.Image.OriginalURL, imaging.KindResource),
		Teams:       teams,
		Creators:    creators,
		SourceID:    ref.ID,
	})
}

func (r *Resolver) createTeam(ctx context.Context, ref Ref) (int64, error) {
	detail, err := r.source.Team(ctx, ref.ID)
	if err != nil {
		return 0, fmt.Errorf("fetch team detail: %w", err)
	}
	name, err := r.confirmName(detail.Name)
	if err != nil {
		return 0, err
	}
	desc, err := r.describe(convstore.KindTeam, name, detail.Summary)
	if err != nil {
		return 0, err
	}
	return r.catalog.Create(ctx, catalog.TeamPayload{
		Name:        name,
		Description: desc,
		ImagePath:   r.fetchImage(ctx, detail.Image.OriginalURL, imaging.KindResource),
		SourceID:    ref.ID,
	})
}

func (r *Resolver) createCreator(ctx context.Context, ref Ref) (int64, error) {
	detail, err := r.source.Creator(ctx, ref.ID)
	if err != nil {
		return 0, fmt.Errorf("fetch creator detail: %w", err)
	}
	name, err := r.confirmName(detail.Name)
	if err != nil {
		return 0, err
	}
	desc, err := r.describe(convstore.KindCreator, name, detail.Summary)
	if err != nil {
		return 0, err
	}
	return r.catalog.Create(ctx, catalog.CreatorPayload{
		Name:        name,
		Description: desc,
		ImagePath:   r.fetchImage(ctx, detail.Image.OriginalURL, imaging.KindCreator),
		Birth:       detail.Birth,
		Death:       detail.Death,
		SourceID:    ref.ID,
	})
}

func (r *Resolver) createArc(ctx context.Context, ref Ref) (int64, error) {
	detail, err := r.source.Arc(ctx, ref.ID)
	if err != nil {
		return 0, fmt.Errorf("fetch arc detail: %w", err)
	}
	name, err := r.confirmName(detail.Name)
	if err != nil {
		return 0, err
	}
	desc, err := r.describe(convstore.KindArc, name, detail.Summary)
	if err != nil {
		return 0, err
	}
	return r.catalog.Create(ctx, catalog.ArcPayload{
		Name:        name,
		Description: desc,
		ImagePath:   r.fetchImage(ctx, detail.Image.OriginalURL, imaging.KindResource),
		SourceID:    ref.ID,
	})
}

// confirmName lets the operator override the upstream name before creation.
func (r *Resolver) confirmName(name string) (string, error) {
	keep, err := r.op.Confirm(fmt.Sprintf("Import with name %q?", name))
	if err != nil {
		return "", err
	}
	if keep {
		return name, nil
	}
	override, err := r.op.Input("Name to use instead")
	if err != nil {
		return "", err
	}
	if override == "" {
		return name, nil
	}
	return override, nil
}

// describe collects the entity description. An empty answer keeps the
// upstream summary.
func (r *Resolver) describe(kind convstore.Kind, name, summary string) (string, error) {
	desc, err := r.op.Input(fmt.Sprintf("Description for %s %q", kind, name))
	if err != nil {
		return "", err
	}
	if desc == "" {
		return summary, nil
	}
	return desc, nil
}

// fetchImage downloads the entity image. A download failure only costs the
// image, never the entity.
func (r *Resolver) fetchImage(ctx context.Context, rawURL string, kind imaging.Kind) string {
	if r.images == nil {
		return ""
	}
	path, err := r.images.Fetch(ctx, rawURL, kind)
	if err != nil {
		r.op.Warn("Image download failed: %v", err)
		return ""
	}
	return path
}

func fromRefs(refs []source.Ref) []Ref {
	out := make([]Ref, 0, len(refs))
	for _, ref := range refs {
		out = append(out, Ref{ID: ref.ID, Name: ref.Name})
	}
	return out
}
