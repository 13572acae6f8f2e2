package importer

import (
	"context"
	"fmt"
	"time"

	"longbox/internal/catalog"
	"longbox/internal/convstore"
	"longbox/internal/gcd"
	"longbox/internal/imaging"
	"longbox/internal/logging"
	"longbox/internal/operator"
	"longbox/internal/resolve"
	"longbox/internal/source"
	"longbox/internal/textutil"
)

// importIssue creates or updates one destination issue. Per-issue failures
// are reported and skipped; the run moves on to the next issue.
func (imp *Importer) importIssue(ctx context.Context, seriesID int64, volume source.Volume, issue source.Issue, gcdSeriesID int64) error {
	label := fmt.Sprintf("%s #%s", volume.Name, issue.Number)

	existing, err := imp.findExistingIssue(ctx, volume, issue)
	if err != nil {
		return err
	}
	if existing != 0 {
		imp.op.Print("%s already exists, checking for updates", label)
		return imp.updateIssue(ctx, existing, issue)
	}
	return imp.createIssue(ctx, seriesID, volume, issue, gcdSeriesID, label)
}

// findExistingIssue looks for the issue on the destination by series name and
// number, trusting only an exact display label match.
func (imp *Importer) findExistingIssue(ctx context.Context, volume source.Volume, issue source.Issue) (int64, error) {
	if issue.Number == "" {
		return 0, nil
	}
	results, err := imp.catalog.SearchIssues(ctx, volume.Name, issue.Number)
	if err != nil {
		imp.op.Warn("Destination issue search failed: %v", err)
		return 0, nil
	}
	label := fmt.Sprintf("%s (%s) #%s", volume.Name, volume.StartYear, issue.Number)
	for _, result := range results {
		if textutil.EqualFold(result.Name, label) {
			return result.ID, nil
		}
	}
	return 0, nil
}

func (imp *Importer) createIssue(ctx context.Context, seriesID int64, volume source.Volume, issue source.Issue, gcdSeriesID int64, label string) error {
	gcdIssue, stories := imp.grassrootsIssue(ctx, gcdSeriesID, issue.Number)
	if len(stories) == 0 && issue.Name != "" {
		stories = []string{issue.Name}
	}

	coverDate, ok := parseCoverDate(issue.CoverDate)
	if !ok {
		entered, err := imp.op.Input(fmt.Sprintf("%s has no cover date. Enter one (YYYY-MM-DD, blank to skip)", label))
		if err != nil {
			return err
		}
		if coverDate, ok = parseCoverDate(entered); !ok {
			imp.op.Warn("Skipping %s: no usable cover date", label)
			return nil
		}
	}
	coverDate = fixCoverDate(coverDate)

	characters, teams, err := imp.resolveCast(ctx, issue)
	if err != nil {
		return err
	}
	arcs, err := imp.resolver.ResolveMany(ctx, convstore.KindArc, toRefs(issue.Arcs))
	if err != nil {
		return err
	}

	reprintIDs, err := imp.resolveReprints(ctx, gcdIssue, nil)
	if err != nil {
		return err
	}

	payload := catalog.IssuePayload{
		Series:     seriesID,
		Number:     issue.Number,
		Stories:    stories,
		CoverDate:  coverDate.Format(coverDateLayout),
		StoreDate:  issue.StoreDate,
		Summary:    issue.Summary,
		Rating:     catalog.RatingUnknown,
		ImagePath:  imp.fetchCover(ctx, issue.Image.OriginalURL),
		Characters: characters,
		Teams:      teams,
		Arcs:       arcs,
		Reprints:   reprintIDs,
		SourceID:   issue.ID,
	}
	if gcdIssue != nil {
		payload.UPC = gcdIssue.Barcode
		payload.Price = gcdIssue.Price
		payload.Pages = gcdIssue.Pages
		if payload.Rating, err = imp.chooseRating(gcdIssue.Rating); err != nil {
			return err
		}
	}
	issueID, err := imp.catalog.Create(ctx, payload)
	if err != nil {
		imp.op.Error("Creating %s failed: %v", label, err)
		return nil
	}
	imp.op.Success("Created %s as #%d", label, issueID)

	if gcdIssue != nil {
		if err := imp.issueCache.Store(ctx, convstore.KindIssue, gcdIssue.ID, issueID); err != nil {
			return err
		}
	}
	return imp.addCredits(ctx, issueID, coverDate, issue.Creators, label)
}

// updateIssue patches an existing destination issue with newly resolved arcs
// and, when enabled, characters and teams, then offers to add credits. A
// patch replaces each list it names, so the destination's current lists are
// read back first and only extended.
func (imp *Importer) updateIssue(ctx context.Context, issueID int64, issue source.Issue) error {
	detail, err := imp.catalog.Issue(ctx, issueID)
	if err != nil {
		imp.op.Warn("Fetching issue #%d failed, skipping updates: %v", issueID, err)
	} else if err := imp.patchAssociations(ctx, issueID, detail, issue); err != nil {
		return err
	}

	if len(issue.Creators) == 0 {
		return nil
	}
	add, err := imp.op.Confirm("Add any missing credits?")
	if err != nil || !add {
		return err
	}
	coverDate, ok := parseCoverDate(issue.CoverDate)
	if !ok {
		imp.op.Warn("Cannot add credits without a cover date")
		return nil
	}
	return imp.addCredits(ctx, issueID, fixCoverDate(coverDate), issue.Creators, fmt.Sprintf("issue #%d", issueID))
}

// patchAssociations union-merges newly resolved characters, teams, and arcs
// into the destination issue's current lists. Nothing is sent when no list
// gains a new id.
func (imp *Importer) patchAssociations(ctx context.Context, issueID int64, detail *catalog.IssueDetail, issue source.Issue) error {
	patch := catalog.IssuePatch{}

	if imp.addCharacters {
		characters, teams, err := imp.resolveCast(ctx, issue)
		if err != nil {
			return err
		}
		if merged, grew := unionIDs(itemIDs(detail.Characters), characters); grew {
			patch.Characters = merged
		}
		if merged, grew := unionIDs(itemIDs(detail.Teams), teams); grew {
			patch.Teams = merged
		}
	}
	arcs, err := imp.resolver.ResolveMany(ctx, convstore.KindArc, toRefs(issue.Arcs))
	if err != nil {
		return err
	}
	if merged, grew := unionIDs(itemIDs(detail.Arcs), arcs); grew {
		patch.Arcs = merged
	}

	if patch.Empty() {
		return nil
	}
	if err := imp.catalog.PatchIssue(ctx, issueID, patch); err != nil {
		imp.op.Error("Updating issue #%d failed: %v", issueID, err)
	}
	return nil
}

func itemIDs(items []catalog.NamedItem) []int64 {
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids
}

// unionIDs appends the resolved ids missing from current, reporting whether
// anything new was added.
func unionIDs(current, resolved []int64) ([]int64, bool) {
	seen := make(map[int64]bool, len(current))
	for _, id := range current {
		seen[id] = true
	}
	merged := append([]int64(nil), current...)
	added := false
	for _, id := range resolved {
		if !seen[id] {
			seen[id] = true
			merged = append(merged, id)
			added = true
		}
	}
	return merged, added
}

func (imp *Importer) resolveCast(ctx context.Context, issue source.Issue) ([]int64, []int64, error) {
	if !imp.addCharacters {
		return nil, nil, nil
	}
	characters, err := imp.resolver.ResolveMany(ctx, convstore.KindCharacter, toRefs(issue.Characters))
	if err != nil {
		return nil, nil, err
	}
	teams, err := imp.resolver.ResolveMany(ctx, convstore.KindTeam, toRefs(issue.Teams))
	if err != nil {
		return nil, nil, err
	}
	return characters, teams, nil
}

// chooseRating maps the dump's free-form rating text onto the destination's
// fixed age-rating vocabulary. The text is shown to the operator rather than
// parsed; picking "None" keeps the rating unknown.
func (imp *Importer) chooseRating(text string) (int64, error) {
	if text == "" {
		return catalog.RatingUnknown, nil
	}
	ratings := catalog.Ratings()
	options := make([]operator.Option, 0, len(ratings))
	for _, rating := range ratings {
		options = append(options, operator.Option{Label: rating.Name, Value: rating.ID})
	}
	id, chosen, err := imp.op.Choose(fmt.Sprintf("The dump rates this issue %q. Which rating applies?", text), options)
	if err != nil {
		return 0, err
	}
	if !chosen {
		return catalog.RatingUnknown, nil
	}
	return id, nil
}

// grassrootsIssue finds the matching dump issue and its story titles.
func (imp *Importer) grassrootsIssue(ctx context.Context, gcdSeriesID int64, number string) (*gcd.Issue, []string) {
	if imp.grassroots == nil || gcdSeriesID == 0 || number == "" {
		return nil, nil
	}
	issues, err := imp.grassroots.Issues(ctx, gcdSeriesID, number)
	if err != nil {
		imp.op.Warn("GCD issue lookup failed: %v", err)
		return nil, nil
	}
	if len(issues) == 0 {
		return nil, nil
	}
	issue := issues[0]
	titles, err := imp.grassroots.StoryTitles(ctx, issue.ID)
	if err != nil {
		imp.op.Warn("GCD story lookup failed: %v", err)
		titles = nil
	}
	return &issue, titles
}

func (imp *Importer) resolveReprints(ctx context.Context, gcdIssue *gcd.Issue, existing []int64) ([]int64, error) {
	if imp.grassroots == nil || imp.matcher == nil || gcdIssue == nil {
		return existing, nil
	}
	refs, err := imp.grassroots.Reprints(ctx, gcdIssue.ID)
	if err != nil {
		imp.op.Warn("GCD reprint lookup failed: %v", err)
		return existing, nil
	}
	if len(refs) == 0 {
		return existing, nil
	}
	return imp.matcher.Resolve(ctx, existing, refs)
}

// addCredits resolves every credited creator and posts the credit batch.
func (imp *Importer) addCredits(ctx context.Context, issueID int64, coverDate time.Time, creators []source.CreditRef, label string) error {
	if len(creators) == 0 {
		return nil
	}
	var credits []catalog.CreditPayload
	for _, creator := range creators {
		ref := resolve.Ref{ID: creator.ID, Name: creator.Name}
		creatorID, ok, err := imp.resolver.Resolve(ctx, convstore.KindCreator, ref)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		roleIDs, err := imp.roles.Assign(ctx, ref, creator.Roles, coverDate)
		if err != nil {
			imp.op.Warn("Role assignment for %s failed: %v", creator.Name, err)
			continue
		}
		credits = append(credits, catalog.CreditPayload{Issue: issueID, Creator: creatorID, Roles: roleIDs})
	}
	if len(credits) == 0 {
		return nil
	}
	if err := imp.catalog.CreateCredits(ctx, credits); err != nil {
		imp.op.Error("Adding credits for %s failed: %v", label, err)
		return nil
	}
	imp.op.Success("Added credits for %s", label)
	imp.logger.Debug("credits posted",
		logging.Int64("issue_id", issueID),
		logging.Int("credits", len(credits)),
	)
	return nil
}

func (imp *Importer) fetchCover(ctx context.Context, rawURL string) string {
	if imp.images == nil {
		return ""
	}
	path, err := imp.images.Fetch(ctx, rawURL, imaging.KindCover)
	if err != nil {
		imp.op.Warn("Cover download failed: %v", err)
		return ""
	}
	return path
}

func toRefs(refs []source.Ref) []resolve.Ref {
	out := make([]resolve.Ref, 0, len(refs))
	for _, ref := range refs {
		out = append(out, resolve.Ref{ID: ref.ID, Name: ref.Name})
	}
	return out
}
