package importer

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"longbox/internal/catalog"
	"longbox/internal/convstore"
	"longbox/internal/gcd"
	"longbox/internal/imaging"
	"longbox/internal/logging"
	"longbox/internal/operator"
	"longbox/internal/reprints"
	"longbox/internal/resolve"
	"longbox/internal/source"
	"longbox/internal/textutil"
)

// CatalogService is the slice of the destination client the driver needs.
type CatalogService interface {
	SearchSeries(ctx context.Context, name string) ([]catalog.SeriesResult, error)
	SearchIssues(ctx context.Context, seriesName, number string) ([]catalog.IssueResult, error)
	Issue(ctx context.Context, id int64) (*catalog.IssueDetail, error)
	Publishers(ctx context.Context) ([]catalog.NamedItem, error)
	SeriesTypes(ctx context.Context) ([]catalog.NamedItem, error)
	Create(ctx context.Context, payload catalog.Payload) (int64, error)
	CreateCredits(ctx context.Context, credits []catalog.CreditPayload) error
	PatchIssue(ctx context.Context, id int64, patch catalog.IssuePatch) error
}

// SourceService is the slice of the upstream client the driver needs.
type SourceService interface {
	SearchVolumes(ctx context.Context, name string) ([]source.Volume, error)
	VolumeIssues(ctx context.Context, volumeID int64) ([]source.Issue, error)
}

// GrassrootsDB is the slice of the grassroots dump the driver needs. It may
// be nil when no dump is configured; reprint and story enrichment is skipped.
type GrassrootsDB interface {
	SeriesList(ctx context.Context, name string) ([]gcd.Series, error)
	Issues(ctx context.Context, seriesID int64, number string) ([]gcd.Issue, error)
	StoryTitles(ctx context.Context, issueID int64) ([]string, error)
	Reprints(ctx context.Context, issueID int64) ([]gcd.ReprintIssue, error)
}

// ImageFetcher downloads an image for upload.
type ImageFetcher interface {
	Fetch(ctx context.Context, rawURL string, kind imaging.Kind) (string, error)
}

// Importer runs one interactive series import.
type Importer struct {
	catalog    CatalogService
	source     SourceService
	grassroots GrassrootsDB
	resolver   *resolve.Resolver
	roles      *resolve.RoleAssigner
	matcher    *reprints.Matcher
	images     ImageFetcher
	issueCache *convstore.Namespace
	op         operator.Operator
	logger     *slog.Logger

	addCharacters bool
}

// Deps bundles the importer's collaborators.
type Deps struct {
	Catalog    CatalogService
	Source     SourceService
	Grassroots GrassrootsDB
	Resolver   *resolve.Resolver
	Roles      *resolve.RoleAssigner
	Matcher    *reprints.Matcher
	Images     ImageFetcher
	IssueCache *convstore.Namespace
	Operator   operator.Operator
	Logger     *slog.Logger
}

// New creates an Importer.
func New(deps Deps) *Importer {
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Importer{
		catalog:    deps.Catalog,
		source:     deps.Source,
		grassroots: deps.Grassroots,
		resolver:   deps.Resolver,
		roles:      deps.Roles,
		matcher:    deps.Matcher,
		images:     deps.Images,
		issueCache: deps.IssueCache,
		op:         deps.Operator,
		logger:     logging.WithComponent(logger, "importer"),
	}
}

// Run executes one import session end to end. Entity-level failures degrade
// to skips; only operator transport failures and conversion store failures
// abort the run.
func (imp *Importer) Run(ctx context.Context) error {
	volume, ok, err := imp.chooseVolume(ctx)
	if err != nil || !ok {
		return err
	}

	issues, err := imp.source.VolumeIssues(ctx, volume.ID)
	if err != nil {
		imp.op.Error("Fetching the issue list for %q failed: %v", volume.Name, err)
		return nil
	}
	if len(issues) == 0 {
		imp.op.Warn("%q has no issues to import", volume.Name)
		return nil
	}

	seriesID, ok, err := imp.ensureSeries(ctx, volume)
	if err != nil || !ok {
		return err
	}

	gcdSeriesID, err := imp.chooseGrassrootsSeries(ctx, volume.Name)
	if err != nil {
		return err
	}

	imp.addCharacters, err = imp.op.Confirm("Add characters and teams for this series?")
	if err != nil {
		return err
	}

	for _, issue := range issues {
		if err := imp.importIssue(ctx, seriesID, volume, issue, gcdSeriesID); err != nil {
			return err
		}
	}
	imp.op.Success("Finished importing %q", volume.Name)
	return nil
}

// chooseVolume asks what to import and lets the operator pick among upstream
// matches, with known reprint publishers filtered out.
func (imp *Importer) chooseVolume(ctx context.Context) (source.Volume, bool, error) {
	name, err := imp.op.Input("What series do you want to import?")
	if err != nil {
		return source.Volume{}, false, err
	}
	if name == "" {
		return source.Volume{}, false, nil
	}

	volumes, err := imp.source.SearchVolumes(ctx, textutil.SanitizeSeriesQuery(name))
	if err != nil {
		imp.op.Error("Series search failed: %v", err)
		return source.Volume{}, false, nil
	}
	volumes = filterVolumes(volumes)
	if len(volumes) == 0 {
		imp.op.Warn("Nothing found for %q", name)
		return source.Volume{}, false, nil
	}
	sort.Slice(volumes, func(i, j int) bool { return volumes[i].Name < volumes[j].Name })

	options := make([]operator.Option, 0, len(volumes))
	for _, volume := range volumes {
		options = append(options, operator.Option{
			Label: fmt.Sprintf("%s (%s) - %d issues (%s)",
				volume.Name, volume.StartYear, volume.IssueCount, volume.Publisher.Name),
			Value: volume.ID,
		})
	}
	id, chosen, err := imp.op.Choose("Which series to import?", options)
	if err != nil || !chosen {
		return source.Volume{}, false, err
	}
	for _, volume := range volumes {
		if volume.ID == id {
			return volume, true, nil
		}
	}
	return source.Volume{}, false, nil
}

func filterVolumes(volumes []source.Volume) []source.Volume {
	kept := make([]source.Volume, 0, len(volumes))
	for _, volume := range volumes {
		if badPublishers[volume.Publisher.Name] {
			continue
		}
		kept = append(kept, volume)
	}
	return kept
}

// chooseGrassrootsSeries picks the dump series used for story and reprint
// enrichment. Zero means none: the import proceeds without the dump.
func (imp *Importer) chooseGrassrootsSeries(ctx context.Context, defaultName string) (int64, error) {
	if imp.grassroots == nil {
		return 0, nil
	}
	name, err := imp.op.Input(fmt.Sprintf("Series name to search the GCD dump for (default %q)", defaultName))
	if err != nil {
		return 0, err
	}
	if name == "" {
		name = defaultName
	}
	series, err := imp.grassroots.SeriesList(ctx, name)
	if err != nil {
		imp.op.Warn("GCD series search failed: %v", err)
		return 0, nil
	}
	if len(series) == 0 {
		imp.op.Warn("Unable to find series %q on GCD", name)
		return 0, nil
	}

	options := make([]operator.Option, 0, len(series))
	for _, s := range series {
		options = append(options, operator.Option{
			Label: fmt.Sprintf("%s (%d)", s.Name, s.YearBegan),
			Value: s.ID,
		})
	}
	id, chosen, err := imp.op.Choose("Which GCD series matches?", options)
	if err != nil || !chosen {
		return 0, err
	}
	return id, nil
}
