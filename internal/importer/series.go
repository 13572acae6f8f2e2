package importer

import (
	"context"
	"fmt"
	"strconv"

	"longbox/internal/catalog"
	"longbox/internal/operator"
	"longbox/internal/source"
)

// ensureSeries matches the upstream volume to an existing destination series
// or creates one. The boolean is false when the operator backs out.
func (imp *Importer) ensureSeries(ctx context.Context, volume source.Volume) (int64, bool, error) {
	results, err := imp.catalog.SearchSeries(ctx, volume.Name)
	if err != nil {
		imp.op.Warn("Destination series search failed: %v", err)
	}
	if len(results) > 0 {
		options := make([]operator.Option, 0, len(results))
		for _, result := range results {
			options = append(options, operator.Option{
				Label: fmt.Sprintf("%s - %d issues", result.Name, result.IssueCount),
				Value: result.ID,
			})
		}
		id, chosen, err := imp.op.Choose(fmt.Sprintf("Which series matches %q?", volume.Name), options)
		if err != nil {
			return 0, false, err
		}
		if chosen {
			return id, true, nil
		}
	}
	return imp.createSeries(ctx, volume)
}

func (imp *Importer) createSeries(ctx context.Context, volume source.Volume) (int64, bool, error) {
	displayName := fmt.Sprintf("%s (%s)", volume.Name, volume.StartYear)
	imp.op.Title("Series %q needs to be created on the catalog", displayName)

	create, err := imp.op.Confirm(fmt.Sprintf("Create series %q?", displayName))
	if err != nil || !create {
		return 0, false, err
	}

	name, err := imp.inputDefault(fmt.Sprintf("Series name [%s]", volume.Name), volume.Name)
	if err != nil {
		return 0, false, err
	}
	sortName, err := imp.inputDefault(fmt.Sprintf("Sort name [%s]", name), name)
	if err != nil {
		return 0, false, err
	}
	volumeNumber, err := imp.inputInt("Volume number", 1)
	if err != nil {
		return 0, false, err
	}

	publisherID, ok, err := imp.chooseNamed(ctx, "Which publisher?", imp.catalog.Publishers)
	if err != nil || !ok {
		return 0, false, err
	}
	seriesTypeID, ok, err := imp.chooseNamed(ctx, "What type of series?", imp.catalog.SeriesTypes)
	if err != nil || !ok {
		return 0, false, err
	}

	yearBegan, _ := strconv.Atoi(volume.StartYear)
	if yearBegan == 0 {
		yearBegan, err = imp.inputInt("Year the series began", 0)
		if err != nil {
			return 0, false, err
		}
	}
	yearEnd, err := imp.inputInt("Year the series ended (0 if ongoing)", 0)
	if err != nil {
		return 0, false, err
	}

	id, err := imp.catalog.Create(ctx, catalog.SeriesPayload{
		Name:       name,
		SortName:   sortName,
		Volume:     volumeNumber,
		Publisher:  publisherID,
		SeriesType: seriesTypeID,
		YearBegan:  yearBegan,
		YearEnd:    yearEnd,
		Summary:    volume.Summary,
		SourceID:   volume.ID,
	})
	if err != nil {
		imp.op.Error("Creating series %q failed: %v", name, err)
		return 0, false, nil
	}
	imp.op.Success("Created series %q as #%d", name, id)
	return id, true, nil
}

func (imp *Importer) chooseNamed(ctx context.Context, prompt string, list func(context.Context) ([]catalog.NamedItem, error)) (int64, bool, error) {
	items, err := list(ctx)
	if err != nil {
		imp.op.Error("Fetching catalog vocabulary failed: %v", err)
		return 0, false, nil
	}
	options := make([]operator.Option, 0, len(items))
	for _, item := range items {
		options = append(options, operator.Option{Label: item.Name, Value: item.ID})
	}
	return imp.op.Choose(prompt, options)
}

func (imp *Importer) inputDefault(prompt, fallback string) (string, error) {
	value, err := imp.op.Input(prompt)
	if err != nil {
		return "", err
	}
	if value == "" {
		return fallback, nil
	}
	return value, nil
}

func (imp *Importer) inputInt(prompt string, fallback int) (int, error) {
	value, err := imp.op.Input(prompt)
	if err != nil {
		return 0, err
	}
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		imp.op.Warn("%q is not a number, using %d", value, fallback)
		return fallback, nil
	}
	return parsed, nil
}
