// Package reprints cross-references grassroots-database reprint facts
// against destination catalog issues.
package reprints

import (
	"context"
	"fmt"
	"log/slog"

	"longbox/internal/catalog"
	"longbox/internal/convstore"
	"longbox/internal/gcd"
	"longbox/internal/logging"
	"longbox/internal/operator"
	"longbox/internal/textutil"
)

// collectionMarker must appear in a destination issue name for it to be an
// acceptable match for a collected-edition reference.
const collectionMarker = "tpb"

// IssueSearcher is the slice of the destination client the matcher needs.
type IssueSearcher interface {
	SearchIssues(ctx context.Context, seriesName, number string) ([]catalog.IssueResult, error)
}

// Matcher resolves reprint references to destination issue ids. Matching is
// three-tier: conversion cache, exact label equality, then interactive
// disambiguation. Lookups that come up empty are remembered for the rest of
// the run.
type Matcher struct {
	store   *convstore.Namespace
	catalog IssueSearcher
	op      operator.Operator
	missing map[int64]bool
	logger  *slog.Logger
}

// NewMatcher creates a Matcher over the grassroots conversion namespace.
func NewMatcher(store *convstore.Namespace, searcher IssueSearcher, op operator.Operator, logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Matcher{
		store:   store,
		catalog: searcher,
		op:      op,
		missing: make(map[int64]bool),
		logger:  logging.WithComponent(logger, "reprints"),
	}
}

// Resolve produces the destination reprint id list for one issue: the ids
// already on the destination record unioned with every newly matched
// reference, without duplicates.
func (m *Matcher) Resolve(ctx context.Context, existing []int64, refs []gcd.ReprintIssue) ([]int64, error) {
	ids := make([]int64, 0, len(existing)+len(refs))
	seen := make(map[int64]bool, len(existing))
	for _, id := range existing {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	for _, ref := range refs {
		if m.missing[ref.ID] {
			continue
		}
		id, ok, err := m.resolveOne(ctx, ref)
		if err != nil {
			return nil, err
		}
		if ok && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *Matcher) resolveOne(ctx context.Context, ref gcd.ReprintIssue) (int64, bool, error) {
	if destID, ok, err := m.store.Get(ctx, convstore.KindIssue, ref.ID); err != nil {
		return 0, false, err
	} else if ok {
		return destID, true, nil
	}

	label := ref.Label()
	results, err := m.catalog.SearchIssues(ctx, ref.Series, ref.Number)
	if err != nil {
		m.op.Warn("Reprint search for %q failed: %v", label, err)
		return 0, false, nil
	}
	if len(results) == 0 {
		m.op.Warn("No match for reprint %q", label)
		m.missing[ref.ID] = true
		return 0, false, nil
	}

	if candidate, found := exactMatch(results, label); found {
		if ref.Collection && !textutil.ContainsFold(candidate.Name, collectionMarker) {
			m.logger.Warn("collection guard rejected match",
				logging.Int64("gcd_id", ref.ID),
				logging.String("label", label),
				logging.String("candidate", candidate.Name),
			)
		} else {
			if err := m.store.Store(ctx, convstore.KindIssue, ref.ID, candidate.ID); err != nil {
				return 0, false, err
			}
			return candidate.ID, true, nil
		}
	}

	return m.choose(ctx, ref, label, results)
}

// exactMatch scans for a result whose display label equals the built label
// ignoring case. A single-result response still has to match the label; a
// lone near-miss is never trusted.
func exactMatch(results []catalog.IssueResult, label string) (catalog.IssueResult, bool) {
	for _, result := range results {
		if textutil.EqualFold(result.Name, label) {
			return result, true
		}
	}
	return catalog.IssueResult{}, false
}

func (m *Matcher) choose(ctx context.Context, ref gcd.ReprintIssue, label string, results []catalog.IssueResult) (int64, bool, error) {
	options := make([]operator.Option, 0, len(results))
	for _, result := range results {
		options = append(options, operator.Option{Label: result.Name, Value: result.ID})
	}
	id, chosen, err := m.op.Choose(fmt.Sprintf("Which issue is reprint %q?", label), options)
	if err != nil {
		return 0, false, err
	}
	if !chosen {
		m.missing[ref.ID] = true
		return 0, false, nil
	}
	if err := m.store.Store(ctx, convstore.KindIssue, ref.ID, id); err != nil {
		return 0, false, err
	}
	return id, true, nil
}
