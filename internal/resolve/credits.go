package resolve

import (
	"context"
	"fmt"
	"strings"
	"time"

	"longbox/internal/catalog"
	"longbox/internal/operator"
	"longbox/internal/textutil"
)

// roleSpan maps a half-open cover-date interval to a role name. A zero from
// is open at the start; a zero until is open at the end.
type roleSpan struct {
	role  string
	from  time.Time
	until time.Time
}

func (s roleSpan) covers(date time.Time) bool {
	if !s.from.IsZero() && date.Before(s.from) {
		return false
	}
	if !s.until.IsZero() && !date.Before(s.until) {
		return false
	}
	return true
}

func day(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

// roleOverrides covers upstream creators whose credited role depends on the
// issue's cover date rather than the upstream role string: publisher
// executives whose titles changed hands on known dates. Domain data, kept as
// a table.
var roleOverrides = map[int64][]roleSpan{
	// Joe Quesada
	1537: {
		{role: "editor in chief", until: day(2011, time.April)},
		{role: "chief creative officer", from: day(2011, time.April)},
	},
	// Dan Buckley
	41596: {
		{role: "publisher", until: day(2017, time.May)},
		{role: "president", from: day(2017, time.May)},
	},
	// Axel Alonso
	23115: {
		{role: "editor in chief", from: day(2011, time.April), until: day(2018, time.March)},
	},
	// C.B. Cebulski
	43193: {
		{role: "editor in chief", from: day(2018, time.March)},
	},
	// Jim Shooter
	40450: {
		{role: "editor in chief", from: day(1978, time.March), until: day(1987, time.October)},
	},
	// Alan Fine
	56587: {
		{role: "executive producer"},
	},
	// Mike Richardson
	45055: {
		{role: "publisher"},
	},
}

func overrideRoles(creatorID int64, coverDate time.Time) []string {
	var roles []string
	for _, span := range roleOverrides[creatorID] {
		if span.covers(coverDate) {
			roles = append(roles, span.role)
		}
	}
	return roles
}

// normalizeRoles applies the fixed textual cleanups to upstream role strings.
// An editor/assistant pair collapses to the single "assistant editor" role.
func normalizeRoles(roles []string) []string {
	var hasEditor, hasAssistant bool
	for _, role := range roles {
		if textutil.EqualFold(role, "editor") {
			hasEditor = true
		}
		if textutil.EqualFold(role, "assistant") {
			hasAssistant = true
		}
	}
	if hasEditor && hasAssistant {
		return []string{"assistant editor"}
	}

	out := make([]string, 0, len(roles))
	for _, role := range roles {
		if textutil.EqualFold(role, "penciler") {
			role = "penciller"
		}
		out = append(out, role)
	}
	return out
}

// RoleVocabulary supplies the destination's role list.
type RoleVocabulary interface {
	Roles(ctx context.Context) ([]catalog.NamedItem, error)
}

// RoleAssigner maps upstream credit strings to destination role ids. The
// destination vocabulary is fetched once and reused for the session.
type RoleAssigner struct {
	catalog RoleVocabulary
	op      operator.Operator
	roles   []catalog.NamedItem
}

// NewRoleAssigner creates a RoleAssigner.
func NewRoleAssigner(vocabulary RoleVocabulary, op operator.Operator) *RoleAssigner {
	return &RoleAssigner{catalog: vocabulary, op: op}
}

// Assign produces the destination role ids for one credited creator on an
// issue with the given cover date. When no upstream role string maps to the
// vocabulary, the operator picks the roles by hand.
func (a *RoleAssigner) Assign(ctx context.Context, creator Ref, roleText string, coverDate time.Time) ([]int64, error) {
	names := overrideRoles(creator.ID, coverDate)
	if len(names) == 0 {
		names = normalizeRoles(splitRoles(roleText))
	}

	vocabulary, err := a.vocabulary(ctx)
	if err != nil {
		return nil, err
	}

	var ids []int64
	for _, name := range names {
		for _, role := range vocabulary {
			if textutil.EqualFold(name, role.Name) {
				ids = append(ids, role.ID)
			}
		}
	}
	if len(ids) > 0 {
		return ids, nil
	}

	options := make([]operator.Option, 0, len(vocabulary))
	for _, role := range vocabulary {
		options = append(options, operator.Option{Label: role.Name, Value: role.ID})
	}
	return a.op.MultiChoose(fmt.Sprintf("No role found for %s. What should it be?", creator.Name), options)
}

func (a *RoleAssigner) vocabulary(ctx context.Context) ([]catalog.NamedItem, error) {
	if a.roles == nil {
		roles, err := a.catalog.Roles(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch role vocabulary: %w", err)
		}
		a.roles = roles
	}
	return a.roles, nil
}

func splitRoles(roleText string) []string {
	var roles []string
	for _, role := range strings.Split(roleText, ",") {
		role = strings.TrimSpace(role)
		if role != "" {
			roles = append(roles, role)
		}
	}
	return roles
}
