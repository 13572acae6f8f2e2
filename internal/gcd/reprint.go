package gcd

import (
	"fmt"
	"strings"
)

// Series is one series row from the dump.
type Series struct {
	ID        int64
	Name      string
	YearBegan int
}

// ReprintIssue is an issue that originally ran material reprinted elsewhere,
// joined with enough series context to label it for an operator.
type ReprintIssue struct {
	ID         int64
	Series     string
	Number     string
	YearBegan  int
	Collection bool
}

// Label renders the issue the way the destination catalog displays issues, so
// labels can be matched against destination search results verbatim.
func (r ReprintIssue) Label() string {
	return fmt.Sprintf("%s (%d) #%s", r.Series, r.YearBegan, r.Number)
}

// collectionMarker flags trade paperbacks and other collected editions, which
// are never valid reprint sources for a single issue.
const collectionMarker = "tpb"

func isCollection(publicationType string) bool {
	return strings.Contains(strings.ToLower(publicationType), collectionMarker)
}
