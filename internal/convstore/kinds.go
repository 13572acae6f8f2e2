package convstore

import "fmt"

// Kind identifies the category of resource a conversion record maps.
type Kind int

const (
	KindCharacter Kind = iota + 1
	KindTeam
	KindArc
	KindCreator
	KindIssue
)

// Kinds lists every resource kind in display order.
func Kinds() []Kind {
	return []Kind{KindCharacter, KindTeam, KindArc, KindCreator, KindIssue}
}

func (k Kind) String() string {
	switch k {
	case KindCharacter:
		return "character"
	case KindTeam:
		return "team"
	case KindArc:
		return "arc"
	case KindCreator:
		return "creator"
	case KindIssue:
		return "issue"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind converts a kind name as printed by String back to a Kind.
func ParseKind(name string) (Kind, error) {
	for _, k := range Kinds() {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown resource kind %q", name)
}
