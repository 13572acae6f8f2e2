package source

// Ref is a lightweight pointer to another upstream entity.
type Ref struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Image carries the upstream image variants for an entity.
type Image struct {
	OriginalURL string `json:"original_url"`
}

// Character is the upstream character record.
type Character struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	RealName    string `json:"real_name"`
	Summary     string `json:"deck"`
	Description string `json:"description"`
	Image       Image  `json:"image"`
	Teams       []Ref  `json:"teams"`
	Creators    []Ref  `json:"creators"`
}

// Team is the upstream team record.
type Team struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Summary     string `json:"deck"`
	Description string `json:"description"`
	Image       Image  `json:"image"`
}

// Creator is the upstream creator record. Birth and Death are upstream date
// strings and may be empty.
type Creator struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Summary     string `json:"deck"`
	Description string `json:"description"`
	Image       Image  `json:"image"`
	Birth       string `json:"birth"`
	Death       string `json:"death"`
}

// Arc is the upstream story arc record.
type Arc struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Summary     string `json:"deck"`
	Description string `json:"description"`
	Image       Image  `json:"image"`
}

// Volume is the upstream series record.
type Volume struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	StartYear  string `json:"start_year"`
	IssueCount int    `json:"count_of_issues"`
	Publisher  Ref    `json:"publisher"`
	Summary    string `json:"deck"`
	Image      Image  `json:"image"`
}

// CreditRef names a creator credited on an issue along with the upstream's
// comma-separated role string.
type CreditRef struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Roles string `json:"role"`
}

// Issue is the upstream issue record.
type Issue struct {
	ID         int64       `json:"id"`
	Volume     Ref         `json:"volume"`
	Number     string      `json:"issue_number"`
	Name       string      `json:"name"`
	CoverDate  string      `json:"cover_date"`
	StoreDate  string      `json:"store_date"`
	Summary    string      `json:"deck"`
	Image      Image       `json:"image"`
	Characters []Ref       `json:"character_credits"`
	Teams      []Ref       `json:"team_credits"`
	Arcs       []Ref       `json:"story_arc_credits"`
	Creators   []CreditRef `json:"person_credits"`
}
