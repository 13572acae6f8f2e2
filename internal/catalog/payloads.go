package catalog

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
)

// formValues is the wire shape shared by create payloads: ordered key/value
// pairs plus an optional local image file uploaded as multipart content.
type formValues struct {
	fields    url.Values
	imagePath string
}

// Payload is implemented by every typed create payload.
type Payload interface {
	Validate() error
	resource() Resource
	encode() formValues
}

// CharacterPayload creates a character on the destination.
type CharacterPayload struct {
	Name        string
	Description string
	ImagePath   string
	Teams       []int64
	Creators    []int64
	SourceID    int64
}

func (p CharacterPayload) Validate() error {
	if p.Name == "" {
		return errors.New("character payload: name is required")
	}
	return nil
}

func (p CharacterPayload) resource() Resource { return ResourceCharacter }

func (p CharacterPayload) encode() formValues {
	v := newValues(p.Name, p.Description, p.SourceID)
	appendIDs(v, "teams", p.Teams)
	appendIDs(v, "creators", p.Creators)
	return formValues{fields: v, imagePath: p.ImagePath}
}

// TeamPayload creates a team on the destination.
type TeamPayload struct {
	Name        string
	Description string
	ImagePath   string
	SourceID    int64
}

func (p TeamPayload) Validate() error {
	if p.Name == "" {
		return errors.New("team payload: name is required")
	}
	return nil
}

func (p TeamPayload) resource() Resource { return ResourceTeam }

func (p TeamPayload) encode() formValues {
	return formValues{fields: newValues(p.Name, p.Description, p.SourceID), imagePath: p.ImagePath}
}

// CreatorPayload creates a creator on the destination.
type CreatorPayload struct {
	Name        string
	Description string
	ImagePath   string
	Birth       string
	Death       string
	SourceID    int64
}

func (p CreatorPayload) Validate() error {
	if p.Name == "" {
		return errors.New("creator payload: name is required")
	}
	return nil
}

func (p CreatorPayload) resource() Resource { return ResourceCreator }

func (p CreatorPayload) encode() formValues {
	v := newValues(p.Name, p.Description, p.SourceID)
	setOptional(v, "birth", p.Birth)
	setOptional(v, "death", p.Death)
	return formValues{fields: v, imagePath: p.ImagePath}
}

// ArcPayload creates a story arc on the destination.
type ArcPayload struct {
	Name        string
	Description string
	ImagePath   string
	SourceID    int64
}

func (p ArcPayload) Validate() error {
	if p.Name == "" {
		return errors.New("arc payload: name is required")
	}
	return nil
}

func (p ArcPayload) resource() Resource { return ResourceArc }

func (p ArcPayload) encode() formValues {
	return formValues{fields: newValues(p.Name, p.Description, p.SourceID), imagePath: p.ImagePath}
}

// SeriesPayload creates a series on the destination.
type SeriesPayload struct {
	Name       string
	SortName   string
	Volume     int
	Publisher  int64
	SeriesType int64
	YearBegan  int
	YearEnd    int
	Genres     []int64
	Summary    string
	SourceID   int64
}

func (p SeriesPayload) Validate() error {
	if p.Name == "" {
		return errors.New("series payload: name is required")
	}
	if p.Publisher == 0 {
		return errors.New("series payload: publisher is required")
	}
	if p.YearBegan == 0 {
		return errors.New("series payload: year began is required")
	}
	return nil
}

func (p SeriesPayload) resource() Resource { return ResourceSeries }

func (p SeriesPayload) encode() formValues {
	v := url.Values{}
	v.Set("name", p.Name)
	v.Set("sort_name", p.SortName)
	v.Set("volume", strconv.Itoa(p.Volume))
	v.Set("publisher", strconv.FormatInt(p.Publisher, 10))
	v.Set("series_type", strconv.FormatInt(p.SeriesType, 10))
	v.Set("year_began", strconv.Itoa(p.YearBegan))
	if p.YearEnd != 0 {
		v.Set("year_end", strconv.Itoa(p.YearEnd))
	}
	setOptional(v, "desc", p.Summary)
	appendIDs(v, "genres", p.Genres)
	setSourceID(v, p.SourceID)
	return formValues{fields: v}
}

// The destination's age ratings are a fixed vocabulary, not a listable
// endpoint.
const (
	RatingUnknown int64 = iota + 1
	RatingEveryone
	RatingTeen
	RatingTeenPlus
	RatingMature
	RatingCCA
)

// Ratings returns the age-rating vocabulary in display order.
func Ratings() []NamedItem {
	return []NamedItem{
		{ID: RatingUnknown, Name: "Unknown"},
		{ID: RatingEveryone, Name: "Everyone"},
		{ID: RatingTeen, Name: "Teen"},
		{ID: RatingTeenPlus, Name: "Teen Plus"},
		{ID: RatingMature, Name: "Mature"},
		{ID: RatingCCA, Name: "CCA"},
	}
}

// IssuePayload creates an issue on the destination.
type IssuePayload struct {
	Series     int64
	Number     string
	Stories    []string
	CoverDate  string
	StoreDate  string
	Summary    string
	UPC        string
	Price      string
	Pages      int
	Rating     int64
	ImagePath  string
	Characters []int64
	Teams      []int64
	Arcs       []int64
	Reprints   []int64
	SourceID   int64
}

func (p IssuePayload) Validate() error {
	if p.Series == 0 {
		return errors.New("issue payload: series is required")
	}
	if p.CoverDate == "" {
		return errors.New("issue payload: cover date is required")
	}
	return nil
}

func (p IssuePayload) resource() Resource { return ResourceIssue }

func (p IssuePayload) encode() formValues {
	v := url.Values{}
	v.Set("series", strconv.FormatInt(p.Series, 10))
	setOptional(v, "number", p.Number)
	for _, story := range p.Stories {
		v.Add("name", story)
	}
	v.Set("cover_date", p.CoverDate)
	setOptional(v, "store_date", p.StoreDate)
	setOptional(v, "desc", p.Summary)
	setOptional(v, "upc", p.UPC)
	setOptional(v, "price", p.Price)
	if p.Pages > 0 {
		v.Set("page", strconv.Itoa(p.Pages))
	}
	if p.Rating != 0 {
		v.Set("rating", strconv.FormatInt(p.Rating, 10))
	}
	appendIDs(v, "characters", p.Characters)
	appendIDs(v, "teams", p.Teams)
	appendIDs(v, "arcs", p.Arcs)
	appendIDs(v, "reprints", p.Reprints)
	setSourceID(v, p.SourceID)
	return formValues{fields: v, imagePath: p.ImagePath}
}

// IssuePatch updates an existing destination issue. Only set fields are sent.
type IssuePatch struct {
	Characters []int64
	Teams      []int64
	Arcs       []int64
	Reprints   []int64
	Summary    string
	SourceID   int64
}

// Empty reports whether the patch carries no changes.
func (p IssuePatch) Empty() bool {
	return len(p.Characters) == 0 && len(p.Teams) == 0 && len(p.Arcs) == 0 &&
		len(p.Reprints) == 0 && p.Summary == "" && p.SourceID == 0
}

func (p IssuePatch) encode() url.Values {
	v := url.Values{}
	appendIDs(v, "characters", p.Characters)
	appendIDs(v, "teams", p.Teams)
	appendIDs(v, "arcs", p.Arcs)
	appendIDs(v, "reprints", p.Reprints)
	setOptional(v, "desc", p.Summary)
	setSourceID(v, p.SourceID)
	return v
}

// CreditPayload records one creator's roles on an issue.
type CreditPayload struct {
	Issue   int64   `json:"issue"`
	Creator int64   `json:"creator"`
	Roles   []int64 `json:"role"`
}

func (p CreditPayload) Validate() error {
	if p.Issue == 0 || p.Creator == 0 {
		return fmt.Errorf("credit payload: issue and creator are required")
	}
	return nil
}

func newValues(name, description string, sourceID int64) url.Values {
	v := url.Values{}
	v.Set("name", name)
	setOptional(v, "desc", description)
	setSourceID(v, sourceID)
	return v
}

func setOptional(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

func setSourceID(v url.Values, id int64) {
	if id != 0 {
		v.Set("cv_id", strconv.FormatInt(id, 10))
	}
}

func appendIDs(v url.Values, key string, ids []int64) {
	for _, id := range ids {
		v.Add(key, strconv.FormatInt(id, 10))
	}
}
