package repository

import (
	"fmt"
	"strings"

	"go-teeth-classifier/internal/logger"
	"go-teeth-classifier/pkg/models"

	"github.com/arbovm/levenshtein"
)

// maxSuggestDistance bounds how far a typo may be from a known code.
const maxSuggestDistance = 3

// FallbackEntry is returned by Lookup for labels the catalog does not know.
var FallbackEntry = models.CatalogEntry{
	Description:    "No information available",
	Recommendation: "Consult with dental specialist",
}

var defaultEntries = []models.CatalogEntry{
	{
		Code:           models.LabelCariesSuperficial,
		DisplayName:    "Caries Superficial",
		Description:    "Early stage of tooth decay affecting the outer enamel layer.",
		Recommendation: "Recommend fluoride treatment and improved oral hygiene. Schedule a follow-up in 3 months.",
		ExternalLink:   "https://en.wikipedia.org/wiki/Tooth_decay",
		Icon:           "🦷",
	},
	{
		Code:           models.LabelCompositeSuperficial,
		DisplayName:    "Composite Superficial",
		Description:    "Shallow dental filling material visible on the tooth surface.",
		Recommendation: "No immediate treatment needed. Routine monitoring recommended.",
		ExternalLink:   "https://en.wikipedia.org/wiki/Dental_composite",
		Icon:           "🪥",
	},
	{
		Code:           models.LabelGum,
		DisplayName:    "Gum Area",
		Description:    "Image focuses on gum tissue, showing potential periodontal concerns.",
		Recommendation: "Consider periodontal evaluation. Recommend dental cleaning and gum health assessment.",
		ExternalLink:   "https://en.wikipedia.org/wiki/Gums",
		Icon:           "👄",
	},
	{
		Code:           models.LabelMetalCrown,
		DisplayName:    "Metal Crown",
		Description:    "Artificial metal restoration covering a damaged tooth.",
		Recommendation: "Routine crown monitoring recommended. Check for margins and integrity.",
		ExternalLink:   "https://en.wikipedia.org/wiki/Crown_(dental_restoration)",
		Icon:           "👑",
	},
	{
		Code:           models.LabelOrthodonticComponent,
		DisplayName:    "Orthodontic Component",
		Description:    "Braces or other alignment devices visible in the image.",
		Recommendation: "Regular orthodontic follow-up recommended. Monitor tooth movement.",
		ExternalLink:   "https://en.wikipedia.org/wiki/Dental_braces",
		Icon:           "🔧",
	},
	{
		Code:           models.LabelOralLichenPlanus,
		DisplayName:    "Oral Lichen Planus",
		Description:    "Chronic inflammatory condition affecting oral mucous membranes.",
		Recommendation: "Refer to oral medicine specialist. May require biopsy for confirmation.",
		ExternalLink:   "https://en.wikipedia.org/wiki/Oral_lichen_planus",
		Icon:           "🩺",
	},
	{
		Code:           models.LabelOther,
		DisplayName:    "Other",
		Description:    "Condition not matching standard categories. Requires specialist review.",
		Recommendation: "Recommend consultation with oral radiologist or specialist.",
		ExternalLink:   "https://en.wikipedia.org/wiki/Oral_and_maxillofacial_radiology",
		Icon:           "❓",
	},
}

// StaticCatalog implements CatalogRepository over a fixed set of entries
type StaticCatalog struct {
	entries map[models.ClassLabel]models.CatalogEntry
	ordered []models.CatalogEntry
}

// NewDefaultCatalog returns the built-in catalog covering every label
func NewDefaultCatalog() *StaticCatalog {
	c, err := NewStaticCatalog(defaultEntries)
	if err != nil {
		panic(fmt.Sprintf("default catalog: %v", err))
	}
	return c
}

// NewStaticCatalog builds a catalog from entries. Unknown and duplicate codes
// are rejected. Labels without an entry are logged and served FallbackEntry.
func NewStaticCatalog(entries []models.CatalogEntry) (*StaticCatalog, error) {
	byCode := make(map[models.ClassLabel]models.CatalogEntry, len(entries))
	for _, e := range entries {
		if _, ok := models.ParseClassLabel(string(e.Code)); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownLabel, e.Code)
		}
		if _, dup := byCode[e.Code]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateEntry, e.Code)
		}
		byCode[e.Code] = e
	}

	ordered := make([]models.CatalogEntry, 0, models.NumClasses)
	for _, label := range models.ClassLabels() {
		e, ok := byCode[label]
		if !ok {
			logger.WithComponent("catalog").WithField("label", label).Warn("No catalog entry for label, fallback will be served")
			continue
		}
		ordered = append(ordered, e)
	}

	return &StaticCatalog{entries: byCode, ordered: ordered}, nil
}

// Lookup never fails; unknown labels get FallbackEntry with the code filled in.
func (c *StaticCatalog) Lookup(label models.ClassLabel) models.CatalogEntry {
	if e, ok := c.entries[label]; ok {
		return e
	}
	fallback := FallbackEntry
	fallback.Code = label
	return fallback
}

func (c *StaticCatalog) Get(code string) (models.CatalogEntry, bool) {
	label, ok := models.ParseClassLabel(code)
	if !ok {
		return models.CatalogEntry{}, false
	}
	e, ok := c.entries[label]
	return e, ok
}

func (c *StaticCatalog) All() []models.CatalogEntry {
	out := make([]models.CatalogEntry, len(c.ordered))
	copy(out, c.ordered)
	return out
}

func (c *StaticCatalog) Suggest(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}

	best, bestDist := "", maxSuggestDistance+1
	for _, e := range c.ordered {
		candidate := string(e.Code)
		if strings.EqualFold(candidate, code) {
			return candidate
		}
		d := levenshtein.Distance(strings.ToLower(code), strings.ToLower(candidate))
		if d < bestDist {
			best, bestDist = candidate, d
		}
	}
	return best
}

var _ CatalogRepository = (*StaticCatalog)(nil)
