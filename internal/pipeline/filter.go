package pipeline

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/ecosdelseo/prospector/internal/model"
)

// ChainLists holds the denylists used to exclude multinational and large
// national chains. The lists ship with defaults and can be extended from a
// YAML file without touching pipeline logic.
type ChainLists struct {
	Names         []string `yaml:"names"`
	DomainMarkers []string `yaml:"domain_markers"`
}

// DefaultChainLists returns the built-in denylists.
func DefaultChainLists() ChainLists {
	return ChainLists{
		Names: []string{
			"starbucks", "mcdonald", "kfc", "burger king", "pizza hut",
			"domino", "subway", "papa john", "dunkin", "popeyes",
			"walmart", "plaza vea", "tottus", "metro", "wong",
			"ripley", "saga falabella", "oechsle", "sodimac", "promart",
			"inkafarma", "mifarma", "boticas",
			"claro", "movistar", "entel", "bitel",
			"interbank", "bcp", "bbva", "scotiabank", "banco de la nacion",
		},
		DomainMarkers: []string{
			"corporate", "global", "worldwide", "intl",
			"franchise", "holdings", "group",
		},
	}
}

// LoadChainLists reads denylists from a YAML file. Entries extend the
// defaults rather than replacing them.
func LoadChainLists(path string) (ChainLists, error) {
	lists := DefaultChainLists()

	data, err := os.ReadFile(path)
	if err != nil {
		return lists, eris.Wrapf(err, "filter: read chain list %s", path)
	}

	var extra ChainLists
	if err := yaml.Unmarshal(data, &extra); err != nil {
		return lists, eris.Wrapf(err, "filter: parse chain list %s", path)
	}

	lists.Names = append(lists.Names, extra.Names...)
	lists.DomainMarkers = append(lists.DomainMarkers, extra.DomainMarkers...)
	return lists, nil
}

// Filter excludes chains and large corporations. The system prospects
// under-served small and medium businesses; a recognized chain is not an
// addressable lead.
type Filter struct {
	names           []string
	domainMarkers   []string
	reviewThreshold int
}

// NewFilter creates a Filter from the given denylists. reviewThreshold is
// the review count above which a business with any website is treated as a
// large chain; values <= 0 fall back to 500.
func NewFilter(lists ChainLists, reviewThreshold int) *Filter {
	if reviewThreshold <= 0 {
		reviewThreshold = 500
	}
	names := make([]string, len(lists.Names))
	for i, n := range lists.Names {
		names[i] = strings.ToLower(n)
	}
	markers := make([]string, len(lists.DomainMarkers))
	for i, m := range lists.DomainMarkers {
		markers[i] = strings.ToLower(m)
	}
	return &Filter{names: names, domainMarkers: markers, reviewThreshold: reviewThreshold}
}

// IsLocal reports whether the business looks like an addressable local
// lead. Three independent checks; any match rejects:
// a denylisted name substring, a corporate marker in the website domain,
// or a review count above the threshold combined with a website.
func (f *Filter) IsLocal(b model.EnrichedBusiness) bool {
	name := strings.ToLower(b.Name)
	for _, chain := range f.names {
		if strings.Contains(name, chain) {
			return false
		}
	}

	if b.Website != "" {
		site := strings.ToLower(b.Website)
		for _, marker := range f.domainMarkers {
			if strings.Contains(site, marker) {
				return false
			}
		}
	}

	if b.ReviewCount > f.reviewThreshold && b.HasWebsite() {
		return false
	}

	return true
}
