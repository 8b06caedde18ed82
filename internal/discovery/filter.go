package discovery

import (
	"nbl/internal/blacklist"
	"nbl/internal/domain"
)

// Filter applies a selection plugin to discovered tests
type Filter struct {
	plugin blacklist.Plugin
}

// NewFilter creates a new Filter
func NewFilter(plugin blacklist.Plugin) *Filter {
	return &Filter{plugin: plugin}
}

// Apply asks the plugin about every candidate and splits them into the tests
// to run and the tests it dropped. Both keep discovery order.
func (f *Filter) Apply(candidates []domain.Candidate) (kept, dropped []domain.Candidate) {
	for _, c := range candidates {
		if f.plugin == nil || f.plugin.Select(c) {
			kept = append(kept, c)
		} else {
			dropped = append(dropped, c)
		}
	}
	return kept, dropped
}

// Addresses returns the host selector of every candidate
func Addresses(candidates []domain.Candidate) []string {
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.Name.Address()
	}
	return out
}
