// README: Location service answers suggestion queries from the catalog and, optionally, Google Places.
package location

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
)

// Searcher is an external place lookup. PlacesSearcher implements it.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Location, error)
}

type Service struct {
	searcher Searcher
	log      logrus.FieldLogger
}

// NewService builds a suggestion service. searcher may be nil, in which
// case only the built-in catalog is consulted.
func NewService(searcher Searcher, log logrus.FieldLogger) *Service {
	return &Service{searcher: searcher, log: log}
}

// Suggest returns catalog matches first, followed by external results whose
// address is not already present. External failures degrade to catalog-only.
func (s *Service) Suggest(ctx context.Context, query string) []Location {
	out := filterCatalog(query)
	if s.searcher == nil || strings.TrimSpace(query) == "" {
		return out
	}

	extra, err := s.searcher.Search(ctx, query)
	if err != nil {
		s.log.WithError(err).WithField("query", query).Warn("place search failed")
		return out
	}

	seen := make(map[string]struct{}, len(out))
	for _, loc := range out {
		seen[strings.ToLower(loc.Address)] = struct{}{}
	}
	for _, loc := range extra {
		key := strings.ToLower(loc.Address)
		if _, dup := seen[key]; dup || !loc.Valid() {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, loc)
	}
	return out
}
