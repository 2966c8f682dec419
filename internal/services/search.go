package services

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"eventsearch/internal/domain"
	"eventsearch/internal/geo"
	"eventsearch/internal/query"
)

// SearchConfig holds the tunables of the search service.
type SearchConfig struct {
	DefaultUnit geo.Unit
	// CityRadius is the radius in meters used for "@city, country".
	CityRadius float64
	// Workers bounds how many terms are evaluated concurrently; 1 or less is sequential.
	Workers int
	Timeout time.Duration
	// Continents is the continent data the store evaluates "@@" against.
	Continents domain.ContinentBorders
}

type searchService struct {
	store    domain.EventStore
	related  domain.TagRelatedness
	resolver domain.GeoResolver
	cfg      SearchConfig
	now      func() time.Time
	logger   *slog.Logger
}

// SearchOption customizes a search service.
type SearchOption func(*searchService)

// WithClock replaces time.Now as the source of "today".
func WithClock(now func() time.Time) SearchOption {
	return func(s *searchService) { s.now = now }
}

// NewSearchService returns a SearchService evaluating queries against store. related and
// resolver may be nil; relatedness expansion is then skipped and named places fail to resolve.
func NewSearchService(store domain.EventStore, related domain.TagRelatedness, resolver domain.GeoResolver,
	cfg SearchConfig, logger *slog.Logger, opts ...SearchOption) domain.SearchService {
	if cfg.DefaultUnit == "" {
		cfg.DefaultUnit = geo.Kilometers
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &searchService{
		store:    store,
		related:  related,
		resolver: resolver,
		cfg:      cfg,
		now:      time.Now,
		logger:   logger,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Search compiles every term before touching the store, so a malformed term aborts the
// whole query without partial results.
func (s *searchService) Search(ctx context.Context, req domain.SearchRequest) ([]*domain.Event, error) {
	if strings.TrimSpace(req.Query) == "" {
		return []*domain.Event{}, nil
	}
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	today := domain.Day(s.now())
	opts := query.Options{
		Today:       today,
		DefaultUnit: s.cfg.DefaultUnit,
		CityRadius:  s.cfg.CityRadius,
		Broad:       req.Broad,
		Related:     req.Related,
		Continents:  s.cfg.Continents,
	}
	terms := query.SplitTerms(req.Query)
	plans := make([]*query.Plan, len(terms))
	for i, term := range terms {
		plan, err := query.CompileTerm(term, opts)
		if err != nil {
			return nil, err
		}
		plans[i] = plan
	}

	results := make([][]*domain.Event, len(plans))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.cfg.Workers, 1))
	for i, plan := range plans {
		g.Go(func() error {
			events, err := s.evaluate(gctx, plan)
			if err != nil {
				return err
			}
			results[i] = events
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return Combine(today, results...), nil
}

// evaluate runs the two phases of one term: candidates (plus related events) and the
// strict filter.
func (s *searchService) evaluate(ctx context.Context, plan *query.Plan) ([]*domain.Event, error) {
	base, err := s.resolveLocations(ctx, plan.Base)
	if err != nil {
		return nil, err
	}
	resolved := *plan
	resolved.Base = base

	candidates, err := s.store.Evaluate(ctx, resolved.Candidates())
	if err != nil {
		return nil, err
	}
	related, err := s.relatedEvents(ctx, &resolved)
	if err != nil {
		return nil, err
	}
	out := strictFilter(union(candidates, related), plan.Strict)

	s.logger.DebugContext(ctx, "search term evaluated",
		slog.String("term", plan.Term),
		slog.Bool("broad", plan.Broad),
		slog.Bool("related_eligible", plan.RelatedEligible),
		slog.Int("candidates", len(candidates)),
		slog.Int("related", len(related)),
		slog.Int("result", len(out)),
	)
	return out, nil
}

// relatedEvents returns events matching the structural filters of the term and carrying
// any tag related to its free words, excluding the words themselves.
func (s *searchService) relatedEvents(ctx context.Context, plan *query.Plan) ([]*domain.Event, error) {
	if !plan.RelatedEligible || len(plan.Words) == 0 || s.related == nil {
		return nil, nil
	}
	tags, err := s.related.Related(ctx, plan.Words)
	if err != nil {
		return nil, err
	}
	words := make(map[string]struct{}, len(plan.Words))
	for _, w := range plan.Words {
		words[strings.ToLower(w)] = struct{}{}
	}
	var extra []string
	for _, t := range tags {
		if _, ok := words[strings.ToLower(t)]; !ok {
			extra = append(extra, t)
		}
	}
	if len(extra) == 0 {
		return nil, nil
	}
	return s.store.Evaluate(ctx, plan.Base.With(domain.HasAnyTag{Tags: extra}))
}

// resolveLocations replaces named places with coordinates from the geo resolver.
func (s *searchService) resolveLocations(ctx context.Context, p domain.Predicate) (domain.Predicate, error) {
	out := domain.Predicate{Clauses: make([]domain.Clause, len(p.Clauses))}
	copy(out.Clauses, p.Clauses)
	for i, c := range out.Clauses {
		loc, ok := c.(domain.Located)
		if !ok {
			continue
		}
		switch spec := loc.Spec.(type) {
		case domain.NamedPlace:
			place, err := s.lookup(ctx, spec.Name)
			if err != nil {
				return p, err
			}
			out.Clauses[i] = domain.Located{Spec: domain.PointRadius{Center: place.Point, Radius: spec.Radius}}
		case domain.CityCountry:
			if !spec.NeedsResolution() {
				continue
			}
			place, err := s.lookup(ctx, spec.City+", "+spec.Country)
			if err != nil {
				return p, err
			}
			near := place.Point
			spec.Near = &near
			out.Clauses[i] = domain.Located{Spec: spec}
		}
	}
	return out, nil
}

var errNoResolver = errors.New("no geo resolver configured")

func (s *searchService) lookup(ctx context.Context, name string) (*domain.Place, error) {
	if s.resolver == nil {
		return nil, &domain.GeoLookupError{Name: name, Err: errNoResolver}
	}
	place, err := s.resolver.Resolve(ctx, name)
	if err != nil {
		return nil, &domain.GeoLookupError{Name: name, Err: err}
	}
	return place, nil
}

func strictFilter(events []*domain.Event, strict []string) []*domain.Event {
	if len(strict) == 0 {
		return events
	}
	out := events[:0:0]
	for _, e := range events {
		keep := true
		for _, w := range strict {
			if !e.MatchesWord(w, domain.NarrowFields) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, e)
		}
	}
	return out
}

// Combine unions result sets, drops duplicate events by ID and orders the result by
// upcoming date relative to today, then by ID.
func Combine(today time.Time, sets ...[]*domain.Event) []*domain.Event {
	out := union(sets...)
	sort.SliceStable(out, func(i, j int) bool {
		ui, uj := out[i].Upcoming(today), out[j].Upcoming(today)
		if !ui.Equal(uj) {
			return ui.Before(uj)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func union(sets ...[]*domain.Event) []*domain.Event {
	seen := make(map[int64]struct{})
	out := []*domain.Event{}
	for _, set := range sets {
		for _, e := range set {
			if _, ok := seen[e.ID]; ok {
				continue
			}
			seen[e.ID] = struct{}{}
			out = append(out, e)
		}
	}
	return out
}
