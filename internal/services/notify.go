package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"eventsearch/internal/domain"
)

// SiteInfo names the site in outgoing emails.
type SiteInfo struct {
	Name   string
	Domain string
}

type notificationService struct {
	events  domain.EventGetter
	filters domain.FilterRepository
	search  domain.SearchService
	email   domain.EmailService
	site    SiteInfo
	timeout time.Duration
	logger  *slog.Logger
}

func NewNotificationService(events domain.EventGetter, filters domain.FilterRepository, search domain.SearchService,
	email domain.EmailService, site SiteInfo, timeout time.Duration, logger *slog.Logger) domain.NotificationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &notificationService{
		events:  events,
		filters: filters,
		search:  search,
		email:   email,
		site:    site,
		timeout: timeout,
		logger:  logger,
	}
}

// NotifyEventMatches runs every email-enabled filter and mails the owners of filters whose
// results contain the event. Filters with unusable queries are skipped.
func (s *notificationService) NotifyEventMatches(ctx context.Context, eventID int64) (int, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	event, err := s.events.Get(ctx, eventID)
	if err != nil {
		return 0, fmt.Errorf("load event %d: %w", eventID, err)
	}
	filters, err := s.filters.ListWithEmail(ctx)
	if err != nil {
		return 0, fmt.Errorf("list filters: %w", err)
	}

	sent := 0
	for _, f := range filters {
		results, err := s.search.Search(ctx, domain.SearchRequest{Query: f.Query})
		if errors.Is(err, domain.ErrMalformedQuery) || errors.Is(err, domain.ErrGeoLookup) {
			s.logger.WarnContext(ctx, "skipping filter",
				slog.Int64("filter_id", f.ID), slog.String("query", f.Query), slog.Any("error", err))
			continue
		}
		if err != nil {
			return sent, fmt.Errorf("run filter %d: %w", f.ID, err)
		}
		if !containsEvent(results, eventID) {
			continue
		}
		err = s.email.SendEventNotice(ctx, &domain.EventNoticeEmailData{
			Email:      f.UserEmail,
			FilterName: f.Name,
			Query:      f.Query,
			Event:      event,
			SiteName:   s.site.Name,
			SiteDomain: s.site.Domain,
		})
		if err != nil {
			s.logger.ErrorContext(ctx, "event notice failed",
				slog.Int64("filter_id", f.ID), slog.String("to", f.UserEmail), slog.Any("error", err))
			continue
		}
		sent++
	}
	return sent, nil
}

func containsEvent(events []*domain.Event, id int64) bool {
	for _, e := range events {
		if e.ID == id {
			return true
		}
	}
	return false
}
