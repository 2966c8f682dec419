package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"eventsearch/internal/delivery/http/helpers"
	"eventsearch/internal/domain"
)

// maxQueryLength bounds the raw query accepted over HTTP.
const maxQueryLength = 1000

const icalContentType = "text/calendar; charset=utf-8"

// SearchRequest is the request body for POST /search.
type SearchRequest struct {
	Query   string `json:"query"`
	Related bool   `json:"related"`
	Broad   bool   `json:"broad"`
}

// Validate implements helpers.Validator.
func (s SearchRequest) Validate() []string {
	var errs []string
	if len(s.Query) > maxQueryLength {
		errs = append(errs, "query must be at most "+strconv.Itoa(maxQueryLength)+" bytes")
	}
	return errs
}

// SearchResponse is the paginated result of a search.
type SearchResponse struct {
	Query      string                 `json:"query"`
	Events     []*domain.Event        `json:"events"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// SearchSuccessResponse is the success response envelope for /search (200).
type SearchSuccessResponse struct {
	Data  SearchResponse    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type SearchController struct {
	Logger   *slog.Logger
	Service  domain.SearchService
	Calendar domain.CalendarEncoder
}

func NewSearchController(logger *slog.Logger, svc domain.SearchService, calendar domain.CalendarEncoder) *SearchController {
	return &SearchController{
		Logger:   logger,
		Service:  svc,
		Calendar: calendar,
	}
}

// Search godoc
// @Summary Search events
// @Description Evaluates a query such as "#jazz @berlin 2024-06-01:2024-06-30 | =42". Terms are separated by " | ". Results are distinct events ordered by their next upcoming date.
// @Tags search
// @Produce json
// @Param q query string false "Query"
// @Param related query bool false "Expand free words with related tags"
// @Param broad query bool false "Treat every term as broad"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.SearchSuccessResponse "data contains the events of the page"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 422 {object} helpers.APIResponse "error.code: geo_lookup_failed"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /search [get]
func (c *SearchController) Search(w http.ResponseWriter, r *http.Request) {
	req, ok := searchRequestFromQuery(w, r)
	if !ok {
		return
	}
	events, ok := c.run(w, r, req)
	if !ok {
		return
	}
	c.writePage(w, r, req, events)
}

// SearchICS godoc
// @Summary Search events as an iCalendar feed
// @Description Evaluates the query like GET /search and returns every matching event with a start date as an all-day VEVENT.
// @Tags search
// @Produce text/calendar
// @Param q query string false "Query"
// @Param related query bool false "Expand free words with related tags"
// @Param broad query bool false "Treat every term as broad"
// @Success 200 {string} string "iCalendar feed"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 422 {object} helpers.APIResponse "error.code: geo_lookup_failed"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /search.ics [get]
func (c *SearchController) SearchICS(w http.ResponseWriter, r *http.Request) {
	req, ok := searchRequestFromQuery(w, r)
	if !ok {
		return
	}
	events, ok := c.run(w, r, req)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", icalContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(c.Calendar.Encode(req.Query, events))
}

// SearchPost godoc
// @Summary Search events (JSON body)
// @Description Same as GET /search with the query in the body; useful for long queries.
// @Tags search
// @Accept json
// @Produce json
// @Param body body SearchRequest true "Search request"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.SearchSuccessResponse "data contains the events of the page"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 422 {object} helpers.APIResponse "error.code: geo_lookup_failed"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /search [post]
func (c *SearchController) SearchPost(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	events, ok := c.run(w, r, req)
	if !ok {
		return
	}
	c.writePage(w, r, req, events)
}

func searchRequestFromQuery(w http.ResponseWriter, r *http.Request) (SearchRequest, bool) {
	q := r.URL.Query()
	req := SearchRequest{Query: q.Get("q")}
	var err error
	if req.Related, err = parseBool(q.Get("related")); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "related must be a boolean")
		return req, false
	}
	if req.Broad, err = parseBool(q.Get("broad")); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "broad must be a boolean")
		return req, false
	}
	if errs := req.Validate(); len(errs) > 0 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, errs[0])
		return req, false
	}
	return req, true
}

// run executes the search and writes the error response on failure.
func (c *SearchController) run(w http.ResponseWriter, r *http.Request, req SearchRequest) ([]*domain.Event, bool) {
	events, err := c.Service.Search(r.Context(), domain.SearchRequest{
		Query:   req.Query,
		Related: req.Related,
		Broad:   req.Broad,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMalformedQuery):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		case errors.Is(err, domain.ErrGeoLookup):
			helpers.WriteJSONError(w, http.StatusUnprocessableEntity, helpers.ErrCodeGeoLookupFailed, err.Error())
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "search failed")
		}
		return nil, false
	}
	return events, true
}

func (c *SearchController) writePage(w http.ResponseWriter, r *http.Request, req SearchRequest, events []*domain.Event) {
	params := helpers.ParsePagination(r)
	helpers.WriteJSONSuccess(w, http.StatusOK, SearchResponse{
		Query:      req.Query,
		Events:     helpers.Page(events, params),
		Pagination: helpers.NewPaginationMeta(params, len(events)),
	})
}

func parseBool(s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	return strconv.ParseBool(s)
}
