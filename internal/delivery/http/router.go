package http

import (
	"net/http"
	"slices"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventsearch/internal/delivery/http/controllers"
)

// Router serves the application routes.
type Router struct {
	*http.ServeMux
	methods []string
}

type route struct {
	method  string
	path    string
	handler http.HandlerFunc
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(searchController *controllers.SearchController, notifyController *controllers.NotifyController) *Router {
	routes := []route{
		// Search
		{http.MethodGet, "/search", searchController.Search},
		{http.MethodPost, "/search", searchController.SearchPost},
		{http.MethodGet, "/search.ics", searchController.SearchICS},

		// Notifications
		{http.MethodPost, "/events/{eventID}/notify", notifyController.NotifyEventMatches},
	}

	r := &Router{ServeMux: http.NewServeMux()}
	for _, rt := range routes {
		r.HandleFunc(rt.method+" "+rt.path, rt.handler)
		if !slices.Contains(r.methods, rt.method) {
			r.methods = append(r.methods, rt.method)
		}
	}

	// Swagger
	r.Handle("/swagger/", httpSwagger.WrapHandler)

	return r
}

// Methods returns the methods the API routes answer, in registration order.
func (r *Router) Methods() []string {
	return slices.Clone(r.methods)
}
