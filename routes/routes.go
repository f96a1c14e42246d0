package routes

import (
	"github.com/gorilla/mux"
	"github.com/wkalt/dircloud/treemgr"
	"github.com/wkalt/dircloud/util/mw"
)

/*
MakeRoutes builds the HTTP surface of the service: a JSON API under /api and
the HTML cloud pages everywhere else. The cloud route matches any path, so it
is registered last.
*/

////////////////////////////////////////////////////////////////////////////////

// MakeRoutes returns a router serving tmgr.
func MakeRoutes(tmgr *treemgr.TreeManager, allowedOrigins []string, robots string) *mux.Router {
	r := mux.NewRouter()
	r.Use(mw.WithRequestID, mw.WithAccessLog, mw.WithCORSAllowedOrigins(allowedOrigins))

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/view", newViewHandler(tmgr)).Methods("GET")
	api.HandleFunc("/search", newSearchHandler(tmgr)).Methods("GET")
	api.HandleFunc("/stats", newStatsHandler(tmgr)).Methods("GET")
	api.HandleFunc("/reports", newReportsHandler(tmgr)).Methods("GET")
	api.HandleFunc("/reports/{name}", newUploadHandler(tmgr)).Methods("PUT")
	api.HandleFunc("/reports/{name}/activate", newActivateHandler(tmgr)).Methods("POST")
	api.HandleFunc("/reload", newReloadHandler(tmgr)).Methods("POST")

	r.HandleFunc("/robots.txt", newRobotsHandler(robots)).Methods("GET")
	r.HandleFunc("/favicon.ico", faviconHandler).Methods("GET")
	r.HandleFunc("/search", newSearchPageHandler(tmgr)).Methods("GET")
	r.HandleFunc("/switch", newSwitchHandler(tmgr)).Methods("POST")
	r.PathPrefix("/").Handler(newCloudHandler(tmgr)).Methods("GET")
	return r
}
