package routes

import (
	"net/http"
	"strings"

	"github.com/wkalt/dircloud/treemgr"
	"github.com/wkalt/dircloud/util/httputil"
	"github.com/wkalt/dircloud/util/log"
)

// searchParams reads the query and the alternative-results checkbox. HTML
// forms submit "on" for a checked box.
func searchParams(r *http.Request) (string, bool) {
	values := r.URL.Query()
	q := strings.TrimSpace(values.Get("q"))
	switch values.Get("match") {
	case "on", "true", "1":
		return q, true
	default:
		return q, false
	}
}

func newSearchHandler(tmgr *treemgr.TreeManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		q, match := searchParams(r)
		if q == "" {
			httputil.BadRequest(ctx, w, "missing query parameter q")
			return
		}
		log.Debugw(ctx, "search request", "q", q, "match", match)
		result, err := tmgr.Search(ctx, q, match)
		if err != nil {
			writeError(ctx, w, "failed to search", err)
			return
		}
		httputil.WriteJSON(ctx, w, http.StatusOK, result)
	}
}
