package routes

import (
	"net/http"

	"github.com/wkalt/dircloud/treemgr"
	"github.com/wkalt/dircloud/util/httputil"
	"github.com/wkalt/dircloud/util/log"
)

func newViewHandler(tmgr *treemgr.TreeManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		p := r.URL.Query().Get("path")
		log.Debugw(ctx, "view request", "path", p)
		view, err := tmgr.View(ctx, p)
		if err != nil {
			writeError(ctx, w, "failed to get view", err)
			return
		}
		httputil.WriteJSON(ctx, w, http.StatusOK, view)
	}
}
