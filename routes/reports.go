package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/wkalt/dircloud/treemgr"
	"github.com/wkalt/dircloud/util/httputil"
	"github.com/wkalt/dircloud/util/log"
)

func newStatsHandler(tmgr *treemgr.TreeManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		stats, err := tmgr.Stats(ctx)
		if err != nil {
			writeError(ctx, w, "failed to get stats", err)
			return
		}
		httputil.WriteJSON(ctx, w, http.StatusOK, stats)
	}
}

func newReportsHandler(tmgr *treemgr.TreeManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		list, err := tmgr.Reports(ctx)
		if err != nil {
			writeError(ctx, w, "failed to list reports", err)
			return
		}
		httputil.WriteJSON(ctx, w, http.StatusOK, list)
	}
}

func newActivateHandler(tmgr *treemgr.TreeManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		name := mux.Vars(r)["name"]
		log.Infow(ctx, "activate request", "report", name)
		if err := tmgr.Switch(ctx, name); err != nil {
			writeError(ctx, w, "failed to activate report", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func newUploadHandler(tmgr *treemgr.TreeManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		name := mux.Vars(r)["name"]
		log.Infow(ctx, "upload request", "report", name)
		defer r.Body.Close()
		if err := tmgr.Upload(ctx, name, r.Body); err != nil {
			writeError(ctx, w, "failed to upload report", err)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}
}

func newReloadHandler(tmgr *treemgr.TreeManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log.Infow(ctx, "reload request")
		if err := tmgr.Reload(ctx); err != nil {
			writeError(ctx, w, "failed to reload report", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
