package routes

import (
	"context"
	"errors"
	"net/http"

	"github.com/wkalt/dircloud/report"
	"github.com/wkalt/dircloud/storage"
	"github.com/wkalt/dircloud/tree"
	"github.com/wkalt/dircloud/treemgr"
	"github.com/wkalt/dircloud/util/httputil"
)

// writeError maps tree manager errors to responses.
func writeError(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, tree.NotFoundError{}), errors.Is(err, storage.ErrObjectNotFound):
		httputil.NotFound(ctx, w, "%s: %w", msg, err)
	case errors.Is(err, treemgr.ErrNoTree):
		httputil.ServiceUnavailable(ctx, w, "%s: %w", msg, err)
	case errors.Is(err, tree.EmptyInputError{}),
		errors.Is(err, report.ParseError{}),
		errors.Is(err, report.ErrCorrupt),
		errors.Is(err, storage.ErrInvalidID):
		httputil.BadRequest(ctx, w, "%s: %w", msg, err)
	default:
		httputil.InternalServerError(ctx, w, "%s: %w", msg, err)
	}
}
