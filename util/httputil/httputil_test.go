package httputil_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wkalt/dircloud/util/httputil"
)

type detailedError struct{}

func (detailedError) Error() string  { return "report is stale" }
func (detailedError) Detail() string { return "reload the report" }

func TestErrorResponses(t *testing.T) {
	cases := []struct {
		assertion string
		write     func(context.Context, http.ResponseWriter)
		code      int
		body      string
	}{
		{
			"bad request",
			func(ctx context.Context, w http.ResponseWriter) {
				httputil.BadRequest(ctx, w, "bad request")
			},
			http.StatusBadRequest,
			`{"error":"bad request"}`,
		},
		{
			"not found",
			func(ctx context.Context, w http.ResponseWriter) {
				httputil.NotFound(ctx, w, "path not found: %s", "/nope")
			},
			http.StatusNotFound,
			`{"error":"path not found: /nope"}`,
		},
		{
			"internal server error hides the message",
			func(ctx context.Context, w http.ResponseWriter) {
				httputil.InternalServerError(ctx, w, "disk exploded")
			},
			http.StatusInternalServerError,
			`{"error":"internal server error"}`,
		},
		{
			"service unavailable",
			func(ctx context.Context, w http.ResponseWriter) {
				httputil.ServiceUnavailable(ctx, w, "no report loaded")
			},
			http.StatusServiceUnavailable,
			`{"error":"no report loaded"}`,
		},
		{
			"detail from wrapped error",
			func(ctx context.Context, w http.ResponseWriter) {
				httputil.BadRequest(ctx, w, "failed: %w", fmt.Errorf("wrapped: %w", detailedError{}))
			},
			http.StatusBadRequest,
			`{"error":"failed: wrapped: report is stale","detail":"reload the report"}`,
		},
	}
	for _, c := range cases {
		t.Run(c.assertion, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "http://example.com/foo", nil)
			recorder := httptest.NewRecorder()
			c.write(req.Context(), recorder)
			require.Equal(t, c.code, recorder.Code)
			require.Equal(t, "application/json", recorder.Header().Get("Content-Type"))
			require.JSONEq(t, c.body, recorder.Body.String())
		})
	}
}

func TestWriteJSON(t *testing.T) {
	recorder := httptest.NewRecorder()
	httputil.WriteJSON(context.Background(), recorder, http.StatusOK, map[string]int{"a": 1})
	require.Equal(t, http.StatusOK, recorder.Code)
	require.JSONEq(t, `{"a":1}`, recorder.Body.String())
}
