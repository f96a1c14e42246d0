package routes

import (
	"net/http/httptest"
	"testing"

	"github.com/wkalt/dircloud/treemgr"
)

// MakeTestRoutes serves tmgr on a test server and returns its URL and a
// function that stops it.
func MakeTestRoutes(t *testing.T, tmgr *treemgr.TreeManager) (string, func()) {
	t.Helper()
	handler := MakeRoutes(tmgr, []string{"http://localhost:5173"}, "User-agent: *\nDisallow: /\n")
	srv := httptest.NewServer(handler)
	return srv.URL, srv.Close
}
