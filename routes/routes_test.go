package routes_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wkalt/dircloud/routes"
	"github.com/wkalt/dircloud/treemgr"
	"github.com/wkalt/dircloud/util/httputil"
)

const basic = "10\t/a\n20\t/a/b\n5\t/a/c\n3\t/a/with space\n"

func setup(ctx context.Context, t *testing.T, load bool) string {
	t.Helper()
	tmgr, _ := treemgr.TestTreeManager(ctx, t, map[string]string{
		"one.du": basic,
		"two.du": "100\t/x/y\n",
	})
	if load {
		require.NoError(t, tmgr.Load(ctx, "one.du"))
	}
	addr, done := routes.MakeTestRoutes(t, tmgr)
	t.Cleanup(done)
	return addr
}

func do(ctx context.Context, t *testing.T, method, target string, body io.Reader) *http.Response {
	t.Helper()
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	require.NoError(t, err)
	client := &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	resp, err := client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestViewHandler(t *testing.T) {
	ctx := context.Background()
	addr := setup(ctx, t, true)
	cases := []struct {
		assertion string
		path      string
		status    int
		node      string
		children  int
	}{
		{"top", "", http.StatusOK, "/a", 3},
		{"root", "/", http.StatusOK, "/", 1},
		{"child", "/a/b", http.StatusOK, "/a/b", 0},
		{"embedded space", "/a/with space", http.StatusOK, "/a/with space", 0},
		{"missing", "/does/not/exist", http.StatusNotFound, "", 0},
	}
	for _, c := range cases {
		t.Run(c.assertion, func(t *testing.T) {
			resp := do(ctx, t, http.MethodGet, addr+"/api/view?path="+url.QueryEscape(c.path), nil)
			require.Equal(t, c.status, resp.StatusCode)
			if c.status != http.StatusOK {
				errResp := decode[httputil.ErrorResponse](t, resp)
				assert.Contains(t, errResp.Error, "path not found")
				return
			}
			view := decode[treemgr.View](t, resp)
			assert.Equal(t, "one.du", view.Report)
			assert.Equal(t, c.node, view.Node.Path)
			assert.Len(t, view.Children, c.children)
		})
	}
}

func TestNoTreeUnavailable(t *testing.T) {
	ctx := context.Background()
	addr := setup(ctx, t, false)
	for _, target := range []string{"/api/view", "/api/stats", "/api/search?q=a", "/a/"} {
		t.Run(target, func(t *testing.T) {
			resp := do(ctx, t, http.MethodGet, addr+target, nil)
			require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		})
	}
}

func TestSearchHandler(t *testing.T) {
	ctx := context.Background()
	addr := setup(ctx, t, true)

	t.Run("hits", func(t *testing.T) {
		resp := do(ctx, t, http.MethodGet, addr+"/api/search?q=b&match=on", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		result := decode[treemgr.SearchResult](t, resp)
		assert.True(t, result.Match)
		require.Len(t, result.Hits, 1)
		assert.Equal(t, "/a/b", result.Hits[0].Path)
	})

	t.Run("missing query", func(t *testing.T) {
		resp := do(ctx, t, http.MethodGet, addr+"/api/search", nil)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestReportHandlers(t *testing.T) {
	ctx := context.Background()
	addr := setup(ctx, t, true)

	resp := do(ctx, t, http.MethodGet, addr+"/api/reports", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[treemgr.ReportList](t, resp)
	assert.Equal(t, "one.du", list.Active)
	assert.Equal(t, []string{"one.du", "two.du"}, list.Available)

	resp = do(ctx, t, http.MethodPost, addr+"/api/reports/two.du/activate", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = do(ctx, t, http.MethodGet, addr+"/api/stats", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stats := decode[treemgr.Stats](t, resp)
	assert.Equal(t, "two.du", stats.Report)
	assert.Equal(t, uint64(100), stats.TotalSize)

	resp = do(ctx, t, http.MethodPost, addr+"/api/reports/nope.du/activate", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(ctx, t, http.MethodPut, addr+"/api/reports/three.du", strings.NewReader("9\t/n/m\n"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = do(ctx, t, http.MethodPut, addr+"/api/reports/four.du", strings.NewReader("junk\n"))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	gz := &bytes.Buffer{}
	zw := gzip.NewWriter(gz)
	_, err := zw.Write([]byte("9\t/g/h\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	resp = do(ctx, t, http.MethodPut, addr+"/api/reports/five.du.gz", gz)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = do(ctx, t, http.MethodPut, addr+"/api/reports/six.du.gz", strings.NewReader("9\t/g/h\n"))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(ctx, t, http.MethodPost, addr+"/api/reports/three.du/activate", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = do(ctx, t, http.MethodPost, addr+"/api/reload", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = do(ctx, t, http.MethodGet, addr+"/api/view", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	view := decode[treemgr.View](t, resp)
	assert.Equal(t, "three.du", view.Report)
	assert.Equal(t, "/n/m", view.Node.Path)
}

func TestCloudPage(t *testing.T) {
	ctx := context.Background()
	addr := setup(ctx, t, true)

	t.Run("top", func(t *testing.T) {
		resp := do(ctx, t, http.MethodGet, addr+"/", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		page := string(body)
		assert.Contains(t, page, `<span class="tagcloud9"`)
		assert.Contains(t, page, `href="/a/b/"`)
		assert.Contains(t, page, `href="/a/with%20space/"`)
		assert.Contains(t, page, "38 B")
	})

	t.Run("statistics", func(t *testing.T) {
		resp := do(ctx, t, http.MethodGet, addr+"/a/", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		page := string(body)
		assert.Contains(t, page, "Report one.du: 4 records, 5 directories, 38 B.")
		assert.Contains(t, page, `<form method="post" action="/switch">`)
		assert.Contains(t, page, `<option value="one.du" selected>one.du</option>`)
		assert.Contains(t, page, `<option value="two.du">two.du</option>`)
	})

	t.Run("directory without slash redirects", func(t *testing.T) {
		resp := do(ctx, t, http.MethodGet, addr+"/a/b", nil)
		require.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/a/b/", resp.Header.Get("Location"))
	})

	t.Run("directory with slash", func(t *testing.T) {
		resp := do(ctx, t, http.MethodGet, addr+"/a/", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("missing directory", func(t *testing.T) {
		resp := do(ctx, t, http.MethodGet, addr+"/nothing/here/", nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("search page", func(t *testing.T) {
		resp := do(ctx, t, http.MethodGet, addr+"/search?q=c", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), `<a href="/a/c/">/a/c</a>`)
	})

	t.Run("robots", func(t *testing.T) {
		resp := do(ctx, t, http.MethodGet, addr+"/robots.txt", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "User-agent: *\nDisallow: /\n", string(body))
	})

	t.Run("favicon", func(t *testing.T) {
		resp := do(ctx, t, http.MethodGet, addr+"/favicon.ico", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "image/x-icon", resp.Header.Get("Content-Type"))
	})
}

func TestSwitchForm(t *testing.T) {
	ctx := context.Background()
	addr := setup(ctx, t, true)
	form := func(v url.Values) *http.Response {
		t.Helper()
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, addr+"/switch", strings.NewReader(v.Encode()))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		client := &http.Client{
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		}
		resp, err := client.Do(req)
		require.NoError(t, err)
		t.Cleanup(func() { resp.Body.Close() })
		return resp
	}

	resp := form(url.Values{"report": {"two.du"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	resp = do(ctx, t, http.MethodGet, addr+"/api/stats", nil)
	stats := decode[treemgr.Stats](t, resp)
	assert.Equal(t, "two.du", stats.Report)

	resp = form(url.Values{"report": {"nope.du"}})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = form(url.Values{})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReservedDirectoryNames(t *testing.T) {
	ctx := context.Background()
	tmgr, _ := treemgr.TestTreeManager(ctx, t, map[string]string{
		"r.du": "1\t/search\n2\t/api/view\n3\t/switch\n",
	})
	require.NoError(t, tmgr.Load(ctx, "r.du"))
	addr, done := routes.MakeTestRoutes(t, tmgr)
	t.Cleanup(done)

	for _, target := range []string{"/search/", "/api/", "/api/view/", "/switch/"} {
		t.Run(target, func(t *testing.T) {
			resp := do(ctx, t, http.MethodGet, addr+target, nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Contains(t, string(body), `<div class="page_header">`)
			assert.NotContains(t, string(body), "<i>No results</i>")
		})
	}

	t.Run("get on a post-only name reaches the cloud", func(t *testing.T) {
		resp := do(ctx, t, http.MethodGet, addr+"/switch", nil)
		require.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/switch/", resp.Header.Get("Location"))
	})

	t.Run("cloud links end in a slash", func(t *testing.T) {
		resp := do(ctx, t, http.MethodGet, addr+"/", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), `href="/search/"`)
		assert.Contains(t, string(body), `href="/api/"`)
	})
}

func TestCORS(t *testing.T) {
	ctx := context.Background()
	addr := setup(ctx, t, true)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr+"/api/stats", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
}
