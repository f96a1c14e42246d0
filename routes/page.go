package routes

import (
	"bytes"
	"context"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/wkalt/dircloud/treemgr"
	"github.com/wkalt/dircloud/util/httputil"
	"github.com/wkalt/dircloud/util/log"
)

/*
The HTML pages render one level of the tree as a word cloud. Each child is a
link whose font class is its weight, so siblings are sized relative to the
largest of them. Every page carries the breadcrumbs of the current directory,
a search form, and the statistics of the active report with a form to switch
to another report.
*/

////////////////////////////////////////////////////////////////////////////////

type page struct {
	Report      string
	Node        *treemgr.NodeSummary
	Breadcrumbs []treemgr.NodeSummary
	Children    []treemgr.NodeSummary
	Query       string
	Match       bool
	Searched    bool
	Hits        []treemgr.SearchHit
	Missing     int
	Stats       *treemgr.Stats
	Reports     *treemgr.ReportList
}

// withStatus fills in the statistics footer.
func (p *page) withStatus(ctx context.Context, tmgr *treemgr.TreeManager) error {
	stats, err := tmgr.Stats(ctx)
	if err != nil {
		return err
	}
	reports, err := tmgr.Reports(ctx)
	if err != nil {
		return err
	}
	p.Report = stats.Report
	p.Stats = stats
	p.Reports = reports
	return nil
}

// dirHref returns the link to a directory page. Directory pages end in a
// slash, except the root.
func dirHref(p string) string {
	if p == "/" {
		return p
	}
	return (&url.URL{Path: p + "/"}).String()
}

var pageTemplate = template.Must(template.New("page").Funcs(template.FuncMap{
	"href":  dirHref,
	"bytes": humanize.IBytes,
	"comma": func(n int) string { return humanize.Comma(int64(n)) },
	"ago":   humanize.Time,
}).Parse(`<!DOCTYPE html>
<html>
 <head>
  <title>dircloud{{if .Node}} of {{.Node.Path}}{{end}}</title>
  <style type="text/css">
body { font-family: sans-serif; font-size: small; margin: 10px; }
a { color: #0000cc; }
a:hover, a:active { color: #880000; }
div.page_header { padding: 8px; font-size: 150%; font-weight: bold; }
div.stale_info { color: #808080; padding: 4px; }
span.filesize { color: #808080; font-size: 80%; }
#htmltagcloud { text-align: center; line-height: 1.6; padding: 10px; }
#htmltagcloud a { text-decoration: none; }
span.tagcloud0 { font-size: 10px; }
span.tagcloud1 { font-size: 13px; }
span.tagcloud2 { font-size: 16px; }
span.tagcloud3 { font-size: 19px; }
span.tagcloud4 { font-size: 22px; }
span.tagcloud5 { font-size: 25px; }
span.tagcloud6 { font-size: 28px; }
span.tagcloud7 { font-size: 31px; }
span.tagcloud8 { font-size: 34px; }
span.tagcloud9 { font-size: 37px; }
  </style>
 </head>
 <body>
  <div class="page_header">
   <a href="/">dircloud</a>{{if .Node}} of
   {{- range .Breadcrumbs}} <a href="{{href .Path}}">{{.Name}}</a>{{end}}
   <a href="{{href .Node.Path}}">{{.Node.Name}}</a>
   <span class="filesize">({{.Node.Human}})</span>{{end}}
  </div>
  <form method="get" action="/search">
   <p align="center">Search:
    <input type="text" name="q" value="{{.Query}}" title="Search files or directories"/>
    <input type="checkbox" name="match"{{if .Match}} checked{{end}} title="Ignore case and accents"/>Search also alternative results
   </p>
  </form>
{{- if .Searched}}
  <div id="results">
  {{- range .Hits}}
   {{- if .InTree}}
   <a href="{{href .Path}}">{{.Path}}</a> <span class="filesize">({{.Node.Human}})</span>
   {{- if .ViaParent}} <span class="filesize">for {{.Candidate}}</span>{{end}}<br/>
   {{- end}}
  {{- else}}
   <i>No results</i>
  {{- end}}
  {{- if .Missing}}
   <div class="stale_info">{{comma .Missing}} results are not part of report {{.Report}}</div>
  {{- end}}
  </div>
{{- else if .Node}}
  <div class="stale_info">{{comma (len .Children)}} directories, {{bytes .Node.AggregateSize}}</div>
  <div id="htmltagcloud">
  {{- range .Children}}
   <span class="tagcloud{{.Weight}}" title="{{.Modified}}"><a href="{{href .Path}}"{{if not .HasChildren}} style="font-style: italic;"{{end}}>{{.Name}}</a></span>
   <span class="filesize">({{.Human}})</span>
  {{- end}}
  </div>
{{- end}}
{{- with .Stats}}
  <div id="statistics" class="stale_info">
   Report {{.Report}}: {{comma .Records}} records, {{comma .Directories}} directories, {{.Human}}
   {{- if .Malformed}}, {{comma .Malformed}} malformed lines{{end}}.
   Modified {{ago .Modified}}, loaded {{ago .LoadedAt}} in {{.LoadTime}}.
  </div>
{{- end}}
{{- with .Reports}}
  <form method="post" action="/switch">
   <p align="center">Report:
    <select name="report">
    {{- range .Available}}
     <option value="{{.}}"{{if eq . $.Report}} selected{{end}}>{{.}}</option>
    {{- end}}
    </select>
    <input type="submit" value="Switch"/>
   </p>
  </form>
{{- end}}
 </body>
</html>
`))

func renderPage(w http.ResponseWriter, r *http.Request, data *page) {
	ctx := r.Context()
	buf := &bytes.Buffer{}
	if err := pageTemplate.Execute(buf, data); err != nil {
		httputil.InternalServerError(ctx, w, "failed to render page: %s", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		log.Errorw(ctx, "error writing page", "error", err)
	}
}

// newCloudHandler serves the cloud of any directory. "/" shows the top of
// the tree; other directories are served under their slash-terminated path.
func newCloudHandler(tmgr *treemgr.TreeManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		p := r.URL.Path
		query := p
		if p == "/" {
			query = ""
		}
		view, err := tmgr.View(ctx, query)
		if err != nil {
			writeError(ctx, w, "failed to get view", err)
			return
		}
		if p != "/" && !strings.HasSuffix(p, "/") {
			http.Redirect(w, r, dirHref(view.Node.Path), http.StatusFound)
			return
		}
		data := &page{
			Node:        &view.Node,
			Breadcrumbs: view.Breadcrumbs,
			Children:    view.Children,
		}
		if err := data.withStatus(ctx, tmgr); err != nil {
			writeError(ctx, w, "failed to get stats", err)
			return
		}
		renderPage(w, r, data)
	}
}

func newSearchPageHandler(tmgr *treemgr.TreeManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		q, match := searchParams(r)
		data := &page{Query: q, Match: match}
		if err := data.withStatus(ctx, tmgr); err != nil {
			writeError(ctx, w, "failed to get stats", err)
			return
		}
		if q == "" {
			renderPage(w, r, data)
			return
		}
		result, err := tmgr.Search(ctx, q, match)
		if err != nil {
			writeError(ctx, w, "failed to search", err)
			return
		}
		data.Searched = true
		data.Hits = result.Hits
		for _, hit := range result.Hits {
			if !hit.InTree {
				data.Missing++
			}
		}
		renderPage(w, r, data)
	}
}

// newSwitchHandler activates the report posted by the statistics form and
// sends the browser back to the top of its cloud.
func newSwitchHandler(tmgr *treemgr.TreeManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		name := r.PostFormValue("report")
		if name == "" {
			httputil.BadRequest(ctx, w, "missing report")
			return
		}
		if err := tmgr.Switch(ctx, name); err != nil {
			writeError(ctx, w, "failed to switch report", err)
			return
		}
		log.Infow(ctx, "Switched report", "report", name)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func newRobotsHandler(robots string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(robots))
	}
}

// faviconHandler answers favicon requests with an empty icon.
func faviconHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "image/x-icon")
	w.WriteHeader(http.StatusOK)
}
