package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/wkalt/dircloud/storage"
	"github.com/wkalt/dircloud/tree"
	"github.com/wkalt/dircloud/treemgr"
)

var (
	topUnits uint64
	topLimit int
)

// weightColors has one color per weight class, coolest first.
var weightColors = []*color.Color{
	color.New(color.FgHiBlack),
	color.New(color.FgBlue),
	color.New(color.FgHiBlue),
	color.New(color.FgCyan),
	color.New(color.FgHiCyan),
	color.New(color.FgGreen),
	color.New(color.FgHiGreen),
	color.New(color.FgYellow),
	color.New(color.FgHiYellow),
	color.New(color.FgHiRed, color.Bold),
}

func weightColor(weight int) *color.Color {
	return weightColors[min(max(weight, 0), len(weightColors)-1)]
}

var topCmd = &cobra.Command{
	Use:   "top <report> [path]",
	Short: "Print the largest directories under a path of a report",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		p := ""
		if len(args) > 1 {
			p = args[1]
		}
		view, err := loadView(ctx, args[0], p)
		checkErr(err)
		checkErr(printView(os.Stdout, view, topLimit))
	},
}

// loadView loads one report file and returns the view of p.
func loadView(ctx context.Context, file string, p string) (*treemgr.View, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", file, err)
	}
	store, err := storage.NewDirectoryStore(filepath.Dir(abs))
	if err != nil {
		return nil, err
	}
	tmgr := treemgr.NewTreeManager(store, treemgr.WithUnits(topUnits))
	name := filepath.Base(abs)
	if err := tmgr.Load(ctx, name); err != nil {
		return nil, err
	}
	return tmgr.View(ctx, p)
}

// printView writes the breadcrumbs of a view followed by up to limit of its
// children, largest first. A limit below one prints every child.
func printView(w io.Writer, view *treemgr.View, limit int) error {
	crumbs := make([]string, 0, len(view.Breadcrumbs)+1)
	for _, b := range view.Breadcrumbs {
		crumbs = append(crumbs, b.Name)
	}
	crumbs = append(crumbs, view.Node.Name)
	if _, err := fmt.Fprintf(w, "%s  %s (%s directories)\n",
		strings.Join(crumbs, " > "),
		view.Node.Human,
		humanize.Comma(int64(len(view.Children))),
	); err != nil {
		return err
	}
	children := view.Children
	if limit > 0 && len(children) > limit {
		children = children[:limit]
	}
	for _, c := range children {
		bar := strings.Repeat("#", c.Weight+1) + strings.Repeat(" ", tree.MaxWeight-c.Weight)
		if _, err := weightColor(c.Weight).Fprintf(w, "%10s  %s  %s\n", c.Human, bar, c.Name); err != nil {
			return err
		}
	}
	if rest := len(view.Children) - len(children); rest > 0 {
		if _, err := fmt.Fprintf(w, "... and %d more\n", rest); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(topCmd)

	topCmd.PersistentFlags().Uint64VarP(&topUnits, "units", "u", 1, "Multiplier for reported sizes (1024 for du -k)")
	topCmd.PersistentFlags().IntVarP(&topLimit, "limit", "n", 20, "Number of directories to print (0 for all)")
}
