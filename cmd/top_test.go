package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintView(t *testing.T) {
	color.NoColor = true
	ctx := context.Background()
	dir := t.TempDir()
	file := filepath.Join(dir, "report.du")
	require.NoError(t, os.WriteFile(file, []byte("10\t/a\n20\t/a/b\n5\t/a/c\n1\t/a/d\n"), 0600))
	topUnits = 1

	view, err := loadView(ctx, file, "")
	require.NoError(t, err)

	cases := []struct {
		assertion string
		limit     int
		expected  string
	}{
		{
			"all children",
			0,
			"/ > a  36 B (3 directories)\n" +
				"      20 B  ##########  b\n" +
				"       5 B  ######      c\n" +
				"       1 B  ###         d\n",
		},
		{
			"limited",
			1,
			"/ > a  36 B (3 directories)\n" +
				"      20 B  ##########  b\n" +
				"... and 2 more\n",
		},
	}
	for _, c := range cases {
		t.Run(c.assertion, func(t *testing.T) {
			buf := &bytes.Buffer{}
			require.NoError(t, printView(buf, view, c.limit))
			assert.Equal(t, c.expected, buf.String())
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	for _, s := range []string{"", "debug", "info", "warn", "error"} {
		_, err := parseLogLevel(s)
		require.NoError(t, err, s)
	}
	_, err := parseLogLevel("loud")
	require.Error(t, err)
}
