package search

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// DefaultLocateBinary is the locate binary used when none is configured.
const DefaultLocateBinary = "/usr/bin/locate"

// Command is a Locator backed by an external locate binary.
type Command struct {
	bin string
}

// NewCommand returns a locator that runs bin.
func NewCommand(bin string) *Command {
	if bin == "" {
		bin = DefaultLocateBinary
	}
	return &Command{bin: bin}
}

// Locate runs locate for query. locate exits with status 1 when nothing
// matches, which is reported as an empty result.
func (c *Command) Locate(ctx context.Context, query string, opts Options) ([]string, error) {
	if query == "" {
		return []string{}, nil
	}
	args := []string{"--limit", strconv.Itoa(opts.limit())}
	if opts.Match {
		args = append(args, "--regex")
	}
	args = append(args, "--", query)
	cmd := exec.CommandContext(ctx, c.bin, args...) // #nosec G204
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 && len(out) == 0 {
			return []string{}, nil
		}
		return nil, fmt.Errorf("%s failed: %w: %s", c.bin, err, strings.TrimSpace(stderr.String()))
	}
	paths := []string{}
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if !strings.HasPrefix(line, "/") {
			continue
		}
		paths = append(paths, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s output: %w", c.bin, err)
	}
	return paths, nil
}

func (c *Command) String() string {
	return "locate(" + c.bin + ")"
}
