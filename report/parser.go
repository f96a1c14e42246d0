package report

import (
	"math/bits"
	"strconv"
	"strings"
)

/*
The report format is the output of a recursive disk usage scan: one record per
line, a non-negative integer size followed by an absolute path. Native du
output separates the fields with a tab, and du --time inserts a timestamp
between them. Hand-edited or reformatted reports use arbitrary whitespace
instead, so both layouts are accepted.
*/

////////////////////////////////////////////////////////////////////////////////

// Record is a single parsed report line.
type Record struct {
	Size     uint64
	Path     string
	Modified string
}

// ParseLine parses a single report line. The size field is multiplied by
// units, which should be 1 for reports in bytes and 1024 for du -k output. A
// units value of zero is treated as one. The line number of a returned
// ParseError is left for the caller to fill in.
func ParseLine(line string, units uint64) (Record, error) {
	text := strings.TrimRight(line, "\r\n")
	var sizeField, pathField, meta string
	if strings.Contains(text, "\t") {
		fields := strings.Split(text, "\t")
		sizeField = strings.TrimSpace(fields[0])
		if len(fields) > 1 {
			pathField = fields[len(fields)-1]
		}
		if len(fields) > 2 {
			meta = strings.TrimSpace(strings.Join(fields[1:len(fields)-1], " "))
		}
	} else {
		fields := strings.Fields(text)
		if len(fields) == 0 {
			return Record{}, newParseError("empty line", line)
		}
		sizeField = fields[0]
		rest := fields[1:]
		start := len(rest)
		for i, f := range rest {
			if strings.HasPrefix(f, "/") {
				start = i
				break
			}
		}
		if start == len(rest) && len(rest) > 0 {
			// no absolute field; report the whole remainder as the path.
			start = 0
		}
		meta = strings.Join(rest[:start], " ")
		pathField = strings.Join(rest[start:], " ")
	}

	size, err := strconv.ParseUint(sizeField, 10, 64)
	if err != nil {
		return Record{}, newParseError("malformed size", line)
	}
	if units > 1 {
		hi, lo := bits.Mul64(size, units)
		if hi != 0 {
			return Record{}, newParseError("size overflows", line)
		}
		size = lo
	}
	if pathField == "" {
		return Record{}, newParseError("empty path", line)
	}
	if !strings.HasPrefix(pathField, "/") {
		return Record{}, newParseError("path is not absolute", line)
	}
	return Record{
		Size:     size,
		Path:     pathField,
		Modified: meta,
	}, nil
}
