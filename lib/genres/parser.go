package genres

import (
	"strconv"
	"strings"
)

// ParseLabels converts a raw genres cell into an ordered list of genre labels.
// The cell is expected to hold a Python-style list literal such as
// "['Action', 'Comedy']". Malformed cells are recovered with a manual split
// instead of being reported as errors.
func ParseLabels(raw string) []string {
	if labels, ok := parseListLiteral(raw); ok {
		return labels
	}
	return splitManual(raw)
}

// parseListLiteral scans a list literal of quoted strings. The second return
// value reports whether the cell was a well-formed literal at all; a valid
// literal that is not a list (a bare quoted string, a number, True/False/None)
// yields an empty label list.
func parseListLiteral(raw string) ([]string, bool) {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "[") {
		if isScalarLiteral(s) {
			return nil, true
		}
		return nil, false
	}
	if !strings.HasSuffix(s, "]") {
		return nil, false
	}

	inner := s[1 : len(s)-1]
	labels := []string{}
	i, n := 0, len(inner)
	for {
		for i < n && isSpace(inner[i]) {
			i++
		}
		if i >= n {
			break
		}
		quote := inner[i]
		if quote != '\'' && quote != '"' {
			return nil, false
		}
		i++
		var b strings.Builder
		closed := false
		for i < n {
			c := inner[i]
			if c == '\\' && i+1 < n {
				b.WriteByte(inner[i+1])
				i += 2
				continue
			}
			if c == quote {
				closed = true
				i++
				break
			}
			b.WriteByte(c)
			i++
		}
		if !closed {
			return nil, false
		}
		labels = append(labels, b.String())

		for i < n && isSpace(inner[i]) {
			i++
		}
		if i >= n {
			break
		}
		if inner[i] != ',' {
			return nil, false
		}
		i++ // trailing comma before "]" is valid
	}
	return labels, true
}

// splitManual is the fallback for cells the literal scanner rejects, such as
// "[Action, Comedy]" with missing inner quotes.
func splitManual(raw string) []string {
	clean := strings.Trim(raw, `[]'"`)
	var labels []string
	for _, piece := range strings.Split(clean, ",") {
		piece = strings.TrimSpace(piece)
		piece = strings.Trim(piece, `'"`)
		if piece != "" {
			labels = append(labels, piece)
		}
	}
	return labels
}

func isScalarLiteral(s string) bool {
	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			return true
		}
	}
	switch s {
	case "True", "False", "None":
		return true
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

// ParseYear parses a year identification cell. Blank cells and non-numeric
// values report false; float-formatted integers like "2000.0" from older
// caches are accepted.
func ParseYear(cell string) (int, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil || f != f {
		return 0, false
	}
	return int(f), true
}
