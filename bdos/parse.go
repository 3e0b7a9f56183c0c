package bdos

import (
	"regexp"
	"strings"
)

// Group is one exerciser test's reported outcome.
type Group struct {
	Name         string
	Pass         bool
	Raw          string
	ExpectedCRC  string
	ActualCRC    string
	HasCRC       bool
}

var crcRE = regexp.MustCompile(`crc expected:([0-9A-Fa-f]+)\s+found:([0-9A-Fa-f]+)`)

// parseOutput splits the captured console output into pass/fail groups
// the way zexdoc/zexall/8080EX1 report per-instruction-group results: a
// dot-padded name followed by "OK" on success, or "ERROR ****
// crc expected:... found:..." on failure. The banner line naming the
// exerciser itself is skipped.
func parseOutput(output string) []Group {
	var groups []Group
	for _, raw := range strings.Split(output, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.Contains(line, "exerciser") {
			continue
		}
		if strings.Contains(line, "ERROR") {
			if m := crcRE.FindStringSubmatch(line); m != nil {
				name := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(line[:strings.Index(line, "ERROR")]), "."))
				groups = append(groups, Group{
					Name:        name,
					Pass:        false,
					Raw:         line,
					ExpectedCRC: m[1],
					ActualCRC:   m[2],
					HasCRC:      true,
				})
			} else {
				name := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(line[:strings.Index(line, "ERROR")]), "."))
				groups = append(groups, Group{Name: name, Pass: false, Raw: line})
			}
			continue
		}
		if idx := strings.LastIndex(line, "OK"); idx >= 0 && strings.Contains(line[:idx], ".") {
			name := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(line[:idx]), "."))
			groups = append(groups, Group{Name: name, Pass: true, Raw: line})
		}
	}
	return groups
}
