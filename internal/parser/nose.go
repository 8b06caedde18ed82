package parser

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-logr/logr"

	"nbl/internal/domain"
)

var (
	// test_set_to_mini (sampletests.v1.test_wumbo.WumboTest) ... ok
	// test_slow (sampletests.test_mini.MiniTest) ... SKIP: not ready
	methodLine = regexp.MustCompile(`^(\S+) \((\S+)\) \.\.\. (\w+)\b.*$`)

	// sampletests.test_mini.test_unbound_function ... ok
	functionLine = regexp.MustCompile(`^(\S+) \.\.\. (\w+)\b.*$`)

	// Ran 6 tests in 0.012s
	ranLine = regexp.MustCompile(`Ran (\d+) tests? in (.+)s`)

	// FAILED (SKIP=1, failures=2)
	counterToken = regexp.MustCompile(`(\w+)=(\d+)`)
)

// NoseParser parses the verbose console report of nose and unittest.
//
// It is strict on purpose. It reads the block of "<name> ... <status>" lines
// and the "Ran N tests" footer. Tracebacks between them are skipped, while
// dot-progress output and docstring descriptions are rejected.
type NoseParser struct {
	log logr.Logger
}

var _ Parser = (*NoseParser)(nil)

// NewNoseParser creates a NoseParser logging diagnostics to log
func NewNoseParser(log logr.Logger) *NoseParser {
	return &NoseParser{log: log}
}

// ParseReader reads r to the end and parses it
func (p *NoseParser) ParseReader(r io.Reader) (*domain.RunResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	return p.Parse(string(data))
}

// Parse builds a RunResult from a raw verbose transcript.
func (p *NoseParser) Parse(raw string) (*domain.RunResult, error) {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	parts := strings.Split(strings.TrimSpace(raw), "\n\n")
	p.log.V(2).Info("parsing results", "parts", len(parts))

	result := &domain.RunResult{ShortResults: []domain.ShortResult{}}
	if len(parts) < 2 {
		return result, &ParseFormatError{Text: firstLine(parts[0]), Reason: "no footer found"}
	}

	if len(parts) > 2 {
		shortResults, err := p.parseShortResults(parts[0])
		if err != nil {
			return result, err
		}
		result.ShortResults = shortResults
		if skipped := len(parts) - 3; skipped > 0 {
			p.log.V(1).Info("skipping blocks between results and footer", "blocks", skipped)
		}
	}

	if err := p.parseFooter(parts[len(parts)-2], parts[len(parts)-1], result); err != nil {
		return result, err
	}
	return result, nil
}

func (p *NoseParser) parseShortResults(block string) ([]domain.ShortResult, error) {
	var results []domain.ShortResult
	for i, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := methodLine.FindStringSubmatch(line); m != nil {
			results = append(results, domain.ShortResult{
				Name:   m[2] + "." + m[1],
				Status: m[3],
				Owner:  m[2],
			})
			continue
		}

		if m := functionLine.FindStringSubmatch(line); m != nil {
			results = append(results, domain.ShortResult{Name: m[1], Status: m[2]})
			continue
		}

		p.log.V(1).Info("unrecognized result line", "line", i+1, "text", line)
		return nil, &ParseFormatError{Line: i + 1, Text: line, Reason: "unrecognized test result line"}
	}
	return results, nil
}

func (p *NoseParser) parseFooter(start, end string, result *domain.RunResult) error {
	m := ranLine.FindStringSubmatch(start)
	if m == nil {
		return &ParseFormatError{Text: start, Reason: `missing "Ran N tests in Xs" line`}
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return &ParseFormatError{Text: start, Reason: "bad test count"}
	}
	elapsed, err := strconv.ParseFloat(m[2], 64)
	if err != nil || elapsed < 0 {
		return &ParseFormatError{Text: start, Reason: "bad elapsed time"}
	}
	result.NTests = n
	result.TestTime = elapsed

	status := firstLine(end)
	if fields := strings.Fields(status); len(fields) > 0 {
		result.TestStatus = fields[0]
	}

	for _, token := range counterToken.FindAllStringSubmatch(status, -1) {
		key := strings.ToLower(token[1])
		value, err := strconv.Atoi(token[2])
		if err != nil {
			p.log.Info("ignoring footer result element", "element", token[0])
			continue
		}
		switch {
		case strings.Contains(key, "failure"):
			result.NFailures = value
		case strings.Contains(key, "skip"):
			result.NSkips = value
		case strings.Contains(key, "error"):
			result.NErrors = value
		default:
			p.log.Info("ignoring footer result element", "element", token[0])
		}
	}
	return nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
