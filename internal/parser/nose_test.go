package parser

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"nbl/internal/domain"
)

var sampleNames = []string{
	"sampletests.v1.test_wumbo.WumboTest.test_set_to_mini",
	"sampletests.v1.test_wumbo.WumboTest.test_set_to_wumbo",
	"sampletests.test_mini.MiniTest.test_failure",
	"sampletests.test_mini.MiniTest.test_set_to_mini",
	"sampletests.test_mini.MiniTest.test_set_to_wumbo",
	"sampletests.test_mini.test_unbound_function",
}

func readTranscript(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(data)
}

func names(r *domain.RunResult) []string {
	var out []string
	for _, s := range r.ShortResults {
		out = append(out, s.Name)
	}
	return out
}

func TestParse_CollectOnly(t *testing.T) {
	result, err := NewNoseParser(logr.Discard()).Parse(readTranscript(t, "collect_only.txt"))
	require.NoError(t, err)

	assert.Equal(t, "OK", result.TestStatus)
	assert.True(t, result.Passed())
	assert.Equal(t, 6, result.NTests)
	assert.Greater(t, result.TestTime, 0.0)
	assert.Zero(t, result.NSkips)
	assert.Zero(t, result.NFailures)
	assert.Zero(t, result.NErrors)
	assert.Equal(t, sampleNames, names(result))
	assert.Equal(t, 6, result.CountStatus(domain.StatusOK))
}

func TestParse_WithFailures(t *testing.T) {
	result, err := NewNoseParser(logr.Discard()).Parse(readTranscript(t, "failures.txt"))
	require.NoError(t, err)

	assert.Equal(t, "FAILED", result.TestStatus)
	assert.False(t, result.Passed())
	assert.Equal(t, 6, result.NTests)
	assert.InDelta(t, 0.004, result.TestTime, 1e-9)
	assert.Equal(t, 3, result.NFailures)
	assert.Zero(t, result.NErrors)
	assert.Zero(t, result.NSkips)
	assert.Equal(t, 3, result.CountStatus(domain.StatusFail))
	assert.Equal(t, 3, result.CountStatus(domain.StatusOK))
	assert.Equal(t, sampleNames, names(result))

	method := result.ShortResults[2]
	assert.Equal(t, "sampletests.test_mini.MiniTest", method.Owner)
	assert.Equal(t, "FAIL", method.Status)
	assert.Empty(t, result.ShortResults[5].Owner)
}

func TestParse_NoTests(t *testing.T) {
	raw := "\n----------------------------------------------------------------------\nRan 0 tests in 0.000s\n\nOK\n"
	result, err := NewNoseParser(logr.Discard()).Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, 0, result.NTests)
	assert.Equal(t, 0.0, result.TestTime)
	assert.Equal(t, "OK", result.TestStatus)
	assert.NotNil(t, result.ShortResults)
	assert.Empty(t, result.ShortResults)
}

func TestParse_FooterCounters(t *testing.T) {
	tests := []struct {
		name     string
		footer   string
		status   string
		failures int
		errors   int
		skips    int
	}{
		{"ok", "OK", "OK", 0, 0, 0},
		{"failures only", "FAILED (failures=3)", "FAILED", 3, 0, 0},
		{"errors only", "FAILED (errors=1)", "FAILED", 0, 1, 0},
		{"all counters", "FAILED (SKIP=1, errors=2, failures=4)", "FAILED", 4, 2, 1},
		{"skips with ok", "OK (SKIP=2)", "OK", 0, 0, 2},
		{"unittest style skipped", "OK (skipped=5)", "OK", 0, 0, 5},
		{"unknown key ignored", "FAILED (failures=1, bogus=7)", "FAILED", 1, 0, 0},
		{"counters without parentheses", "FAILED failures=2 errors=1", "FAILED", 2, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := "----------------------------------------------------------------------\nRan 1 test in 0.216s\n\n" + tt.footer
			result, err := NewNoseParser(logr.Discard()).Parse(raw)
			require.NoError(t, err)
			assert.Equal(t, 1, result.NTests)
			assert.Equal(t, tt.status, result.TestStatus)
			assert.Equal(t, tt.skips, result.NSkips)
			assert.Equal(t, tt.failures, result.NFailures)
			assert.Equal(t, tt.errors, result.NErrors)
		})
	}
}

func TestParse_SkipsWithReason(t *testing.T) {
	raw := strings.Join([]string{
		"test_set_to_mini (sampletests.test_mini.MiniTest) ... ok",
		"test_set_to_wumbo (sampletests.test_mini.MiniTest) ... SKIP: not ready",
		"test_failure (sampletests.test_mini.MiniTest) ... skipped 'needs a wumbo'",
		"sampletests.test_mini.test_unbound_function ... SKIP: flaky",
		"",
		"----------------------------------------------------------------------",
		"Ran 4 tests in 0.001s",
		"",
		"OK (SKIP=3)",
	}, "\n")

	result, err := NewNoseParser(logr.Discard()).Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "OK", result.TestStatus)
	assert.Equal(t, 4, result.NTests)
	assert.Equal(t, 3, result.NSkips)
	require.Len(t, result.ShortResults, 4)
	assert.Equal(t, domain.StatusSkip, result.ShortResults[1].Status)
	assert.Equal(t, "sampletests.test_mini.MiniTest.test_set_to_wumbo", result.ShortResults[1].Name)
	assert.Equal(t, "skipped", result.ShortResults[2].Status)
	assert.Equal(t, domain.StatusSkip, result.ShortResults[3].Status)
	assert.Equal(t, "sampletests.test_mini.test_unbound_function", result.ShortResults[3].Name)
	for _, s := range result.ShortResults {
		assert.False(t, s.Failed(), s.Name)
	}
}

func TestParse_UnknownFooterTokenLogged(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	p := NewNoseParser(zapr.NewLogger(zap.New(core)))

	raw := "Ran 2 tests in 0.100s\n\nFAILED (failures=1, bogus=7)"
	result, err := p.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, 1, result.NFailures)
	assert.Zero(t, result.NErrors)
	assert.Zero(t, result.NSkips)

	entries := logs.FilterMessage("ignoring footer result element").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "bogus=7", entries[0].ContextMap()["element"])
}

func TestParse_StrictShortResults(t *testing.T) {
	footer := "\n\n----------------------------------------------------------------------\nRan 2 tests in 0.001s\n\nOK"
	tests := []struct {
		name string
		body string
		line int
	}{
		{"docstring description", "check the mini thing ... ok\ncheck the wumbo thing ... FAIL", 1},
		{"dot progress with failure", "..F", 1},
		{"bad second line", "test_a (pkg.mod.Case) ... ok\nnot a result line", 2},
		{"missing status", "test_a (pkg.mod.Case) ...", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewNoseParser(logr.Discard()).Parse(tt.body + "\n\nextra block" + footer)
			require.Error(t, err)

			var perr *ParseFormatError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.line, perr.Line)
			assert.Contains(t, err.Error(), "unrecognized test result line")
		})
	}
}

func TestParse_BadFooter(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"single block", "test_a (pkg.mod.Case) ... ok"},
		{"no ran line", "test_a (pkg.mod.Case) ... ok\n\nsomething else\n\nOK"},
		{"bad elapsed time", "Ran 3 tests in abcs\n\nOK"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NewNoseParser(logr.Discard()).Parse(tt.raw)
			var perr *ParseFormatError
			require.True(t, errors.As(err, &perr), "got %v", err)
			assert.Zero(t, perr.Line)
			assert.Empty(t, result.TestStatus)
		})
	}
}

func TestParse_SingularTest(t *testing.T) {
	raw := "test_a (pkg.mod.Case) ... ERROR\n\n======\nERROR: test_a\n\n------\nRan 1 test in 0.216s\n\nFAILED (errors=1)"
	result, err := NewNoseParser(logr.Discard()).Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, 1, result.NTests)
	assert.Equal(t, 1, result.NErrors)
	assert.Equal(t, []string{"pkg.mod.Case.test_a"}, names(result))
	assert.Equal(t, domain.StatusError, result.ShortResults[0].Status)
}

func TestParse_CRLF(t *testing.T) {
	raw := strings.ReplaceAll(readTranscript(t, "collect_only.txt"), "\n", "\r\n")
	result, err := NewNoseParser(logr.Discard()).Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, sampleNames, names(result))
}

func TestParse_Deterministic(t *testing.T) {
	p := NewNoseParser(logr.Discard())
	raw := readTranscript(t, "failures.txt")

	first, err := p.Parse(raw)
	require.NoError(t, err)
	second, err := p.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestParseReader(t *testing.T) {
	f, err := os.Open(filepath.Join("testdata", "collect_only.txt"))
	require.NoError(t, err)
	defer f.Close()

	result, err := NewNoseParser(logr.Discard()).ParseReader(f)
	require.NoError(t, err)
	assert.Equal(t, 6, result.NTests)
}

func TestShortResult_Qualified(t *testing.T) {
	result, err := NewNoseParser(logr.Discard()).Parse(readTranscript(t, "collect_only.txt"))
	require.NoError(t, err)

	method, err := result.ShortResults[0].Qualified()
	require.NoError(t, err)
	assert.Equal(t, "WumboTest", method.Class())
	assert.Equal(t, "sampletests.v1.test_wumbo:WumboTest.test_set_to_mini", method.Address())

	function, err := result.ShortResults[5].Qualified()
	require.NoError(t, err)
	assert.Empty(t, function.Class())
	assert.Equal(t, "sampletests.test_mini:test_unbound_function", function.Address())
}
