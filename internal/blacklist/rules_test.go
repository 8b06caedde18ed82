package blacklist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRulesFile(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "black.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0644))
	return path
}

func TestParseRules(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"empty", "", []string{}},
		{"only comments", "# wumbo\n# mini", []string{}},
		{"indented comment", "   # MiniTest\n", []string{}},
		{"blank lines", "\n\n  \n", []string{}},
		{"rules and comments", "test_unbound_function\n# wumbo\nMiniTest.test_failure", []string{"test_unbound_function", "MiniTest.test_failure"}},
		{"whitespace trimmed", "  MiniTest  \n\tv1.test_wumbo\t", []string{"MiniTest", "v1.test_wumbo"}},
		{"crlf line endings", "MiniTest\r\ntest_failure\r\n", []string{"MiniTest", "test_failure"}},
		{"hash inside rule is kept", "a#b", []string{"a#b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs, err := ParseRules(strings.NewReader(tt.input))
			require.NoError(t, err)
			got := rs.Strings()
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLoadFile(t *testing.T) {
	t.Run("reads rules", func(t *testing.T) {
		path := writeRulesFile(t, "test_unbound_function", "# wumbo", "MiniTest.test_failure")
		rs, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"test_unbound_function", "MiniTest.test_failure"}, rs.Strings())
		assert.Equal(t, sorted(wumboToMini, wumboToWumbo, miniToMini, miniToWumbo), remaining(rs))
	})

	t.Run("empty file matches nothing", func(t *testing.T) {
		rs, err := LoadFile(writeRulesFile(t, ""))
		require.NoError(t, err)
		assert.Empty(t, rs)
		assert.Len(t, remaining(rs), 6)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "absent.txt"))
		assert.Error(t, err)
	})
}

func TestFromArgs(t *testing.T) {
	rs := FromArgs([]string{"test_set_to_mini", "", "  ", "# not a rule", " MiniTest "})
	assert.Equal(t, []string{"test_set_to_mini", "MiniTest"}, rs.Strings())
}

func TestFileAndArgsUnion(t *testing.T) {
	fileRules, err := LoadFile(writeRulesFile(t, "test_unbound_function"))
	require.NoError(t, err)
	all := fileRules.Merge(FromArgs([]string{"test_set_to_mini"}))
	assert.Equal(t, sorted(wumboToWumbo, miniFailure, miniToWumbo), remaining(all))
}

func TestWriteTempFile(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteTempFile(dir, FromArgs([]string{"MiniTest", "v1.test_wumbo"}))
	require.NoError(t, err)

	rs, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"MiniTest", "v1.test_wumbo"}, rs.Strings())

	RemoveQuietly(path)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// a second removal and an empty path are both fine
	RemoveQuietly(path)
	RemoveQuietly("")
}
