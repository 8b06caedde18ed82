package blacklist

import (
	"sort"
	"testing"

	"github.com/go-logr/logr"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nbl/internal/domain"
)

func newParsedPlugin(t *testing.T, args ...string) *FilterPlugin {
	t.Helper()
	p := NewPlugin(logr.Discard())
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	p.RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return p
}

func selected(p Plugin) []string {
	var kept []string
	for _, name := range sampleSuite() {
		if p.Select(domain.Candidate{Name: name, Source: domain.SourceCollected}) {
			kept = append(kept, name.String())
		}
	}
	sort.Strings(kept)
	return kept
}

func TestFilterPlugin_Flags(t *testing.T) {
	path := writeRulesFile(t, "test_unbound_function")
	p := newParsedPlugin(t,
		"--with-blacklist",
		"--blacklist=test_set_to_mini",
		"--blacklist", "test_failure",
		"--blacklist-file="+path,
	)

	opts := p.Options()
	assert.True(t, opts.Enabled)
	assert.Equal(t, []string{"test_set_to_mini", "test_failure"}, opts.Patterns)
	assert.Equal(t, path, opts.File)

	require.NoError(t, p.Configure())
	assert.Len(t, p.Rules(), 3)
	assert.Equal(t, sorted(wumboToWumbo, miniToWumbo), selected(p))
}

func TestFilterPlugin_Disabled(t *testing.T) {
	p := newParsedPlugin(t, "--blacklist=sampletests")
	require.NoError(t, p.Configure())
	assert.Len(t, selected(p), 6)

	_, _, ok := p.Explain(sampleSuite()[0])
	assert.False(t, ok)
}

func TestFilterPlugin_Unconfigured(t *testing.T) {
	p := newParsedPlugin(t, "--with-blacklist", "--blacklist=sampletests")
	assert.Nil(t, p.Rules())
	assert.Len(t, selected(p), 6)
}

func TestFilterPlugin_ExcludeAll(t *testing.T) {
	p := newParsedPlugin(t, "--with-blacklist", "--blacklist=sampletests")
	require.NoError(t, p.Configure())
	assert.Empty(t, selected(p))
}

func TestFilterPlugin_CommentOnlyFile(t *testing.T) {
	path := writeRulesFile(t, "# wumbo", "# mini")
	p := newParsedPlugin(t, "--with-blacklist", "--blacklist-file="+path)
	require.NoError(t, p.Configure())
	assert.Empty(t, p.Rules())
	assert.Len(t, selected(p), 6)
}

func TestFilterPlugin_MissingFile(t *testing.T) {
	p := newParsedPlugin(t, "--with-blacklist", "--blacklist-file=/non/existent/black.txt")
	assert.Error(t, p.Configure())
}

func TestFilterPlugin_UseDefaults(t *testing.T) {
	defaultFile := writeRulesFile(t, "MiniTest")
	flagFile := writeRulesFile(t, "v1")

	t.Run("config file used when flag absent", func(t *testing.T) {
		p := newParsedPlugin(t, "--with-blacklist")
		p.UseDefaults(defaultFile, FromArgs([]string{"test_unbound_function"}))
		require.NoError(t, p.Configure())
		assert.Equal(t, sorted(wumboToMini, wumboToWumbo), selected(p))
	})

	t.Run("flag file wins over config file", func(t *testing.T) {
		p := newParsedPlugin(t, "--with-blacklist", "--blacklist-file="+flagFile)
		p.UseDefaults(defaultFile, nil)
		require.NoError(t, p.Configure())
		assert.Equal(t, sorted(miniFailure, miniToMini, miniToWumbo, unboundFunc), selected(p))
	})
}
