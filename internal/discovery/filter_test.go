package discovery

import (
	"reflect"
	"testing"

	"github.com/go-logr/logr"
	"github.com/spf13/pflag"

	"nbl/internal/blacklist"
	"nbl/internal/domain"
)

func candidate(t *testing.T, dotted string, hasClass bool) domain.Candidate {
	t.Helper()
	name, err := domain.ParseQualifiedName(dotted, hasClass)
	if err != nil {
		t.Fatal(err)
	}
	return domain.Candidate{Name: name, Source: domain.SourceCollected}
}

func configuredPlugin(t *testing.T, args ...string) *blacklist.FilterPlugin {
	t.Helper()
	plugin := blacklist.NewPlugin(logr.Discard())
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	plugin.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatal(err)
	}
	if err := plugin.Configure(); err != nil {
		t.Fatal(err)
	}
	return plugin
}

func TestFilter_Apply(t *testing.T) {
	candidates := []domain.Candidate{
		candidate(t, "sampletests.v1.test_wumbo.WumboTest.test_set_to_mini", true),
		candidate(t, "sampletests.test_mini.MiniTest.test_failure", true),
		candidate(t, "sampletests.test_mini.test_unbound_function", false),
	}

	tests := []struct {
		name    string
		args    []string
		kept    int
		dropped int
	}{
		{name: "disabled keeps everything", args: []string{"--blacklist", "sampletests"}, kept: 3},
		{name: "class rule", args: []string{"--with-blacklist", "--blacklist", "MiniTest"}, kept: 2, dropped: 1},
		{name: "module rule", args: []string{"--with-blacklist", "--blacklist", "test_mini"}, kept: 1, dropped: 2},
		{name: "package rule", args: []string{"--with-blacklist", "--blacklist", "sampletests"}, dropped: 3},
		{name: "no rules", args: []string{"--with-blacklist"}, kept: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kept, dropped := NewFilter(configuredPlugin(t, tt.args...)).Apply(candidates)
			if len(kept) != tt.kept || len(dropped) != tt.dropped {
				t.Errorf("expected %d kept and %d dropped, got %d and %d", tt.kept, tt.dropped, len(kept), len(dropped))
			}
		})
	}

	t.Run("nil plugin keeps everything", func(t *testing.T) {
		kept, dropped := NewFilter(nil).Apply(candidates)
		if len(kept) != 3 || len(dropped) != 0 {
			t.Errorf("expected all candidates kept, got %d kept and %d dropped", len(kept), len(dropped))
		}
	})

	t.Run("keeps discovery order", func(t *testing.T) {
		kept, _ := NewFilter(configuredPlugin(t, "--with-blacklist", "--blacklist", "test_failure")).Apply(candidates)
		if len(kept) != 2 || kept[0].Name.String() != candidates[0].Name.String() || kept[1].Name.String() != candidates[2].Name.String() {
			t.Errorf("unexpected order %v", Addresses(kept))
		}
	})
}

func TestAddresses(t *testing.T) {
	got := Addresses([]domain.Candidate{
		candidate(t, "sampletests.v1.test_wumbo.WumboTest.test_set_to_mini", true),
		candidate(t, "sampletests.test_mini.test_unbound_function", false),
	})
	expected := []string{
		"sampletests.v1.test_wumbo:WumboTest.test_set_to_mini",
		"sampletests.test_mini:test_unbound_function",
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}
}
