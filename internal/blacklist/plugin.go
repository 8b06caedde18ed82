package blacklist

import (
	"github.com/go-logr/logr"
	"github.com/spf13/pflag"

	"nbl/internal/domain"
)

// Plugin is the selection hook offered to a test runner: it declares its
// command-line options and decides, per discovered test, whether to keep it.
type Plugin interface {
	RegisterFlags(fs *pflag.FlagSet)
	Select(candidate domain.Candidate) bool
}

// Options are the values bound by RegisterFlags
type Options struct {
	Enabled  bool
	Patterns []string
	File     string
}

// FilterPlugin drops every candidate matched by a blacklist rule
type FilterPlugin struct {
	opts     Options
	defaults domain.RuleSet
	matcher  *Matcher
	log      logr.Logger
}

var _ Plugin = (*FilterPlugin)(nil)

// NewPlugin creates an unconfigured FilterPlugin
func NewPlugin(log logr.Logger) *FilterPlugin {
	return &FilterPlugin{log: log}
}

// SetLogger replaces the logger handed to the matcher on Configure
func (p *FilterPlugin) SetLogger(log logr.Logger) {
	p.log = log
}

// RegisterFlags declares --with-blacklist, --blacklist and --blacklist-file
func (p *FilterPlugin) RegisterFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&p.opts.Enabled, "with-blacklist", false, "Enable the blacklist test filter")
	fs.StringArrayVar(&p.opts.Patterns, "blacklist", nil, "Exclude tests matching this dotted name (repeatable)")
	fs.StringVar(&p.opts.File, "blacklist-file", "", "File with one blacklist rule per line ('#' starts a comment)")
}

// UseDefaults supplies rules and a rules file from configuration. The file is
// only used when --blacklist-file was not given.
func (p *FilterPlugin) UseDefaults(file string, rules domain.RuleSet) {
	if p.opts.File == "" {
		p.opts.File = file
	}
	p.defaults = p.defaults.Merge(rules)
}

// Options returns the bound option values
func (p *FilterPlugin) Options() Options {
	return p.opts
}

// Enabled reports whether --with-blacklist was set
func (p *FilterPlugin) Enabled() bool {
	return p.opts.Enabled
}

// Configure loads the rules file and merges it with the argument rules.
func (p *FilterPlugin) Configure() error {
	rules := p.defaults.Merge(FromArgs(p.opts.Patterns))
	if p.opts.File != "" {
		fileRules, err := LoadFile(p.opts.File)
		if err != nil {
			return err
		}
		rules = rules.Merge(fileRules)
	}

	p.matcher = NewMatcher(rules, p.log)
	if p.opts.Enabled {
		p.log.V(1).Info("blacklist enabled", "rules", len(rules), "file", p.opts.File)
	}
	return nil
}

// Rules returns the configured rules, or nil before Configure
func (p *FilterPlugin) Rules() domain.RuleSet {
	if p.matcher == nil {
		return nil
	}
	return p.matcher.Rules()
}

// Select keeps a candidate unless the filter is enabled and a rule matches.
func (p *FilterPlugin) Select(candidate domain.Candidate) bool {
	if !p.opts.Enabled || p.matcher == nil {
		return true
	}
	return !p.matcher.IsBlacklisted(candidate.Name)
}

// Explain returns the rule that drops name, if any
func (p *FilterPlugin) Explain(name domain.QualifiedName) (domain.Rule, Strategy, bool) {
	if !p.opts.Enabled || p.matcher == nil {
		return domain.Rule{}, StrategyNone, false
	}
	return p.matcher.Explain(name)
}
