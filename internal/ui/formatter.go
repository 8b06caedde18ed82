package ui

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"nbl/internal/domain"
)

var (
	cyan   = color.New(color.FgCyan)
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	white  = color.New(color.FgWhite)
)

// Formatter formats and displays output
type Formatter struct {
	out io.Writer
}

// NewFormatter creates a new Formatter writing to out
func NewFormatter(out io.Writer) *Formatter {
	return &Formatter{out: out}
}

type summaryRow struct {
	label string
	value string
	c     *color.Color
}

// DroppedTest is a test removed by a blacklist rule
type DroppedTest struct {
	Name     domain.QualifiedName
	Rule     string
	Strategy string
}

// PrintSummary displays the counters of a run and the tree of tests that did not pass
func (f *Formatter) PrintSummary(run *domain.StoredRun) {
	result := run.Result
	meta := run.Meta

	fmt.Fprintln(f.out)
	cyan.Fprintln(f.out, "╔═══════════════════════════════════════════════════════════════╗")
	cyan.Fprintln(f.out, "║                    Test Execution Statistics                  ║")
	cyan.Fprintln(f.out, "╚═══════════════════════════════════════════════════════════════╝")

	status := result.TestStatus
	if status == "" {
		status = "UNKNOWN"
	}
	statusColor := green
	if !result.Passed() {
		statusColor = red
	}

	rows := []summaryRow{
		{"Status", status, statusColor},
		{"Tests Run", fmt.Sprint(result.NTests), white},
		{"Failures", fmt.Sprint(result.NFailures), red},
		{"Errors", fmt.Sprint(result.NErrors), red},
		{"Skipped", fmt.Sprint(result.NSkips), yellow},
		{"Test Time", fmt.Sprintf("%.3fs", result.TestTime), white},
	}
	if meta.Shards > 0 {
		rows = append(rows, summaryRow{"Shards", fmt.Sprint(meta.Shards), white})
	}
	if meta.Duration != "" {
		rows = append(rows, summaryRow{"Wall Time", fmt.Sprintf("%.2fs", meta.DurationSeconds), white})
	}
	if meta.Timestamp != "" {
		rows = append(rows, summaryRow{"Timestamp", meta.Timestamp, white})
	}

	fmt.Fprintln(f.out, "┌─────────────────────────────────┬─────────────────────────────┐")
	for i, row := range rows {
		fmt.Fprintf(f.out, "│ %-31s │ ", row.label)
		row.c.Fprintf(f.out, "%-27s", row.value)
		fmt.Fprintln(f.out, " │")
		if i < len(rows)-1 {
			fmt.Fprintln(f.out, "├─────────────────────────────────┼─────────────────────────────┤")
		}
	}
	fmt.Fprintln(f.out, "└─────────────────────────────────┴─────────────────────────────┘")

	// Print summary line
	fmt.Fprintln(f.out)
	if result.Passed() {
		green.Fprintf(f.out, "✓ All %d test(s) passed!\n", result.NTests)
		return
	}
	red.Fprintf(f.out, "✗ %d failure(s) and %d error(s) in %d test(s)\n", result.NFailures, result.NErrors, result.NTests)

	var failed []domain.ShortResult
	for _, s := range result.ShortResults {
		if s.Failed() {
			failed = append(failed, s)
		}
	}
	if len(failed) == 0 {
		return
	}
	fmt.Fprintln(f.out)
	root := newTreeNode("")
	for _, s := range failed {
		name, err := s.Qualified()
		if err != nil {
			continue
		}
		root.insert(name, s.Status)
	}
	f.printTreeNode(root, "")
}

// PrintTestList prints the tests that will run as a module/class/test tree
func (f *Formatter) PrintTestList(kept []domain.Candidate) {
	green.Fprintf(f.out, "Found %d test(s):\n", len(kept))
	root := newTreeNode("")
	for _, c := range kept {
		root.insert(c.Name, "")
	}
	f.printTreeNode(root, "")
}

// PrintDropped lists the tests removed by the blacklist with the rule that matched
func (f *Formatter) PrintDropped(dropped []DroppedTest) {
	fmt.Fprintln(f.out)
	yellow.Fprintf(f.out, "Blacklisted %d test(s):\n", len(dropped))
	for _, d := range dropped {
		fmt.Fprintf(f.out, "  %s ", d.Name)
		red.Fprintf(f.out, "[%s: %s]\n", d.Strategy, d.Rule)
	}
}

// PrintResultLines prints each shortresult as "<status>: <name>"
func (f *Formatter) PrintResultLines(results []domain.ShortResult) {
	for _, s := range results {
		statusColor(s.Status).Fprintf(f.out, "%-5s", s.Status)
		fmt.Fprintf(f.out, " %s\n", s.Name)
	}
}

// TreeNode represents a module, class or test in the printed tree
type TreeNode struct {
	Name     string
	Children map[string]*TreeNode
	Status   string
}

func newTreeNode(name string) *TreeNode {
	return &TreeNode{Name: name, Children: make(map[string]*TreeNode)}
}

// insert adds name as module, class and callable levels
func (n *TreeNode) insert(name domain.QualifiedName, status string) {
	path := []string{name.Module()}
	if class := name.Class(); class != "" {
		path = append(path, class)
	}
	path = append(path, name.Callable())

	current := n
	for _, part := range path {
		if part == "" {
			continue
		}
		if current.Children[part] == nil {
			current.Children[part] = newTreeNode(part)
		}
		current = current.Children[part]
	}
	current.Status = status
}

func (f *Formatter) printTreeNode(node *TreeNode, prefix string) {
	// Sort children for consistent output
	keys := make([]string, 0, len(node.Children))
	for key := range node.Children {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for i, key := range keys {
		child := node.Children[key]
		isLast := i == len(keys)-1

		connector, childPrefix := "├── ", "│   "
		if isLast {
			connector, childPrefix = "└── ", "    "
		}

		fmt.Fprint(f.out, prefix+connector)
		switch {
		case len(child.Children) > 0:
			cyan.Fprintln(f.out, child.Name)
		case child.Status != "":
			statusColor(child.Status).Fprintf(f.out, "%s [%s]\n", child.Name, child.Status)
		default:
			yellow.Fprintln(f.out, child.Name)
		}
		f.printTreeNode(child, prefix+childPrefix)
	}
}

func statusColor(status string) *color.Color {
	switch strings.ToUpper(status) {
	case strings.ToUpper(domain.StatusOK):
		return green
	case domain.StatusFail, domain.StatusError:
		return red
	default:
		return yellow
	}
}
