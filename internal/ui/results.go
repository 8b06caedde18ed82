package ui

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"nbl/internal/domain"
)

// ResultViewer displays the shortresults of a run in an interactive TUI
type ResultViewer struct{}

var _ Viewer = (*ResultViewer)(nil)

// NewResultViewer creates a new ResultViewer
func NewResultViewer() *ResultViewer {
	return &ResultViewer{}
}

// View opens the viewer. F toggles between all tests and the ones that did not pass.
func (rv *ResultViewer) View(run *domain.StoredRun) error {
	if len(run.Result.ShortResults) == 0 {
		color.Yellow("No test results recorded")
		return nil
	}

	app := tview.NewApplication()
	onlyFailed := !run.Result.Passed()
	var shown []domain.ShortResult

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)
	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)

	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	updateDetails := func() {
		index := list.GetCurrentItem()
		if index < 0 || index >= len(shown) {
			statsView.SetText("")
			detailsView.SetText("")
			return
		}
		statsView.SetText(formatResultStats(shown[index], index+1))
		detailsView.SetText(formatResultDetails(shown[index], run.Meta))
	}

	fill := func() {
		shown = filterResults(run.Result.ShortResults, onlyFailed)
		list.Clear()
		for i, s := range shown {
			list.AddItem(listItemText(s, i), "", 0, nil)
		}
		headerView.SetText(headerText(&run.Result, len(shown), onlyFailed))
		updateDetails()
	}

	list.SetChangedFunc(func(int, string, string, rune) {
		updateDetails()
	})

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			switch event.Rune() {
			case 'f', 'F':
				onlyFailed = !onlyFailed
				fill()
				return nil
			case 'q':
				app.Stop()
				return nil
			}
		}
		return event
	})

	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(detailsView, 0, 1, false)

	body := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(body, 0, 1, true)

	fill()
	if err := app.SetRoot(mainLayout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func filterResults(results []domain.ShortResult, onlyFailed bool) []domain.ShortResult {
	if !onlyFailed {
		return results
	}
	var out []domain.ShortResult
	for _, s := range results {
		if s.Failed() {
			out = append(out, s)
		}
	}
	return out
}

func tagFor(status string) string {
	switch status {
	case domain.StatusOK:
		return "green"
	case domain.StatusFail, domain.StatusError:
		return "red"
	default:
		return "yellow"
	}
}

func listItemText(s domain.ShortResult, index int) string {
	return fmt.Sprintf("[yellow]%d.[%s] %-5s[white] %s", index+1, tagFor(s.Status), s.Status, s.Name)
}

func headerText(result *domain.RunResult, shown int, onlyFailed bool) string {
	scope := "all tests"
	if onlyFailed {
		scope = "failed tests"
	}
	return fmt.Sprintf(" %s: %d run, %d failures, %d errors | showing %d %s | [yellow]F[white] toggle, → details, ← back, q quit ",
		result.TestStatus, result.NTests, result.NFailures, result.NErrors, shown, scope)
}

// formatResultStats formats the one-line header of a selected test
func formatResultStats(s domain.ShortResult, number int) string {
	return fmt.Sprintf("[cyan]#%d[white] [%s]%s[white]\n", number, tagFor(s.Status), s.Status)
}

// formatResultDetails formats a test for display using tview color tags
func formatResultDetails(s domain.ShortResult, meta domain.RunMeta) string {
	var builder strings.Builder
	w := tabwriter.NewWriter(&builder, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "[%s]Test:\t%s[white]\n", tagFor(s.Status), s.Name)
	if s.Owner != "" {
		fmt.Fprintf(w, "[cyan]Owner:\t%s[white]\n", s.Owner)
	}
	if name, err := s.Qualified(); err == nil {
		fmt.Fprintf(w, "[cyan]Address:\t%s[white]\n", name.Address())
	}
	fmt.Fprintf(w, "\n")

	if meta.Command != "" {
		fmt.Fprintf(w, "[yellow]Command:[white]\n%s\n\n", meta.Command)
	}
	if len(meta.Rules) > 0 {
		fmt.Fprintf(w, "[yellow]Blacklist:[white]\n")
		for _, r := range meta.Rules {
			fmt.Fprintf(w, "  %s\n", r)
		}
	}

	w.Flush()
	return builder.String()
}
