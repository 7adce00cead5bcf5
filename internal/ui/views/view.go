package views

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/truncate"

	"reposcout/internal/orchestrator"
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width         int
	Height        int
	State         orchestrator.State
	QueryView     string // rendered query text input
	FilterView    string // rendered filter text input
	FilterFocused bool
	SelectedIndex int
	Offset        int // viewport scroll offset into the result list
	Spinner       string
	StatusMessage string // transient status line (copy confirmation etc.)
}

// Renderer handles all view rendering
type Renderer struct {
	styles *Styles
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{styles: NewStyles()}
}

// Render produces the complete view
func (r *Renderer) Render(vs ViewState) string {
	content := &strings.Builder{}

	title := r.styles.Title.Render("reposcout")
	if vs.State.Loading {
		title += " " + r.styles.Loading.Render(vs.Spinner+" searching…")
	}
	if !vs.State.NetworkAvailable && vs.State.NetworkStatusMessage != "" {
		title += "  " + r.styles.Offline.Render("● "+vs.State.NetworkStatusMessage)
	}
	content.WriteString(title + "\n")

	content.WriteString(r.styles.Prompt.Render("Search: ") + vs.QueryView + "\n")

	filterLabel := "Filter: "
	if vs.FilterFocused {
		filterLabel = "Filter» "
	}
	content.WriteString(r.styles.Filter.Render(filterLabel) + vs.FilterView + "\n\n")

	content.WriteString(r.renderResults(vs))

	if vs.State.ErrorMessage != "" {
		content.WriteString("\n" + r.styles.Error.Render("✗ "+vs.State.ErrorMessage) +
			r.styles.Dim.Render("  (esc to dismiss)") + "\n")
	}
	if vs.StatusMessage != "" {
		content.WriteString(r.styles.Status.Render(vs.StatusMessage) + "\n")
	}

	content.WriteString("\n" + r.styles.Help.Render("↑/↓ select · enter open · ctrl+y copy url · tab filter · esc dismiss/quit · ctrl+c quit"))
	return content.String()
}

func (r *Renderer) renderResults(vs ViewState) string {
	repos := vs.State.FilteredResults
	if len(repos) == 0 {
		if strings.TrimSpace(vs.State.RemoteQuery) == "" {
			return r.styles.Dim.Render("  Type to search repositories.") + "\n"
		}
		if vs.State.Loading {
			return ""
		}
		return r.styles.Dim.Render("  No results.") + "\n"
	}

	b := &strings.Builder{}
	visible := VisibleRows(vs.Height)
	end := vs.Offset + visible
	if end > len(repos) {
		end = len(repos)
	}
	width := vs.Width
	if width < 10 {
		width = 80
	}

	for i := vs.Offset; i < end; i++ {
		repo := repos[i]
		line := fmt.Sprintf("  %s %s", repo.Name, r.styles.Owner.Render("@"+repo.OwnerLogin))
		line = truncate.StringWithTail(line, uint(width-2), "…")
		if i == vs.SelectedIndex {
			line = r.styles.Selected.Render("▸" + line[1:])
		}
		b.WriteString(line + "\n")
	}

	if vs.State.LocalFilter != "" {
		counter := fmt.Sprintf("  %d/%d match", len(repos), len(vs.State.AllResults))
		b.WriteString(r.styles.Highlight.Render(counter) + "\n")
	} else {
		b.WriteString(r.styles.Dim.Render(fmt.Sprintf("  %d results", len(repos))) + "\n")
	}
	return b.String()
}

// VisibleRows returns how many result rows fit in the given terminal height.
// The model uses it to keep the selection inside the viewport.
func VisibleRows(height int) int {
	// title + inputs + blank + counter + error/status + help
	reserved := 9
	rows := height - reserved
	if rows < 3 {
		rows = 3
	}
	return rows
}
