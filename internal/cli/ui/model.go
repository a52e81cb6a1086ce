// Package ui contains the Bubble Tea model rendering live batch progress:
// a scrollable file list with per-file status and a summary footer.
package ui

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lean-apple/multi-files-processor/internal/cli/hooks"
	"github.com/lean-apple/multi-files-processor/pkg/textproc"
)

const listHeightMargin = 4

// Model represents the state of the TUI: the file list, spinner, layout
// dimensions, and the aggregated summary shown in the footer.
type Model struct {
	list        list.Model
	spinner     spinner.Model
	width       int
	height      int
	initialized bool
	// fileItems and itemMap are updated from hook messages; listLock guards both.
	fileItems []listItem
	itemMap   map[string]int
	listLock  sync.Mutex
	summary   Summary
	// processTime maps paths to their processing start time for duration display.
	processTime   map[string]time.Time
	phaseMessage  string
	quitting      bool
	debounceTimer *time.Timer
}

// listItem is a single file row in the list.
type listItem struct {
	path     string
	status   textproc.Status
	message  string
	words    int
	duration time.Duration
}

// Summary holds the aggregated statistics displayed in the footer.
type Summary struct {
	TotalFiles     int
	CompletedCount int
	FailedCount    int
	TotalWords     int
	StartTime      time.Time
}

// NewModel creates the initial model for the TUI.
func NewModel() Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(0)
	delegate.ShowDescription = true
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(ColorSelectedFg).
		Background(ColorSelectedBg).
		Bold(true).
		Padding(0, 0, 0, 1)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(ColorSelectedDescFg).
		Background(ColorSelectedBg).
		Padding(0, 0, 0, 1)
	delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.
		Foreground(ColorNormalFg).Padding(0, 0, 0, 1)
	delegate.Styles.NormalDesc = delegate.Styles.NormalDesc.
		Foreground(ColorNormalDescFg).Padding(0, 0, 0, 1)

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowTitle(false)
	l.SetShowFilter(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	return Model{
		list:         l,
		spinner:      s,
		summary:      Summary{StartTime: time.Now()},
		phaseMessage: "Initializing...",
		fileItems:    make([]listItem, 0, 64),
		itemMap:      make(map[string]int),
		processTime:  make(map[string]time.Time),
	}
}

// Init starts the spinner animation.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles user input and hook messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var listCmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		listHeight := m.height - listHeightMargin
		if listHeight < 1 {
			listHeight = 1
		}
		m.list.SetSize(m.width, listHeight)
		m.initialized = true

	case tea.KeyMsg:
		if m.quitting {
			return m, nil
		}
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		}
		m.list, listCmd = m.list.Update(msg)
		cmds = append(cmds, listCmd)

	case spinner.TickMsg:
		if m.quitting {
			return m, nil
		}
		var spinnerCmd tea.Cmd
		m.spinner, spinnerCmd = m.spinner.Update(msg)
		cmds = append(cmds, spinnerCmd)

	case hooks.FileDiscoveredMsg:
		m.listLock.Lock()
		if _, exists := m.itemMap[msg.Path]; !exists {
			m.fileItems = append(m.fileItems, listItem{path: msg.Path, status: textproc.StatusPending})
			m.itemMap[msg.Path] = len(m.fileItems) - 1
			m.summary.TotalFiles++
			cmds = append(cmds, m.debounceListUpdate())
		}
		m.listLock.Unlock()
		if !m.quitting && m.phaseMessage == "Initializing..." {
			m.phaseMessage = "Counting..."
		}

	case hooks.FileStatusUpdateMsg:
		m.listLock.Lock()
		if idx, ok := m.itemMap[msg.Path]; ok && idx < len(m.fileItems) {
			item := &m.fileItems[idx]

			if msg.Status == textproc.StatusProcessing {
				m.processTime[msg.Path] = time.Now()
				item.duration = 0
			} else if msg.Status.IsFinal() {
				if msg.Duration > 0 {
					item.duration = msg.Duration
				} else if startTime, found := m.processTime[msg.Path]; found {
					item.duration = time.Since(startTime)
				}
				delete(m.processTime, msg.Path)
			}

			if msg.Status.IsFinal() && !item.status.IsFinal() {
				if msg.Status == textproc.StatusFailed {
					m.summary.FailedCount++
				} else {
					m.summary.CompletedCount++
				}
			}

			item.status = msg.Status
			item.message = msg.Message
			cmds = append(cmds, m.debounceListUpdate())
		} else {
			// Status for an undiscovered path; add it so nothing is dropped.
			m.fileItems = append(m.fileItems, listItem{
				path: msg.Path, status: msg.Status, message: msg.Message, duration: msg.Duration,
			})
			m.itemMap[msg.Path] = len(m.fileItems) - 1
			m.summary.TotalFiles++
			if msg.Status == textproc.StatusFailed {
				m.summary.FailedCount++
			} else if msg.Status.IsFinal() {
				m.summary.CompletedCount++
			}
			cmds = append(cmds, m.debounceListUpdate())
		}
		m.listLock.Unlock()

		if !m.quitting && m.phaseMessage != "Counting..." && msg.Status == textproc.StatusProcessing {
			m.phaseMessage = "Counting..."
		}

	case hooks.RunCompleteMsg:
		m.phaseMessage = "Complete"
		m.summary.CompletedCount = msg.Report.Summary.FileCount
		m.summary.FailedCount = msg.Report.Summary.FailureCount
		m.summary.TotalWords = msg.Report.Summary.TotalWords
		m.listLock.Lock()
		for path, result := range msg.Report.Files {
			if idx, ok := m.itemMap[path]; ok && idx < len(m.fileItems) {
				m.fileItems[idx].words = result.TotalWords
			}
		}
		m.listLock.Unlock()
		// The batch is done; release the terminal so the report can print.
		m.quitting = true
		cmds = append(cmds, m.syncListItems(), tea.Quit)

	case UpdateListMsg:
		cmds = append(cmds, m.syncListItems())
	}

	if listCmd != nil {
		cmds = append(cmds, listCmd)
	}

	return m, tea.Batch(cmds...)
}

// View renders the current state.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.initialized {
		return "Initializing..."
	}

	headerLeft := "mfp"
	headerRight := m.phaseMessage
	if m.phaseMessage != "Complete" && m.phaseMessage != "Initializing..." {
		headerRight = m.spinner.View() + " " + m.phaseMessage
	}
	headerCenter := ""
	headerWidth := m.width - lipgloss.Width(headerLeft) - lipgloss.Width(headerRight)
	if headerWidth > 0 {
		headerCenter = lipgloss.PlaceHorizontal(headerWidth, lipgloss.Center, " ")
	}
	header := HeaderStyle.Width(m.width).Render(lipgloss.JoinHorizontal(lipgloss.Top, headerLeft, headerCenter, headerRight))

	elapsed := time.Since(m.summary.StartTime).Round(time.Millisecond)
	summaryText := fmt.Sprintf(
		"Counted: %d | Failed: %d | Words: %d | Total: %d | Elapsed: %s",
		m.summary.CompletedCount,
		m.summary.FailedCount,
		m.summary.TotalWords,
		m.summary.TotalFiles,
		elapsed,
	)
	footerLeft := summaryText
	footerRight := "q: quit"
	footerWidth := m.width - lipgloss.Width(footerLeft) - lipgloss.Width(footerRight)
	footerCenter := ""
	if footerWidth > 0 {
		footerCenter = lipgloss.PlaceHorizontal(footerWidth, lipgloss.Center, " ")
	}
	footer := FooterStyle.Width(m.width).Render(lipgloss.JoinHorizontal(lipgloss.Bottom, footerLeft, footerCenter, footerRight))

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.list.View(),
		footer,
	)
}

// syncListItems pushes the internal item slice into the list component.
func (m *Model) syncListItems() tea.Cmd {
	m.listLock.Lock()
	items := make([]list.Item, len(m.fileItems))
	for i, item := range m.fileItems {
		items[i] = item
	}
	m.listLock.Unlock()
	return m.list.SetItems(items)
}

// FilterValue implements the list.Item interface.
func (i listItem) FilterValue() string { return i.path }

// Title implements the list.Item interface.
func (i listItem) Title() string { return i.path }

// Description implements the list.Item interface.
func (i listItem) Description() string {
	var statusStyle lipgloss.Style
	statusIcon := " "
	switch i.status {
	case textproc.StatusSuccess:
		statusStyle = StatusStyleSuccess
		statusIcon = "✓"
	case textproc.StatusFailed:
		statusStyle = StatusStyleFailed
		statusIcon = "✗"
	case textproc.StatusProcessing:
		statusStyle = StatusStyleProcessing
		statusIcon = "…"
	default:
		statusStyle = StatusStylePending
	}

	statusStr := statusStyle.Render(fmt.Sprintf("[%s]", statusIcon))
	details := ""
	switch {
	case i.status == textproc.StatusFailed:
		details = i.message
	case i.status == textproc.StatusSuccess && i.words > 0:
		details = fmt.Sprintf("%d words", i.words)
		if i.duration > 0 {
			details += " " + formatDuration(i.duration)
		}
	case i.status == textproc.StatusSuccess && i.duration > 0:
		details = formatDuration(i.duration)
	}
	return fmt.Sprintf("%s %s", statusStr, details)
}

// formatDuration formats a duration for the list row.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		if d == 0 {
			return ""
		}
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}

// UpdateListMsg signals that the list component should refresh its items.
type UpdateListMsg struct{}

const listUpdateDebounceDuration = 50 * time.Millisecond

// debounceListUpdate coalesces rapid status changes into one list refresh.
// Must be called with listLock held.
func (m *Model) debounceListUpdate() tea.Cmd {
	if m.debounceTimer != nil {
		m.debounceTimer.Stop()
	}
	m.debounceTimer = time.NewTimer(listUpdateDebounceDuration)
	return func() tea.Msg {
		<-m.debounceTimer.C
		return UpdateListMsg{}
	}
}

const (
	ColorHeaderFg = lipgloss.Color("252")
	ColorHeaderBg = lipgloss.Color("62")

	ColorFooterFg = lipgloss.Color("252")
	ColorFooterBg = lipgloss.Color("56")

	ColorNormalFg     = lipgloss.Color("250")
	ColorNormalDescFg = lipgloss.Color("244")

	ColorSelectedFg     = lipgloss.Color("255")
	ColorSelectedBg     = lipgloss.Color("56")
	ColorSelectedDescFg = lipgloss.Color("248")

	ColorStatusSuccess    = lipgloss.Color("40")
	ColorStatusFailed     = lipgloss.Color("196")
	ColorStatusPending    = lipgloss.Color("244")
	ColorStatusProcessing = lipgloss.Color("205")
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorHeaderFg).
			Background(ColorHeaderBg).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorFooterFg).
			Background(ColorFooterBg).
			Padding(0, 1)

	StatusStyleSuccess    = lipgloss.NewStyle().Foreground(ColorStatusSuccess)
	StatusStyleFailed     = lipgloss.NewStyle().Foreground(ColorStatusFailed)
	StatusStylePending    = lipgloss.NewStyle().Foreground(ColorStatusPending)
	StatusStyleProcessing = lipgloss.NewStyle().Foreground(ColorStatusProcessing)
)
