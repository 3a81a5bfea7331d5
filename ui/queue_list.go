package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
)

// QueueItem is a file page of the current year
type QueueItem struct {
	title  string
	status string
}

// FilterValue implements list.Item interface
func (i QueueItem) FilterValue() string { return i.title }

// Title returns the page title
func (i QueueItem) Title() string { return i.title }

// Description returns the page status
func (i QueueItem) Description() string { return "Status: " + i.status }

// QueueList shows the file pages of the current year and how far the run
// has got through them
type QueueList struct {
	list      list.Model
	style     lipgloss.Style
	width     int
	height    int
	processed int
}

// NewQueueList creates a new queue list
func NewQueueList() *QueueList {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(lipgloss.Color("170"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(lipgloss.Color("244"))

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Pages"
	l.Styles.Title = l.Styles.Title.Foreground(lipgloss.Color("240"))
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return &QueueList{
		list:  l,
		style: borderStyle.BorderForeground(lipgloss.Color("99")),
	}
}

// SetSize updates the list dimensions
func (q *QueueList) SetSize(width, height int) {
	q.width = width
	q.height = height
	q.list.SetSize(max(width-2, 0), max(height-2, 0))
}

// View renders the list
func (q *QueueList) View() string {
	return q.style.Width(max(q.width-2, 0)).Height(max(q.height-2, 0)).Render(q.list.View())
}

// SetPages replaces the list with pending pages
func (q *QueueList) SetPages(pages []string) {
	items := make([]list.Item, 0, len(pages))
	for _, p := range pages {
		items = append(items, QueueItem{title: p, status: "pending"})
	}
	q.list.SetItems(items)
	q.processed = 0
	q.updateTitle()
}

// MarkCurrent selects the page being processed
func (q *QueueList) MarkCurrent(title string) {
	q.setStatus(title, "processing")
}

// MarkProcessed records the action taken on a page
func (q *QueueList) MarkProcessed(title, action string) {
	if q.setStatus(title, "done: "+action) {
		q.processed++
		q.updateTitle()
	}
}

// Pending is the number of pages not yet processed
func (q *QueueList) Pending() int {
	return len(q.list.Items()) - q.processed
}

// Clear empties the list
func (q *QueueList) Clear() {
	q.list.SetItems([]list.Item{})
	q.processed = 0
	q.updateTitle()
}

func (q *QueueList) setStatus(title, status string) bool {
	for i, item := range q.list.Items() {
		if qItem, ok := item.(QueueItem); ok && qItem.title == title {
			qItem.status = status
			q.list.SetItem(i, qItem)
			q.list.Select(i)
			return true
		}
	}
	return false
}

func (q *QueueList) updateTitle() {
	q.list.Title = fmt.Sprintf("Pages (%d pending)", q.Pending())
}
