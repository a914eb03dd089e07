package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit          key.Binding
	Up            key.Binding
	Down          key.Binding
	Left          key.Binding
	Right         key.Binding
	Advance       key.Binding
	NewTask       key.Binding
	QuickTask     key.Binding
	Edit          key.Binding
	Delete        key.Binding
	Filter        key.Binding
	ClearFilter   key.Binding
	CycleSort     key.Binding
	ToggleArchive key.Binding
	SwitchFocus   key.Binding
	Restore       key.Binding
	Purge         key.Binding
	Refresh       key.Binding
	Grab          key.Binding
	NextTag       key.Binding
	AddTag        key.Binding
	Confirm       key.Binding
	Cancel        key.Binding
	Yes           key.Binding
	No            key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit:          key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Up:            key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:          key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:          key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:         key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Advance:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "next column")),
		NewTask:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new task")),
		QuickTask:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "quick task")),
		Edit:          key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete:        key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "delete")),
		Filter:        key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		ClearFilter:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear filter")),
		CycleSort:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort column")),
		ToggleArchive: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "archive")),
		SwitchFocus:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "board/archive")),
		Restore:       key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "restore")),
		Purge:         key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "purge archive")),
		Refresh:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Grab:          key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "grab/drop")),
		NextTag:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "saved tag")),
		AddTag:        key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("ctrl+a", "add tag")),
		Confirm:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Cancel:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Yes:           key.NewBinding(key.WithKeys("y", "enter"), key.WithHelp("y", "yes")),
		No:            key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "no")),
	}
}
