package cli

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Navigation messages used by views to request view transitions.
// The appModel handles these in its Update method.

// pushViewMsg pushes a new view onto the navigation stack.
type pushViewMsg struct {
	view View
}

// popViewMsg pops the current view off the navigation stack.
type popViewMsg struct{}

// wizardCompleteMsg is sent when a wizard form completes or is cancelled.
// The appModel pops the wizard, then runs nextCmd.
type wizardCompleteMsg struct {
	nextCmd tea.Cmd
}

type quitMsg struct{}

type notifyLevel int

const (
	notifyInfo notifyLevel = iota
	notifySuccess
	notifyError
)

// notifyMsg raises a transient notification in the status area.
type notifyMsg struct {
	level notifyLevel
	text  string
}

// clearNotifyMsg expires the notification with the same sequence number.
type clearNotifyMsg struct {
	seq int
}

const notifyTTL = 4 * time.Second

func pushView(v View) tea.Cmd {
	return func() tea.Msg { return pushViewMsg{view: v} }
}

func popView() tea.Cmd {
	return func() tea.Msg { return popViewMsg{} }
}

func notify(level notifyLevel, text string) tea.Cmd {
	return func() tea.Msg { return notifyMsg{level: level, text: text} }
}

func notifyErr(err error) tea.Cmd {
	return notify(notifyError, err.Error())
}
