package ui

import (
	"reposcout/internal/orchestrator"
)

// stateMsg delivers a fresh orchestrator snapshot to the UI.
type stateMsg orchestrator.State

// copiedMsg reports the outcome of a copy-to-clipboard action.
type copiedMsg struct {
	url string
	err error
}

// openedMsg reports the outcome of opening a result in the browser.
type openedMsg struct {
	err error
}
