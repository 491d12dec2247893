package infra

import (
	"errors"

	"github.com/ncruces/zenity"
)

// dialogCall records one dialog invocation.
type dialogCall struct {
	text    string
	options []zenity.Option
}

// mockDialog is a test double for DialogFunc
type mockDialog struct {
	calls []dialogCall
	err   error
}

func (m *mockDialog) show(text string, options ...zenity.Option) error {
	m.calls = append(m.calls, dialogCall{text: text, options: options})
	return m.err
}

var errDialogFailed = errors.New("dialog failed")
