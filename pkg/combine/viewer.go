package combine

import "github.com/pkg/browser"

// Opener presents a generated document to the user.
type Opener func(path string) error

// DefaultOpener opens path with the host's default application.
func DefaultOpener(path string) error {
	return browser.OpenFile(path)
}
