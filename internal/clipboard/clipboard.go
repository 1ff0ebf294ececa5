// Package clipboard copies secrets to the system clipboard with an
// optional auto-clear so passwords do not linger after use.
package clipboard

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"
)

// Copy places text on the system clipboard.
func Copy(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("cannot write to clipboard: %w", err)
	}
	return nil
}

// Clear empties the clipboard.
func Clear() error {
	return clipboard.WriteAll("")
}

// CopyWithAutoClear copies text and, after delay, clears the clipboard
// again if it still holds the copied value. It blocks until done; callers
// wanting the command to return immediately pass delay 0 to skip clearing.
func CopyWithAutoClear(text string, delay time.Duration) error {
	if err := Copy(text); err != nil {
		return err
	}
	if delay <= 0 {
		return nil
	}
	time.Sleep(delay)

	// Only clear if the user has not copied something else meanwhile.
	current, err := clipboard.ReadAll()
	if err == nil && current == text {
		return Clear()
	}
	return nil
}
