package console

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// maxAttempts bounds re-prompting on invalid input. The loop is explicit:
// menus never recurse into themselves.
const maxAttempts = 3

var (
	errTooManyAttempts = errors.New("too many invalid attempts")
	errCancelled       = errors.New("cancelled")
)

// readLine returns the next trimmed input line, or io.EOF when input ends.
func (ui *UI) readLine() (string, error) {
	if !ui.in.Scan() {
		if err := ui.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(ui.in.Text()), nil
}

func (ui *UI) promptLine(label string) (string, error) {
	fmt.Fprint(ui.out, label)
	return ui.readLine()
}

// promptChoice reads a number in [min, max], giving up after maxAttempts
// invalid entries.
func (ui *UI) promptChoice(label string, min, max int) (int, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		line, err := ui.promptLine(label)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err == nil && n >= min && n <= max {
			return n, nil
		}
		fmt.Fprintf(ui.out, "Invalid choice, enter a number between %d and %d.\n", min, max)
	}
	return 0, errTooManyAttempts
}

// promptID reads a positive user id; 0 cancels.
func (ui *UI) promptID(label string) (int64, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		line, err := ui.promptLine(label)
		if err != nil {
			return 0, err
		}
		id, err := strconv.ParseInt(line, 10, 64)
		if err == nil && id >= 0 {
			if id == 0 {
				return 0, errCancelled
			}
			return id, nil
		}
		fmt.Fprintln(ui.out, "Invalid id, enter a positive number (0 to cancel).")
	}
	return 0, errTooManyAttempts
}

func (ui *UI) confirm(label string) (bool, error) {
	line, err := ui.promptLine(label + " (y/n): ")
	if err != nil {
		return false, err
	}
	line = strings.ToLower(line)
	return line == "y" || line == "yes", nil
}
