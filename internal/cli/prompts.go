package cli

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"golang.org/x/term"

	coreerr "github.com/karpathy/cryptos-go/pkg/errors"
)

// promptPasswordFn is overridden in tests to avoid touching a real terminal.
//
//nolint:gochecknoglobals // test seam, matches the package's other global-state conventions
var promptPasswordFn = promptHiddenLine

// promptHiddenLine reads one line of hidden input from the terminal.
func promptHiddenLine(prompt string) ([]byte, error) {
	_, _ = fmt.Fprint(os.Stderr, prompt)

	input, err := term.ReadPassword(int(os.Stdin.Fd()))
	_, _ = fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, coreerr.Wrap(err, "reading terminal input")
	}
	return input, nil
}

// promptEntropyLine implements entropy.PromptFunc against the terminal.
// It reuses promptHiddenLine's hidden-input mechanics, but keeps the
// elapsed time as part of the seed instead of discarding it.
func promptEntropyLine(prompt string) (string, time.Duration, error) {
	start := time.Now()

	line, err := promptPasswordFn(prompt)
	if err != nil {
		return "", 0, err
	}

	return string(line), time.Since(start), nil
}

// promptStdinEntropyLine is a fallback entropy prompt for non-terminal
// stdin (piped input, tests), reading a plain newline-terminated line
// instead of using term.ReadPassword, which requires a real tty.
func promptStdinEntropyLine(reader *bufio.Reader, prompt string) (string, time.Duration, error) {
	_, _ = fmt.Fprint(os.Stderr, prompt)
	start := time.Now()

	line, err := reader.ReadString('\n')
	if err != nil {
		return "", 0, coreerr.Wrap(err, "reading entropy input")
	}

	return line, time.Since(start), nil
}
