// Package prompt implements the interactive questions the install wizard
// asks. Input and output are injectable so wizard flows can be exercised in
// tests with a canned script instead of a terminal.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Prompter reads answers line by line from In and writes questions to Out.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// New returns a Prompter over the given reader and writer.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Terminal returns a Prompter attached to stdin/stdout.
func Terminal() *Prompter {
	return New(os.Stdin, os.Stdout)
}

// Ask prints the label and returns the operator's trimmed answer.
// EOF (operator hit Ctrl-D, or a test script ran out) is returned as-is so
// callers can abort cleanly instead of looping forever.
func (p *Prompter) Ask(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// AskDefault is Ask with a default used when the operator just hits enter.
func (p *Prompter) AskDefault(label, def string) (string, error) {
	answer, err := p.Ask(fmt.Sprintf("%s [%s]", label, def))
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// Confirm asks a yes/no question, defaulting to no. Only an explicit
// "y"/"yes" (any case) counts as agreement.
func (p *Prompter) Confirm(label string) (bool, error) {
	answer, err := p.Ask(label + " [y/N]")
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}

// Select prints a numbered menu and keeps asking until the operator picks a
// valid entry. An empty answer selects the first option.
func (p *Prompter) Select(label string, options []string) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("no options to select from for %q", label)
	}

	fmt.Fprintf(p.out, "%s:\n", label)
	for i, opt := range options {
		fmt.Fprintf(p.out, "  [%d] %s\n", i+1, opt)
	}

	for {
		answer, err := p.Ask(fmt.Sprintf("Select [1-%d]", len(options)))
		if err != nil {
			return "", err
		}
		if answer == "" {
			return options[0], nil
		}
		idx, err := strconv.Atoi(answer)
		if err != nil || idx < 1 || idx > len(options) {
			fmt.Fprintf(p.out, "Invalid choice %q, try again.\n", answer)
			continue
		}
		return options[idx-1], nil
	}
}
