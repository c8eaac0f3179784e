package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// prompter reads line-oriented answers for the interactive subcommands.
type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewScanner(in), out: out}
}

// ask prints label and returns the trimmed next line. io.EOF means input
// ended before an answer was given.
func (p *prompter) ask(label string) (string, error) {
	fmt.Fprint(p.out, label)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(p.in.Text()), nil
}

// choose asks until the answer is a number in [1, n] or one of the extra
// words; it returns the zero-based index, or -1 and the word.
func (p *prompter) choose(n int, extra ...string) (int, string, error) {
	for {
		line, err := p.ask("> ")
		if err != nil {
			return -1, "", err
		}
		for _, w := range extra {
			if strings.EqualFold(line, w) {
				return -1, w, nil
			}
		}
		if i, err := strconv.Atoi(line); err == nil && i >= 1 && i <= n {
			return i - 1, "", nil
		}
		fmt.Fprintf(p.out, "Enter a number between 1 and %d.\n", n)
	}
}
