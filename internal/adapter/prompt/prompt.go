package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/couchcryptid/covid-averages/internal/domain"
)

// Prompt collects region names interactively.
// It implements pipeline.Selector.
type Prompt struct {
	in  *bufio.Scanner
	out io.Writer
}

// New creates a Prompt reading answers from in and writing prompts to out.
func New(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{in: bufio.NewScanner(in), out: out}
}

// Select asks for region names until an empty line or end of input. Names
// unknown to regions are reported and skipped; duplicates are kept.
func (p *Prompt) Select(regions domain.RegionSet) ([]string, error) {
	var selected []string

	fmt.Fprintln(p.out, "Choose one or more states to view average COVID cases.")
	fmt.Fprint(p.out, "Press enter when done.\n\n")

	for {
		fmt.Fprint(p.out, "State: ")
		if !p.in.Scan() {
			if err := p.in.Err(); err != nil {
				return selected, fmt.Errorf("read selection: %w", err)
			}
			// EOF without a terminating blank line.
			fmt.Fprintln(p.out)
			break
		}

		name := strings.TrimSuffix(p.in.Text(), "\r")
		if name == "" {
			break
		}
		if !regions.Known(name) {
			fmt.Fprintf(p.out, "Invalid state: %s. Please enter a valid state name\n", name)
			continue
		}
		selected = append(selected, name)
	}

	if len(selected) > 0 {
		fmt.Fprint(p.out, "\nSeven-Day Averages\n")
	} else {
		fmt.Fprintln(p.out, "No state selected")
	}
	return selected, nil
}
