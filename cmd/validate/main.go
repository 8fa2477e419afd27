// Command validate checks a cumulative case CSV against the assumptions the
// delta tracker makes about its input: each region's rows are in date order,
// cumulative counts never fall, and every region has enough history for a
// full two-week comparison.
//
// Usage:
//
//	go run ./cmd/validate -csv data/mock/us-states.csv
//	go run ./cmd/validate -csv data/us-counties.csv -region-field county
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/couchcryptid/covid-averages/internal/adapter/nytimes"
	"github.com/couchcryptid/covid-averages/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	csvPath := flag.String("csv", "", "path to the dataset CSV")
	regionField := flag.String("region-field", "state", "header of the region column")
	countField := flag.String("count-field", "cases", "header of the cumulative count column")
	flag.Parse()

	if *csvPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	f, err := os.Open(*csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: open dataset: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	os.Exit(run(f, *regionField, *countField, os.Stdout))
}

func run(r io.Reader, regionField, countField string, out io.Writer) int {
	fmt.Fprintln(out, "=== Dataset Validation ===")

	byRegion := map[string][]domain.Row{}
	var order []string
	n, err := nytimes.Decode(r, regionField, countField, func(row domain.Row) {
		if _, ok := byRegion[row.Region]; !ok {
			order = append(order, row.Region)
		}
		byRegion[row.Region] = append(byRegion[row.Region], row)
	})
	if err != nil {
		fmt.Fprintf(out, "FATAL: %v\n", err)
		return 1
	}
	sort.Strings(order)

	phases := []*phase{
		validateOrdering(byRegion, order),
		validateMonotonic(byRegion, order),
		validateCoverage(byRegion, order),
	}

	fmt.Fprintln(out)
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintf(out, "\nRecords: %d rows, %d regions\n", n, len(order))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(out, "\nValidation FAILED.")
	return 1
}

// ── Phase 1: Ordering ──
// Dates must strictly increase within a region. ISO dates compare as strings.

func validateOrdering(byRegion map[string][]domain.Row, order []string) *phase {
	p := &phase{name: "Phase 1: Chronological order"}
	for _, region := range order {
		rows := byRegion[region]
		for i := 1; i < len(rows); i++ {
			prev, cur := rows[i-1].Date, rows[i].Date
			if cur == "" || prev == "" {
				continue
			}
			if cur <= prev {
				p.errorf("%s: %s follows %s", region, cur, prev)
			}
		}
	}
	return p
}

// ── Phase 2: Monotonic counts ──
// A falling cumulative count produces a negative delta downstream.

func validateMonotonic(byRegion map[string][]domain.Row, order []string) *phase {
	p := &phase{name: "Phase 2: Non-decreasing cumulative counts"}
	for _, region := range order {
		rows := byRegion[region]
		for i := 1; i < len(rows); i++ {
			if rows[i].Cumulative < rows[i-1].Cumulative {
				p.errorf("%s %s: count fell from %d to %d",
					region, rows[i].Date, rows[i-1].Cumulative, rows[i].Cumulative)
			}
		}
	}
	return p
}

// ── Phase 3: Coverage ──
// A full comparison needs WindowSize deltas, i.e. WindowSize+1 rows.

func validateCoverage(byRegion map[string][]domain.Row, order []string) *phase {
	p := &phase{name: "Phase 3: Two-week coverage"}
	for _, region := range order {
		if rows := len(byRegion[region]); rows < domain.WindowSize+1 {
			p.errorf("%s: %d rows, need %d for a full comparison", region, rows, domain.WindowSize+1)
		}
	}
	return p
}
