// Command genmock writes a synthetic dataset shaped like the NYTimes
// us-states.csv file, for test fixtures or for local runs with SOURCE_URL
// pointed at a static file server. Each region's daily increase follows a
// noisy linear trend so increases, decreases, and flat weeks all show up. It
// then prints the comparisons the real domain package derives from the
// generated data.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -out data/mock/us-states.csv \
//	  -regions Texas,Ohio,Utah \
//	  -days 30 -seed 7
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/covid-averages/internal/domain"
)

var startDate = time.Date(2021, time.March, 1, 0, 0, 0, 0, time.UTC)

// regionDef is the generator's parameters for one region.
type regionDef struct {
	name  string
	fips  int
	base  int64 // first cumulative count
	daily int64 // initial daily increase
	slope int64 // change in daily increase per day
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the generated CSV")
	regions := flag.String("regions", "Texas,Ohio,Utah,Guam", "comma-separated region names")
	days := flag.Int("days", 30, "number of days per region")
	seed := flag.Uint64("seed", 1, "random seed for reproducible output")
	flag.Parse()

	if *out == "" || *days < 1 {
		flag.Usage()
		return fmt.Errorf("missing required flag -out or invalid -days")
	}

	rng := rand.New(rand.NewPCG(*seed, *seed))
	defs := makeDefs(strings.Split(*regions, ","), rng)

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return err
	}
	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	tracker := domain.NewTracker()
	n, err := generate(f, defs, *days, rng, func(r domain.Row) { tracker.Update(r.Region, r.Cumulative) })
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	log.Printf("wrote %d rows for %d regions: %s", n, len(defs), *out)

	printComparisons(tracker)
	return nil
}

func makeDefs(names []string, rng *rand.Rand) []regionDef {
	defs := make([]regionDef, 0, len(names))
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		defs = append(defs, regionDef{
			name:  name,
			fips:  i + 1,
			base:  int64(rng.IntN(50_000)),
			daily: int64(50 + rng.IntN(500)),
			slope: int64(rng.IntN(41) - 20),
		})
	}
	return defs
}

// generate writes days rows per region, interleaved by date, and passes each
// row to visit. It returns the number of data rows written.
func generate(w io.Writer, defs []regionDef, days int, rng *rand.Rand, visit func(domain.Row)) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "state", "fips", "cases", "deaths"}); err != nil {
		return 0, err
	}

	totals := make([]int64, len(defs))
	for i, d := range defs {
		totals[i] = d.base
	}

	n := 0
	for day := 0; day < days; day++ {
		date := startDate.AddDate(0, 0, day).Format("2006-01-02")
		for i, d := range defs {
			if day > 0 {
				totals[i] += dailyIncrease(d, day, rng)
			}
			row := domain.Row{Date: date, Region: d.name, Cumulative: totals[i]}
			rec := []string{
				date,
				d.name,
				fmt.Sprintf("%02d", d.fips),
				strconv.FormatInt(row.Cumulative, 10),
				strconv.FormatInt(row.Cumulative/60, 10),
			}
			if err := cw.Write(rec); err != nil {
				return n, err
			}
			visit(row)
			n++
		}
	}

	cw.Flush()
	return n, cw.Error()
}

// dailyIncrease is the trend value plus up to ±10% noise, never negative.
func dailyIncrease(d regionDef, day int, rng *rand.Rand) int64 {
	trend := d.daily + d.slope*int64(day)
	if trend < 0 {
		trend = 0
	}
	noise := int64(0)
	if spread := trend / 10; spread > 0 {
		noise = rng.Int64N(2*spread+1) - spread
	}
	return max(trend+noise, 0)
}

func printComparisons(tracker *domain.Tracker) {
	fmt.Println("\n=== Comparisons for updating test assertions ===")
	for _, region := range tracker.Regions() {
		window, _ := tracker.Window(region)
		fmt.Printf("  %-16s %v\n", region, window)
		fmt.Printf("  %-16s %s\n", "", domain.Compare(region, window))
	}
}
