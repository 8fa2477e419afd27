// Package domain turns cumulative COVID-19 case counts into week-over-week
// comparisons of new cases.
//
// # Data Source
//
// Counts come from the NYTimes covid-19-data repository, file us-states.csv,
// served raw from GitHub. Each row is one region (state or territory) on one day:
//
//	date,state,fips,cases,deaths
//	2020-03-01,Washington,53,1,0
//
// Rows are sorted by date, with regions interleaved within a day. "cases" is a
// running total. The daily number of new cases is the difference between a
// region's totals on successive rows.
//
// # Rolling Window
//
// [Tracker] keeps, per region, the last cumulative count seen and at most
// [WindowSize] deltas. The first row of a region only seeds the previous count.
// Once a window is full the oldest delta is dropped on every append. Totals
// are occasionally revised downward upstream, so deltas are signed.
//
// # Comparison
//
// [Compare] splits a window into its first and last [WeekLength] entries. The
// sum of each half is divided by seven regardless of how many entries the half
// holds, so short windows understate their averages. The halves overlap when a
// region has fewer than 14 deltas.
//
//	recent > previous:  increase of (recent-previous)/previous * 100
//	recent < previous:  decrease of (previous-recent)/recent * 100
//	recent == previous: unchanged, no percentage
//
// A zero denominator yields a [Change] carrying [ErrDivisionByZero] instead of a
// percentage. Averages and percentages are rounded half to even for display.
package domain
