// Package ranges summarizes the spread of key system statistics in a
// compiled database: mean and standard deviation per statistic, plus the
// systems holding the extreme values.
package ranges

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/perey/naevtools/internal/compiler"
	"github.com/perey/naevtools/internal/dataset"
)

// Stat is the summary of one statistic across every system.
type Stat struct {
	Name   string
	Mean   float64
	StdDev float64
	Min    float64
	MinAt  []string
	Max    float64
	MaxAt  []string
}

type field struct {
	name string
	get  func(*dataset.SSystem) float64
}

// fields lists the summarized statistics in presentation order.
var fields = []field{
	{"Radius", func(s *dataset.SSystem) float64 { return s.Radius }},
	{"Nebula density", func(s *dataset.SSystem) float64 { return s.Nebula.Density }},
	{"Nebula volatility", func(s *dataset.SSystem) float64 { return s.Nebula.Volatility }},
	{"Interference", func(s *dataset.SSystem) float64 { return s.Interference }},
	{"Stars", func(s *dataset.SSystem) float64 { return float64(s.Stars) }},
}

// Collect computes the summary for every statistic.
func Collect(ctx context.Context, reader *compiler.Reader) ([]Stat, error) {
	systems, err := reader.Systems(ctx)
	if err != nil {
		return nil, err
	}
	if len(systems) == 0 {
		return nil, fmt.Errorf("database contains no systems")
	}

	stats := make([]Stat, 0, len(fields))
	for _, f := range fields {
		stat := Stat{Name: f.name, Min: math.Inf(1), Max: math.Inf(-1)}
		values := make([]float64, 0, len(systems))
		for _, sys := range systems {
			v := f.get(sys)
			values = append(values, v)
			switch {
			case v > stat.Max:
				stat.Max, stat.MaxAt = v, []string{sys.Name}
			case v == stat.Max:
				stat.MaxAt = append(stat.MaxAt, sys.Name)
			}
			switch {
			case v < stat.Min:
				stat.Min, stat.MinAt = v, []string{sys.Name}
			case v == stat.Min:
				stat.MinAt = append(stat.MinAt, sys.Name)
			}
		}
		stat.Mean, stat.StdDev = meanStdDev(values)
		stats = append(stats, stat)
	}
	return stats, nil
}

// meanStdDev returns the mean and population standard deviation.
func meanStdDev(values []float64) (float64, float64) {
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var sqDists float64
	for _, v := range values {
		sqDists += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(sqDists / float64(len(values)))
}

// Render writes the summary in the requested format: "table" (default),
// "csv", or "prose".
func Render(w io.Writer, stats []Stat, format string) error {
	switch format {
	case "csv":
		return renderCSV(w, stats)
	case "prose":
		return renderProse(w, stats)
	case "", "table":
		return renderTable(w, stats)
	}
	return fmt.Errorf("unknown output format %q", format)
}

func renderTable(w io.Writer, stats []Stat) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Statistic", "Mean", "Std dev", "Min", "Min in", "Max", "Max in"})
	for _, s := range stats {
		t.AppendRow(table.Row{
			s.Name, num(s.Mean), num(s.StdDev),
			num(s.Min), listStr(s.MinAt),
			num(s.Max), listStr(s.MaxAt),
		})
	}
	t.Render()
	return nil
}

func renderCSV(w io.Writer, stats []Stat) error {
	if _, err := fmt.Fprintln(w, "statistic,mean,std_dev,min,min_in,max,max_in"); err != nil {
		return err
	}
	for _, s := range stats {
		_, err := fmt.Fprintf(w, "%s,%s,%s,%s,%s,%s,%s\n",
			escapeCSV(s.Name), num(s.Mean), num(s.StdDev),
			num(s.Min), escapeCSV(strings.Join(s.MinAt, "; ")),
			num(s.Max), escapeCSV(strings.Join(s.MaxAt, "; ")))
		if err != nil {
			return err
		}
	}
	return nil
}

func renderProse(w io.Writer, stats []Stat) error {
	for i, s := range stats {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w, "%s: μ=%s, σ=%s\n", s.Name, num(s.Mean), num(s.StdDev))
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "The highest value (%s) is found in %s.\n",
			num(s.Max), listStr(s.MaxAt))
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "The lowest value (%s) is found in %s.\n",
			num(s.Min), listStr(s.MinAt))
		if err != nil {
			return err
		}
	}
	return nil
}

// listStr joins names with commas and a final "and".
func listStr(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func escapeCSV(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
