//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package transpiler

import (
	"fmt"
	"io"
	"time"

	"github.com/markkurossi/qcc/dag"
	"github.com/markkurossi/tabulate"
)

// Sample records one pass invocation.
type Sample struct {
	Pass      string
	Iteration int
	Mutated   bool
	Elapsed   time.Duration
	Ops       int
	TwoQubit  int
	Depth     int
}

// Stats records per-pass statistics of a compile invocation.
type Stats struct {
	Start   time.Time
	Samples []*Sample
}

// NewStats creates a new Stats instance.
func NewStats() *Stats {
	return &Stats{
		Start: time.Now(),
	}
}

// Sample adds a pass sample with the circuit's post-pass measures.
func (s *Stats) Sample(pass string, iteration int, mutated bool,
	elapsed time.Duration, c *dag.Circuit) *Sample {

	sample := &Sample{
		Pass:      pass,
		Iteration: iteration,
		Mutated:   mutated,
		Elapsed:   elapsed,
		Ops:       c.NumOps(),
		TwoQubit:  c.NumTwoQubit(),
		Depth:     c.Depth(),
	}
	s.Samples = append(s.Samples, sample)
	return sample
}

// Print prints the pass report to the writer.
func (s *Stats) Print(w io.Writer) {
	if len(s.Samples) == 0 {
		return
	}
	total := time.Since(s.Start)

	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("Iter").SetAlign(tabulate.MR)
	tab.Header("Pass").SetAlign(tabulate.ML)
	tab.Header("Mutated").SetAlign(tabulate.ML)
	tab.Header("Ops").SetAlign(tabulate.MR)
	tab.Header("2Q").SetAlign(tabulate.MR)
	tab.Header("Depth").SetAlign(tabulate.MR)
	tab.Header("Time").SetAlign(tabulate.MR)

	for _, sample := range s.Samples {
		row := tab.Row()
		row.Column(fmt.Sprintf("%d", sample.Iteration))
		row.Column(sample.Pass)
		row.Column(fmt.Sprintf("%v", sample.Mutated))
		row.Column(fmt.Sprintf("%d", sample.Ops))
		row.Column(fmt.Sprintf("%d", sample.TwoQubit))
		row.Column(fmt.Sprintf("%d", sample.Depth))
		row.Column(sample.Elapsed.String())
	}
	row := tab.Row()
	row.Column("")
	row.Column("Total").SetFormat(tabulate.FmtBold)
	row.Column("")
	row.Column("")
	row.Column("")
	row.Column("")
	row.Column(total.String()).SetFormat(tabulate.FmtBold)

	tab.Print(w)
}
