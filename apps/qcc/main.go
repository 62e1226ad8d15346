//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Command qcc optimizes OpenQASM 2.0 circuits: it translates them to
// a target gate basis, runs the rewrite pipeline, and optionally
// routes them onto a hardware coupling map.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/markkurossi/qcc/gate"
	"github.com/markkurossi/qcc/qasm"
	"github.com/markkurossi/qcc/transpiler"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configFile string
	outputFile string
	basisNames string
	coupling   string
	maxIter    int
	tolerance  float64
	verbose    bool
	showStats  bool
)

// Config is the TOML configuration file format.
type Config struct {
	Basis         []string `toml:"basis"`
	Coupling      [][2]int `toml:"coupling"`
	MaxIterations int      `toml:"max_iterations"`
	Tolerance     float64  `toml:"tolerance"`
}

var rootCmd = &cobra.Command{
	Use:   "qcc [flags] input.qasm",
	Short: "Quantum circuit optimizer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return compile(args[0])
	},
	SilenceUsage: true,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&configFile, "config", "c", "", "TOML configuration file")
	flags.StringVarP(&outputFile, "output", "o", "", "output file (default stdout)")
	flags.StringVar(&basisNames, "basis", "", "target basis as comma-separated gate names")
	flags.StringVar(&coupling, "coupling", "", "coupling map: 'linear' or edge list '0-1,1-2'")
	flags.IntVar(&maxIter, "max-iterations", 0, "iteration cap for the pass loop")
	flags.Float64Var(&tolerance, "tolerance", 0, "numerical tolerance")
	flags.BoolVarP(&verbose, "verbose", "v", false, "verbose diagnostics")
	flags.BoolVar(&showStats, "stats", false, "print per-pass statistics")
}

func compile(input string) error {
	params := transpiler.NewParams()

	if len(configFile) > 0 {
		var config Config
		if _, err := toml.DecodeFile(configFile, &config); err != nil {
			return err
		}
		if err := applyConfig(params, &config); err != nil {
			return err
		}
	}
	if err := applyFlags(params); err != nil {
		return err
	}
	if verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer logger.Sync()
		params.Verbose = true
		params.Diagnostics = logger
	}

	f, err := os.Open(input)
	if err != nil {
		return err
	}
	defer f.Close()
	prog, err := qasm.Parse(f)
	if err != nil {
		return err
	}

	if coupling == "linear" {
		params.Coupling = transpiler.LinearCouplingMap(
			prog.Circuit.NumQubits())
	}
	if params.Coupling != nil &&
		params.Coupling.NumQubits() != prog.Circuit.NumQubits() {
		return fmt.Errorf("coupling map has %d qubits, circuit has %d",
			params.Coupling.NumQubits(), prog.Circuit.NumQubits())
	}

	pm, err := transpiler.NewDefaultPassManager(params)
	if err != nil {
		return err
	}
	result, err := pm.Compile(prog.Circuit)
	if err != nil {
		return err
	}
	for _, warn := range result.Warnings {
		fmt.Fprintf(os.Stderr, "qcc: warning: %s\n", warn)
	}

	out := os.Stdout
	if len(outputFile) > 0 {
		out, err = os.Create(outputFile)
		if err != nil {
			return err
		}
		defer out.Close()
	}
	if err := qasm.Write(out, result.Circuit); err != nil {
		return err
	}
	if !isIdentity(result.Permutation) {
		fmt.Fprintf(out, "// layout:")
		for l, p := range result.Permutation {
			fmt.Fprintf(out, " %d->%d", l, p)
		}
		fmt.Fprintln(out)
	}
	if showStats {
		result.Stats.Print(os.Stderr)
	}
	return nil
}

func applyConfig(params *transpiler.Params, config *Config) error {
	if len(config.Basis) > 0 {
		basis, err := parseBasis(strings.Join(config.Basis, ","))
		if err != nil {
			return err
		}
		params.Basis = basis
	}
	if len(config.Coupling) > 0 {
		max := 0
		for _, e := range config.Coupling {
			if e[0] > max {
				max = e[0]
			}
			if e[1] > max {
				max = e[1]
			}
		}
		cm, err := transpiler.NewCouplingMap(max+1, config.Coupling)
		if err != nil {
			return err
		}
		params.Coupling = cm
	}
	if config.MaxIterations > 0 {
		params.MaxIterations = config.MaxIterations
	}
	if config.Tolerance > 0 {
		params.Tolerance = config.Tolerance
	}
	return nil
}

func applyFlags(params *transpiler.Params) error {
	if len(basisNames) > 0 {
		basis, err := parseBasis(basisNames)
		if err != nil {
			return err
		}
		params.Basis = basis
	}
	if len(coupling) > 0 && coupling != "linear" {
		cm, err := parseCoupling(coupling)
		if err != nil {
			return err
		}
		params.Coupling = cm
	}
	if maxIter > 0 {
		params.MaxIterations = maxIter
	}
	if tolerance > 0 {
		params.Tolerance = tolerance
	}
	return nil
}

func parseBasis(names string) (gate.Basis, error) {
	basis := make(gate.Basis)
	for _, name := range strings.Split(names, ",") {
		name = strings.TrimSpace(name)
		kind, ok := gate.KindByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown gate %q", name)
		}
		basis[kind] = true
	}
	return basis, nil
}

// parseCoupling parses an explicit edge list like '0-1,1-2,2-3'. The
// 'linear' shorthand is resolved later when the circuit size is
// known.
func parseCoupling(s string) (*transpiler.CouplingMap, error) {
	var edges [][2]int
	max := 0
	for _, part := range strings.Split(s, ",") {
		var a, b int
		if _, err := fmt.Sscanf(strings.TrimSpace(part), "%d-%d",
			&a, &b); err != nil {
			return nil, fmt.Errorf("bad coupling edge %q", part)
		}
		edges = append(edges, [2]int{a, b})
		if a > max {
			max = a
		}
		if b > max {
			max = b
		}
	}
	return transpiler.NewCouplingMap(max+1, edges)
}

func isIdentity(perm []int) bool {
	for i, p := range perm {
		if p != i {
			return false
		}
	}
	return true
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
