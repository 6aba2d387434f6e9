package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

func main() {
	var (
		inname, config, verb string
		given                = map[string]float64{}
		sw                   *sweep
		echo                 bool
		prec                 int
	)
	flag.StringVar(&inname, "in", "", "input file, one expression per line (default stdin if no args given)")
	flag.StringVar(&config, "config", "", "YAML file listing jobs to evaluate")
	flag.StringVar(&verb, "fmt", "%g", "result formatting string")
	flag.Func("given", "name=value variable definition (any number of times)", func(s string) error {
		name, v, err := parseGiven(s)
		if err != nil {
			return err
		}
		given[name] = v
		return nil
	})
	flag.Func("sweep", "name=from:to:n to evaluate over n evenly spaced values", func(s string) error {
		var err error
		sw, err = parseSweep(s)
		return err
	})
	flag.IntVar(&prec, "prec", 0, "evaluate with this many bits of precision instead of float64")
	flag.BoolVar(&echo, "echo", false, "print compiled programs")
	logLevel := flag.String("log-level", "warn", "log level (debug, info, warn, error)")
	flag.Parse()

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		level = zerolog.WarnLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger().
		Level(level)
	if prec < 0 {
		logger.Fatal().Int("prec", prec).Msg("precision must be positive")
	}

	var jobs []job
	if config != "" {
		b, err := os.ReadFile(config)
		if err != nil {
			logger.Fatal().Err(err).Msg("reading jobs")
		}
		jobs, err = parseJobs(b)
		if err != nil {
			logger.Fatal().Err(err).Str("config", config).Msg("loading jobs")
		}
	}
	var srcs []string
	in, err := infile(inname, flag.NArg() == 0 && config == "")
	if err != nil {
		logger.Fatal().Err(err).Msg("opening input")
	}
	if in != nil {
		srcs, err = lines(in)
		if err != nil {
			logger.Fatal().Err(err).Msg("reading input")
		}
	}
	srcs = append(srcs, flag.Args()...)
	for _, src := range srcs {
		jobs = append(jobs, job{Expr: src, Vars: given, Sweep: sw})
	}

	r := &runner{out: os.Stdout, verb: verb, prec: uint(prec), echo: echo, log: logger}
	failed := 0
	for _, j := range jobs {
		if err := r.run(j); err != nil {
			fmt.Println(err)
			logger.Debug().Err(err).Str("expr", j.Expr).Msg("evaluation failed")
			failed++
		}
	}
	logger.Info().Int("jobs", len(jobs)).Int("failed", failed).Msg("done")
	if failed > 0 {
		os.Exit(1)
	}
}

func infile(inname string, std bool) (io.Reader, error) {
	switch {
	case inname != "" && inname != "-":
		return os.Open(inname)
	case inname == "-", std:
		return os.Stdin, nil
	}
	return nil, nil
}

// lines reads non-blank lines as separate expressions.
func lines(r io.Reader) ([]string, error) {
	var srcs []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if s := strings.TrimSpace(sc.Text()); s != "" {
			srcs = append(srcs, s)
		}
	}
	return srcs, sc.Err()
}
