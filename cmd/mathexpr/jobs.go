package main

import (
	"fmt"
	"io"
	"math/big"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/mathexpr"
)

// job is one expression to evaluate, either once or over a sweep.
type job struct {
	Expr  string             `yaml:"expr"`
	Vars  map[string]float64 `yaml:"vars"`
	Sweep *sweep             `yaml:"sweep"`
}

type sweep struct {
	Var   string  `yaml:"var"`
	From  float64 `yaml:"from"`
	To    float64 `yaml:"to"`
	Steps int     `yaml:"steps"`
}

// parseJobs decodes a YAML list of jobs.
func parseJobs(b []byte) ([]job, error) {
	var jobs []job
	if err := yaml.Unmarshal(b, &jobs); err != nil {
		return nil, fmt.Errorf("parse jobs YAML: %w", err)
	}
	for i, j := range jobs {
		if strings.TrimSpace(j.Expr) == "" {
			return nil, fmt.Errorf("job %d has no expr", i)
		}
		if j.Sweep != nil && j.Sweep.Var == "" {
			return nil, fmt.Errorf("job %d: sweep has no var", i)
		}
	}
	return jobs, nil
}

// parseGiven parses a name=value definition. The value is itself an
// expression with no variables.
func parseGiven(s string) (string, float64, error) {
	name, val, ok := strings.Cut(s, "=")
	if !ok {
		return "", 0, fmt.Errorf(`variable definitions must be "name=value", not %q`, s)
	}
	name = strings.TrimSpace(name)
	r, err := mathexpr.EvalString(strings.TrimSpace(val))
	if err != nil {
		return "", 0, fmt.Errorf("setting %s: %w", name, err)
	}
	return name, r, nil
}

// parseSweep parses a name=from:to:n sweep definition.
func parseSweep(s string) (*sweep, error) {
	name, rng, ok := strings.Cut(s, "=")
	if !ok {
		return nil, fmt.Errorf(`sweeps must be "name=from:to:n", not %q`, s)
	}
	f := strings.Split(rng, ":")
	if len(f) != 3 {
		return nil, fmt.Errorf(`sweeps must be "name=from:to:n", not %q`, s)
	}
	from, err := mathexpr.EvalString(strings.TrimSpace(f[0]))
	if err != nil {
		return nil, fmt.Errorf("sweep start: %w", err)
	}
	to, err := mathexpr.EvalString(strings.TrimSpace(f[1]))
	if err != nil {
		return nil, fmt.Errorf("sweep end: %w", err)
	}
	n, err := strconv.Atoi(strings.TrimSpace(f[2]))
	if err != nil || n < 1 {
		return nil, fmt.Errorf("sweep steps must be a positive integer, not %q", f[2])
	}
	return &sweep{Var: strings.TrimSpace(name), From: from, To: to, Steps: n}, nil
}

// runner evaluates jobs and writes results.
type runner struct {
	out  io.Writer
	verb string
	prec uint
	echo bool
	log  zerolog.Logger
}

func (r *runner) run(j job) error {
	// Register only the given names the expression refers to.
	refs, err := mathexpr.VarsIn(j.Expr)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(refs))
	vals := make(map[string]float64, len(refs))
	for _, name := range refs {
		v, ok := j.Vars[name]
		if !ok && (j.Sweep == nil || j.Sweep.Var != name) {
			continue
		}
		names = append(names, name)
		vals[name] = v
	}
	if j.Sweep != nil && !slices.Contains(names, j.Sweep.Var) {
		return &mathexpr.NameError{Name: j.Sweep.Var, Unused: true}
	}
	sort.Strings(names)
	e, err := mathexpr.Compile(j.Expr, mathexpr.Vars(names...), mathexpr.Logger(r.log))
	if err != nil {
		return err
	}
	r.log.Debug().Str("expr", j.Expr).Strs("vars", names).Int("given", len(j.Vars)).Msg("registered variables")
	j.Vars = vals
	if r.echo {
		fmt.Fprintf(r.out, "%v : ", e)
	}
	if r.prec > 0 {
		return r.runBig(e, j)
	}
	ctx, err := mathexpr.NewContext(e, mathexpr.SetVars(j.Vars))
	if err != nil {
		return err
	}
	if j.Sweep == nil {
		v, err := ctx.Eval()
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, r.verb+"\n", v)
		return nil
	}
	s := j.Sweep
	ys, err := ctx.Sweep(s.Var, s.From, s.To, s.Steps)
	if err != nil {
		return err
	}
	if r.echo {
		fmt.Fprintln(r.out)
	}
	for i, y := range ys {
		fmt.Fprintf(r.out, r.verb+"\t"+r.verb+"\n", point(s, i), y)
	}
	r.log.Debug().Str("expr", j.Expr).Str("var", s.Var).Int("steps", len(ys)).Msg("swept")
	return nil
}

func (r *runner) runBig(e *mathexpr.Expr, j job) error {
	names := e.Vars()
	vals := make([]*big.Float, len(names))
	at := -1
	for i, name := range names {
		vals[i] = new(big.Float).SetPrec(r.prec).SetFloat64(j.Vars[name])
		if j.Sweep != nil && name == j.Sweep.Var {
			at = i
		}
	}
	if j.Sweep == nil {
		v, err := e.EvalBig(r.prec, vals...)
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, r.verb+"\n", v)
		return nil
	}
	s := j.Sweep
	if r.echo {
		fmt.Fprintln(r.out)
	}
	for i := 0; i < s.Steps; i++ {
		x := point(s, i)
		vals[at].SetFloat64(x)
		v, err := e.EvalBig(r.prec, vals...)
		if err != nil {
			return fmt.Errorf("%s=%g: %w", s.Var, x, err)
		}
		fmt.Fprintf(r.out, r.verb+"\t"+r.verb+"\n", x, v)
	}
	return nil
}

// point returns the ith value of a sweep, matching Context.Sweep.
func point(s *sweep, i int) float64 {
	if s.Steps <= 1 {
		return s.From
	}
	if i == s.Steps-1 {
		return s.To
	}
	return s.From + float64(i)*((s.To-s.From)/float64(s.Steps-1))
}
