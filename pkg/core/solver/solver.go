package solver

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/constraints"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/model"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/objective"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/timeindex"
)

// Budget bounds a search. Zero values mean unbounded.
type Budget struct {
	MaxNodes  int64
	TimeLimit time.Duration
}

// Unbounded reports whether neither limit is set
func (b Budget) Unbounded() bool {
	return b.MaxNodes <= 0 && b.TimeLimit <= 0
}

// Improvement describes a new best complete candidate
type Improvement struct {
	Cost          float64
	TotalShortage int
	Nodes         int64
	Elapsed       time.Duration
}

// Options configures a Solver
type Options struct {
	Budget Budget

	// Constraints are added to the rules derived from the config
	Constraints []constraints.Constraint

	// Terms replace the default labor and shortage terms when non-empty
	Terms []objective.Term

	// OnImprovement is called synchronously each time the incumbent improves
	OnImprovement func(Improvement)

	// Clock defaults to time.Now
	Clock func() time.Time
}

// Solver runs a depth-first branch-and-bound search over one validated config.
// A Solver holds no search state, so Solve may be called repeatedly or concurrently.
type Solver struct {
	cfg       *model.SchedulingConfig
	index     *timeindex.Index
	rules     []constraints.Constraint
	eval      *objective.Evaluator
	bound     *objective.Bound
	order     []*model.Shift
	employees []*model.Employee
	opts      Options
}

// New normalizes and validates a copy of cfg and prepares the slot model, rules,
// objective and lower bound. Malformed input is rejected here with a
// *model.ValidationError, never mid-search.
func New(cfg *model.SchedulingConfig, opts Options) (*Solver, error) {
	own := cfg.Clone()
	own.Normalize()
	if err := own.Validate(); err != nil {
		return nil, err
	}

	idx, err := timeindex.Build(own.Shifts, own.SlotMinutes)
	if err != nil {
		return nil, err
	}

	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	terms := opts.Terms
	if len(terms) == 0 {
		terms = objective.DefaultTerms(own)
	}

	s := &Solver{
		cfg:   own,
		index: idx,
		rules: append(constraints.ForConfig(own), opts.Constraints...),
		eval:  objective.NewEvaluator(idx, terms...),
		opts:  opts,
	}

	byID := make(map[string]*model.Shift, len(own.Shifts))
	for i := range own.Shifts {
		byID[own.Shifts[i].ID] = &own.Shifts[i]
	}
	for _, id := range idx.Ordered() {
		s.order = append(s.order, byID[id])
	}

	s.employees = make([]*model.Employee, len(own.Employees))
	for i := range own.Employees {
		s.employees[i] = &own.Employees[i]
	}
	sort.Slice(s.employees, func(i, j int) bool {
		a, b := s.employees[i], s.employees[j]
		if a.CostPerHour != b.CostPerHour {
			return a.CostPerHour < b.CostPerHour
		}
		return a.ID < b.ID
	})

	s.bound = objective.NewBound(s.eval, s.order, s.employees)
	return s, nil
}

// Config returns the normalized config the solver works on
func (s *Solver) Config() *model.SchedulingConfig {
	return s.cfg
}

// Index returns the slot model built for the config
func (s *Solver) Index() *timeindex.Index {
	return s.index
}

// Rules returns the constraints enforced by the solver
func (s *Solver) Rules() []constraints.Constraint {
	return s.rules
}

// Solve runs the search. Budget exhaustion and context cancellation end the search
// early with status TIMEOUT (or INFEASIBLE when nothing complete was found); they
// are never returned as errors. An error is returned only if the final roster fails
// verification, which indicates a bug.
func (s *Solver) Solve(ctx context.Context) (*model.SolveResult, error) {
	started := s.opts.Clock()

	if len(s.employees) == 0 && s.cfg.TotalDemand() > 0 {
		return s.result(model.StatusInfeasible, model.Assignment{}, 0, started)
	}

	run := newSearch(ctx, s, started)
	exhausted := run.run()

	var status model.Status
	switch {
	case !run.best.found:
		status = model.StatusInfeasible
	case exhausted:
		status = model.StatusTimeout
	case run.best.shortage == 0:
		status = model.StatusOptimal
	default:
		status = model.StatusFeasible
	}

	assignment := model.Assignment{}
	if run.best.found {
		assignment = run.best.assignment
	}
	return s.result(status, assignment, run.nodes, started)
}

func (s *Solver) result(status model.Status, assignment model.Assignment, nodes int64, started time.Time) (*model.SolveResult, error) {
	if err := constraints.Verify(s.rules, assignment, s.cfg, s.index); err != nil {
		return nil, fmt.Errorf("solver produced an invalid roster: %w", err)
	}

	shortage := model.ShortageFor(s.cfg.Shifts, assignment)
	labor := objective.LaborCost(s.cfg, s.index, assignment)
	penalty := objective.ShortagePenalty(s.cfg, shortage)

	value := labor + penalty
	if len(s.opts.Terms) > 0 {
		value = s.eval.Total(s.cfg, assignment)
	}

	return &model.SolveResult{
		Status:          status,
		Assignment:      assignment,
		Shortage:        shortage,
		ObjectiveValue:  value,
		LaborCost:       labor,
		ShortagePenalty: penalty,
		NodesExplored:   nodes,
		Elapsed:         s.opts.Clock().Sub(started),
	}, nil
}

// Solve validates cfg, builds a Solver and runs it once
func Solve(ctx context.Context, cfg *model.SchedulingConfig, opts Options) (*model.SolveResult, error) {
	s, err := New(cfg, opts)
	if err != nil {
		return nil, err
	}
	return s.Solve(ctx)
}
