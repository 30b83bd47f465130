package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"EclipseCast/internal/chainstore"
	"EclipseCast/internal/domain"
	"EclipseCast/internal/ports"
	"EclipseCast/internal/propagation"
	"EclipseCast/internal/randsrc"
	"EclipseCast/internal/results"
	"EclipseCast/internal/stats"
)

// DefaultCheckpointEvery is the number of newly recorded systems between checkpoints.
const DefaultCheckpointEvery = 50

// DriverDeps wires the batch driver's collaborators.
type DriverDeps struct {
	Sampler         ports.PosteriorSampler
	Computer        *propagation.Computer
	Results         *results.Table
	Chains          *chainstore.Store
	Seeds           *randsrc.Factory
	Logger          *slog.Logger
	CheckpointEvery int
	Now             func() time.Time
}

// Driver runs the per-system pipeline over a catalog and checkpoints both stores.
type Driver struct {
	sampler         ports.PosteriorSampler
	computer        *propagation.Computer
	results         *results.Table
	chains          *chainstore.Store
	seeds           *randsrc.Factory
	logger          *slog.Logger
	checkpointEvery int
	now             func() time.Time
}

// SystemOutcome is the terminal state reached by one catalog entry.
type SystemOutcome struct {
	Name   string
	Status domain.SystemStatus
	Err    error
}

// RunReport summarizes one batch execution.
type RunReport struct {
	RunID           string
	NewSystems      int
	Skipped         int
	Failed          int
	Checkpoints     int
	Elapsed         time.Duration
	MeanPerSystem   time.Duration
	ResultCount     int
	ChainCount      int
	AlreadyComplete bool
	Outcomes        []SystemOutcome
}

// NewDriver constructs the orchestration component.
func NewDriver(deps DriverDeps) *Driver {
	every := deps.CheckpointEvery
	if every <= 0 {
		every = DefaultCheckpointEvery
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	computer := deps.Computer
	if computer == nil {
		computer = propagation.NewComputer(nil)
	}
	seeds := deps.Seeds
	if seeds == nil {
		seeds = randsrc.NewFactory(0)
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Driver{
		sampler:         deps.Sampler,
		computer:        computer,
		results:         deps.Results,
		chains:          deps.Chains,
		seeds:           seeds,
		logger:          logger,
		checkpointEvery: every,
		now:             now,
	}
}

// Run loads both stores, processes systems in order and flushes at the
// checkpoint cadence and once at the end. When nothing new was recorded the
// stores are left untouched.
func (d *Driver) Run(ctx context.Context, systems []domain.SystemProfile) (RunReport, error) {
	report := RunReport{RunID: uuid.NewString()}
	log := d.logger.With("run_id", report.RunID)

	if d.sampler == nil || d.results == nil || d.chains == nil {
		return report, fmt.Errorf("driver is missing sampler, results or chains")
	}

	if err := d.results.Load(ctx); err != nil {
		return report, err
	}
	if err := d.chains.Load(ctx); err != nil {
		return report, err
	}
	log.Info("batch started",
		"systems", len(systems),
		"results_loaded", d.results.Len(),
		"chains_loaded", d.chains.Len(),
		"sampler", d.sampler.Name())

	start := d.now()
	var runErr error

	for _, system := range systems {
		if err := ctx.Err(); err != nil {
			log.Warn("batch interrupted", "error", err)
			runErr = err
			break
		}

		outcome, err := d.process(ctx, system)
		report.Outcomes = append(report.Outcomes, outcome)
		if err != nil {
			runErr = err
			break
		}

		switch outcome.Status {
		case domain.StatusSkipped:
			report.Skipped++
		case domain.StatusFailed:
			report.Failed++
			log.Error("system failed", "system", system.Name, "error", outcome.Err)
		case domain.StatusRecorded:
			report.NewSystems++
			log.Info("system recorded", "system", system.Name, "new_systems", report.NewSystems)
			if report.NewSystems%d.checkpointEvery == 0 {
				if err := d.flush(ctx); err != nil {
					return d.finish(report, start), fmt.Errorf("checkpoint: %w", err)
				}
				report.Checkpoints++
				log.Info("checkpoint saved", "results", d.results.Len(), "chains", d.chains.Len())
			}
		}
	}

	if report.NewSystems == 0 {
		report = d.finish(report, start)
		report.AlreadyComplete = runErr == nil
		if report.AlreadyComplete {
			log.Info("all systems already processed", "results", report.ResultCount, "chains", report.ChainCount)
		}
		return report, runErr
	}

	// The final flush must land even when ctx was what stopped the loop.
	if err := d.flush(context.WithoutCancel(ctx)); err != nil {
		return d.finish(report, start), errors.Join(runErr, fmt.Errorf("final flush: %w", err))
	}

	report = d.finish(report, start)
	log.Info("batch complete",
		"new_systems", report.NewSystems,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"elapsed", report.Elapsed.Round(time.Millisecond),
		"per_system", report.MeanPerSystem.Round(time.Millisecond),
		"results", report.ResultCount,
		"chains", report.ChainCount)
	return report, runErr
}

// process walks one system through the status machine. A returned error is
// unrecoverable for the whole run; per-system failures are reported in the outcome.
func (d *Driver) process(ctx context.Context, system domain.SystemProfile) (SystemOutcome, error) {
	o := SystemOutcome{Name: system.Name, Status: domain.StatusPending}

	if d.results.Has(system.Name) {
		d.advance(&o, domain.StatusSkipped)
		return o, nil
	}

	d.advance(&o, domain.StatusSampling)
	samples, err := d.sampler.Sample(ctx, system)
	if err != nil {
		o.Err = err
		d.advance(&o, domain.StatusFailed)
		return o, fmt.Errorf("sample %s: %w", system.Name, err)
	}

	d.advance(&o, domain.StatusDeriving)
	derived := d.computer.Derive(samples, system, d.seeds.For("timing/"+system.Name))

	d.advance(&o, domain.StatusSummarizing)
	row, err := SummarizeRow(system.Name, derived)
	if err != nil {
		o.Err = err
		d.advance(&o, domain.StatusFailed)
		return o, nil
	}

	if err := d.chains.Upsert(system.Name, domain.NewChainEntry(samples, derived)); err != nil {
		o.Err = err
		d.advance(&o, domain.StatusFailed)
		return o, nil
	}
	if err := d.results.Append(row); err != nil {
		o.Err = err
		d.advance(&o, domain.StatusFailed)
		return o, nil
	}

	d.advance(&o, domain.StatusRecorded)
	return o, nil
}

func (d *Driver) advance(o *SystemOutcome, next domain.SystemStatus) {
	d.logger.Debug("system status", "system", o.Name, "from", o.Status, "to", next)
	o.Status = next
}

// flush writes chains before rows. A row is only durable once its chain is,
// so a system skipped on resume always has a stored chain.
func (d *Driver) flush(ctx context.Context) error {
	if err := d.chains.Flush(ctx); err != nil {
		return err
	}
	return d.results.Flush(ctx)
}

func (d *Driver) finish(report RunReport, start time.Time) RunReport {
	report.Elapsed = d.now().Sub(start)
	if report.NewSystems > 0 {
		report.MeanPerSystem = report.Elapsed / time.Duration(report.NewSystems)
	}
	report.ResultCount = d.results.Len()
	report.ChainCount = d.chains.Len()
	return report
}

// SummarizeRow reduces the three derived sequences of one system.
func SummarizeRow(name string, derived domain.DerivedSampleSet) (domain.ResultRow, error) {
	row := domain.ResultRow{Name: name}
	for _, q := range []struct {
		label  string
		values []float64
		target *domain.SummaryRecord
	}{
		{"i_deg", derived.IDeg, &row.IDeg},
		{"b_occ", derived.BOcc, &row.BOcc},
		{"t_eclipse", derived.TEclipse, &row.TEclipse},
	} {
		rec, err := stats.Summarize(q.values)
		if err != nil {
			return domain.ResultRow{}, fmt.Errorf("summarize %s: %w", q.label, err)
		}
		*q.target = rec
	}
	return row, nil
}
