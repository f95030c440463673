package qphase

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/theapemachine/errnie"
)

// Backend executes a circuit and reports how often each classical outcome
// occurred. Errors from a backend are returned unchanged to the caller.
type Backend interface {
	Run(ctx context.Context, circuit *Circuit, shots int) (Counts, error)
}

/*
StateVectorSimulator is an exact, noise-free Backend. Circuits whose
measurements are all terminal are evolved once and sampled; anything else is
replayed shot by shot with collapse on every measurement.
*/
type StateVectorSimulator struct {
	mu      sync.Mutex
	config  *Config
	rng     *rand.Rand
	metrics *Metrics
}

// NewStateVectorSimulator seeds the sampler from config.Seed, or from the
// clock when the seed is zero. A nil config uses NewConfig.
func NewStateVectorSimulator(config *Config) *StateVectorSimulator {
	if config == nil {
		config = NewConfig()
	}

	seed := config.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	return &StateVectorSimulator{
		config:  config,
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		metrics: NewMetrics(),
	}
}

func (s *StateVectorSimulator) Name() string {
	return "statevector"
}

// Metrics exposes the simulator's run statistics.
func (s *StateVectorSimulator) Metrics() *Metrics {
	return s.metrics
}

// Run implements Backend.
func (s *StateVectorSimulator) Run(ctx context.Context, circuit *Circuit, shots int) (Counts, error) {
	result, err := s.Execute(ctx, NewJob(circuit, shots))
	if err != nil {
		return nil, err
	}
	return result.Counts, nil
}

// Execute transpiles and runs job, blocking until every shot is sampled or
// ctx is done.
func (s *StateVectorSimulator) Execute(ctx context.Context, job *Job) (*Result, error) {
	job.StartTime = time.Now()

	counts, err := s.execute(ctx, job)

	qubits := 0
	if job.Circuit != nil {
		qubits = job.Circuit.NumQubits
	}
	s.metrics.recordRun(job.StartTime, job.Shots, qubits, err)

	if err != nil {
		errnie.Error(err)
		return nil, fmt.Errorf("job %s: %w", job.ID, err)
	}

	errnie.Info("job %s - %d shots, %d outcomes in %v", job.ID, job.Shots, len(counts), time.Since(job.StartTime))

	return &Result{
		JobID:    job.ID,
		Backend:  s.Name(),
		Shots:    job.Shots,
		Counts:   counts,
		Duration: time.Since(job.StartTime),
	}, nil
}

func (s *StateVectorSimulator) execute(ctx context.Context, job *Job) (Counts, error) {
	if job.Circuit == nil {
		return nil, fmt.Errorf("no circuit: %w", ErrInvalidQubitCount)
	}

	if job.Shots < 1 {
		return nil, fmt.Errorf("%d shots: %w", job.Shots, ErrInvalidShots)
	}

	if job.Circuit.NumQubits > s.config.MaxQubits {
		return nil, fmt.Errorf(
			"%d qubits, limit %d: %w", job.Circuit.NumQubits, s.config.MaxQubits, ErrTooManyQubits,
		)
	}

	prog, err := Transpile(job.Circuit)
	if err != nil {
		return nil, err
	}

	errnie.Debug(
		"transpiled %q - %d instructions, terminal measurement %v",
		job.Circuit.Name, len(prog.Instructions), prog.TerminalMeasurement,
	)

	if prog.TerminalMeasurement {
		return s.sampleFinal(ctx, prog, job.Shots)
	}

	return s.replay(ctx, prog, job.Shots)
}

// sampleFinal evolves the state once and draws every shot from it.
func (s *StateVectorSimulator) sampleFinal(ctx context.Context, prog *Program, shots int) (Counts, error) {
	sv := NewStateVector(prog.NumQubits)

	var measures []Instruction
	for _, in := range prog.Instructions {
		if in.Kind == GateMeasure {
			measures = append(measures, in)
			continue
		}
		sv.Apply(in)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	draw := newSampler(sv.Probabilities())
	counts := make(Counts)

	s.mu.Lock()
	defer s.mu.Unlock()
	bits := make([]byte, prog.NumClbits)

	for shot := 0; shot < shots; shot++ {
		if shot%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		basis := draw.draw(s.rng.Float64())

		clear(bits)
		for _, m := range measures {
			bits[m.Clbit] = byte((basis >> m.Targets[0]) & 1)
		}
		counts[bitstring(bits)]++
	}

	return counts, nil
}

// replay runs the program from scratch for each shot.
func (s *StateVectorSimulator) replay(ctx context.Context, prog *Program, shots int) (Counts, error) {
	counts := make(Counts)
	bits := make([]byte, prog.NumClbits)
	initial := NewStateVector(prog.NumQubits)

	s.mu.Lock()
	defer s.mu.Unlock()

	for shot := 0; shot < shots; shot++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sv := initial.Clone()
		clear(bits)

		for _, in := range prog.Instructions {
			if in.Kind == GateMeasure {
				bits[in.Clbit] = byte(sv.Collapse(in.Targets[0], s.rng.Float64()))
				continue
			}
			sv.Apply(in)
		}

		counts[bitstring(bits)]++
	}

	return counts, nil
}
