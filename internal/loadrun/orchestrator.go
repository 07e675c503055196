package loadrun

import (
	"errors"
	"fmt"
	"log"
)

// Rejected-operation outcomes. These are expected, benign results, distinct
// from internal faults.
var (
	ErrAlreadyRunning = errors.New("loadrun: run already in progress for key")
	ErrNotRunning     = errors.New("loadrun: no run in progress for key")
	ErrMissingURL     = errors.New("loadrun: options missing target url")
)

// Orchestrator enforces at most one live load run per instance key and
// publishes run lifecycle events. Start and Cancel return immediately; run
// completion is observable only through the bus.
type Orchestrator struct {
	runner Runner
	bus    *Bus
	reg    *registry
}

// NewOrchestrator creates an Orchestrator spawning workers through runner
// and publishing on bus. A nil bus gets a fresh one.
func NewOrchestrator(runner Runner, bus *Bus) *Orchestrator {
	if bus == nil {
		bus = NewBus()
	}
	return &Orchestrator{
		runner: runner,
		bus:    bus,
		reg:    newRegistry(),
	}
}

// Bus returns the lifecycle event bus.
func (o *Orchestrator) Bus() *Bus {
	return o.bus
}

// Running reports whether a live run exists for key.
func (o *Orchestrator) Running(key string) bool {
	return o.reg.live(key)
}

// Start begins a load run for key. It returns ErrMissingURL when the options
// carry no target URL and ErrAlreadyRunning when a live run exists for key;
// in both cases nothing is spawned and no existing run is touched. On
// acceptance it spawns the worker, publishes starting and started, and
// returns without waiting for completion. A worker that cannot be spawned at
// all is a Failed terminal outcome: the entry is removed, loadrunError is
// published, and the spawn error is returned.
func (o *Orchestrator) Start(key string, opts Options) error {
	if opts.URL == "" {
		return ErrMissingURL
	}

	run := &Run{Key: key, Options: opts, State: StateStarting}
	if err := o.reg.insert(run); err != nil {
		return err
	}
	o.bus.Publish(Event{Name: EventStarting, Key: key})

	worker, err := o.runner.Start(key, opts.Payload)
	if err != nil {
		o.reg.remove(key)
		runsFinished.WithLabelValues(string(StateFailed)).Inc()
		o.bus.Publish(Event{Name: EventError, Key: key, ErrorOutput: err.Error()})
		log.Printf("loadrun: spawn failed for %s: %v", key, err)
		return fmt.Errorf("spawn load worker: %w", err)
	}

	o.reg.update(key, func(r *Run) {
		r.worker = worker
		r.State = StateRunning
	})
	runsStarted.Inc()
	o.bus.Publish(Event{Name: EventStarted, Key: key})
	log.Printf("loadrun: started run for %s (url=%s)", key, opts.URL)

	go o.await(key, worker)
	return nil
}

// Cancel delivers the termination signal to the live run for key. It does
// not transition state or publish cancelled itself; the exit handler does
// both once the worker is gone.
func (o *Orchestrator) Cancel(key string) error {
	worker, ok := o.reg.worker(key)
	if !ok {
		return ErrNotRunning
	}
	if err := worker.Kill(); err != nil {
		return fmt.Errorf("signal load worker for %s: %w", key, err)
	}
	log.Printf("loadrun: cancellation signalled for %s", key)
	return nil
}

// await blocks on worker exit, classifies the outcome, and publishes exactly
// one terminal event. The registry entry is removed before the event goes
// out so that a listener reacting to it can immediately start a new run for
// the same key.
func (o *Orchestrator) await(key string, worker Worker) {
	exit := worker.Wait()
	state := classify(exit)

	o.reg.remove(key)
	runsFinished.WithLabelValues(string(state)).Inc()

	switch state {
	case StateCancelled:
		log.Printf("loadrun: run for %s cancelled", key)
		o.bus.Publish(Event{Name: EventCancelled, Key: key})
	case StateFailed:
		log.Printf("loadrun: run for %s failed (exit %d)", key, exit.Code)
		o.bus.Publish(Event{
			Name:        EventError,
			Key:         key,
			Output:      exit.Stdout,
			ErrorOutput: exit.Stderr,
		})
	default:
		log.Printf("loadrun: run for %s completed", key)
		o.bus.Publish(Event{Name: EventCompleted, Key: key, Output: exit.Stdout})
	}
}

// classify maps a worker exit to its terminal state. Signal identity wins
// over the exit code so a cancelled run is never reported as failed.
func classify(exit Exit) State {
	switch {
	case exit.Killed:
		return StateCancelled
	case exit.Code != 0:
		return StateFailed
	default:
		return StateCompleted
	}
}
