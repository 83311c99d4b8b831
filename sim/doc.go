// Package sim provides the core discrete-event simulation engine.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - scheduler.go: the virtual clock and the (time, insertion order) timer loop
//   - task.go: suspendable processes, timeouts, interruption and teardown
//   - resource.go: the capacity-1 FIFO resource and its renege deadline race
//
// # Architecture
//
// The sim package holds the domain-free engine; models live in sub-packages:
//   - sim/callcenter/: the call-center model (calls, breaks, shifts, statistics)
//   - sim/sampling/: the injected random source and its distributions
//   - sim/trace/: lifecycle trace recording and summaries
//
// # Execution Model
//
// Tasks run on their own goroutines, but the scheduler hands control to at
// most one of them at a time, so simulation code needs no locking. Every
// resumption goes through a scheduled timer, which makes a run fully
// determined by its configuration and its random streams.
//
// # Instrumentation
//
// Scheduler and Resource are Hookable: hooks fire around every dispatched
// event and on every enqueue, grant, release and withdrawal.
package sim
