// Package callcenter models a two-operator call center on top of the sim
// engine: callers pass a capacity-limited answering system, are routed
// (sometimes wrongly) to an operator, wait on hold with bounded patience and
// are served, while operators take breaks that yield to waiting callers.
package callcenter

import (
	"errors"
	"fmt"
	"math"
)

// OperatorID identifies one of the two operators (1 or 2).
type OperatorID int

const (
	Operator1 OperatorID = 1
	Operator2 OperatorID = 2

	// NumOperators is the number of operators in the center.
	NumOperators = 2
)

// Operators lists every operator in id order.
var Operators = [NumOperators]OperatorID{Operator1, Operator2}

// index returns the zero-based slot of the operator in per-operator arrays.
func (o OperatorID) index() int {
	return int(o) - 1
}

func (o OperatorID) String() string {
	return fmt.Sprintf("operator_%d", int(o))
}

// Config groups every parameter of a run.
type Config struct {
	TotalCalls     int `yaml:"total_calls"`     // calls to resolve before the run halts
	IntakeCapacity int `yaml:"intake_capacity"` // parallel channels of the answering system

	InterarrivalMean float64 `yaml:"interarrival_mean"` // mean of exponential gaps between calls
	RecordMean       float64 `yaml:"record_mean"`       // mean of exponential record-taking time

	RouteToOp1Probability float64 `yaml:"route_to_op1_probability"`
	MisrouteProbability   float64 `yaml:"misroute_probability"`
	MaxQueueWait          float64 `yaml:"max_queue_wait"` // reneging deadline

	Op1ServiceMean float64 `yaml:"op1_service_mean"` // log-normal target mean
	Op1ServiceStd  float64 `yaml:"op1_service_std"`  // log-normal target standard deviation
	Op2ServiceMin  float64 `yaml:"op2_service_min"`
	Op2ServiceMax  float64 `yaml:"op2_service_max"`

	BreaksEnabled     bool    `yaml:"breaks_enabled"`
	BreakMeanInterval float64 `yaml:"break_mean_interval"` // mean exponential gap between break decisions
	BreakDuration     float64 `yaml:"break_duration"`
	ShiftDuration     float64 `yaml:"shift_duration"`
	MaxBreaksPerShift int     `yaml:"max_breaks_per_shift"` // 0 = unlimited
}

// DefaultConfig returns the reference scenario: 1000 calls, a 100-channel
// answering system and an 8-hour shift with roughly one break per hour.
func DefaultConfig() Config {
	return Config{
		TotalCalls:            1000,
		IntakeCapacity:        100,
		InterarrivalMean:      6,
		RecordMean:            5,
		RouteToOp1Probability: 0.3,
		MisrouteProbability:   0.1,
		MaxQueueWait:          10,
		Op1ServiceMean:        12,
		Op1ServiceStd:         6,
		Op2ServiceMin:         1,
		Op2ServiceMax:         7,
		BreaksEnabled:         true,
		BreakMeanInterval:     60,
		BreakDuration:         3,
		ShiftDuration:         480,
		MaxBreaksPerShift:     0,
	}
}

// ConfigError reports one invalid configuration field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s %s", e.Field, e.Reason)
}

// Validate checks every field and returns all problems joined together, or
// nil. Each joined error is a *ConfigError.
func (c Config) Validate() error {
	var errs []error
	bad := func(field, format string, args ...any) {
		errs = append(errs, &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)})
	}
	positive := func(field string, v float64) {
		if !(v > 0) || math.IsInf(v, 1) {
			bad(field, "must be a positive finite number, got %v", v)
		}
	}
	nonNegative := func(field string, v float64) {
		if !(v >= 0) || math.IsInf(v, 1) {
			bad(field, "must be a non-negative finite number, got %v", v)
		}
	}
	probability := func(field string, v float64) {
		if !(v >= 0 && v <= 1) {
			bad(field, "must be in [0, 1], got %v", v)
		}
	}

	if c.TotalCalls < 0 {
		bad("total_calls", "must be non-negative, got %d", c.TotalCalls)
	}
	if c.IntakeCapacity <= 0 {
		bad("intake_capacity", "must be positive, got %d", c.IntakeCapacity)
	}
	positive("interarrival_mean", c.InterarrivalMean)
	positive("record_mean", c.RecordMean)
	probability("route_to_op1_probability", c.RouteToOp1Probability)
	probability("misroute_probability", c.MisrouteProbability)
	nonNegative("max_queue_wait", c.MaxQueueWait)
	positive("op1_service_mean", c.Op1ServiceMean)
	nonNegative("op1_service_std", c.Op1ServiceStd)
	nonNegative("op2_service_min", c.Op2ServiceMin)
	nonNegative("op2_service_max", c.Op2ServiceMax)
	if c.Op2ServiceMax < c.Op2ServiceMin {
		bad("op2_service_max", "must not be below op2_service_min (%v), got %v", c.Op2ServiceMin, c.Op2ServiceMax)
	}
	if c.BreaksEnabled {
		positive("break_mean_interval", c.BreakMeanInterval)
		positive("shift_duration", c.ShiftDuration)
	}
	nonNegative("break_duration", c.BreakDuration)
	if c.MaxBreaksPerShift < 0 {
		bad("max_breaks_per_shift", "must be non-negative, got %d", c.MaxBreaksPerShift)
	}
	return errors.Join(errs...)
}
