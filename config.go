package contagiongo

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// RunConfig is the top-level TOML configuration for one batch of Gillespie
// simulation replicates, decoded the same way the teacher's EvoEpiConfig is:
// a single DecodeFile call into a zero-valued struct.
type RunConfig struct {
	SimParams *simParamsConfig `toml:"simulation"`
	LogParams *logParamsConfig `toml:"logging"`

	validated bool
}

type simParamsConfig struct {
	EdgeListPath string `toml:"edge_list_path"`

	TransmissionRate   float64 `toml:"transmission_rate"`
	RecoveryRate       float64 `toml:"recovery_rate"`
	WaningImmunityRate float64 `toml:"waning_immunity_rate"`
	Base               float64 `toml:"base"`

	Seed             int64   `toml:"seed"`
	InitialFraction  float64 `toml:"initial_fraction"`
	InitialInfected  []int   `toml:"initial_infected"`
	InitialRecovered []int   `toml:"initial_recovered"`

	NumReplicates int `toml:"num_replicates"`

	HistorySize       int     `toml:"history_size"`
	UpdateHistoryRate float64 `toml:"update_history_rate"`
}

type logParamsConfig struct {
	OutputPath string `toml:"output_path"`
	Logger     string `toml:"logger"`
}

// Validate checks that every parameter is in its valid domain before any
// engine is constructed from this configuration.
func (c *RunConfig) Validate() error {
	if err := c.SimParams.Validate(); err != nil {
		return errors.Wrap(err, "invalid simulation parameters")
	}
	if err := c.LogParams.Validate(); err != nil {
		return errors.Wrap(err, "invalid logging parameters")
	}
	c.validated = true
	return nil
}

func (c *simParamsConfig) Validate() error {
	if c.EdgeListPath == "" {
		return fmt.Errorf(EmptyPathError, "edge_list_path")
	}
	if !exists(c.EdgeListPath) {
		return fmt.Errorf(FileDoesNotExistError, c.EdgeListPath)
	}
	if c.TransmissionRate < 0 {
		return fmt.Errorf(InvalidFloatParameterError, "transmission_rate", c.TransmissionRate, "must be non-negative")
	}
	if c.RecoveryRate < 0 {
		return fmt.Errorf(InvalidFloatParameterError, "recovery_rate", c.RecoveryRate, "must be non-negative")
	}
	if c.WaningImmunityRate < 0 {
		return fmt.Errorf(InvalidFloatParameterError, "waning_immunity_rate", c.WaningImmunityRate, "must be non-negative")
	}
	if c.Base <= 1 {
		if c.Base == 0 {
			c.Base = 2
		} else {
			return fmt.Errorf(InvalidFloatParameterError, "base", c.Base, "must be greater than 1")
		}
	}
	if c.InitialFraction < 0 || c.InitialFraction > 1 {
		return fmt.Errorf(InvalidFloatParameterError, "initial_fraction", c.InitialFraction, "must be in [0,1]")
	}
	if c.NumReplicates < 1 {
		c.NumReplicates = 1
	}
	if c.HistorySize < 0 {
		return fmt.Errorf(InvalidIntParameterError, "history_size", c.HistorySize, "must be non-negative")
	}
	return nil
}

func (c *logParamsConfig) Validate() error {
	if c.OutputPath == "" {
		return fmt.Errorf(EmptyPathError, "output_path")
	}
	switch strings.ToLower(c.Logger) {
	case "", "csv":
		c.Logger = "csv"
	case "sqlite":
	default:
		return fmt.Errorf(InvalidStringParameterError, "logger", c.Logger, "must be one of csv, sqlite")
	}
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// BuildProcess constructs a Process from a validated RunConfig: it loads
// the edge list and rates, then seeds the initial condition either from
// InitialFraction (if positive) or from InitialInfected/InitialRecovered.
func BuildProcess(c *RunConfig) (*Process, error) {
	if !c.validated {
		if err := c.Validate(); err != nil {
			return nil, err
		}
	}
	graph, err := LoadEdgeList(c.SimParams.EdgeListPath)
	if err != nil {
		return nil, err
	}
	p := NewProcess(graph,
		c.SimParams.TransmissionRate,
		c.SimParams.RecoveryRate,
		c.SimParams.WaningImmunityRate,
		c.SimParams.Base,
		c.SimParams.Seed)

	if c.SimParams.InitialFraction > 0 {
		if err := p.InitializeRandom(c.SimParams.InitialFraction, c.SimParams.Seed); err != nil {
			return nil, err
		}
	} else {
		if err := p.Initialize(c.SimParams.InitialInfected, c.SimParams.InitialRecovered, nil); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// BuildLogger constructs the DataLogger named by c.LogParams.Logger for
// replicate instance i.
func BuildLogger(c *RunConfig, i int) (DataLogger, error) {
	switch c.LogParams.Logger {
	case "sqlite":
		return NewSQLiteLogger(c.LogParams.OutputPath, i), nil
	default:
		return NewCSVLogger(c.LogParams.OutputPath, i), nil
	}
}
