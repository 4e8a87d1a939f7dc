// Package config loads the tunable knobs behind the client boundary:
// search Options (spec.md §6) and evaluator Weights (spec.md §4.3), from
// an optional YAML file with built-in defaults when none is given.
// Grounded on domino14-macondo/config/config.go's small
// struct-plus-Load-method shape, using the module's declared
// github.com/spf13/viper dependency (present in macondo's go.mod for
// exactly this purpose but not exercised by any retrieved macondo file)
// to do the actual file/env parsing.
package config

import (
	"fmt"

	"github.com/avast/retry-go/v4"
	"github.com/spf13/viper"

	"github.com/MinusKelvin/cold-clear/eval"
	"github.com/MinusKelvin/cold-clear/movegen"
)

// PCLoop selects how the perfect-clear bonus is biased, per spec.md §9's
// resolution of the opening-book/PC-loop non-goal: no standalone
// PC-search mode is implemented, but the field is preserved and feeds
// the evaluator.
type PCLoop string

const (
	PCLoopOff     PCLoop = "off"
	PCLoopFastest PCLoop = "fastest"
	PCLoopAttack  PCLoop = "attack"
)

// Options mirrors the `options` fields of spec.md §6 that a launch call
// accepts: move generation mode, spawn rule, hold flag, speculation
// policy, node budgets, thread count and PC-loop bias. UseHold only
// decides whether a starting hold piece passed to client.LaunchWithBoard
// is kept; the search tree generates hold moves whatever its value.
type Options struct {
	Mode      movegen.Mode      `yaml:"mode" mapstructure:"mode"`
	SpawnRule movegen.SpawnRule `yaml:"spawn_rule" mapstructure:"spawn_rule"`
	UseHold   bool              `yaml:"use_hold" mapstructure:"use_hold"`
	Speculate bool              `yaml:"speculate" mapstructure:"speculate"`
	MinNodes  int               `yaml:"min_nodes" mapstructure:"min_nodes"`
	MaxNodes  int               `yaml:"max_nodes" mapstructure:"max_nodes"`
	Threads   int               `yaml:"threads" mapstructure:"threads"`
	PCLoop    PCLoop            `yaml:"pcloop" mapstructure:"pcloop"`
}

// DefaultOptions matches the values a fresh Standard bot launches with:
// 0g movement, hold enabled, speculation on, one thread searching
// unboundedly until MaxNodes (left at 0 so worker.Options.normalized
// picks a memory-sized default), and PC-loop off.
func DefaultOptions() Options {
	return Options{
		Mode:      movegen.Mode0G,
		SpawnRule: movegen.SpawnRow19Or20,
		UseHold:   true,
		Speculate: true,
		MinNodes:  0,
		MaxNodes:  0,
		Threads:   1,
		PCLoop:    PCLoopOff,
	}
}

// LoadOptions reads Options from a YAML file at path, filling in
// DefaultOptions for anything the file doesn't set. An empty path
// returns the defaults unchanged.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	if path == "" {
		return opts, nil
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := readConfigFile(v); err != nil {
		return Options{}, fmt.Errorf("config: reading options file %q: %w", path, err)
	}
	if err := v.Unmarshal(&opts); err != nil {
		return Options{}, fmt.Errorf("config: decoding options file %q: %w", path, err)
	}
	return opts, nil
}

// readConfigFile retries a transient file-read failure (an options/weights
// file on a network mount hiccuping mid-deploy), matching the retry.Do
// pattern domino14-macondo/cmd/lambda/main.go uses around its own
// flaky I/O. A config file that simply doesn't exist or doesn't parse
// fails every attempt and the last error is returned unchanged.
func readConfigFile(v *viper.Viper) error {
	return retry.Do(
		func() error { return v.ReadInConfig() },
		retry.Attempts(3),
		retry.LastErrorOnly(true),
	)
}

// LoadWeights reads eval.Weights from a YAML file at path, starting from
// eval.StandardWeights() so a tuned file only needs to override the
// fields it cares about. An empty path returns the standard weights
// unchanged.
func LoadWeights(path string) (eval.Weights, error) {
	w := eval.StandardWeights()
	if path == "" {
		return w, nil
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := readConfigFile(v); err != nil {
		return eval.Weights{}, fmt.Errorf("config: reading weights file %q: %w", path, err)
	}
	if err := v.Unmarshal(&w); err != nil {
		return eval.Weights{}, fmt.Errorf("config: decoding weights file %q: %w", path, err)
	}
	return w, nil
}
