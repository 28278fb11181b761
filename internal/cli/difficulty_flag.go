package cli

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/at-ishikawa/recall/internal/scheduler"
)

// DifficultyFlag is a difficulty rating given on the command line.
type DifficultyFlag scheduler.Difficulty

// Set implements pflag.Value.
func (f *DifficultyFlag) Set(v string) error {
	difficulty, err := scheduler.ParseDifficulty(v)
	if err != nil {
		return fmt.Errorf("invalid value %q, valid values are %q, %q, %q or %q: %w",
			v, scheduler.Again, scheduler.Hard, scheduler.Good, scheduler.Easy, err)
	}
	*f = DifficultyFlag(difficulty)
	return nil
}

// String implements pflag.Value.
func (f *DifficultyFlag) String() string {
	if f == nil {
		return ""
	}
	return f.Difficulty().String()
}

// Type implements pflag.Value.
func (f *DifficultyFlag) Type() string {
	return "DifficultyFlag"
}

func (f DifficultyFlag) Difficulty() scheduler.Difficulty {
	return scheduler.Difficulty(f)
}

var (
	_ pflag.Value = (*DifficultyFlag)(nil)
)
