package scheduler

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Difficulty is the rating a review attempt was classified into.
type Difficulty int

const (
	Again Difficulty = iota + 1
	Hard
	Good
	Easy
)

var (
	difficultyNames = [...]string{Again: "again", Hard: "hard", Good: "good", Easy: "easy"}

	// Difficulties lists every valid rating in ascending order of ease.
	Difficulties = []Difficulty{Again, Hard, Good, Easy}
)

// ParseDifficulty converts a case-insensitive name into a Difficulty.
func ParseDifficulty(name string) (Difficulty, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for _, d := range Difficulties {
		if difficultyNames[d] == normalized {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDifficulty, name)
}

func (d Difficulty) IsValid() bool {
	return d >= Again && d <= Easy
}

func (d Difficulty) String() string {
	if d.IsValid() {
		return difficultyNames[d]
	}
	return fmt.Sprintf("Difficulty(%d)", int(d))
}

// Validate returns ErrInvalidDifficulty for values outside the four buckets.
func (d Difficulty) Validate() error {
	if !d.IsValid() {
		return fmt.Errorf("%w: %d", ErrInvalidDifficulty, int(d))
	}
	return nil
}

func (d Difficulty) MarshalText() ([]byte, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return []byte(difficultyNames[d]), nil
}

func (d *Difficulty) UnmarshalText(text []byte) error {
	parsed, err := ParseDifficulty(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Difficulty) MarshalJSON() ([]byte, error) {
	text, err := d.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

func (d *Difficulty) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDifficulty, data)
	}
	return d.UnmarshalText([]byte(s))
}

// MarshalYAML implements the yaml.Marshaler interface
func (d Difficulty) MarshalYAML() (interface{}, error) {
	text, err := d.MarshalText()
	if err != nil {
		return nil, err
	}
	return string(text), nil
}

// UnmarshalYAML implements the yaml.Unmarshaler interface
func (d *Difficulty) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDifficulty, value.Value)
	}
	return d.UnmarshalText([]byte(s))
}
