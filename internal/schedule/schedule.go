package schedule

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	// ThresholdCount is the number of income bracket boundaries.
	ThresholdCount = 10
	// BracketCount is the number of income brackets the thresholds produce.
	BracketCount = ThresholdCount + 1

	// MinEligibleAge and MaxEligibleAge bound the ages the schedule covers.
	MinEligibleAge = 0
	MaxEligibleAge = 18
)

// Validation and lookup errors.
var (
	ErrThresholdCount    = errors.New("schedule must have exactly 10 income thresholds")
	ErrThresholdOrder    = errors.New("income thresholds must be strictly ascending")
	ErrRowLength         = errors.New("age group row must have exactly 11 amounts")
	ErrAgeCoverage       = errors.New("age groups must cover ages 0-18 without gaps or overlaps")
	ErrBracketOutOfRange = errors.New("bracket index out of range")
)

//go:embed schedule_2021.yaml
var schedule2021 []byte

// AgeGroup is one row of the schedule: an inclusive age range and the
// baseline support amount for each income bracket.
type AgeGroup struct {
	Label   string  `yaml:"label" json:"label"`
	Min     int     `yaml:"min" json:"min"`
	Max     int     `yaml:"max" json:"max"`
	Amounts []int64 `yaml:"amounts" json:"amounts"`
}

// Contains reports whether age falls inside the group's inclusive bounds.
func (g AgeGroup) Contains(age int) bool {
	return age >= g.Min && age <= g.Max
}

// Schedule is an immutable reference table of baseline support amounts.
type Schedule struct {
	Year       int        `yaml:"year" json:"year"`
	Thresholds []int64    `yaml:"thresholds" json:"thresholds"`
	AgeGroups  []AgeGroup `yaml:"age_groups" json:"age_groups"`
}

var (
	defaultOnce     sync.Once
	defaultSchedule *Schedule
)

// Default returns the embedded 2021 schedule. The document is decoded on
// first use and shared afterwards; callers must not modify it.
func Default() *Schedule {
	defaultOnce.Do(func() {
		s, err := Parse(schedule2021)
		if err != nil {
			panic(fmt.Sprintf("embedded schedule is invalid: %v", err))
		}
		defaultSchedule = s
	})
	return defaultSchedule
}

// Parse decodes a schedule document and checks its structural invariants.
func Parse(data []byte) (*Schedule, error) {
	var s Schedule
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse schedule: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	sort.Slice(s.AgeGroups, func(i, j int) bool { return s.AgeGroups[i].Min < s.AgeGroups[j].Min })
	return &s, nil
}

func (s *Schedule) validate() error {
	if len(s.Thresholds) != ThresholdCount {
		return fmt.Errorf("%w: got %d", ErrThresholdCount, len(s.Thresholds))
	}
	for i := 1; i < len(s.Thresholds); i++ {
		if s.Thresholds[i] <= s.Thresholds[i-1] {
			return fmt.Errorf("%w: %d follows %d", ErrThresholdOrder, s.Thresholds[i], s.Thresholds[i-1])
		}
	}

	groups := make([]AgeGroup, len(s.AgeGroups))
	copy(groups, s.AgeGroups)
	sort.Slice(groups, func(i, j int) bool { return groups[i].Min < groups[j].Min })

	next := MinEligibleAge
	for _, g := range groups {
		if len(g.Amounts) != BracketCount {
			return fmt.Errorf("%w: group %q has %d", ErrRowLength, g.Label, len(g.Amounts))
		}
		if g.Min != next || g.Max < g.Min {
			return fmt.Errorf("%w: group %q spans %d-%d, expected start %d", ErrAgeCoverage, g.Label, g.Min, g.Max, next)
		}
		next = g.Max + 1
	}
	if next != MaxEligibleAge+1 {
		return fmt.Errorf("%w: coverage ends at %d", ErrAgeCoverage, next-1)
	}
	return nil
}

// BracketIndex returns the number of thresholds less than or equal to
// income. An income equal to a threshold falls into the higher bracket.
func (s *Schedule) BracketIndex(income int64) int {
	return sort.Search(len(s.Thresholds), func(i int) bool {
		return s.Thresholds[i] > income
	})
}

// Classify returns the age group containing age. Ages outside 0-18 are not
// covered by the schedule and report false.
func (s *Schedule) Classify(age int) (AgeGroup, bool) {
	for _, g := range s.AgeGroups {
		if g.Contains(age) {
			return g, true
		}
	}
	return AgeGroup{}, false
}

// Baseline returns the group's baseline amount for a bracket index.
func (s *Schedule) Baseline(group AgeGroup, bracket int) (int64, error) {
	if bracket < 0 || bracket >= len(group.Amounts) {
		return 0, fmt.Errorf("%w: %d for group %q", ErrBracketOutOfRange, bracket, group.Label)
	}
	return group.Amounts[bracket], nil
}

// BracketRange returns the inclusive lower and exclusive upper income bound
// of a bracket. The upper bound of the last bracket is reported as -1.
func (s *Schedule) BracketRange(bracket int) (lower, upper int64) {
	if bracket > 0 && bracket <= len(s.Thresholds) {
		lower = s.Thresholds[bracket-1]
	}
	upper = -1
	if bracket < len(s.Thresholds) {
		upper = s.Thresholds[bracket]
	}
	return lower, upper
}
