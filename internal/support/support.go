package support

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"

	"github.com/Simplici0/childsupport/internal/schedule"
)

const (
	// MinChildren and MaxChildren bound the number of children per calculation.
	MinChildren = 1
	MaxChildren = 5
	// MaxAge is the oldest age accepted as input. Ages above 18 are valid
	// and mark the child as excluded from the schedule.
	MaxAge = 25
	// MaxAmount caps every money field so that sums stay far from overflow.
	MaxAmount = 1_000_000_000_000
)

var (
	// ErrInvalidInput marks inputs outside the ranges callers must enforce.
	ErrInvalidInput = errors.New("invalid calculation input")
	// ErrComputation marks an internal failure, such as a lookup miss in
	// the reference schedule.
	ErrComputation = errors.New("child support computation failed")
)

// Residence is the residence category of the custodial household.
type Residence string

// Residence categories. ResidenceNone applies no adjustment.
const (
	ResidenceNone  Residence = "none"
	ResidenceUrban Residence = "urban"
	ResidenceRural Residence = "rural"
)

// ParseResidence maps a case-insensitive name to a Residence. An empty
// string means ResidenceNone.
func ParseResidence(raw string) (Residence, error) {
	switch Residence(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ResidenceNone:
		return ResidenceNone, nil
	case ResidenceUrban:
		return ResidenceUrban, nil
	case ResidenceRural:
		return ResidenceRural, nil
	}
	return "", fmt.Errorf("%w: unknown residence %q", ErrInvalidInput, raw)
}

// Input holds the values of one calculation. Money is in whole currency units.
type Input struct {
	CustodialIncome    int64
	NonCustodialIncome int64
	ChildrenAges       []int
	Residence          Residence
	ExtraExpenses      int64
}

// Validate checks the ranges the calculation relies on.
func (in Input) Validate() error {
	if in.CustodialIncome < 0 {
		return fmt.Errorf("%w: custodial income must be non-negative", ErrInvalidInput)
	}
	if in.NonCustodialIncome < 0 {
		return fmt.Errorf("%w: non-custodial income must be non-negative", ErrInvalidInput)
	}
	if in.ExtraExpenses < 0 {
		return fmt.Errorf("%w: extra expenses must be non-negative", ErrInvalidInput)
	}
	if in.CustodialIncome > MaxAmount || in.NonCustodialIncome > MaxAmount || in.ExtraExpenses > MaxAmount {
		return fmt.Errorf("%w: amounts must not exceed %d", ErrInvalidInput, int64(MaxAmount))
	}
	if n := len(in.ChildrenAges); n < MinChildren || n > MaxChildren {
		return fmt.Errorf("%w: between %d and %d children required, got %d", ErrInvalidInput, MinChildren, MaxChildren, n)
	}
	for i, age := range in.ChildrenAges {
		if age < 0 || age > MaxAge {
			return fmt.Errorf("%w: child %d age %d outside 0-%d", ErrInvalidInput, i+1, age, MaxAge)
		}
	}
	switch in.Residence {
	case "", ResidenceNone, ResidenceUrban, ResidenceRural:
	default:
		return fmt.Errorf("%w: unknown residence %q", ErrInvalidInput, in.Residence)
	}
	return nil
}

// ChildDetail is the per-child line of a calculation.
type ChildDetail struct {
	Age      int    `json:"age"`
	Group    string `json:"group,omitempty"`
	Amount   int64  `json:"amount"`
	Eligible bool   `json:"eligible"`
}

// String formats the detail line shown for the child.
func (d ChildDetail) String() string {
	if !d.Eligible {
		return fmt.Sprintf("age %d: excluded (adult)", d.Age)
	}
	return fmt.Sprintf("age %d: %s (%s)", d.Age, humanize.Comma(d.Amount), d.Group)
}

// Result is the outcome of one calculation.
type Result struct {
	CombinedIncome      int64         `json:"combined_income"`
	BracketIndex        int           `json:"bracket_index"`
	BaseSupportTotal    int64         `json:"base_support_total"`
	EligibleChildren    int           `json:"eligible_children"`
	Children            []ChildDetail `json:"children"`
	Details             []string      `json:"details"`
	CountMultiplier     float64       `json:"count_multiplier"`
	Residence           Residence     `json:"residence"`
	ResidenceMultiplier float64       `json:"residence_multiplier"`
	ExtraExpenses       int64         `json:"extra_expenses"`
	TotalSupport        int64         `json:"total_support"`
	ShareRatioPercent   float64       `json:"share_ratio_percent"`
	Payment             int64         `json:"payment"`
}

// Calculator computes support estimates against one schedule. It holds no
// mutable state and is safe for concurrent use.
type Calculator struct {
	schedule *schedule.Schedule
}

// NewCalculator returns a Calculator backed by s.
func NewCalculator(s *schedule.Schedule) *Calculator {
	return &Calculator{schedule: s}
}

var defaultCalculator = sync.OnceValue(func() *Calculator {
	return NewCalculator(schedule.Default())
})

// Calculate runs in against the embedded 2021 schedule.
func Calculate(in Input) (Result, error) {
	return defaultCalculator().Calculate(in)
}

// Calculate resolves the income bracket, evaluates each child, applies the
// adjustment factors and allocates the total to the non-custodial parent.
func (c *Calculator) Calculate(in Input) (Result, error) {
	if err := in.Validate(); err != nil {
		return Result{}, err
	}
	residence := in.Residence
	if residence == "" {
		residence = ResidenceNone
	}

	combined := in.CustodialIncome + in.NonCustodialIncome
	bracket := c.schedule.BracketIndex(combined)

	children, baseTotal, err := c.evaluateChildren(in.ChildrenAges, bracket)
	if err != nil {
		return Result{}, err
	}
	eligible := lo.CountBy(children, func(d ChildDetail) bool { return d.Eligible })

	countMultiplier := CountMultiplier(eligible)
	residenceMultiplier := ResidenceMultiplier(residence)
	total := Adjust(baseTotal, countMultiplier, residenceMultiplier, in.ExtraExpenses)
	ratio := ShareRatio(combined, in.NonCustodialIncome)

	return Result{
		CombinedIncome:      combined,
		BracketIndex:        bracket,
		BaseSupportTotal:    baseTotal,
		EligibleChildren:    eligible,
		Children:            children,
		Details:             lo.Map(children, func(d ChildDetail, _ int) string { return d.String() }),
		CountMultiplier:     countMultiplier.InexactFloat64(),
		Residence:           residence,
		ResidenceMultiplier: residenceMultiplier.InexactFloat64(),
		ExtraExpenses:       in.ExtraExpenses,
		TotalSupport:        total.Round(0).IntPart(),
		ShareRatioPercent:   RatioPercent(ratio),
		Payment:             Allocate(total, combined, in.NonCustodialIncome),
	}, nil
}

func (c *Calculator) evaluateChildren(ages []int, bracket int) ([]ChildDetail, int64, error) {
	children := make([]ChildDetail, 0, len(ages))
	var sum int64
	for _, age := range ages {
		group, ok := c.schedule.Classify(age)
		if !ok {
			children = append(children, ChildDetail{Age: age})
			continue
		}
		amount, err := c.schedule.Baseline(group, bracket)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %w", ErrComputation, err)
		}
		sum += amount
		children = append(children, ChildDetail{Age: age, Group: group.Label, Amount: amount, Eligible: true})
	}
	return children, sum, nil
}
