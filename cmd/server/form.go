package main

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/Simplici0/childsupport/internal/support"
)

// formValues echoes the submitted fields back into the form.
type formValues struct {
	CustodialIncome    string
	NonCustodialIncome string
	Ages               []string
	Residence          string
	ExtraExpenses      string
	Unit               string
}

type calculateRequest struct {
	CustodialIncome    float64 `json:"custodial_income"`
	NonCustodialIncome float64 `json:"non_custodial_income"`
	ChildrenAges       []int   `json:"children_ages"`
	Residence          string  `json:"residence"`
	ExtraExpenses      float64 `json:"extra_expenses"`
	Unit               string  `json:"unit"`
}

func defaultFormValues() formValues {
	ages := make([]string, support.MaxChildren)
	ages[0] = "5"
	return formValues{
		CustodialIncome:    "2000000",
		NonCustodialIncome: "3000000",
		Ages:               ages,
		Residence:          string(support.ResidenceNone),
		ExtraExpenses:      "0",
		Unit:               string(support.UnitWon),
	}
}

func formValuesFromRequest(r *http.Request) formValues {
	ages := make([]string, support.MaxChildren)
	copy(ages, r.Form["age"])

	residence := strings.TrimSpace(r.FormValue("residence"))
	if residence == "" {
		residence = string(support.ResidenceNone)
	}
	unit := strings.TrimSpace(r.FormValue("unit"))
	if unit == "" {
		unit = string(support.UnitWon)
	}

	return formValues{
		CustodialIncome:    strings.TrimSpace(r.FormValue("custodial_income")),
		NonCustodialIncome: strings.TrimSpace(r.FormValue("non_custodial_income")),
		Ages:               ages,
		Residence:          residence,
		ExtraExpenses:      strings.TrimSpace(r.FormValue("extra_expenses")),
		Unit:               unit,
	}
}

// parseCalculationForm turns a submitted form into a validated input.
// Money fields are entered in the selected unit and converted to won here.
func parseCalculationForm(r *http.Request) (support.Input, error) {
	unit, err := support.ParseUnit(r.FormValue("unit"))
	if err != nil {
		return support.Input{}, fmt.Errorf("unit must be won or manwon")
	}

	custodial, err := parseNonNegativeFloat(r.FormValue("custodial_income"), "custodial_income")
	if err != nil {
		return support.Input{}, err
	}
	nonCustodial, err := parseNonNegativeFloat(r.FormValue("non_custodial_income"), "non_custodial_income")
	if err != nil {
		return support.Input{}, err
	}

	extra := 0.0
	if raw := strings.TrimSpace(r.FormValue("extra_expenses")); raw != "" {
		if extra, err = parseNonNegativeFloat(raw, "extra_expenses"); err != nil {
			return support.Input{}, err
		}
	}

	var ages []int
	for _, raw := range r.Form["age"] {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		age, err := parseAge(raw)
		if err != nil {
			return support.Input{}, err
		}
		ages = append(ages, age)
	}
	if len(ages) < support.MinChildren || len(ages) > support.MaxChildren {
		return support.Input{}, fmt.Errorf("enter between %d and %d children's ages", support.MinChildren, support.MaxChildren)
	}

	residence, err := support.ParseResidence(r.FormValue("residence"))
	if err != nil {
		return support.Input{}, fmt.Errorf("residence must be none, urban or rural")
	}

	return buildInput(unit, custodial, nonCustodial, extra, ages, residence)
}

func (req calculateRequest) toInput() (support.Input, error) {
	unit, err := support.ParseUnit(req.Unit)
	if err != nil {
		return support.Input{}, err
	}
	residence, err := support.ParseResidence(req.Residence)
	if err != nil {
		return support.Input{}, err
	}

	return buildInput(unit, req.CustodialIncome, req.NonCustodialIncome, req.ExtraExpenses, req.ChildrenAges, residence)
}

// buildInput converts the money fields from unit to won and validates the
// assembled input.
func buildInput(unit support.Unit, custodial, nonCustodial, extra float64, ages []int, residence support.Residence) (support.Input, error) {
	in := support.Input{ChildrenAges: ages, Residence: residence}

	var err error
	if in.CustodialIncome, err = unit.ToWon(custodial); err != nil {
		return support.Input{}, err
	}
	if in.NonCustodialIncome, err = unit.ToWon(nonCustodial); err != nil {
		return support.Input{}, err
	}
	if in.ExtraExpenses, err = unit.ToWon(extra); err != nil {
		return support.Input{}, err
	}

	if err := in.Validate(); err != nil {
		return support.Input{}, err
	}
	return in, nil
}

func parseNonNegativeFloat(raw, field string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%s must be a number", field)
	}
	if value < 0 {
		return 0, fmt.Errorf("%s must be greater than or equal to 0", field)
	}
	return value, nil
}

func parseAge(raw string) (int, error) {
	age, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("age must be a whole number")
	}
	if age < 0 || age > support.MaxAge {
		return 0, fmt.Errorf("age must be between 0 and %d", support.MaxAge)
	}
	return age, nil
}
