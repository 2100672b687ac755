package main

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/Simplici0/childsupport/internal/support"
)

func newFormRequest(form url.Values) *http.Request {
	req := httptest.NewRequest("POST", "/calculate", nil)
	req.Form = form
	return req
}

func validForm() url.Values {
	form := url.Values{}
	form.Set("custodial_income", "2000000")
	form.Set("non_custodial_income", "3000000")
	form["age"] = []string{"5", "", "12", "", ""}
	form.Set("residence", "urban")
	form.Set("extra_expenses", "50000")
	return form
}

func TestParseCalculationForm_Success(t *testing.T) {
	in, err := parseCalculationForm(newFormRequest(validForm()))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if in.CustodialIncome != 2_000_000 || in.NonCustodialIncome != 3_000_000 || in.ExtraExpenses != 50_000 {
		t.Fatalf("unexpected amounts: %+v", in)
	}
	if len(in.ChildrenAges) != 2 || in.ChildrenAges[0] != 5 || in.ChildrenAges[1] != 12 {
		t.Fatalf("unexpected ages: %v", in.ChildrenAges)
	}
	if in.Residence != support.ResidenceUrban {
		t.Fatalf("residence=%q, want urban", in.Residence)
	}
}

func TestParseCalculationForm_TenThousandUnit(t *testing.T) {
	form := validForm()
	form.Set("unit", "manwon")
	form.Set("custodial_income", "200")
	form.Set("non_custodial_income", "300.5")
	form.Set("extra_expenses", "5")

	in, err := parseCalculationForm(newFormRequest(form))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if in.CustodialIncome != 2_000_000 || in.NonCustodialIncome != 3_005_000 || in.ExtraExpenses != 50_000 {
		t.Fatalf("unexpected amounts: %+v", in)
	}
}

func TestParseCalculationForm_EmptyExtraAndResidenceDefault(t *testing.T) {
	form := validForm()
	form.Del("extra_expenses")
	form.Del("residence")

	in, err := parseCalculationForm(newFormRequest(form))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if in.ExtraExpenses != 0 || in.Residence != support.ResidenceNone {
		t.Fatalf("unexpected defaults: %+v", in)
	}
}

func TestParseCalculationForm_Rejects(t *testing.T) {
	cases := map[string]func(url.Values){
		"no ages":            func(f url.Values) { f["age"] = []string{"", ""} },
		"six ages":           func(f url.Values) { f["age"] = []string{"1", "2", "3", "4", "5", "6"} },
		"age too old":        func(f url.Values) { f["age"] = []string{"26"} },
		"fractional age":     func(f url.Values) { f["age"] = []string{"2.5"} },
		"non-numeric income": func(f url.Values) { f.Set("custodial_income", "abc") },
		"negative income":    func(f url.Values) { f.Set("non_custodial_income", "-1") },
		"NaN income":         func(f url.Values) { f.Set("custodial_income", "NaN") },
		"missing income":     func(f url.Values) { f.Del("custodial_income") },
		"negative extra":     func(f url.Values) { f.Set("extra_expenses", "-10") },
		"unknown residence":  func(f url.Values) { f.Set("residence", "island") },
		"unknown unit":       func(f url.Values) { f.Set("unit", "usd") },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			form := validForm()
			mutate(form)
			if _, err := parseCalculationForm(newFormRequest(form)); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestCalculateRequestToInput(t *testing.T) {
	req := calculateRequest{
		CustodialIncome:    200,
		NonCustodialIncome: 300,
		ChildrenAges:       []int{5},
		Residence:          "Rural",
		Unit:               "manwon",
	}

	in, err := req.toInput()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if in.CustodialIncome != 2_000_000 || in.NonCustodialIncome != 3_000_000 || in.Residence != support.ResidenceRural {
		t.Fatalf("unexpected input: %+v", in)
	}

	req.ChildrenAges = nil
	if _, err := req.toInput(); err == nil {
		t.Fatalf("expected error for missing children")
	}
}
