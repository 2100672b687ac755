package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Simplici0/childsupport/internal/logging"
	"github.com/Simplici0/childsupport/internal/support"
)

type calcOptions struct {
	custodial    float64
	nonCustodial float64
	ages         []int
	residence    string
	extra        float64
	unit         string
	asJSON       bool
}

func calcCmd() *cobra.Command {
	var opts calcOptions
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Calculate the non-custodial parent's monthly payment",
		Example: "  childsupport calc --custodial 2000000 --non-custodial 3000000 --age 5\n" +
			"  childsupport calc --unit manwon --custodial 200 --non-custodial 300 --age 1 --age 10 --residence rural",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := opts.input()
			if err != nil {
				return err
			}

			log := logging.For("cli")
			log.WithFields(logrus.Fields{"children": len(in.ChildrenAges), "residence": in.Residence}).Debug("calculating")

			result, err := support.Calculate(in)
			if err != nil {
				return err
			}
			if opts.asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					support.Result
					Notes []string `json:"notes"`
				}{result, result.Notes()})
			}
			printResult(cmd.OutOrStdout(), result)
			return nil
		},
	}

	f := cmd.Flags()
	f.Float64Var(&opts.custodial, "custodial", 0, "custodial parent's monthly pre-tax income")
	f.Float64Var(&opts.nonCustodial, "non-custodial", 0, "non-custodial parent's monthly pre-tax income")
	f.IntSliceVar(&opts.ages, "age", nil, "child age, repeat for each child (1-5 children, ages 0-25)")
	f.StringVar(&opts.residence, "residence", string(support.ResidenceNone), "residence category (none, urban, rural)")
	f.Float64Var(&opts.extra, "extra", 0, "extra monthly expenses such as medical or education costs")
	f.StringVar(&opts.unit, "unit", string(support.UnitWon), "unit of the money flags (won, manwon)")
	f.BoolVar(&opts.asJSON, "json", false, "print the result as JSON")
	_ = cmd.MarkFlagRequired("age")

	return cmd
}

func (o calcOptions) input() (support.Input, error) {
	unit, err := support.ParseUnit(o.unit)
	if err != nil {
		return support.Input{}, err
	}
	residence, err := support.ParseResidence(o.residence)
	if err != nil {
		return support.Input{}, err
	}

	in := support.Input{ChildrenAges: o.ages, Residence: residence}
	if in.CustodialIncome, err = unit.ToWon(o.custodial); err != nil {
		return support.Input{}, fmt.Errorf("--custodial: %w", err)
	}
	if in.NonCustodialIncome, err = unit.ToWon(o.nonCustodial); err != nil {
		return support.Input{}, fmt.Errorf("--non-custodial: %w", err)
	}
	if in.ExtraExpenses, err = unit.ToWon(o.extra); err != nil {
		return support.Input{}, fmt.Errorf("--extra: %w", err)
	}
	return in, in.Validate()
}

func printResult(w io.Writer, r support.Result) {
	fmt.Fprintf(w, "Combined income:     %s\n", humanize.Comma(r.CombinedIncome))
	fmt.Fprintf(w, "Baseline total:      %s\n", humanize.Comma(r.BaseSupportTotal))
	fmt.Fprintf(w, "Eligible children:   %d\n", r.EligibleChildren)
	for _, d := range r.Details {
		fmt.Fprintf(w, "  %s\n", d)
	}
	fmt.Fprintf(w, "Total support:       %s\n", humanize.Comma(r.TotalSupport))
	fmt.Fprintf(w, "Non-custodial share: %.1f%%\n", r.ShareRatioPercent)
	fmt.Fprintf(w, "Monthly payment:     %s\n", humanize.Comma(r.Payment))
	for _, n := range r.Notes() {
		fmt.Fprintf(w, "  - %s\n", n)
	}
}
