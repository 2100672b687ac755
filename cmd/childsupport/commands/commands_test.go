package commands

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCalc_Text(t *testing.T) {
	out, err := run(t, "calc", "--custodial", "2000000", "--non-custodial", "2999999", "--age", "5")
	require.NoError(t, err)

	assert.Contains(t, out, "Combined income:     4,999,999")
	assert.Contains(t, out, "age 5: 1,113,000 (3-5)")
	assert.Contains(t, out, "Total support:       1,185,345")
	assert.Contains(t, out, "Non-custodial share: 60.0%")
	assert.Contains(t, out, "Monthly payment:     711,210")
	assert.Contains(t, out, "single child surcharge (6.5%) applied")
}

func TestCalc_JSONWithManwonUnit(t *testing.T) {
	out, err := run(t, "calc", "--unit", "manwon", "--custodial", "400", "--non-custodial", "550",
		"--age", "1", "--age", "10", "--age", "16", "--residence", "rural", "--json")
	require.NoError(t, err)

	var got struct {
		CombinedIncome int64    `json:"combined_income"`
		Payment        int64    `json:"payment"`
		Notes          []string `json:"notes"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, int64(9_500_000), got.CombinedIncome)
	assert.Equal(t, int64(2_414_950), got.Payment)
	assert.Len(t, got.Notes, 2)
}

func TestCalc_RejectsInvalidInput(t *testing.T) {
	_, err := run(t, "calc", "--custodial", "1", "--age", "30")
	assert.Error(t, err)

	_, err = run(t, "calc", "--custodial", "1", "--age", "3", "--residence", "moon")
	assert.Error(t, err)

	_, err = run(t, "calc", "--custodial=-1", "--age", "3")
	assert.Error(t, err)
}

func TestCalc_RequiresAge(t *testing.T) {
	_, err := run(t, "calc", "--custodial", "1")
	assert.Error(t, err)
}

func TestTable(t *testing.T) {
	out, err := run(t, "table")
	require.NoError(t, err)

	assert.Contains(t, out, "12,000,000+")
	assert.Contains(t, out, "15-18")
	assert.Contains(t, out, "2,883,000")
	assert.Contains(t, out, "2021 schedule")
}
