package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/childsupport/internal/support"
)

func TestKey(t *testing.T) {
	base := support.Input{
		CustodialIncome:    2_000_000,
		NonCustodialIncome: 3_000_000,
		ChildrenAges:       []int{5, 10},
		ExtraExpenses:      10_000,
	}

	assert.Equal(t, Key(base), Key(base))

	explicitNone := base
	explicitNone.Residence = support.ResidenceNone
	assert.Equal(t, Key(base), Key(explicitNone))

	reordered := base
	reordered.ChildrenAges = []int{10, 5}
	assert.NotEqual(t, Key(base), Key(reordered))

	urban := base
	urban.Residence = support.ResidenceUrban
	assert.NotEqual(t, Key(base), Key(urban))

	moreExtra := base
	moreExtra.ExtraExpenses = 20_000
	assert.NotEqual(t, Key(base), Key(moreExtra))

	assert.Contains(t, Key(base), keyPrefix)
}

func TestResults_RoundTrip(t *testing.T) {
	ctx := context.Background()
	results := NewResults(NewMemory(), time.Minute)
	in := support.Input{
		CustodialIncome:    2_000_000,
		NonCustodialIncome: 3_000_000,
		ChildrenAges:       []int{5, 20},
		Residence:          support.ResidenceUrban,
	}

	_, ok, err := results.Get(ctx, in)
	require.NoError(t, err)
	assert.False(t, ok)

	want, err := support.Calculate(in)
	require.NoError(t, err)
	require.NoError(t, results.Set(ctx, in, want))

	got, ok, err := results.Get(ctx, in)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestResults_CorruptEntry(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	in := support.Input{ChildrenAges: []int{1}}
	require.NoError(t, store.Set(ctx, Key(in), []byte("{not json"), 0))

	_, ok, err := NewResults(store, time.Minute).Get(ctx, in)
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2021, 3, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "short", []byte("a"), time.Second))
	require.NoError(t, m.Set(ctx, "forever", []byte("b"), 0))

	v, ok, err := m.Get(ctx, "short")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("a"), v)

	now = now.Add(time.Second)

	_, ok, _ = m.Get(ctx, "short")
	assert.False(t, ok)
	_, ok, _ = m.Get(ctx, "forever")
	assert.True(t, ok)
	assert.Equal(t, 1, m.Len())
}

func TestMemory_CopiesValue(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	value := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", value, 0))

	value[0] = 'z'

	got, _, _ := m.Get(ctx, "k")
	assert.Equal(t, []byte("abc"), got)
}
