package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/Simplici0/childsupport/internal/support"
)

const keyPrefix = "childsupport:result:"

// Store is a byte-oriented key/value store with expiry.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Results caches calculation results by input.
type Results struct {
	store Store
	ttl   time.Duration
}

// NewResults returns a result cache on top of store.
func NewResults(store Store, ttl time.Duration) *Results {
	return &Results{store: store, ttl: ttl}
}

// Get returns the cached result for in, if any.
func (r *Results) Get(ctx context.Context, in support.Input) (support.Result, bool, error) {
	data, ok, err := r.store.Get(ctx, Key(in))
	if err != nil || !ok {
		return support.Result{}, false, err
	}
	var result support.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return support.Result{}, false, fmt.Errorf("decode cached result: %w", err)
	}
	return result, true, nil
}

// Set stores result under in.
func (r *Results) Set(ctx context.Context, in support.Input, result support.Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return r.store.Set(ctx, Key(in), data, r.ttl)
}

// Key derives a stable cache key from the calculation input. Child order is
// significant because it determines the order of the detail lines.
func Key(in support.Input) string {
	residence := in.Residence
	if residence == "" {
		residence = support.ResidenceNone
	}

	h := xxhash.New()
	buf := make([]byte, 0, 64)
	buf = strconv.AppendInt(buf, in.CustodialIncome, 10)
	buf = append(buf, '|')
	buf = strconv.AppendInt(buf, in.NonCustodialIncome, 10)
	buf = append(buf, '|')
	for _, age := range in.ChildrenAges {
		buf = strconv.AppendInt(buf, int64(age), 10)
		buf = append(buf, ',')
	}
	buf = append(buf, '|')
	buf = append(buf, string(residence)...)
	buf = append(buf, '|')
	buf = strconv.AppendInt(buf, in.ExtraExpenses, 10)
	_, _ = h.Write(buf)

	return keyPrefix + strconv.FormatUint(h.Sum64(), 16)
}
