package util_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wkalt/dagtree/util"
)

func TestHumanBytes(t *testing.T) {
	cases := []struct {
		assertion string
		input     uint64
		expected  string
	}{
		{"0 bytes", 0, "0 B"},
		{"1 byte", 1, "1 B"},
		{"1 kilobyte", 1024, "1 KB"},
		{"just under a megabyte", 1024*1024 - 1, "1023 KB"},
		{"4 megabytes", 4 * 1024 * 1024, "4 MB"},
	}
	for _, c := range cases {
		t.Run(c.assertion, func(t *testing.T) {
			assert.Equal(t, c.expected, util.HumanBytes(c.input))
		})
	}
}

func TestWhen(t *testing.T) {
	assert.Equal(t, "a", util.When(true, "a", "b"))
	assert.Equal(t, "b", util.When(false, "a", "b"))
}

func TestRatio(t *testing.T) {
	assert.InDelta(t, 0.5, util.Ratio(1, 2), 1e-9)
	assert.Zero(t, util.Ratio(int64(3), 0))
}

func TestOrder(t *testing.T) {
	lo, hi := util.Order(7, 3)
	assert.Equal(t, 3, lo)
	assert.Equal(t, 7, hi)
}
