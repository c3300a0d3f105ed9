package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		in   string
		want Quantity
	}{
		{"3", 30_000},
		{"3.5", 35_000},
		{"0.0001", 1},
		{"-1.25", -12_500},
		{"+2", 20_000},
		{"1.23456", 12_345},
		{".5", 5_000},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseQuantity(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "abc", "-", ".", "1.-5", "1.+5", "--5", "+-5", "1.2.3", "1 000"} {
		_, err := ParseQuantity(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseQuantity_Range(t *testing.T) {
	got, err := ParseQuantity("922337203685476.9999")
	require.NoError(t, err)
	assert.Equal(t, MaxQuantity, got)

	got, err = ParseQuantity("-922337203685476.9999")
	require.NoError(t, err)
	assert.Equal(t, -MaxQuantity, got)

	for _, bad := range []string{
		"922337203685477",
		"922337203685478",
		"-922337203685478",
		"1844674407370955.1617",
		"99999999999999999999",
	} {
		_, err := ParseQuantity(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseQuantity_Exponent(t *testing.T) {
	tests := []struct {
		in   string
		want Quantity
	}{
		{"1.5e3", NewQuantityFromInt(1500)},
		{"-2E1", NewQuantityFromInt(-20)},
		{"1e-4", 1},
		{"1e-5", 0},
		{"5e-2147483648", 0},
		{"0e999999999", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseQuantity(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"1e15", "-1e16", "1e2147483647", "1e"} {
		_, err := ParseQuantity(bad)
		assert.Error(t, err, bad)
	}
}

func TestQuantity_UnmarshalRejectsOverflow(t *testing.T) {
	var q Quantity
	assert.Error(t, json.Unmarshal([]byte("1844674407370955.1617"), &q))
	assert.Error(t, json.Unmarshal([]byte(`"1.-5"`), &q))
	assert.Error(t, json.Unmarshal([]byte("1e300"), &q))
}

func TestQuantity_CheckedArithmetic(t *testing.T) {
	sum, ok := NewQuantityFromInt(2).CheckedAdd(NewQuantityFromInt(3))
	assert.True(t, ok)
	assert.Equal(t, NewQuantityFromInt(5), sum)

	sum, ok = MaxQuantity.CheckedAdd(1)
	assert.False(t, ok)
	assert.Equal(t, MaxQuantity, sum)

	sum, ok = (-MaxQuantity).CheckedAdd(-1)
	assert.False(t, ok)
	assert.Equal(t, -MaxQuantity, sum)

	diff, ok := NewQuantityFromInt(1).CheckedSub(NewQuantityFromInt(4))
	assert.True(t, ok)
	assert.Equal(t, NewQuantityFromInt(-3), diff)

	diff, ok = Quantity(0).CheckedSub(MaxQuantity)
	assert.True(t, ok)
	assert.Equal(t, -MaxQuantity, diff)

	diff, ok = (-MaxQuantity).CheckedSub(1)
	assert.False(t, ok)
	assert.Equal(t, -MaxQuantity, diff)
}

func TestQuantity_JSON(t *testing.T) {
	q := NewQuantityFromInt(7)
	b, err := json.Marshal(q)
	require.NoError(t, err)
	assert.Equal(t, "7.0000", string(b))

	var fromNumber, fromString Quantity
	require.NoError(t, json.Unmarshal([]byte("2.5"), &fromNumber))
	require.NoError(t, json.Unmarshal([]byte(`"2.5"`), &fromString))
	assert.Equal(t, NewQuantityFromFloat64(2.5), fromNumber)
	assert.Equal(t, fromNumber, fromString)

	assert.Equal(t, "-0.5000", Quantity(-5_000).String())
}

func TestMulMoney(t *testing.T) {
	got := MulMoney(NewQuantityFromFloat64(2.5), MustMoney("10.10"))
	assert.True(t, got.Equal(MustMoney("25.25")), got.String())
}
