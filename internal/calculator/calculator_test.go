package calculator

import (
	"errors"
	"math"
	"math/big"
	"testing"
)

func TestAmountOut(t *testing.T) {
	tests := []struct {
		name       string
		amountIn   uint64
		reserveIn  uint64
		reserveOut uint64
		feeBps     uint16
		want       uint64
		wantErr    error
	}{
		{"no fee", 100, 1000, 1000, 0, 90, nil},
		{"zero input", 0, 1000, 1000, 25, 0, nil},
		{"zero reserve in", 100, 0, 1000, 25, 0, ErrInvalidReserves},
		{"zero reserve out", 100, 1000, 0, 25, 0, ErrInvalidReserves},
		{"full fee", 100, 1000, 1000, 10000, 0, nil},
		{"fee above 100%", 100, 1000, 1000, 10001, 0, ErrInvalidFee},
		{"intermediate overflow", math.MaxUint64, 1, math.MaxUint64, 0, 0, ErrMathOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AmountOut(tt.amountIn, tt.reserveIn, tt.reserveOut, tt.feeBps)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("AmountOut() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("AmountOut() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAmountOutWithFee(t *testing.T) {
	// 1000 SOL / 50000 USDC, swap 1 SOL at 25 bps
	out, err := AmountOut(1_000_000_000, 1_000_000_000_000, 50_000_000_000, 25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out <= 49_800_000 || out >= 49_900_000 {
		t.Errorf("AmountOut() = %d, want within (49.8M, 49.9M)", out)
	}
}

func TestAmountOutMatchesBigIntReference(t *testing.T) {
	cases := [][4]uint64{
		{1_000_000, 1_000_000_000, 50_000_000_000, 25},
		{123_456_789, 987_654_321, 13_579_246_801, 30},
		{math.MaxUint32, math.MaxUint32, math.MaxUint64 / 20000, 100},
		{1, 1, 1, 0},
	}

	for _, c := range cases {
		got, err := AmountOut(c[0], c[1], c[2], uint16(c[3]))
		if err != nil {
			t.Fatalf("AmountOut(%v) error: %v", c, err)
		}

		inAfterFee := new(big.Int).Mul(new(big.Int).SetUint64(c[0]), big.NewInt(int64(10000-c[3])))
		num := new(big.Int).Mul(inAfterFee, new(big.Int).SetUint64(c[2]))
		den := new(big.Int).Mul(new(big.Int).SetUint64(c[1]), big.NewInt(10000))
		den.Add(den, inAfterFee)
		want := num.Div(num, den).Uint64()

		if got != want {
			t.Errorf("AmountOut(%v) = %d, want %d", c, got, want)
		}
	}
}

func TestAmountOutBelowReserve(t *testing.T) {
	reserves := [][2]uint64{
		{1_000_000, 1_000_000},
		{1_000_000, 999_999_999},
		{999_999_999, 1_000_000},
		{1_000_000_000, 50_000_000_000},
	}
	inputs := []uint64{1, 999, 1_000_000, 1_000_000_000, math.MaxUint64 / 10000}
	fees := []uint16{0, 25, 30, 499}

	for _, r := range reserves {
		for _, in := range inputs {
			for _, fee := range fees {
				out, err := AmountOut(in, r[0], r[1], fee)
				if err != nil {
					t.Fatalf("AmountOut(%d, %d, %d, %d) error: %v", in, r[0], r[1], fee, err)
				}
				if out >= r[1] {
					t.Errorf("AmountOut(%d, %d, %d, %d) = %d, must stay below reserve", in, r[0], r[1], fee, out)
				}
			}
		}
	}
}

func TestAmountOutMonotonic(t *testing.T) {
	const reserveIn, reserveOut = 1_000_000_000, 50_000_000_000

	for _, fee := range []uint16{0, 10, 25, 30} {
		prev, err := AmountOut(1, reserveIn, reserveOut, fee)
		if err != nil {
			t.Fatal(err)
		}
		for in := uint64(2); in <= 10_000_000; in = in*3 + 1 {
			out, err := AmountOut(in, reserveIn, reserveOut, fee)
			if err != nil {
				t.Fatal(err)
			}
			if out <= prev {
				t.Fatalf("fee %d: output not increasing at input %d: %d <= %d", fee, in, out, prev)
			}
			next, _ := AmountOut(in+1, reserveIn, reserveOut, fee)
			if next <= out {
				t.Fatalf("fee %d: output not increasing from %d to %d", fee, in, in+1)
			}
			prev = out
		}
	}
}

func TestAmountInRoundTrip(t *testing.T) {
	const reserveIn, reserveOut = 1_000_000_000, 50_000_000_000

	for _, fee := range []uint16{0, 25, 30, 100} {
		for x := uint64(1); x <= 10_000_000; x = x*7 + 3 {
			out, err := AmountOut(x, reserveIn, reserveOut, fee)
			if err != nil {
				t.Fatal(err)
			}
			back, err := AmountIn(out, reserveIn, reserveOut, fee)
			if err != nil {
				t.Fatal(err)
			}
			if back < x {
				t.Errorf("fee %d: AmountIn(AmountOut(%d)) = %d, want >= %d", fee, x, back, x)
			}
		}
	}
}

func TestAmountInCoversRequestedOutput(t *testing.T) {
	cases := [][3]uint64{
		{1_000_000, 50_000_000, 1_000_000},
		{1_000_000, 50_000_000, 24_999_999},
		{50_000_000, 1_000_000, 1},
		{777_777, 777_777, 388_888},
	}

	for _, c := range cases {
		for _, fee := range []uint16{0, 25, 499} {
			in, err := AmountIn(c[2], c[0], c[1], fee)
			if err != nil {
				t.Fatalf("AmountIn(%v, fee %d) error: %v", c, fee, err)
			}
			out, err := AmountOut(in, c[0], c[1], fee)
			if err != nil {
				t.Fatalf("AmountOut error: %v", err)
			}
			if out < c[2] {
				t.Errorf("AmountOut(AmountIn(%d)) = %d, want >= %d", c[2], out, c[2])
			}
		}
	}
}

func TestAmountInErrors(t *testing.T) {
	tests := []struct {
		name       string
		amountOut  uint64
		reserveIn  uint64
		reserveOut uint64
		feeBps     uint16
		wantErr    error
	}{
		{"zero reserve", 10, 0, 1000, 25, ErrInvalidReserves},
		{"drain reserve", 50_000_000, 1_000_000, 50_000_000, 25, ErrInsufficientLiquidity},
		{"beyond reserve", 60_000_000, 1_000_000, 50_000_000, 25, ErrInsufficientLiquidity},
		{"intermediate overflow", math.MaxUint64 - 1, math.MaxUint64, math.MaxUint64, 0, ErrMathOverflow},
		{"narrowing overflow", 1<<40 - 1, 1 << 40, 1 << 40, 0, ErrMathOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AmountIn(tt.amountOut, tt.reserveIn, tt.reserveOut, tt.feeBps)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("AmountIn() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	got, err := AmountIn(0, 1000, 1000, 25)
	if err != nil || got != 0 {
		t.Errorf("AmountIn(0) = %d, %v, want 0, nil", got, err)
	}
}

func TestConstantProductInvariantWithoutFee(t *testing.T) {
	reserveIn := big.NewInt(1_000_000)
	reserveOut := big.NewInt(50_000_000)
	k := new(big.Int).Mul(reserveIn, reserveOut)
	tolerance := new(big.Int).Div(k, big.NewInt(1000))

	for _, in := range []uint64{1, 10_000, 333_333, 1_000_000, 7_000_000} {
		out, err := AmountOut(in, reserveIn.Uint64(), reserveOut.Uint64(), 0)
		if err != nil {
			t.Fatal(err)
		}

		newIn := new(big.Int).Add(reserveIn, new(big.Int).SetUint64(in))
		newOut := new(big.Int).Sub(reserveOut, new(big.Int).SetUint64(out))
		kAfter := new(big.Int).Mul(newIn, newOut)

		if kAfter.Cmp(k) < 0 {
			t.Errorf("input %d: k decreased from %s to %s", in, k, kAfter)
		}
		if diff := new(big.Int).Sub(kAfter, k); diff.Cmp(tolerance) >= 0 {
			t.Errorf("input %d: k drift %s exceeds 0.1%%", in, diff)
		}
	}
}

func TestPriceImpactBps(t *testing.T) {
	tests := []struct {
		name                                     string
		amountIn, amountOut, reserveIn, reserveOut uint64
		want                                     uint16
	}{
		{"exact", 100, 90, 1000, 1000, 1000},
		{"zero input", 0, 90, 1000, 1000, 0},
		{"zero reserve", 100, 90, 0, 1000, 0},
		{"better than spot clamps", 100, 200, 1000, 1000, 0},
		{"no output", 100, 0, 1000, 1000, 10000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PriceImpactBps(tt.amountIn, tt.amountOut, tt.reserveIn, tt.reserveOut)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("PriceImpactBps() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPriceImpactGrowsWithSize(t *testing.T) {
	const reserveIn, reserveOut = 1_000_000, 50_000_000

	small, _ := AmountOut(1_000, reserveIn, reserveOut, 25)
	smallImpact, err := PriceImpactBps(1_000, small, reserveIn, reserveOut)
	if err != nil {
		t.Fatal(err)
	}
	if smallImpact >= 100 {
		t.Errorf("small swap impact = %d bps, want < 100", smallImpact)
	}

	large, _ := AmountOut(100_000, reserveIn, reserveOut, 25)
	largeImpact, err := PriceImpactBps(100_000, large, reserveIn, reserveOut)
	if err != nil {
		t.Fatal(err)
	}
	if largeImpact <= 100 {
		t.Errorf("large swap impact = %d bps, want > 100", largeImpact)
	}
}

func TestMulDiv(t *testing.T) {
	got, err := MulDiv(math.MaxUint64, 9_900, 10_000)
	if err != nil {
		t.Fatal(err)
	}
	want := new(big.Int).Mul(new(big.Int).SetUint64(math.MaxUint64), big.NewInt(9_900))
	want.Div(want, big.NewInt(10_000))
	if got != want.Uint64() {
		t.Errorf("MulDiv() = %d, want %s", got, want)
	}

	if _, err := MulDiv(1, 1, 0); !errors.Is(err, ErrMathOverflow) {
		t.Errorf("MulDiv() by zero error = %v", err)
	}
	if _, err := MulDiv(math.MaxUint64, 2, 1); !errors.Is(err, ErrMathOverflow) {
		t.Errorf("MulDiv() narrowing error = %v", err)
	}
}

func BenchmarkAmountOut(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = AmountOut(1_000_000, 1_000_000_000, 50_000_000_000, 25)
	}
}
