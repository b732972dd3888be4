package calculator

import (
	"sync"

	"github.com/holiman/uint256"
)

// Width is the bit width every intermediate value must fit in.
const Width = 128

const BpsDenom uint64 = 10000

var (
	u256BpsDenom = uint256.NewInt(BpsDenom)
	u256One      = uint256.NewInt(1)
)

var uint256Pool = sync.Pool{
	New: func() interface{} {
		return new(uint256.Int)
	},
}

// GetU256 gets a uint256.Int from the pool
func GetU256() *uint256.Int {
	return uint256Pool.Get().(*uint256.Int)
}

// PutU256 returns a uint256.Int to the pool
func PutU256(v *uint256.Int) {
	v.Clear()
	uint256Pool.Put(v)
}

func fits(v *uint256.Int) bool {
	return v.BitLen() <= Width
}

// checkedMul sets out = a * b and fails if the product leaves the 128-bit range.
func checkedMul(a, b, out *uint256.Int) error {
	if _, overflow := out.MulOverflow(a, b); overflow || !fits(out) {
		return ErrMathOverflow
	}
	return nil
}

// checkedAdd sets out = a + b and fails if the sum leaves the 128-bit range.
func checkedAdd(a, b, out *uint256.Int) error {
	if _, overflow := out.AddOverflow(a, b); overflow || !fits(out) {
		return ErrMathOverflow
	}
	return nil
}

func narrow(v *uint256.Int) (uint64, error) {
	if !v.IsUint64() {
		return 0, ErrMathOverflow
	}
	return v.Uint64(), nil
}

// MulDiv performs (a * b) / c with a 256-bit intermediate.
// Returns ErrMathOverflow if c is zero or the quotient does not fit in 64 bits.
func MulDiv(a, b, c uint64) (uint64, error) {
	if c == 0 {
		return 0, ErrMathOverflow
	}
	result := GetU256()
	temp := GetU256()
	defer func() {
		PutU256(result)
		PutU256(temp)
	}()

	result.SetUint64(a)
	temp.SetUint64(b)
	result.Mul(result, temp)
	temp.SetUint64(c)
	result.Div(result, temp)

	return narrow(result)
}
