// Package calculator implements constant-product AMM pricing in checked
// fixed-point integer math. Intermediates are bounded to 128 bits.
package calculator

// AmountOut returns the output of swapping amountIn against a constant-product
// pool, with the fee taken from the input side:
//
//	inAfterFee = amountIn * (10000 - feeBps)
//	amountOut  = inAfterFee * reserveOut / (reserveIn * 10000 + inAfterFee)
func AmountOut(amountIn, reserveIn, reserveOut uint64, feeBps uint16) (uint64, error) {
	if reserveIn == 0 || reserveOut == 0 {
		return 0, ErrInvalidReserves
	}
	if amountIn == 0 {
		return 0, nil
	}
	if uint64(feeBps) > BpsDenom {
		return 0, ErrInvalidFee
	}

	inAfterFee := GetU256()
	numerator := GetU256()
	denominator := GetU256()
	temp := GetU256()
	defer func() {
		PutU256(inAfterFee)
		PutU256(numerator)
		PutU256(denominator)
		PutU256(temp)
	}()

	inAfterFee.SetUint64(amountIn)
	temp.SetUint64(BpsDenom - uint64(feeBps))
	if err := checkedMul(inAfterFee, temp, inAfterFee); err != nil {
		return 0, err
	}

	temp.SetUint64(reserveOut)
	if err := checkedMul(inAfterFee, temp, numerator); err != nil {
		return 0, err
	}

	temp.SetUint64(reserveIn)
	if err := checkedMul(temp, u256BpsDenom, denominator); err != nil {
		return 0, err
	}
	if err := checkedAdd(denominator, inAfterFee, denominator); err != nil {
		return 0, err
	}
	if denominator.IsZero() {
		return 0, ErrMathOverflow
	}

	numerator.Div(numerator, denominator)
	return narrow(numerator)
}

// PriceImpactBps measures how far the realised rate amountOut/amountIn falls
// below the spot rate reserveOut/reserveIn, in basis points. Degenerate inputs
// yield 0, as does a realised rate above spot.
func PriceImpactBps(amountIn, amountOut, reserveIn, reserveOut uint64) (uint16, error) {
	if reserveIn == 0 || reserveOut == 0 || amountIn == 0 {
		return 0, nil
	}

	numerator := GetU256()
	denominator := GetU256()
	temp := GetU256()
	defer func() {
		PutU256(numerator)
		PutU256(denominator)
		PutU256(temp)
	}()

	numerator.SetUint64(amountOut)
	temp.SetUint64(reserveIn)
	if err := checkedMul(numerator, temp, numerator); err != nil {
		return 0, err
	}

	denominator.SetUint64(amountIn)
	temp.SetUint64(reserveOut)
	if err := checkedMul(denominator, temp, denominator); err != nil {
		return 0, err
	}
	if denominator.IsZero() {
		return 0, nil
	}

	if err := checkedMul(numerator, u256BpsDenom, numerator); err != nil {
		return 0, err
	}
	ratio := numerator.Div(numerator, denominator)

	if ratio.Cmp(u256BpsDenom) > 0 {
		return 0, nil
	}
	return uint16(BpsDenom - ratio.Uint64()), nil
}

// AmountIn is the inverse of AmountOut. It rounds the required input up so
// that AmountOut(AmountIn(x)) >= x.
//
//	amountIn = reserveIn * amountOut * 10000 / ((reserveOut - amountOut) * (10000 - feeBps)) + 1
func AmountIn(amountOut, reserveIn, reserveOut uint64, feeBps uint16) (uint64, error) {
	if reserveIn == 0 || reserveOut == 0 {
		return 0, ErrInvalidReserves
	}
	if amountOut == 0 {
		return 0, nil
	}
	if amountOut >= reserveOut {
		return 0, ErrInsufficientLiquidity
	}
	if uint64(feeBps) >= BpsDenom {
		// a 100% fee leaves nothing to price against
		return 0, ErrInvalidFee
	}

	numerator := GetU256()
	denominator := GetU256()
	temp := GetU256()
	defer func() {
		PutU256(numerator)
		PutU256(denominator)
		PutU256(temp)
	}()

	numerator.SetUint64(reserveIn)
	temp.SetUint64(amountOut)
	if err := checkedMul(numerator, temp, numerator); err != nil {
		return 0, err
	}
	if err := checkedMul(numerator, u256BpsDenom, numerator); err != nil {
		return 0, err
	}

	denominator.SetUint64(reserveOut - amountOut)
	temp.SetUint64(BpsDenom - uint64(feeBps))
	if err := checkedMul(denominator, temp, denominator); err != nil {
		return 0, err
	}

	numerator.Div(numerator, denominator)
	if err := checkedAdd(numerator, u256One, numerator); err != nil {
		return 0, err
	}
	return narrow(numerator)
}
