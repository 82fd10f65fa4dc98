package brc20

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Amount is a non-negative quantity of a ticker's base units. A ticker's decimals field defines
// how many base units make up one whole token; Amount never carries that scale itself, callers
// must track it alongside the ticker.
type Amount uint64

// MaxDecimals is the largest decimals value a deploy may declare.
const MaxDecimals = 18

var (
	// ErrEmptyAmount is returned by ParseAmount for an empty string.
	ErrEmptyAmount = errors.New("Amount string is empty")

	// ErrInvalidAmount is returned by ParseAmount for a non-numeric string.
	ErrInvalidAmount = errors.New("Amount is not a valid decimal number")

	// ErrNegativeAmount is returned by ParseAmount for a string with a leading '-'.
	ErrNegativeAmount = errors.New("Amount must not be negative")

	// ErrTooManyDecimalPoints is returned by ParseAmount for a string with more than one '.'.
	ErrTooManyDecimalPoints = errors.New("Amount has more than one decimal point")

	// ErrTooManyFractionalDigits is returned when the fractional part has more digits than the
	// ticker's decimals allow.
	ErrTooManyFractionalDigits = errors.New("Amount has more fractional digits than decimals allows")

	// ErrAmountOverflow is returned when the scaled value does not fit in a uint64.
	ErrAmountOverflow = errors.New("Amount overflows base unit representation")

	// ErrInvalidDecimals is returned when a dec field is outside [0, MaxDecimals].
	ErrInvalidDecimals = errors.New("Decimals must be between 0 and 18")
)

// ParseAmount converts a decimal string and a ticker's decimals count into a base-unit integer.
// It never uses floating point: the integer and fractional parts of s are concatenated after
// the fractional part is right-padded with zeros to decimals digits, then parsed as a uint64.
func ParseAmount(s string, decimals uint8) (Amount, error) {
	if len(s) == 0 {
		return 0, ErrEmptyAmount
	}

	if s[0] == '-' {
		return 0, ErrNegativeAmount
	}

	parts := strings.Split(s, ".")
	switch len(parts) {
	case 1:
		// No fractional part.
	case 2:
		// Integer and fractional part.
	default:
		return 0, ErrTooManyDecimalPoints
	}

	integerPart := parts[0]
	fractionalPart := ""
	if len(parts) == 2 {
		fractionalPart = parts[1]
	}

	if len(integerPart) == 0 {
		integerPart = "0"
	}

	if !isAllDigits(integerPart) || (len(fractionalPart) > 0 && !isAllDigits(fractionalPart)) {
		return 0, ErrInvalidAmount
	}

	if len(fractionalPart) > int(decimals) {
		return 0, ErrTooManyFractionalDigits
	}

	fractionalPart = fractionalPart + strings.Repeat("0", int(decimals)-len(fractionalPart))

	combined := integerPart + fractionalPart
	combined = strings.TrimLeft(combined, "0")
	if len(combined) == 0 {
		return 0, nil
	}

	value, err := strconv.ParseUint(combined, 10, 64)
	if err != nil {
		if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
			return 0, ErrAmountOverflow
		}
		return 0, errors.Wrap(ErrInvalidAmount, err.Error())
	}

	return Amount(value), nil
}

// ParseDecimals validates a dec field, defaulting to 18 when s is empty.
func ParseDecimals(s string) (uint8, error) {
	if len(s) == 0 {
		return MaxDecimals, nil
	}

	value, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, errors.Wrap(ErrInvalidDecimals, err.Error())
	}

	if value > MaxDecimals {
		return 0, ErrInvalidDecimals
	}

	return uint8(value), nil
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
