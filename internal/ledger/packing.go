package ledger

import (
	"regexp"

	"github.com/shopspring/decimal"
)

var packingSizePattern = regexp.MustCompile(`\d+(\.\d+)?`)

// ParsePackingSize reads the first number in a packing descriptor such as
// "50ml Vial" or "10 tabs". Descriptors without a positive number count as 1.
func ParsePackingSize(descriptor string) decimal.Decimal {
	match := packingSizePattern.FindString(descriptor)
	if match == "" {
		return decimal.NewFromInt(1)
	}
	size, err := decimal.NewFromString(match)
	if err != nil || !size.IsPositive() {
		return decimal.NewFromInt(1)
	}
	return size
}
