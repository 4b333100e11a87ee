package util

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/shopspring/decimal"
)

// SubunitsPerUnit is the number of satoshis in one bitcoin.
const SubunitsPerUnit = btcutil.SatoshiPerBitcoin

// DisplayPlaces is the fixed scale of display amounts.
const DisplayPlaces = 8

var subunitScale = decimal.NewFromInt(SubunitsPerUnit)

// MaxAmount is the largest amount in BTC, the 21 million coin supply.
var MaxAmount = decimal.New(btcutil.MaxSatoshi, -DisplayPlaces)

// ToSubunits converts a display amount to satoshis. Fractions of a satoshi
// are truncated, never rounded up.
func ToSubunits(amount decimal.Decimal) btcutil.Amount {
	return btcutil.Amount(amount.Mul(subunitScale).Truncate(0).IntPart())
}

// ToDecimal converts satoshis to a display amount.
func ToDecimal(amount btcutil.Amount) decimal.Decimal {
	return decimal.New(int64(amount), -DisplayPlaces)
}

// FormatBTC renders satoshis as a fixed 8-place BTC string.
func FormatBTC(amount btcutil.Amount) string {
	return ToDecimal(amount).StringFixed(DisplayPlaces)
}

// ParseAmount parses a bitcoin amount with an optional unit suffix
// (e.g. "1.5", "1.5btc", "250mbtc", "10ubtc", "10000sat") into BTC.
func ParseAmount(amount string) (decimal.Decimal, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return decimal.Zero, fmt.Errorf("amount cannot be empty")
	}

	// Default unit is BTC if no unit specified
	unit := "btc"
	value := amount

	lowerAmount := strings.ToLower(amount)
	for _, u := range []string{"satoshis", "satoshi", "sats", "sat", "mbtc", "ubtc", "btc"} {
		if strings.HasSuffix(lowerAmount, u) {
			unit = u
			value = strings.TrimSpace(amount[:len(amount)-len(u)])
			break
		}
	}

	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount format: %s", amount)
	}

	var exp int32
	switch unit {
	case "btc":
		exp = 0
	case "mbtc":
		exp = -3
	case "ubtc":
		exp = -6
	case "sat", "sats", "satoshi", "satoshis":
		exp = -DisplayPlaces
	default:
		return decimal.Zero, fmt.Errorf("unsupported unit: %s", unit)
	}

	btc := parsed.Shift(exp)
	if !btc.Equal(btc.Truncate(DisplayPlaces)) {
		return decimal.Zero, fmt.Errorf("amount %s has more precision than 1 satoshi", amount)
	}
	if btc.GreaterThan(MaxAmount) {
		return decimal.Zero, fmt.Errorf("amount %s exceeds the %s BTC supply", amount, MaxAmount)
	}
	return btc, nil
}
