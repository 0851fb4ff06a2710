package utils

import (
	"fmt"
	"time"
	_ "time/tzdata"
)

// UK local time, used for pickup times shown to customers and drivers.
var ukLoc = func() *time.Location {
	if loc, err := time.LoadLocation("Europe/London"); err == nil {
		return loc
	}
	return time.UTC
}()

func LocalZone() *time.Location { return ukLoc }

func NowUnixSeconds() int64 { return time.Now().Unix() }

// FromUnixSecondsUK returns zero time if t<=0 to let callers decide how to render.
func FromUnixSecondsUK(t int64) time.Time {
	if t <= 0 {
		return time.Time{}
	}
	return time.Unix(t, 0).In(ukLoc)
}

func FormatRFC3339UK(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(ukLoc).Format(time.RFC3339)
}

// FormatDisplayUK renders e.g. "Mon 02 Jan 2006, 15:04".
func FormatDisplayUK(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(ukLoc).Format("Mon 02 Jan 2006, 15:04")
}

var currencySymbols = map[string]string{
	"GBP": "£",
	"EUR": "€",
	"USD": "$",
}

// FormatMoney renders minor units as e.g. "£12.50".
func FormatMoney(amountMinor int64, currency string) string {
	sign := ""
	if amountMinor < 0 {
		sign = "-"
		amountMinor = -amountMinor
	}
	symbol, ok := currencySymbols[currency]
	if !ok {
		return fmt.Sprintf("%s%d.%02d %s", sign, amountMinor/100, amountMinor%100, currency)
	}
	return fmt.Sprintf("%s%s%d.%02d", sign, symbol, amountMinor/100, amountMinor%100)
}
