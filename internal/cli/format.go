package cli

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.English)

// percent renders a vested fraction such as 0.125 as "12.5%".
func percent(fraction float64) string {
	return printer.Sprint(number.Percent(fraction, number.MaxFractionDigits(2)))
}

// grouped renders an integer with thousands separators.
func grouped(n int64) string {
	return printer.Sprint(number.Decimal(n))
}

func formatUnix(sec int64) string {
	return time.Unix(sec, 0).UTC().Format(time.RFC3339)
}
