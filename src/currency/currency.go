package currency

import (
	"math"
	"strings"

	"github.com/sirupsen/logrus"
)

// Converter maps real-money amounts to game currency using a rate table
// loaded once at startup. It is read-only and safe for concurrent use.
type Converter struct {
	rates map[string]float64
}

func New(rates map[string]float64) *Converter {
	normalized := make(map[string]float64, len(rates))
	for code, rate := range rates {
		normalized[strings.ToUpper(code)] = rate
	}
	return &Converter{rates: normalized}
}

// Convert returns floor(amount * rate) for the given currency code. The
// amount is in minor units (kopecks, cents) and the rate multiplies it
// directly, there is no division by 100. An unknown code yields 0; the
// caller is expected to surface that in its result rather than fail.
func (c *Converter) Convert(amount int64, code string) int64 {
	rate, ok := c.rates[strings.ToUpper(code)]
	if !ok || rate == 0 {
		logrus.Warnf("unknown currency %q, using rate=0", code)
		return 0
	}

	return int64(math.Floor(float64(amount) * rate))
}

// Known reports whether a rate is configured for the given code.
func (c *Converter) Known(code string) bool {
	rate, ok := c.rates[strings.ToUpper(code)]
	return ok && rate != 0
}
