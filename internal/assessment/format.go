package assessment

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// euro formats a whole-euro amount with thousands separators, e.g. €400,000.
func euro(v float64) string {
	n := int64(math.Round(v))
	neg := n < 0
	if neg {
		n = -n
	}
	digits := strconv.FormatInt(n, 10)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	if neg {
		return "-€" + b.String()
	}
	return "€" + b.String()
}

func percent(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}
