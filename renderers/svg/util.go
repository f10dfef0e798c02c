package svg

import (
	"fmt"
	"math"
	"strings"

	"github.com/tdewolff/minify/v2"
)

// precision is the number of significant decimals written for coordinates.
const precision = 3

type dec float64

func (f dec) String() string {
	s := fmt.Sprintf("%.*f", precision, f)
	s = string(minify.Decimal([]byte(s), precision))
	if dec(math.MaxInt32) < f || f < dec(math.MinInt32) {
		if i := strings.IndexByte(s, '.'); i == -1 {
			s += ".0"
		}
	}
	return s
}
