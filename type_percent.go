package investstat

import (
	"fmt"
	"math"
)

type Percent float64

func (p Percent) IsNaN() bool { return math.IsNaN(float64(p)) }

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	if p.IsNaN() || q.IsNaN() {
		return p.IsNaN() == q.IsNaN()
	}
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	if p.IsNaN() {
		return "-"
	}
	return fmt.Sprintf("%.2f %%", float64(p))
}

func (p Percent) SignedString() string {
	if p.IsNaN() {
		return "-"
	}
	res := fmt.Sprintf("%+.2f %%", float64(p))
	if res == "+0.00 %" {
		return "-"
	}
	return res
}
