package pgtask

import (
	"fmt"
	"strings"
)

// Mask describes the row cardinality a query expects. Masks combine
// with |, except One|Many which is contradictory and rejected.
type Mask int

const (
	// One expects exactly one row, resolved as the row itself.
	One Mask = 1
	// Many expects one or more rows, resolved as a row slice.
	Many Mask = 2
	// None expects no rows.
	None Mask = 4

	// Any places no expectation on the result shape.
	Any = Many | None
)

const maskMax = One | Many | None

// validate rejects masks outside [1,6] and the One|Many combination.
func (m Mask) validate() error {
	if m < One || m > maskMax {
		return fmt.Errorf("%w: %d is out of range", ErrInvalidMask, int(m))
	}
	if m&One != 0 && m&Many != 0 {
		return fmt.Errorf("%w: one and many are mutually exclusive", ErrInvalidMask)
	}
	return nil
}

func (m Mask) String() string {
	if m == 0 {
		return "unset"
	}
	var parts []string
	if m&One != 0 {
		parts = append(parts, "one")
	}
	if m&Many != 0 {
		parts = append(parts, "many")
	}
	if m&None != 0 {
		parts = append(parts, "none")
	}
	if len(parts) == 0 {
		return fmt.Sprintf("invalid(%d)", int(m))
	}
	return strings.Join(parts, "|")
}
