package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Cell holds a spreadsheet value that may arrive in JSON as a string, a
// number or null. Bulk uploads are produced from parsed sheets, so the same
// column can carry either form.
type Cell string

// UnmarshalJSON implements json.Unmarshaler.
func (c *Cell) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*c = ""
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*c = Cell(strings.TrimSpace(s))
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return err
		}
		*c = Cell(strconv.FormatBool(b))
	default:
		var n json.Number
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return fmt.Errorf("unsupported cell value %s", trimmed)
		}
		*c = Cell(n.String())
	}
	return nil
}

// String returns the trimmed text of the cell.
func (c Cell) String() string {
	return strings.TrimSpace(string(c))
}

// Empty reports whether the cell carries no text.
func (c Cell) Empty() bool {
	return c.String() == ""
}

// Int parses the cell as an integer. Empty cells are zero and fractional
// values are truncated.
func (c Cell) Int() (int, error) {
	s := c.String()
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	return int(f), nil
}

// Ptr returns nil for empty cells and a pointer to the text otherwise.
func (c Cell) Ptr() *string {
	if c.Empty() {
		return nil
	}
	s := c.String()
	return &s
}
