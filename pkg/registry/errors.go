package registry

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrOutOfRange   = errors.New("index out of range")
	ErrInvalidValue = errors.New("value is not a bool")
)

// OutOfRangeError row or view index outside [0, Len)
type OutOfRangeError struct {
	Where string // "registry" or a view name
	Index int
	Len   int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s: index %d out of range [0, %d)", e.Where, e.Index, e.Len)
}

func (e *OutOfRangeError) Is(target error) bool {
	return target == ErrOutOfRange
}

func checkIndex(where string, i, n int) error {
	if i < 0 || i >= n {
		return &OutOfRangeError{Where: where, Index: i, Len: n}
	}
	return nil
}

// toBool converts the values a UI binding may hand over for a checkbox
func toBool(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		r, err := strconv.ParseBool(b)
		if err != nil {
			return false, ErrInvalidValue
		}
		return r, nil
	case int:
		return b != 0, nil
	case int8:
		return b != 0, nil
	case int16:
		return b != 0, nil
	case int32:
		return b != 0, nil
	case int64:
		return b != 0, nil
	case uint:
		return b != 0, nil
	case uint8:
		return b != 0, nil
	case uint16:
		return b != 0, nil
	case uint32:
		return b != 0, nil
	case uint64:
		return b != 0, nil
	case float32:
		return b != 0, nil
	case float64:
		return b != 0, nil
	}
	return false, ErrInvalidValue
}
