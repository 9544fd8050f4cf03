package waybill

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidJSON - ввод не является корректным JSON
	ErrInvalidJSON = errors.New(`invalid JSON format, use: ["waybill1","waybill2"]`)
	// ErrNotArray - JSON корректен, но это не массив
	ErrNotArray = errors.New("waybills must be a valid JSON array")
	// ErrEmptyArray - массив пуст
	ErrEmptyArray = errors.New("array cannot be empty")
	// ErrInvalidElement - элемент массива не является непустой строкой
	ErrInvalidElement = errors.New("all waybills must be non-empty strings")
	// ErrDuplicate - накладная встречается в массиве более одного раза
	ErrDuplicate = errors.New("duplicate waybill in array")
)

// ParseStrictArray разбирает строгий JSON-массив непустых строк.
// Используется там, где список отправляется на сервер одним запросом
// и ошибки ввода должны отклоняться, а не исправляться молча.
func ParseStrictArray(raw string) ([]string, error) {
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return nil, ErrInvalidJSON
	}

	elems, ok := value.([]any)
	if !ok {
		return nil, ErrNotArray
	}
	if len(elems) == 0 {
		return nil, ErrEmptyArray
	}

	ids := make([]string, 0, len(elems))
	seen := make(map[string]int, len(elems))
	for i, elem := range elems {
		s, ok := elem.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return nil, fmt.Errorf("%w: element %d", ErrInvalidElement, i)
		}
		if first, dup := seen[s]; dup {
			return nil, fmt.Errorf("%w: %q at positions %d and %d", ErrDuplicate, s, first, i)
		}
		seen[s] = i
		ids = append(ids, s)
	}

	return ids, nil
}
