// Package waybill извлекает номера накладных из произвольного текста,
// вставленного пользователем: JSON-массивов, списков по строкам и текста
// с markdown-ссылками.
package waybill

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// ErrNoWaybills возвращается, когда во входных данных не найдено ни одной накладной
var ErrNoWaybills = errors.New("no waybills found")

var (
	// [TEXT](URL) -> TEXT
	markdownLinkPattern = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	waybillPattern      = regexp.MustCompile(`[a-zA-Z0-9]{10,}`)
)

// Parse разбирает ввод как JSON-массив, а если это не массив - как список по строкам.
// Порядок сохраняется, пустые значения отбрасываются, дубликаты не удаляются.
func Parse(raw string) []string {
	if ids, ok := parseJSONArray(raw); ok {
		return ids
	}
	return parseLines(raw)
}

// ExtractPatterns извлекает накладные из смешанного текста: убирает разметку
// markdown-ссылок, находит все буквенно-цифровые последовательности длиной от 10
// символов и удаляет дубликаты с сохранением порядка первого появления.
func ExtractPatterns(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}

	cleaned := markdownLinkPattern.ReplaceAllString(raw, "$1")
	return Unique(waybillPattern.FindAllString(cleaned, -1))
}

// Unique удаляет повторы с учетом регистра, сохраняя порядок первого появления
func Unique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}

func parseJSONArray(raw string) ([]string, bool) {
	var value any
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&value); err != nil {
		return nil, false
	}
	elems, ok := value.([]any)
	if !ok {
		return nil, false
	}
	// Весь ввод должен быть одним JSON-значением
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, false
	}

	ids := make([]string, 0, len(elems))
	for _, elem := range elems {
		id := strings.TrimSpace(coerce(elem))
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids, true
}

func parseLines(raw string) []string {
	ids := make([]string, 0)
	for _, line := range strings.Split(raw, "\n") {
		if id := strings.TrimSpace(line); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// coerce приводит элемент JSON-массива к строке так же, как это делает браузер
// при выводе значения: числа без потери разрядов, null как "null",
// вложенные массивы через запятую.
func coerce(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		if val {
			return "true"
		}
		return "false"
	case nil:
		return "null"
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			if item != nil {
				parts[i] = coerce(item)
			}
		}
		return strings.Join(parts, ",")
	case map[string]any:
		return "[object Object]"
	default:
		return fmt.Sprint(val)
	}
}
