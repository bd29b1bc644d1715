package cianparser

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

var errFieldMissing = errors.New("field missing")

// Optional is a numeric listing attribute that may be absent from the page. Absent values are
// stored as the empty string so every document carries every key.
type Optional[T int | float64] struct {
	Value T
	Valid bool
}

func Some[T int | float64](v T) Optional[T] {
	return Optional[T]{Value: v, Valid: true}
}

// optional is the fail-soft combinator for numeric fields: any error upstream yields an absent value.
func optional[T int | float64](v T, err error) Optional[T] {
	if err != nil {
		return Optional[T]{}
	}
	return Some(v)
}

// orDefault is the fail-soft combinator for fields with a zero default.
func orDefault[T any](v T, err error) T {
	if err != nil {
		var zero T
		return zero
	}
	return v
}

func (o Optional[T]) value() interface{} {
	if !o.Valid {
		return ""
	}
	return o.Value
}

func (o Optional[T]) String() string {
	if !o.Valid {
		return ""
	}
	return formatNumber(o.Value)
}

func (o Optional[T]) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(o.value())
}

func (o *Optional[T]) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Int32:
		*o = Some(T(raw.Int32()))
	case bsontype.Int64:
		*o = Some(T(raw.Int64()))
	case bsontype.Double:
		*o = Some(T(raw.Double()))
	default:
		*o = Optional[T]{}
	}
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.value())
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch n := v.(type) {
	case float64:
		*o = Some(T(n))
	case string, nil:
		*o = Optional[T]{}
	default:
		return fmt.Errorf("unexpected optional value %s", string(data))
	}
	return nil
}

func formatNumber(v interface{}) string {
	switch n := v.(type) {
	case int:
		return strconv.Itoa(n)
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// toFloat parses site decimals, which use a comma separator ("62,5").
func toFloat(raw string, err error) (float64, error) {
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(strings.Replace(strings.TrimSpace(raw), ",", ".", 1), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("number %q: %w", raw, errFieldMissing)
	}
	return v, nil
}

func toInt(raw string, err error) (int, error) {
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(raw))
}

// labels maps a block's caption to its value text.
type labels map[string]string

func (l labels) value(label string) (string, error) {
	v, ok := l[label]
	if !ok {
		return "", fmt.Errorf("%q: %w", label, errFieldMissing)
	}
	return v, nil
}

// token returns the i-th whitespace separated token of a label's value.
func (l labels) token(label string, i int) (string, error) {
	v, err := l.value(label)
	if err != nil {
		return "", err
	}
	tokens := strings.Fields(v)
	if i >= len(tokens) {
		return "", fmt.Errorf("%q token %d: %w", label, i, errFieldMissing)
	}
	return tokens[i], nil
}
