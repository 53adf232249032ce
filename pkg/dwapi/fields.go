package dwapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// FieldData is the wire shape of a single index field in a document or
// search-result payload.
type FieldData struct {
	FieldLabel      string          `json:"FieldLabel"`
	FieldName       string          `json:"FieldName"`
	ItemElementName string          `json:"ItemElementName"`
	ReadOnly        bool            `json:"ReadOnly"`
	SystemField     bool            `json:"SystemField"`
	Item            json.RawMessage `json:"Item"`
}

// FieldValue is a decoded index field. Value holds nil, string, int64,
// float64, time.Time, or []string depending on the content type.
type FieldValue struct {
	Name        string
	ID          string
	ContentType string
	ReadOnly    bool
	System      bool
	Value       any
}

func (v *FieldValue) String() string {
	return fmt.Sprintf("%s '%s' [%s] = %v", v.ContentType, v.Name, v.ID, v.Value)
}

// FieldParser decodes the raw Item payload of one content type.
type FieldParser func(data FieldData) (any, error)

// FieldRegistry maps content-type discriminators to parsers. It is built once
// at startup and never mutated afterwards; pass it by reference to whatever
// decodes result items, so initialization order stays deterministic.
type FieldRegistry struct {
	parsers *CIDict[FieldParser]
}

// NewFieldRegistry returns the registry for the platform's standard content
// types: String, Int, Decimal, Date, DateTime and Keywords. Unknown types
// decode to the raw string form of the payload.
func NewFieldRegistry() *FieldRegistry {
	parsers := NewCIDict[FieldParser]()
	parsers.Set("String", parseStringField)
	parsers.Set("Int", parseIntField)
	parsers.Set("Decimal", parseDecimalField)
	parsers.Set("Date", parseDateField)
	parsers.Set("DateTime", parseDateField)
	parsers.Set("Keywords", parseKeywordsField)

	return &FieldRegistry{parsers: parsers}
}

// Parse decodes one field. The content type is matched case-insensitively.
func (r *FieldRegistry) Parse(data FieldData) (*FieldValue, error) {
	field := &FieldValue{
		Name:        data.FieldLabel,
		ID:          data.FieldName,
		ContentType: data.ItemElementName,
		ReadOnly:    data.ReadOnly,
		System:      data.SystemField,
	}

	parser, ok := r.parsers.Get(data.ItemElementName)
	if !ok {
		parser = parseRawField
	}

	value, err := parser(data)
	if err != nil {
		return nil, err
	}

	field.Value = value

	return field, nil
}

func itemEmpty(data FieldData) bool {
	return len(data.Item) == 0 || string(data.Item) == "null"
}

// itemString renders the Item payload as the string the server meant: quoted
// strings are unquoted, everything else is taken verbatim.
func itemString(data FieldData) string {
	var s string
	if err := json.Unmarshal(data.Item, &s); err == nil {
		return s
	}

	return strings.TrimSpace(string(data.Item))
}

func parseRawField(data FieldData) (any, error) {
	if itemEmpty(data) {
		return nil, nil
	}

	return itemString(data), nil
}

func parseStringField(data FieldData) (any, error) {
	if itemEmpty(data) {
		return nil, nil
	}

	return itemString(data), nil
}

func parseIntField(data FieldData) (any, error) {
	if itemEmpty(data) {
		return nil, nil
	}

	raw := itemString(data)

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, &DataError{
			Field:   data.FieldName,
			Message: fmt.Sprintf("value is expected to be of type integer, found %q", raw),
		}
	}

	return n, nil
}

func parseDecimalField(data FieldData) (any, error) {
	if itemEmpty(data) {
		return nil, nil
	}

	raw := itemString(data)

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, &DataError{
			Field:   data.FieldName,
			Message: fmt.Sprintf("value is expected to be of type decimal, found %q", raw),
		}
	}

	return f, nil
}

func parseDateField(data FieldData) (any, error) {
	if itemEmpty(data) {
		return nil, nil
	}

	t, err := ParseDateTime(itemString(data))
	if err != nil {
		dataErr := &DataError{}
		if errors.As(err, &dataErr) {
			return nil, &DataError{Field: data.FieldName, Message: dataErr.Message}
		}

		return nil, err
	}

	if t.IsZero() {
		return nil, nil
	}

	return t, nil
}

func parseKeywordsField(data FieldData) (any, error) {
	if itemEmpty(data) {
		return nil, nil
	}

	var item struct {
		Keyword []string `json:"Keyword"`
	}

	if err := json.Unmarshal(data.Item, &item); err != nil {
		return nil, &DataError{
			Field:   data.FieldName,
			Message: fmt.Sprintf("malformed keywords payload: %v", err),
		}
	}

	if len(item.Keyword) == 0 {
		return nil, nil
	}

	return item.Keyword, nil
}
