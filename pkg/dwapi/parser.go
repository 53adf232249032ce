package dwapi

import (
	"fmt"
	"strings"
	"unicode"
)

// Parser states for ParseContentDisposition.
const (
	cdStateLeadingSpace = iota
	cdStateType
	cdStateSeparator
	cdStateKey
	cdStateValueDispatch
	cdStateBareValue
	cdStateQuotedValue
	cdStateExpectSemicolon
)

func isAlnum(ch rune) bool {
	return unicode.IsLetter(ch) || unicode.IsDigit(ch)
}

func trimRightSpace(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}

// ParseContentDisposition parses an HTTP Content-Disposition style header
// value, for example 'attachment; filename="filename.jpg"', into a table
// {type: "attachment", filename: "filename.jpg"}. The synthetic "type" entry
// holds the leading type token.
//
// The grammar is deliberately lenient where real servers are sloppy: an empty
// input yields an empty table, an empty value ('name=') is kept as "", and a
// quoted value left unterminated at end of input is accepted with whatever
// was captured. A parameter name that is not a run of alphanumerics (for
// example 'name==""') is a syntax error wrapping ErrHeaderSyntax.
func ParseContentDisposition(text string) (*CIDict[string], error) {
	fields := NewCIDict[string]()
	reader := NewCharReader(text)
	state := cdStateLeadingSpace

	var key, value string

	for {
		ch, ok := reader.Get()

		switch state {
		case cdStateLeadingSpace:
			switch {
			case !ok:
				return fields, nil
			case unicode.IsSpace(ch):
			default:
				reader.Unget(ch)

				value = ""
				state = cdStateType
			}

		case cdStateType:
			switch {
			case !ok:
				fields.Set("type", trimRightSpace(value))

				return fields, nil
			case ch == ';':
				fields.Set("type", trimRightSpace(value))

				state = cdStateSeparator
			default:
				value += string(ch)
			}

		case cdStateSeparator:
			switch {
			case !ok:
				return fields, nil
			case unicode.IsSpace(ch) || ch == ';':
			case isAlnum(ch):
				reader.Unget(ch)

				key = ""
				value = ""
				state = cdStateKey
			default:
				return nil, fmt.Errorf("%w: unexpected %q before parameter name", ErrHeaderSyntax, ch)
			}

		case cdStateKey:
			switch {
			case ok && ch == '=':
				state = cdStateValueDispatch
			case ok && isAlnum(ch):
				key += string(ch)
			case !ok:
				return nil, fmt.Errorf("%w: parameter %q has no value", ErrHeaderSyntax, key)
			default:
				return nil, fmt.Errorf("%w: unexpected %q in parameter name", ErrHeaderSyntax, ch)
			}

		case cdStateValueDispatch:
			switch {
			case !ok:
				fields.Set(key, value)

				return fields, nil
			case ch == ';':
				fields.Set(key, value)

				state = cdStateSeparator
			case ch == '"':
				state = cdStateQuotedValue
			case unicode.IsSpace(ch):
			default:
				reader.Unget(ch)

				state = cdStateBareValue
			}

		case cdStateBareValue:
			switch {
			case !ok:
				fields.Set(key, value)

				return fields, nil
			case unicode.IsSpace(ch), ch == ';':
				fields.Set(key, value)

				state = cdStateSeparator
			default:
				value += string(ch)
			}

		case cdStateQuotedValue:
			switch {
			case !ok:
				// Missing closing quote; keep what was captured.
				fields.Set(key, value)

				return fields, nil
			case ch == '"':
				fields.Set(key, value)

				state = cdStateExpectSemicolon
			default:
				value += string(ch)
			}

		case cdStateExpectSemicolon:
			switch {
			case !ok:
				return fields, nil
			case ch == ';':
				state = cdStateSeparator
			case unicode.IsSpace(ch):
			default:
				return nil, fmt.Errorf("%w: expected ';', found %q", ErrHeaderSyntax, ch)
			}
		}
	}
}

// Parser states for ParseSearchCondition.
const (
	scStateBeforeField = iota
	scStateField
	scStateAfterField
	scStateBeforeValue
	scStateBareValue
	scStateQuotedValue
	scStateAfterValue
)

// ParseSearchCondition parses a search condition of the form
//
//	fieldname=value1,value2
//	fieldname="value 1","value 2"
//
// into the field name and its list of values. Bare values are right-trimmed
// and end at ',' or end of input; quoted values keep whitespace and commas
// literally and support backslash-escaping of any character. A trailing comma
// contributes no empty value. An empty input yields ("", nil); a bare
// fieldname with no '=' yields the fieldname with no values — callers
// validate field names one layer up (see ConditionResolver).
func ParseSearchCondition(text string) (string, []string, error) {
	reader := NewCharReader(text)
	state := scStateBeforeField

	var (
		fieldname string
		value     string
		values    []string
	)

	for {
		ch, ok := reader.Get()

		switch state {
		case scStateBeforeField:
			switch {
			case !ok:
				return fieldname, values, nil
			case unicode.IsSpace(ch):
			default:
				reader.Unget(ch)

				value = ""
				state = scStateField
			}

		case scStateField:
			switch {
			case !ok:
				fieldname = value

				return fieldname, values, nil
			case ch == '=' || unicode.IsSpace(ch):
				reader.Unget(ch)

				fieldname = value
				state = scStateAfterField
			default:
				value += string(ch)
			}

		case scStateAfterField:
			switch {
			case !ok:
				return fieldname, values, nil
			case unicode.IsSpace(ch):
			case ch == '=':
				state = scStateBeforeValue
			default:
				return "", nil, fmt.Errorf("%w: unexpected character %q", ErrConditionSyntax, ch)
			}

		case scStateBeforeValue:
			value = ""

			switch {
			case !ok:
				return fieldname, values, nil
			case unicode.IsSpace(ch):
			case ch == '"':
				state = scStateQuotedValue
			case ch == '\\':
				state = scStateBareValue
			default:
				reader.Unget(ch)

				state = scStateBareValue
			}

		case scStateBareValue:
			switch {
			case !ok, ch == ',':
				value = trimRightSpace(value)
				state = scStateAfterValue
			default:
				value += string(ch)
			}

		case scStateQuotedValue:
			switch {
			case !ok, ch == '"':
				state = scStateAfterValue
			case ch == '\\':
				if esc, escOK := reader.Get(); escOK {
					value += string(esc)
				}
			default:
				value += string(ch)
			}

		case scStateAfterValue:
			if value != "" {
				values = append(values, value)
				value = ""
			}

			if !ok {
				return fieldname, values, nil
			}

			// This rune belongs to the next value.
			reader.Unget(ch)

			state = scStateBeforeValue
		}
	}
}
