package stars

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/tdewolff/parse/v2"
)

// Parse errors, a *ParseError unwraps to one of these.
var (
	ErrMissingColon    = errors.New("missing colon")
	ErrInvalidYear     = errors.New("invalid year")
	ErrWrongDayCount   = errors.New("wrong day count")
	ErrInvalidDayValue = errors.New("invalid day value")
)

// ParseError is the first malformed line encountered by the parser.
type ParseError struct {
	Kind    error
	Line    int    // 1-based
	Column  int    // 1-based, in bytes
	Context string // offending line with a caret under the column
	Text    string // offending token, or the whole line for ErrMissingColon
	Day     int    // 1-based, only for ErrInvalidDayValue
	Count   int    // number of days found, only for ErrWrongDayCount
}

func (e *ParseError) Error() string {
	var detail string
	switch e.Kind {
	case ErrWrongDayCount:
		detail = fmt.Sprintf("%d days, expected %d", e.Count, NumDays)
	case ErrInvalidDayValue:
		detail = fmt.Sprintf("day %d is %q, must be 0, 1, or 2", e.Day, e.Text)
	default:
		detail = strconv.Quote(e.Text)
	}
	return fmt.Sprintf("%v on line %d and column %d: %s", e.Kind, e.Line, e.Column, detail)
}

func (e *ParseError) Unwrap() error {
	return e.Kind
}

// Parse parses star data with one year per line in the form `<year>: <d1>,<d2>,...,<d25>` where each day is 0, 1, or 2. Blank lines are skipped. Parsing stops at the first malformed line.
func Parse(r io.Reader) (*Data, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read stars: %w", err)
	}
	return parseBytes(b)
}

// ParseString parses star data from a string, see Parse.
func ParseString(s string) (*Data, error) {
	return parseBytes([]byte(s))
}

// MustParseString parses star data and panics on error.
func MustParseString(s string) *Data {
	data, err := ParseString(s)
	if err != nil {
		panic(err)
	}
	return data
}

type parser struct {
	b     []byte
	line  int
	start int // offset of the current line in b
}

func parseBytes(b []byte) (*Data, error) {
	p := &parser{b: b}
	data := &Data{}
	for p.start < len(b) {
		end := p.start
		for end < len(b) && b[end] != '\n' && b[end] != '\r' {
			end++
		}
		next := end
		if next < len(b) {
			if b[next] == '\r' && next+1 < len(b) && b[next+1] == '\n' {
				next += 2
			} else {
				next++
			}
		}
		p.line++

		line := string(b[p.start:end])
		if strings.TrimSpace(line) != "" {
			year, err := p.parseLine(line)
			if err != nil {
				return nil, err
			}
			data.Years = append(data.Years, year)
		}
		p.start = next
	}
	return data, nil
}

func (p *parser) parseLine(s string) (Year, error) {
	colon := strings.IndexByte(s, ':')
	if colon == -1 {
		return Year{}, p.error(ErrMissingColon, leading(s, 0), s)
	}

	yearPart := s[:colon]
	year, err := strconv.Atoi(strings.TrimSpace(yearPart))
	if err != nil {
		return Year{}, p.error(ErrInvalidYear, leading(yearPart, 0), yearPart)
	}

	tokens := strings.Split(s[colon+1:], ",")
	if len(tokens) != NumDays {
		perr := p.error(ErrWrongDayCount, colon+1, s[colon+1:])
		perr.Count = len(tokens)
		return Year{}, perr
	}

	y := Year{Year: year}
	pos := colon + 1
	for i, token := range tokens {
		v, err := strconv.Atoi(strings.TrimSpace(token))
		if err != nil || v < int(None) || int(Gold) < v {
			perr := p.error(ErrInvalidDayValue, leading(token, pos), strings.TrimSpace(token))
			perr.Day = i + 1
			return Year{}, perr
		}
		y.Days[i] = Star(v)
		pos += len(token) + 1
	}
	return y, nil
}

// error returns a ParseError at the given byte offset within the current line.
func (p *parser) error(kind error, col int, text string) *ParseError {
	_, _, context := parse.Position(bytes.NewReader(p.b), p.start+col)
	return &ParseError{
		Kind:    kind,
		Line:    p.line,
		Column:  col + 1,
		Context: context,
		Text:    text,
	}
}

// leading returns offset plus the number of leading whitespace bytes in s.
func leading(s string, offset int) int {
	return offset + len(s) - len(strings.TrimLeftFunc(s, unicode.IsSpace))
}
