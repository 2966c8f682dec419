package query

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"eventsearch/internal/domain"
)

// Bounds used for open range ends.
var (
	MinDate = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)
	MaxDate = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)
)

const deadlinePrefix = "dl:"

var (
	isoDateRe   = regexp.MustCompile(`\d{4}-\d{1,2}-\d{1,2}`)
	dateFieldRe = regexp.MustCompile(`^(?:dl:)?(?:\d{4}-\d{1,2}-\d{1,2}|@)?[-+\d]*(?::(?:\d{4}-\d{1,2}-\d{1,2}|@)?[-+\d]*)*$`)
	datePartRe  = regexp.MustCompile(`^(\d{4}-\d{1,2}-\d{1,2}|@)?(.*)$`)
	offsetRe    = regexp.MustCompile(`^[+-]\d+$`)
)

// DateBound is one side of a date expression.
type DateBound struct {
	// Open is set for an empty slot.
	Open bool
	// Today is set when the slot is "@".
	Today  bool
	Date   time.Time
	Offset int
}

// DateExpr is a parsed date token: a single date or a range, each side with an optional
// day offset.
type DateExpr struct {
	Scope domain.DateScope
	Range bool
	From  DateBound
	To    DateBound
}

// Resolve turns the expression into an inclusive, ordered day range.
func (e *DateExpr) Resolve(today time.Time) domain.DateRange {
	from := e.From.resolve(today, MinDate)
	to := from
	if e.Range {
		to = e.To.resolve(today, MaxDate)
	}
	if to.Before(from) {
		from, to = to, from
	}
	return domain.DateRange{From: from, To: to, Scope: e.Scope}
}

func (b DateBound) resolve(today, open time.Time) time.Time {
	if b.Open {
		return open
	}
	base := b.Date
	if b.Today {
		base = domain.Day(today)
	}
	return base.AddDate(0, 0, b.Offset)
}

// isDateField reports whether a whitespace-free field is written in date syntax.
func isDateField(f string) bool {
	if !dateFieldRe.MatchString(f) {
		return false
	}
	body := strings.TrimPrefix(f, deadlinePrefix)
	return strings.Contains(body, "@") || isoDateRe.MatchString(body)
}

// recognizeDates extracts every date field of s.
func recognizeDates(s string) (string, []Token, error) {
	var (
		kept []string
		toks []Token
	)
	for _, f := range strings.Fields(s) {
		if !isDateField(f) {
			kept = append(kept, f)
			continue
		}
		expr, err := parseDateExpr(f)
		if err != nil {
			return "", nil, err
		}
		toks = append(toks, Token{Kind: KindDate, Text: f, Value: f, Date: expr})
	}
	if len(toks) == 0 {
		return s, nil, nil
	}
	rest := strings.Join(kept, " ")
	if strings.HasPrefix(s, "*") {
		// keep the broad marker anchored at the start of the term
		return rest, toks, nil
	}
	return " " + rest, toks, nil
}

func parseDateExpr(field string) (*DateExpr, error) {
	expr := &DateExpr{}
	body := field
	if strings.HasPrefix(body, deadlinePrefix) {
		expr.Scope = domain.ScopeDeadline
		body = strings.TrimPrefix(body, deadlinePrefix)
	}
	parts := strings.Split(body, ":")
	if len(parts) > 2 {
		return nil, domain.NewMalformedQuery(field, "a date range has at most two parts")
	}
	var err error
	if expr.From, err = parseDateBound(field, parts[0]); err != nil {
		return nil, err
	}
	if len(parts) == 2 {
		expr.Range = true
		if expr.To, err = parseDateBound(field, parts[1]); err != nil {
			return nil, err
		}
	} else if expr.From.Open {
		return nil, domain.NewMalformedQuery(field, "missing date")
	}
	return expr, nil
}

func parseDateBound(field, part string) (DateBound, error) {
	m := datePartRe.FindStringSubmatch(part)
	base, offset := m[1], m[2]
	var b DateBound
	switch base {
	case "":
		if offset != "" {
			return b, domain.NewMalformedQuery(field, "day offset without a date")
		}
		b.Open = true
		return b, nil
	case "@":
		b.Today = true
	default:
		d, err := parseISODate(base)
		if err != nil {
			return b, domain.NewMalformedQuery(field, "invalid date "+base)
		}
		b.Date = d
	}
	if offset != "" {
		if !offsetRe.MatchString(offset) {
			return b, domain.NewMalformedQuery(field, "a day offset takes exactly one sign and one number")
		}
		n, err := strconv.Atoi(offset)
		if err != nil {
			return b, domain.NewMalformedQuery(field, "day offset out of range")
		}
		b.Offset = n
	}
	return b, nil
}

// parseISODate parses yyyy-m-d with one- or two-digit month and day, rejecting
// dates that do not exist (e.g. 2011-04-31).
func parseISODate(s string) (time.Time, error) {
	parts := strings.Split(s, "-")
	y, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, err
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, err
	}
	d, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, err
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return time.Time{}, strconv.ErrRange
	}
	return t, nil
}
