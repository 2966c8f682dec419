package query

import (
	"regexp"
	"strconv"
	"strings"

	"eventsearch/internal/domain"
)

const floatPattern = `([+-]?\d+(?:\.\d*)?)`

var (
	locationStartRe = regexp.MustCompile(`(?:^|\s)@`)
	boxRe           = regexp.MustCompile(`^` + floatPattern + `,` + floatPattern + `,` + floatPattern + `,` + floatPattern)
	// the distance follows a "+" or plain whitespace: "@52.52,13.40+10km", "@52.52,13.40 10km"
	pointRe = regexp.MustCompile(`^` + floatPattern + `,\s*` + floatPattern + `\s*[ +]\s*(\d+(?:\.\d+)?)(?:\s*(km|mi))?`)
	namedRe = regexp.MustCompile(`^([^+@#!=\s][^+@#!=]*?)\s*\+(\d+(?:\.\d+)?)(km|mi)?`)
	// a bare name stops before the next sigil token or date
	bareStopRe = regexp.MustCompile(`\s+(?:[-#@!=+*]|(?:dl:)?\d{4}-\d{1,2}-\d{1,2})`)
)

// recognizeLocations extracts every "@..." location token of s. Fields written in date
// syntax ("@", "@+7", "@:2024-12-31") are left for the date recognizer.
func recognizeLocations(s string) (string, []Token, error) {
	var (
		b    strings.Builder
		toks []Token
		last int
	)
	pos := 0
	for pos < len(s) {
		loc := locationStartRe.FindStringIndex(s[pos:])
		if loc == nil {
			break
		}
		start, at := pos+loc[0], pos+loc[1]
		tail := s[at:]
		if isDateField(firstField("@" + tail)) {
			pos = at
			continue
		}
		lt, n, err := parseLocation(tail)
		if err != nil {
			return "", nil, err
		}
		end := at + n
		toks = append(toks, Token{
			Kind:     KindLocation,
			Text:     strings.TrimSpace(s[start:end]),
			Value:    strings.TrimSpace(s[at:end]),
			Location: lt,
		})
		b.WriteString(s[last:start])
		b.WriteByte(' ')
		last = end
		pos = end
	}
	b.WriteString(s[last:])
	return b.String(), toks, nil
}

// parseLocation parses the text after "@" and returns how many bytes it consumed.
func parseLocation(tail string) (*LocationToken, int, error) {
	if m := boxRe.FindStringSubmatchIndex(tail); m != nil && atBoundary(tail, m[1]) {
		fs, err := parseFloats(tail, m, 4)
		if err != nil {
			return nil, 0, err
		}
		return &LocationToken{Form: FormBox, Floats: fs}, m[1], nil
	}
	if m := pointRe.FindStringSubmatchIndex(tail); m != nil && atBoundary(tail, m[1]) {
		fs, err := parseFloats(tail, m, 2)
		if err != nil {
			return nil, 0, err
		}
		dist, err := strconv.ParseFloat(tail[m[6]:m[7]], 64)
		if err != nil {
			return nil, 0, domain.NewMalformedQuery("@"+tail[:m[1]], "invalid distance")
		}
		lt := &LocationToken{Form: FormPoint, Floats: fs, Distance: dist}
		if m[8] >= 0 {
			lt.Unit = tail[m[8]:m[9]]
		}
		return lt, m[1], nil
	}
	if m := namedRe.FindStringSubmatchIndex(tail); m != nil && atBoundary(tail, m[1]) {
		dist, err := strconv.ParseFloat(tail[m[4]:m[5]], 64)
		if err != nil {
			return nil, 0, domain.NewMalformedQuery("@"+tail[:m[1]], "invalid distance")
		}
		lt := &LocationToken{Form: FormNamed, Name: strings.TrimSpace(tail[m[2]:m[3]]), Distance: dist}
		if m[6] >= 0 {
			lt.Unit = tail[m[6]:m[7]]
		}
		return lt, m[1], nil
	}
	n := len(tail)
	if stop := bareStopRe.FindStringIndex(tail); stop != nil {
		n = stop[0]
	}
	name := tail[:n]
	if strings.TrimSpace(name) == "" || strings.ContainsAny(name, "+@#!=") {
		return nil, 0, domain.NewMalformedQuery("@"+name, "unrecognized location")
	}
	city, country, _ := strings.Cut(name, ",")
	lt := &LocationToken{
		Form:    FormCityCountry,
		Name:    strings.TrimSpace(city),
		Country: strings.TrimSpace(country),
	}
	if lt.Name == "" {
		return nil, 0, domain.NewMalformedQuery("@"+name, "missing place name")
	}
	return lt, n, nil
}

func parseFloats(s string, m []int, count int) ([]float64, error) {
	out := make([]float64, count)
	for i := 0; i < count; i++ {
		v, err := strconv.ParseFloat(s[m[2+2*i]:m[3+2*i]], 64)
		if err != nil {
			return nil, domain.NewMalformedQuery("@"+s[:m[1]], "invalid coordinate")
		}
		out[i] = v
	}
	return out, nil
}

func firstField(s string) string {
	if i := strings.IndexFunc(s, isSpaceRune); i >= 0 {
		return s[:i]
	}
	return s
}

func isSpaceRune(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' || r == '\v'
}
