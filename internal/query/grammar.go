package query

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"eventsearch/internal/domain"
)

const wordPattern = `[\p{L}\p{N}_][-\p{L}\p{N}_]*`

var (
	exclusionRe = regexp.MustCompile(`(?:^|\s)-([#@]?)(` + wordPattern + `)?`)
	// "-@berlin, de": a place exclusion names one city or country, never a pair
	placeListExclusionRe = regexp.MustCompile(`(?:^|\s)(-@` + wordPattern + `\s*,)`)
	eventRe              = regexp.MustCompile(`(?:^|\s)=(\d+)`)
	groupRe              = regexp.MustCompile(`(?:^|\s)!(` + wordPattern + `)`)
	continentRe          = regexp.MustCompile(`(?:^|\s)@@(\S*)`)
	// whether the code names a loaded continent is checked by Compile
	continentCodeRe = regexp.MustCompile(`^[A-Z]{2}$`)
	tagRe           = regexp.MustCompile(`(?:^|\s)#(` + wordPattern + `)`)
	broadRe         = regexp.MustCompile(`^\*(?:\s+|$)`)
	plainWordRe     = regexp.MustCompile(`^\+?[-\p{L}\p{N}_]*$`)
)

// recognizer extracts every token of one kind from s and returns what is left.
type recognizer func(s string) (rest string, toks []Token, err error)

// recognizers run in this order; each sees only what the previous ones left.
var recognizers = []recognizer{
	recognizeExclusions,
	recognizeEvents,
	recognizeGroups,
	recognizeContinents,
	recognizeLocations,
	recognizeTags,
	recognizeDates,
	recognizeBroad,
	recognizeWords,
}

// Tokenize classifies a single term (no " | " separators) into tokens.
// It fails with a *domain.MalformedQueryError when part of the term is not understood.
func Tokenize(term string) ([]Token, error) {
	var out []Token
	rest := term
	for _, rec := range recognizers {
		var (
			toks []Token
			err  error
		)
		rest, toks, err = rec(rest)
		if err != nil {
			return nil, err
		}
		out = append(out, toks...)
	}
	return out, nil
}

// extractAll removes every match of re that ends at a token boundary, converting it
// with build. Matches rejected by build (ok == false) stay in the string.
func extractAll(s string, re *regexp.Regexp, build func(g []string) (Token, bool, error)) (string, []Token, error) {
	var (
		b    strings.Builder
		toks []Token
		last int
	)
	for _, loc := range re.FindAllStringSubmatchIndex(s, -1) {
		start, end := loc[0], loc[1]
		if !atBoundary(s, end) {
			continue
		}
		g := make([]string, len(loc)/2)
		for i := range g {
			if loc[2*i] >= 0 {
				g[i] = s[loc[2*i]:loc[2*i+1]]
			}
		}
		tok, ok, err := build(g)
		if err != nil {
			return "", nil, err
		}
		if !ok {
			continue
		}
		tok.Text = strings.TrimSpace(s[start:end])
		toks = append(toks, tok)
		b.WriteString(s[last:start])
		b.WriteByte(' ')
		last = end
	}
	b.WriteString(s[last:])
	return b.String(), toks, nil
}

// atBoundary reports whether position i of s ends a token.
func atBoundary(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return unicode.IsSpace(r)
}

func recognizeExclusions(s string) (string, []Token, error) {
	if m := placeListExclusionRe.FindStringSubmatch(s); m != nil {
		return "", nil, domain.NewMalformedQuery(m[1], "a place exclusion takes a single city or country name")
	}
	return extractAll(s, exclusionRe, func(g []string) (Token, bool, error) {
		if g[1] == "" && g[2] == "" {
			return Token{}, false, nil
		}
		return Token{Kind: KindExclusion, Value: g[1] + g[2]}, true, nil
	})
}

func recognizeEvents(s string) (string, []Token, error) {
	return extractAll(s, eventRe, func(g []string) (Token, bool, error) {
		if _, err := strconv.ParseInt(g[1], 10, 64); err != nil {
			return Token{}, false, domain.NewMalformedQuery("="+g[1], "event id out of range")
		}
		return Token{Kind: KindEvent, Value: g[1]}, true, nil
	})
}

func recognizeGroups(s string) (string, []Token, error) {
	return extractAll(s, groupRe, func(g []string) (Token, bool, error) {
		return Token{Kind: KindGroup, Value: g[1]}, true, nil
	})
}

func recognizeContinents(s string) (string, []Token, error) {
	return extractAll(s, continentRe, func(g []string) (Token, bool, error) {
		code := strings.ToUpper(g[1])
		if !continentCodeRe.MatchString(code) {
			return Token{}, false, domain.NewMalformedQuery("@@"+g[1], "a continent code has two letters")
		}
		return Token{Kind: KindContinent, Value: code}, true, nil
	})
}

func recognizeTags(s string) (string, []Token, error) {
	return extractAll(s, tagRe, func(g []string) (Token, bool, error) {
		return Token{Kind: KindTag, Value: g[1]}, true, nil
	})
}

func recognizeBroad(s string) (string, []Token, error) {
	loc := broadRe.FindStringIndex(s)
	if loc == nil {
		return s, nil, nil
	}
	return " " + s[loc[1]:], []Token{{Kind: KindBroad, Text: "*"}}, nil
}

func recognizeWords(s string) (string, []Token, error) {
	var toks []Token
	for _, f := range strings.Fields(s) {
		if !plainWordRe.MatchString(f) {
			return "", nil, domain.NewMalformedQuery(f, "unrecognized token")
		}
		if f == "+" {
			continue
		}
		toks = append(toks, Token{Kind: KindWord, Text: f, Value: f})
	}
	return "", toks, nil
}
