package query

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventsearch/internal/domain"
)

type kv struct {
	kind  Kind
	value string
}

func summarize(toks []Token) []kv {
	out := make([]kv, len(toks))
	for i, t := range toks {
		out[i] = kv{t.Kind, t.Value}
	}
	return out
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		term string
		want []kv
	}{
		{
			name: "plain words",
			term: "deep learning",
			want: []kv{{KindWord, "deep"}, {KindWord, "learning"}},
		},
		{
			name: "every sigil",
			term: "conference #ai -#ml !europe =12 @@eu",
			want: []kv{
				{KindExclusion, "#ml"},
				{KindEvent, "12"},
				{KindGroup, "europe"},
				{KindContinent, "EU"},
				{KindTag, "ai"},
				{KindWord, "conference"},
			},
		},
		{
			name: "exclusions keep their sigil",
			term: "-web -@berlin -# -@",
			want: []kv{{KindExclusion, "web"}, {KindExclusion, "@berlin"}, {KindExclusion, "#"}, {KindExclusion, "@"}},
		},
		{
			name: "hyphenated words are not exclusions",
			term: "e-mail spam-filter",
			want: []kv{{KindWord, "e-mail"}, {KindWord, "spam-filter"}},
		},
		{
			name: "point radius location",
			term: "@52.52,13.40+10km conference",
			want: []kv{{KindLocation, "52.52,13.40+10km"}, {KindWord, "conference"}},
		},
		{
			name: "point radius location with a space before the distance",
			term: "@52.52,13.40 10km conference",
			want: []kv{{KindLocation, "52.52,13.40 10km"}, {KindWord, "conference"}},
		},
		{
			name: "city and country stop before a date",
			term: "@berlin, germany 2024-05-01",
			want: []kv{{KindLocation, "berlin, germany"}, {KindDate, "2024-05-01"}},
		},
		{
			name: "named place with radius",
			term: "security @san francisco +20mi",
			want: []kv{{KindLocation, "san francisco +20mi"}, {KindWord, "security"}},
		},
		{
			name: "today is a date, not a location",
			term: "@ @+7 @:2024-12-31",
			want: []kv{{KindDate, "@"}, {KindDate, "@+7"}, {KindDate, "@:2024-12-31"}},
		},
		{
			name: "deadline scope",
			term: "dl:@:@+30 cfp",
			want: []kv{{KindDate, "dl:@:@+30"}, {KindWord, "cfp"}},
		},
		{
			name: "broad marker",
			term: "* keynote",
			want: []kv{{KindBroad, ""}, {KindWord, "keynote"}},
		},
		{
			name: "broad marker survives an extracted date",
			term: "* 2024-01-01 keynote",
			want: []kv{{KindDate, "2024-01-01"}, {KindBroad, ""}, {KindWord, "keynote"}},
		},
		{
			name: "strict words keep the plus",
			term: "+go concurrency",
			want: []kv{{KindWord, "+go"}, {KindWord, "concurrency"}},
		},
		{
			name: "unicode words",
			term: "Köln über",
			want: []kv{{KindWord, "Köln"}, {KindWord, "über"}},
		},
		{
			name: "empty term",
			term: "   ",
			want: []kv{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := Tokenize(tt.term)
			require.NoError(t, err)
			assert.Equal(t, tt.want, summarize(toks))
		})
	}
}

func TestTokenizePointRadiusForms(t *testing.T) {
	for _, term := range []string{"@52.52,13.40+10km", "@52.52,13.40 10km", "@52.52, 13.40 + 10 km"} {
		t.Run(term, func(t *testing.T) {
			toks, err := Tokenize(term)
			require.NoError(t, err)
			require.Len(t, toks, 1)
			loc := toks[0].Location
			require.NotNil(t, loc)
			assert.Equal(t, FormPoint, loc.Form)
			assert.Equal(t, []float64{52.52, 13.40}, loc.Floats)
			assert.Equal(t, 10.0, loc.Distance)
			assert.Equal(t, "km", loc.Unit)
		})
	}
}

func TestTokenizeMalformed(t *testing.T) {
	tests := []struct {
		name string
		term string
	}{
		{"continent code too long", "@@europe"},
		{"continent code with digits", "@@e1"},
		{"event id glued to text", "=12abc"},
		{"broad marker not first", "#ai * keynote"},
		{"sigil inside a bare place", "@#foo"},
		{"impossible date", "2011-04-31"},
		{"three part range", "2024-01-01:2024-02-01:2024-03-01"},
		{"offset without a date", ":+3"},
		{"double sign offset", "@+-3"},
		{"stray punctuation", "hello?"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.term)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrMalformedQuery), err.Error())
			var mq *domain.MalformedQueryError
			require.ErrorAs(t, err, &mq)
			assert.NotEmpty(t, mq.Fragment)
		})
	}
}

func TestTokenizeRejectsCityCountryExclusion(t *testing.T) {
	for _, term := range []string{"-@berlin, de", "music -@berlin,de"} {
		_, err := Tokenize(term)
		require.ErrorIs(t, err, domain.ErrMalformedQuery)
		var mq *domain.MalformedQueryError
		require.ErrorAs(t, err, &mq)
		assert.True(t, strings.HasPrefix(mq.Fragment, "-@berlin"), mq.Fragment)
		assert.Contains(t, mq.Reason, "single city or country")
	}

	toks, err := Tokenize("-@berlin @paris, fr")
	require.NoError(t, err)
	assert.Contains(t, summarize(toks), kv{KindExclusion, "@berlin"})
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "location", KindLocation.String())
	assert.Equal(t, "Kind(42)", Kind(42).String())
}
