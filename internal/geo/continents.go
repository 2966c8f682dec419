package geo

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/planar"
	"gopkg.in/yaml.v3"

	"eventsearch/internal/domain"
)

//go:embed continents.yaml
var defaultContinents []byte

type continentFile struct {
	Continents []struct {
		Code      string        `yaml:"code"`
		Name      string        `yaml:"name"`
		Countries []string      `yaml:"countries"`
		Borders   [][][]float64 `yaml:"borders"`
	} `yaml:"continents"`
}

type continent struct {
	name      string
	countries []string
	border    orb.MultiPolygon
}

// Continents holds the country lists and coarse borders of the seven continents.
// It is read-only after loading and safe for concurrent use.
type Continents struct {
	byCode map[string]*continent
}

var _ domain.ContinentBorders = (*Continents)(nil)

// DefaultContinents returns the built-in continent data.
func DefaultContinents() (*Continents, error) {
	return LoadContinents(bytes.NewReader(defaultContinents))
}

// LoadContinentsFile loads continent data from a YAML file. An empty path selects the
// built-in data.
func LoadContinentsFile(path string) (*Continents, error) {
	if path == "" {
		return DefaultContinents()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open continents file: %w", err)
	}
	defer f.Close()
	return LoadContinents(f)
}

// LoadContinents decodes continent data from YAML.
func LoadContinents(r io.Reader) (*Continents, error) {
	var file continentFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode continents: %w", err)
	}
	c := &Continents{byCode: make(map[string]*continent, len(file.Continents))}
	for _, raw := range file.Continents {
		code := strings.ToUpper(raw.Code)
		if code == "" {
			return nil, fmt.Errorf("continent without code")
		}
		ct := &continent{name: raw.Name}
		for _, cc := range raw.Countries {
			ct.countries = append(ct.countries, strings.ToUpper(cc))
		}
		for i, ring := range raw.Borders {
			r := make(orb.Ring, 0, len(ring)+1)
			for _, pt := range ring {
				if len(pt) != 2 {
					return nil, fmt.Errorf("continent %s border %d: point needs lng and lat", code, i)
				}
				r = append(r, orb.Point{pt[0], pt[1]})
			}
			if len(r) < 3 {
				return nil, fmt.Errorf("continent %s border %d: ring needs at least 3 points", code, i)
			}
			if !r.Closed() {
				r = append(r, r[0])
			}
			ct.border = append(ct.border, orb.Polygon{r})
		}
		c.byCode[code] = ct
	}
	return c, nil
}

// Countries returns the ISO country codes of the continent.
func (c *Continents) Countries(code string) ([]string, bool) {
	ct, ok := c.byCode[strings.ToUpper(code)]
	if !ok {
		return nil, false
	}
	return ct.countries, true
}

// Name returns the display name of the continent.
func (c *Continents) Name(code string) string {
	if ct, ok := c.byCode[strings.ToUpper(code)]; ok {
		return ct.name
	}
	return ""
}

// Contains reports whether p lies within the continent's borders.
func (c *Continents) Contains(code string, p domain.Point) bool {
	ct, ok := c.byCode[strings.ToUpper(code)]
	if !ok || len(ct.border) == 0 {
		return false
	}
	return planar.MultiPolygonContains(ct.border, ToOrb(p))
}

// BorderWKT returns the continent's border as WKT in lng lat order.
func (c *Continents) BorderWKT(code string) (string, bool) {
	ct, ok := c.byCode[strings.ToUpper(code)]
	if !ok || len(ct.border) == 0 {
		return "", false
	}
	return wkt.MarshalString(ct.border), true
}
