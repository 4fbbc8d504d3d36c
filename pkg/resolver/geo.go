package resolver

import (
	_ "embed"
	"math"

	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"
)

//go:embed data/cities.yml
var citiesRaw []byte

// Place is a resolved geographic center with an implied search radius.
type Place struct {
	Name     string
	Lat      float64
	Lng      float64
	RadiusKm float64
}

// BBox is an axis-aligned latitude/longitude rectangle used as a cheap geo
// pre-filter. It over-approximates near the poles and at box corners, so
// precise inclusion is always decided with the great-circle distance.
type BBox struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

// Contains reports whether the point falls inside the box.
func (b BBox) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}

type cityEntry struct {
	Name          string      `yaml:"name"`
	Lat           float64     `yaml:"lat"`
	Lng           float64     `yaml:"lng"`
	RadiusKm      float64     `yaml:"radius_km"`
	Aliases       []string    `yaml:"aliases"`
	Neighborhoods []cityEntry `yaml:"neighborhoods"`
}

type gazetteer struct {
	Cities []cityEntry `yaml:"cities"`
}

// Geo resolves city and neighborhood names to centers and builds geo
// pre-filters.
type Geo struct {
	index map[string]Place
}

// NewGeo loads the embedded gazetteer.
func NewGeo() (*Geo, error) {
	var gz gazetteer
	if err := yaml.Unmarshal(citiesRaw, &gz); err != nil {
		return nil, goerr.Wrap(err, "failed to parse city gazetteer")
	}

	index := make(map[string]Place)
	for _, c := range gz.Cities {
		place := Place{Name: c.Name, Lat: c.Lat, Lng: c.Lng, RadiusKm: c.RadiusKm}
		index[normalize(c.Name)] = place
		for _, alias := range c.Aliases {
			index[normalize(alias)] = place
		}
		for _, n := range c.Neighborhoods {
			index[normalize(n.Name)] = Place{Name: n.Name, Lat: n.Lat, Lng: n.Lng, RadiusKm: n.RadiusKm}
		}
	}
	return &Geo{index: index}, nil
}

// ResolveCity looks up a city or neighborhood name, diacritics-insensitive.
// Unknown names fail soft: the second return is false and the caller should
// fall back to caller-supplied coordinates.
func (g *Geo) ResolveCity(name string) (Place, bool) {
	place, ok := g.index[normalize(name)]
	return place, ok
}

// FindCityInText scans free text for any known city or neighborhood name
// and returns the first hit.
func (g *Geo) FindCityInText(text string) (Place, bool) {
	for _, tok := range tokenize(text) {
		if place, ok := g.index[tok]; ok {
			return place, true
		}
	}
	return Place{}, false
}

const kmPerDegreeLat = 111.0

// BoundingBox returns the pre-filter rectangle around a center. Longitude
// degrees shrink with latitude, hence the cosine correction.
func BoundingBox(lat, lng, radiusKm float64) BBox {
	dLat := radiusKm / kmPerDegreeLat
	cos := math.Cos(lat * math.Pi / 180)
	if cos < 0.01 {
		cos = 0.01
	}
	dLng := radiusKm / (kmPerDegreeLat * cos)
	return BBox{
		MinLat: lat - dLat,
		MaxLat: lat + dLat,
		MinLng: lng - dLng,
		MaxLng: lng + dLng,
	}
}

const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance between two points.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
