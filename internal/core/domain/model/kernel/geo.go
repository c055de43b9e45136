package kernel

import (
	"errors"
	"fmt"
	"math"

	"quickgo/internal/pkg/errs"
	"quickgo/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

const (
	// GeoMinLatitude is the minimum valid latitude in degrees.
	GeoMinLatitude float64 = -90
	// GeoMaxLatitude is the maximum valid latitude in degrees.
	GeoMaxLatitude float64 = 90
	// GeoMinLongitude is the minimum valid longitude in degrees.
	GeoMinLongitude float64 = -180
	// GeoMaxLongitude is the maximum valid longitude in degrees.
	GeoMaxLongitude float64 = 180

	// earthRadiusKm is the mean radius of the Earth used by the haversine formula.
	earthRadiusKm float64 = 6371
)

// ErrGeoPointIsNotConstructed is returned when attempting to use an improperly
// initialized GeoPoint. GeoPoints must be created via NewGeoPoint.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError(
	"geo point must be created via NewGeoPoint constructor")

// GeoPoint represents a geographic coordinate pair in decimal degrees.
// It is an immutable value object that guarantees latitude and longitude are
// always within valid bounds. The zero value of GeoPoint is invalid and will
// fail validation.
//
// GeoPoint carries the pickup and dropoff coordinates of a delivery and is
// the basis for route distance and ETA calculations.
type GeoPoint struct { //nolint:recvcheck //using for validation
	latitude  float64
	longitude float64
	guard     guard.ConstructorGuard
}

// NewGeoPoint creates a new GeoPoint with the specified coordinates.
// Latitude must be within [GeoMinLatitude..GeoMaxLatitude] and longitude
// within [GeoMinLongitude..GeoMaxLongitude]. Returns an error if either
// coordinate is outside the valid bounds.
func NewGeoPoint(latitude float64, longitude float64) (GeoPoint, error) {
	point := GeoPoint{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(point.setLatitude(latitude), point.setLongitude(longitude)); err != nil {
		return GeoPoint{}, err
	}

	return point, nil
}

// Validate checks if the GeoPoint was properly constructed using NewGeoPoint.
// The zero value of GeoPoint is invalid and will fail this validation.
func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

// Latitude returns the latitude in decimal degrees.
func (p GeoPoint) Latitude() float64 {
	return p.latitude
}

// Longitude returns the longitude in decimal degrees.
func (p GeoPoint) Longitude() float64 {
	return p.longitude
}

// String returns a human-readable representation in the format
// "GeoPoint(lat,lon)". This method implements the fmt.Stringer interface.
func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%g,%g)", p.latitude, p.longitude)
}

// IsEqual compares two geo points for equality.
// Both points must be properly constructed for the comparison to succeed.
func (p GeoPoint) IsEqual(other GeoPoint) (bool, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return p == other, nil
}

// DistanceKm calculates the great-circle distance to another point using the
// haversine formula, in kilometers rounded to two decimal places.
// Both points must be properly constructed for the calculation to succeed.
func (p GeoPoint) DistanceKm(other GeoPoint) (decimal.Decimal, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return decimal.Zero, err
	}

	lat1 := toRadians(p.latitude)
	lat2 := toRadians(other.latitude)
	dLat := toRadians(other.latitude - p.latitude)
	dLon := toRadians(other.longitude - p.longitude)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return decimal.NewFromFloat(earthRadiusKm * c).Round(2), nil
}

// setLatitude sets the latitude with validation.
// Note: We intentionally use a pointer receiver here while other methods use
// value receivers. The private setters mutate the point during construction
// only, keeping validation self-encapsulated.
func (p *GeoPoint) setLatitude(latitude float64) error {
	if latitude < GeoMinLatitude || latitude > GeoMaxLatitude {
		return errs.NewValueIsOutOfRangeError("latitude", latitude, GeoMinLatitude, GeoMaxLatitude)
	}

	p.latitude = latitude
	return nil
}

// setLongitude sets the longitude with validation.
func (p *GeoPoint) setLongitude(longitude float64) error {
	if longitude < GeoMinLongitude || longitude > GeoMaxLongitude {
		return errs.NewValueIsOutOfRangeError("longitude", longitude, GeoMinLongitude, GeoMaxLongitude)
	}

	p.longitude = longitude
	return nil
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
