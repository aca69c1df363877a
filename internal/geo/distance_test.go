package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceMilesZeroForSamePoint(t *testing.T) {
	p := Coordinates{Lat: 40.7484, Lon: -73.9967}
	assert.Equal(t, 0.0, DistanceMiles(p, p))
}

func TestDistanceMilesAdjacentZips(t *testing.T) {
	// 10001 and 10002, two Manhattan ZIP codes a couple of miles apart
	a := Coordinates{Lat: 40.7484, Lon: -73.9967}
	b := Coordinates{Lat: 40.7152, Lon: -73.9877}

	d := DistanceMiles(a, b)
	assert.InDelta(t, 2.34, d, 0.05)
	assert.Equal(t, d, DistanceMiles(b, a))
}

func TestDistanceMilesCrossCountry(t *testing.T) {
	nyc := Coordinates{Lat: 40.7128, Lon: -74.0060}
	la := Coordinates{Lat: 34.0522, Lon: -118.2437}

	assert.InDelta(t, 2445, DistanceMiles(nyc, la), 15)
}

func TestValidZip(t *testing.T) {
	valid := []string{"10001", "90210", " 10001 ", "00501"}
	for _, zip := range valid {
		assert.True(t, ValidZip(zip), "zip %q", zip)
	}

	invalid := []string{"", "1234", "123456", "1000a", "10 01", "10001-1234", "abcde"}
	for _, zip := range invalid {
		assert.False(t, ValidZip(zip), "zip %q", zip)
	}
}
