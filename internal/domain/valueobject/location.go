package valueobject

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidLatitude  = errors.New("latitude must be between -90 and 90")
	ErrInvalidLongitude = errors.New("longitude must be between -180 and 180")
)

// Location представляет географическую точку (Value Object)
type Location struct {
	lat float64
	lng float64
}

// NewLocation создает Location с валидацией координат
func NewLocation(lat, lng float64) (Location, error) {
	if lat < -90 || lat > 90 {
		return Location{}, ErrInvalidLatitude
	}
	if lng < -180 || lng > 180 {
		return Location{}, ErrInvalidLongitude
	}
	return Location{lat: lat, lng: lng}, nil
}

func (l Location) Latitude() float64 {
	return l.lat
}

func (l Location) Longitude() float64 {
	return l.lng
}

func (l Location) String() string {
	return fmt.Sprintf("%.4f,%.4f", l.lat, l.lng)
}

// BoundingBox представляет прямоугольную область поиска (Value Object)
type BoundingBox struct {
	minLat, maxLat float64
	minLng, maxLng float64
}

// NewBoundingBox создает область с валидацией границ
func NewBoundingBox(minLat, maxLat, minLng, maxLng float64) (BoundingBox, error) {
	if _, err := NewLocation(minLat, minLng); err != nil {
		return BoundingBox{}, err
	}
	if _, err := NewLocation(maxLat, maxLng); err != nil {
		return BoundingBox{}, err
	}
	if minLat > maxLat || minLng > maxLng {
		return BoundingBox{}, errors.New("bounding box minimum must not exceed maximum")
	}
	return BoundingBox{minLat: minLat, maxLat: maxLat, minLng: minLng, maxLng: maxLng}, nil
}

func (b BoundingBox) MinLat() float64 { return b.minLat }
func (b BoundingBox) MaxLat() float64 { return b.maxLat }
func (b BoundingBox) MinLng() float64 { return b.minLng }
func (b BoundingBox) MaxLng() float64 { return b.maxLng }

// Contains проверяет, попадает ли точка в область (границы включительно)
func (b BoundingBox) Contains(l Location) bool {
	return l.lat >= b.minLat && l.lat <= b.maxLat &&
		l.lng >= b.minLng && l.lng <= b.maxLng
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("%.4f:%.4f:%.4f:%.4f", b.minLat, b.maxLat, b.minLng, b.maxLng)
}
