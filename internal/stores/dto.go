package stores

import (
	"strings"

	"github.com/shery7378/multifront/pkg/geo"
)

// UnknownStoreID is the bucket key for cart items without a resolvable store.
const UnknownStoreID = "unknown"

// Metadata is the store data the checkout core needs: identity, display name and location.
type Metadata struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Latitude         *float64 `json:"latitude,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`
	Address          string   `json:"address,omitempty"`
	City             string   `json:"city,omitempty"`
	State            string   `json:"state,omitempty"`
	PostalCode       string   `json:"postal_code,omitempty"`
	DeliveryRadiusKm *float64 `json:"delivery_radius_km,omitempty"`
}

// HasCoordinates reports whether both latitude and longitude are known.
func (m *Metadata) HasCoordinates() bool {
	return m != nil && m.Latitude != nil && m.Longitude != nil
}

// Point returns the store location. Callers check HasCoordinates first.
func (m *Metadata) Point() geo.Point {
	if !m.HasCoordinates() {
		return geo.Point{}
	}
	return geo.Point{Lat: *m.Latitude, Lng: *m.Longitude}
}

// DisplayName returns the store name, or fallback when unnamed.
func (m *Metadata) DisplayName(fallback string) string {
	if m == nil || strings.TrimSpace(m.Name) == "" {
		return fallback
	}
	return strings.TrimSpace(m.Name)
}

// NeedsEnrichment reports whether the name or address is missing.
func (m *Metadata) NeedsEnrichment() bool {
	if m == nil {
		return true
	}
	return strings.TrimSpace(m.Name) == "" || strings.TrimSpace(m.Address) == ""
}

// Merge returns a copy of m with blank fields filled from other.
func (m *Metadata) Merge(other *Metadata) *Metadata {
	if m == nil && other == nil {
		return nil
	}
	if m == nil {
		cpy := *other
		return &cpy
	}
	out := *m
	if other == nil {
		return &out
	}
	if out.ID == "" {
		out.ID = other.ID
	}
	if strings.TrimSpace(out.Name) == "" {
		out.Name = other.Name
	}
	if out.Latitude == nil || out.Longitude == nil {
		out.Latitude = other.Latitude
		out.Longitude = other.Longitude
	}
	if strings.TrimSpace(out.Address) == "" {
		out.Address = other.Address
	}
	if out.City == "" {
		out.City = other.City
	}
	if out.State == "" {
		out.State = other.State
	}
	if out.PostalCode == "" {
		out.PostalCode = other.PostalCode
	}
	if out.DeliveryRadiusKm == nil {
		out.DeliveryRadiusKm = other.DeliveryRadiusKm
	}
	return &out
}
