package domain

// Geofence is a circular containment boundary: a center coordinate plus a
// radius in meters.
type Geofence struct {
	CenterLat    float64 `json:"center_lat"`
	CenterLng    float64 `json:"center_lng"`
	RadiusMeters float64 `json:"radius_meters"`
}

// TrackedObject is the durable record of a monitored object. OutsideGeofence
// is nil until the first location update with a configured geofence has been
// processed; after that it always mirrors the most recent observation.
type TrackedObject struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Type            string    `json:"type"`
	Geofence        *Geofence `json:"geofence,omitempty"`
	OutsideGeofence *bool     `json:"outside_geofence,omitempty"`
}
