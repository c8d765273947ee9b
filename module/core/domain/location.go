package domain

// LocationUpdate is one position report for a tracked object. It is consumed
// exactly once and never persisted. Geofence is nil when the update carries
// no complete geofence definition.
type LocationUpdate struct {
	UserID     int64
	ObjectID   int64
	ObjectName string
	ObjectType string
	Latitude   float64
	Longitude  float64
	Geofence   *Geofence
}
