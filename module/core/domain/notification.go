package domain

import "time"

type NotificationType string

const (
	GeofenceExit  NotificationType = "GEOFENCE_EXIT"
	GeofenceEnter NotificationType = "GEOFENCE_ENTER"
)

// Crossing is a detected boundary transition for one location update.
type Crossing struct {
	Update *LocationUpdate
	Type   NotificationType
	At     time.Time
}

// Notification is the durable record written for every detected crossing.
// Read/unread toggling happens through the HTTP surface, never on the
// consumer path.
type Notification struct {
	ID         int64            `json:"id"`
	UserID     int64            `json:"user_id"`
	ObjectID   int64            `json:"object_id"`
	ObjectName string           `json:"object_name"`
	ObjectType string           `json:"object_type"`
	Message    string           `json:"message"`
	Type       NotificationType `json:"type"`
	Read       bool             `json:"read"`
	CreatedAt  time.Time        `json:"created_at"`
}

// BroadcastEvent mirrors a Notification onto the real-time channel scoped by
// user id. Ephemeral, best-effort.
type BroadcastEvent struct {
	UserID     int64            `json:"userId"`
	ObjectID   int64            `json:"objectId"`
	ObjectName string           `json:"objectName"`
	ObjectType string           `json:"objectType"`
	Message    string           `json:"message"`
	Type       NotificationType `json:"type"`
	Timestamp  time.Time        `json:"timestamp"`
}

// PushNotification is the payload handed to the mobile push provider.
type PushNotification struct {
	Title    string
	Body     string
	Type     NotificationType
	ObjectID int64
}
