package domain

// Stats aggregates dashboard counters.
type Stats struct {
	TotalUsers        int64             `json:"total_users"`
	TotalResources    int64             `json:"total_resources"`
	TotalBookings     int64             `json:"total_bookings"`
	PendingBookings   int64             `json:"pending_bookings"`
	UserBreakdown     UserBreakdown     `json:"user_breakdown"`
	ResourceBreakdown ResourceBreakdown `json:"resource_breakdown"`
}

// UserBreakdown counts users per role.
type UserBreakdown struct {
	Students int64 `json:"students"`
	Staff    int64 `json:"staff"`
	Admins   int64 `json:"admins"`
}

// ResourceBreakdown counts resources per type.
type ResourceBreakdown struct {
	Labs       int64 `json:"labs"`
	Classrooms int64 `json:"classrooms"`
	EventHalls int64 `json:"event_halls"`
	Computers  int64 `json:"computers"`
}
