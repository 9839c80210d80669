package domain

// ResourceType enumerates bookable asset kinds.
type ResourceType string

const (
	ResourceTypeLab       ResourceType = "LAB"
	ResourceTypeClassroom ResourceType = "CLASSROOM"
	ResourceTypeEventHall ResourceType = "EVENT_HALL"
	ResourceTypeComputer  ResourceType = "COMPUTER"
)

// ResourceStatus marks whether a resource can currently be booked.
type ResourceStatus string

const (
	ResourceStatusAvailable   ResourceStatus = "AVAILABLE"
	ResourceStatusUnavailable ResourceStatus = "UNAVAILABLE"
)

// Resource is a bookable campus asset.
type Resource struct {
	ID       string
	Name     string
	Type     ResourceType
	Capacity int
	Status   ResourceStatus
	Location *string
}
