package dto

// CreateResourceRequest payload for new resources.
type CreateResourceRequest struct {
	Name     string  `json:"name" validate:"required,max=255"`
	Type     string  `json:"type" validate:"required,oneof=LAB CLASSROOM EVENT_HALL COMPUTER"`
	Capacity int     `json:"capacity" validate:"required,gt=0"`
	Status   *string `json:"status" validate:"omitnil,oneof=AVAILABLE UNAVAILABLE"`
	Location *string `json:"location" validate:"omitnil,max=255"`
}

// UpdateResourceRequest is a partial update; absent fields are kept.
type UpdateResourceRequest struct {
	Name     *string `json:"name" validate:"omitnil,min=1,max=255"`
	Type     *string `json:"type" validate:"omitnil,oneof=LAB CLASSROOM EVENT_HALL COMPUTER"`
	Capacity *int    `json:"capacity" validate:"omitnil,gt=0"`
	Status   *string `json:"status" validate:"omitnil,oneof=AVAILABLE UNAVAILABLE"`
	Location *string `json:"location" validate:"omitnil,max=255"`
}

// ResourceResponse serializes a resource.
type ResourceResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Capacity int     `json:"capacity"`
	Status   string  `json:"status"`
	Location *string `json:"location"`
}
