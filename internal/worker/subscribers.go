package worker

import (
	"github.com/spec-kit/campus-booking/internal/service"
)

// StartSubscribers registers the in-process event handlers.
func StartSubscribers(audit *service.AuditSubscriber) {
	if audit == nil {
		return
	}
	audit.RegisterHandlers()
}
