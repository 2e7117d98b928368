// Package audit emits business events as single-line JSON log records so
// downstream log tooling can index them by event_type.
package audit

import (
	"encoding/json"
	"log"

	"github.com/JobMwaura/zintra-sub009/domain"
)

// Emit writes the event to the process log. Marshal failures are reported
// instead of dropped silently.
func Emit(e *domain.AuditEvent) {
	payload, err := json.Marshal(e)
	if err != nil {
		log.Printf("AUDIT_MARSHAL_ERROR: event_type=%s err=%v", e.EventType, err)
		return
	}
	log.Printf("AUDIT: %s", payload)
}
