// Package fixtures holds test doubles shared by the command packages.
package fixtures

import "fmt"

// RecordingRegistry keeps every handler handed to RegisterCommand. Setting
// FailAfter to n > 0 rejects the (n+1)th registration.
type RecordingRegistry struct {
	Handlers  []any
	FailAfter int
}

func NewRecordingRegistry() *RecordingRegistry {
	return &RecordingRegistry{}
}

func (r *RecordingRegistry) RegisterCommand(handler any) error {
	if r.FailAfter > 0 && len(r.Handlers) >= r.FailAfter {
		return fmt.Errorf("fixtures: registry full after %d handlers", r.FailAfter)
	}
	r.Handlers = append(r.Handlers, handler)
	return nil
}
