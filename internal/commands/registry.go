package commands

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// Register adds every non-nil handler to reg in order. A nil registry is a no-op.
func Register(reg CommandRegistry, handlers ...any) error {
	if reg == nil {
		return nil
	}
	for _, handler := range handlers {
		if handler == nil {
			continue
		}
		if err := reg.RegisterCommand(handler); err != nil {
			return err
		}
	}
	return nil
}
