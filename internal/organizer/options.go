package organizer

import "github.com/dshills/taskorg/internal/logging"

// Option configures an Organizer.
type Option func(*Organizer)

// WithLogger sets the organizer's logger. The default discards all output.
func WithLogger(log *logging.Logger) Option {
	return func(o *Organizer) {
		if log != nil {
			o.log = log.WithComponent("organizer")
		}
	}
}
