package mqtt

import (
	"github.com/sweeney/access-console/internal/logger"
	"github.com/sweeney/access-console/internal/logic"
)

// Sink records console audit events by publishing them. Failures are logged
// and never reach the console.
type Sink struct {
	Pub Publisher
	Log *logger.Logger
}

// Record publishes e.
func (s *Sink) Record(e logic.Event) {
	if s.Pub == nil {
		return
	}
	if err := s.Pub.Publish(e); err != nil && s.Log != nil {
		s.Log.Warnf("publish %s: %v", e.Type, err)
	}
}
