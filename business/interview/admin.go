package interview

import (
	"errors"
	"fmt"

	"pawScout/business/content"
	"pawScout/business/engine"
	"pawScout/pkg/logger"
)

// Stats summarizes the loaded snapshot for the admin surface.
type Stats struct {
	Breeds    int `json:"breeds"`
	Needs     int `json:"needs"`
	Features  int `json:"features"`
	Questions int `json:"questions"`
}

// WithLoader registers the content loader used by Reload.
func (s *Service) WithLoader(load func() (*content.Domain, error)) *Service {
	s.load = load
	return s
}

// Reload re-reads the domain content and swaps in a freshly built matrix.
// Live sessions keep their answers; needs that disappeared are dropped from
// scoring by the engine's need resolution.
func (s *Service) Reload() error {
	if s.load == nil {
		return errors.New("no content loader configured")
	}
	dom, err := s.load()
	if err != nil {
		return fmt.Errorf("reload content: %w", err)
	}
	matcher, err := engine.NewMatcher(dom.Table, dom.Needs, dom.Breeds)
	if err != nil {
		return fmt.Errorf("rebuild matcher: %w", err)
	}

	s.mu.Lock()
	s.dom = dom
	s.matcher = matcher
	s.selector = engine.NewSelector(matcher, dom.Questions)
	s.mu.Unlock()

	logger.Info("domain content reloaded",
		"breeds", len(dom.Breeds), "needs", len(dom.Needs))
	return nil
}

func (s *Service) Stats() Stats {
	_, _, dom := s.engineRefs()
	questions := 0
	for _, qs := range dom.Questions {
		questions += len(qs)
	}
	return Stats{
		Breeds:    len(dom.Breeds),
		Needs:     len(dom.Needs),
		Features:  dom.Table.Len(),
		Questions: questions,
	}
}
