package web

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) handleIndex(c *fiber.Ctx) error {
	c.Type("html", "utf-8")
	return c.SendString(indexHTML)
}

// handleStatus returns the session, the zone and the most recent summary.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	s.mu.RLock()
	last := s.last
	s.mu.RUnlock()

	status := Status{
		Session: s.session,
		Source:  s.info.Source,
		Width:   s.info.Width,
		Height:  s.info.Height,
		Zone:    s.info.Zone,
		Uptime:  time.Since(s.started).Round(time.Second).String(),
		Viewers: map[string]int{
			s.overlayHub.Topic(): s.overlayHub.ClientCount(),
			s.maskHub.Topic():    s.maskHub.ClientCount(),
			s.reportHub.Topic():  s.reportHub.ClientCount(),
		},
		Dropped: map[string]int64{
			s.overlayHub.Topic(): s.overlayHub.Dropped(),
			s.maskHub.Topic():    s.maskHub.Dropped(),
			s.reportHub.Topic():  s.reportHub.Dropped(),
		},
	}
	if last != nil {
		status.Stats = last.Stats
		status.Last = last
	}
	return c.JSON(status)
}

func (s *Server) handleConfig(c *fiber.Ctx) error {
	return c.JSON(s.info.Config)
}

// handleStop is the browser's equivalent of the exit key.
func (s *Server) handleStop(c *fiber.Ctx) error {
	if !s.stop.Swap(true) {
		s.logger.Info("stop requested", "remote", c.IP())
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"stopping": true})
}

// handleReset asks the detection loop to relearn the background before the
// next frame. The detector itself is only touched by the loop.
func (s *Server) handleReset(c *fiber.Ctx) error {
	s.reset.Store(true)
	s.logger.Info("background reset requested", "remote", c.IP())
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"reset": true})
}
