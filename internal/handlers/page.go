package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"hellopage/internal/page"
	"hellopage/internal/stats"
	u "hellopage/internal/utils"
)

// PageService serves the hello page and its counters.
type PageService struct {
	Renderer *page.Renderer
	Stats    stats.Recorder
}

func NewPageService(renderer *page.Renderer, recorder stats.Recorder) *PageService {
	if recorder == nil {
		recorder = stats.NewMemory()
	}
	return &PageService{Renderer: renderer, Stats: recorder}
}

// HandlePage renders the page on every request. Backend failures produce the
// error state page with 502, or 504 when the fetch timed out.
func (svc *PageService) HandlePage(c *fiber.Ctx) error {
	ctx := c.UserContext()
	svc.Stats.RecordRender(ctx)

	requestID := c.GetRespHeader(fiber.HeaderXRequestID)

	html, err := svc.Renderer.Render(ctx)
	if err != nil {
		svc.Stats.RecordFailure(ctx)

		status := fiber.StatusBadGateway
		if errors.Is(err, context.DeadlineExceeded) {
			status = fiber.StatusGatewayTimeout
		}
		u.Error("Page render failed", "status", status, "request_id", requestID, "error", err)

		errHTML, tplErr := svc.Renderer.RenderError(status, requestID)
		if tplErr != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error page rendering failed")
		}
		c.Set(fiber.HeaderCacheControl, "no-store")
		c.Type("html", "utf-8")
		return c.Status(status).SendString(errHTML)
	}

	c.Set(fiber.HeaderCacheControl, "no-store")
	c.Type("html", "utf-8")
	return c.SendString(html)
}

// HandleStats exposes render and failure counters.
func (svc *PageService) HandleStats(c *fiber.Ctx) error {
	s, err := svc.Stats.Snapshot(c.UserContext())
	if err != nil {
		u.Warn("Stats read failed", "error", err)
		return fiber.NewError(fiber.StatusServiceUnavailable, "Stats unavailable")
	}
	return c.JSON(fiber.Map{
		"renders":  s.Renders,
		"failures": s.Failures,
		"backend":  s.Backend,
	})
}
