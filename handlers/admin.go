package handlers

import (
	"errors"
	"strconv"

	"hobbit-quiz-system/services"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes mounts the events CRUD under /api/admin, guarded by the
// given auth middleware.
func SetupAdminRoutes(app *fiber.App, eventService services.EventStore, auth fiber.Handler) {
	admin := app.Group("/api/admin", auth)

	admin.Get("/events", func(c *fiber.Ctx) error {
		events, err := eventService.ListEvents(c.Query("playerId"))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to fetch events",
			})
		}
		return c.JSON(events)
	})

	admin.Patch("/events/:id", func(c *fiber.Ctx) error {
		id, ok := eventID(c)
		if !ok {
			return nil
		}
		var patch services.EventPatch
		if err := c.BodyParser(&patch); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		event, err := eventService.PatchEvent(id, patch)
		switch {
		case errors.Is(err, services.ErrNoFieldsToUpdate):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No fields to update"})
		case errors.Is(err, services.ErrEventNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Event not found"})
		case err != nil:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update event"})
		}
		return c.JSON(event)
	})

	admin.Delete("/events/:id", func(c *fiber.Ctx) error {
		id, ok := eventID(c)
		if !ok {
			return nil
		}
		switch err := eventService.DeleteEvent(id); {
		case errors.Is(err, services.ErrEventNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Event not found"})
		case err != nil:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete event"})
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

// eventID parses the numeric id parameter, writing a 400 response when it
// is not a number.
func eventID(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid event id"})
		return 0, false
	}
	return uint(id), true
}
