package handlers

import (
	"hobbit-quiz-system/services"

	"github.com/gofiber/fiber/v2"
)

// SetupPlayRoutes mounts the player-facing game routes. The client generates
// one profile id, keeps it locally, and sends it on every request: the same
// scoping browser-local storage gave the original game.
func SetupPlayRoutes(app *fiber.App, sessions *services.SessionManager) {
	play := app.Group("/play")

	play.Get("/state", func(c *fiber.Ctx) error {
		profileID, ok := requireProfileID(c)
		if !ok {
			return nil
		}
		return c.JSON(sessions.State(profileID))
	})

	play.Post("/name", func(c *fiber.Ctx) error {
		profileID, ok := requireProfileID(c)
		if !ok {
			return nil
		}
		var body struct {
			Name string `json:"name"`
		}
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		view, ok := sessions.SetName(profileID, body.Name)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "a non-empty hobbit name is required",
				"state": view,
			})
		}
		return c.JSON(view)
	})

	play.Post("/answer", func(c *fiber.Ctx) error {
		profileID, ok := requireProfileID(c)
		if !ok {
			return nil
		}
		var body struct {
			OptionIndex *int `json:"option_index"`
		}
		if err := c.BodyParser(&body); err != nil || body.OptionIndex == nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "option_index is required"})
		}
		result, view := sessions.SubmitAnswer(profileID, *body.OptionIndex)
		if !result.Accepted {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "no riddle is active",
				"state": view,
			})
		}
		return c.JSON(fiber.Map{
			"correct":       result.Correct,
			"correct_index": result.CorrectIndex,
			"state":         view,
		})
	})

	play.Post("/next", func(c *fiber.Ctx) error {
		profileID, ok := requireProfileID(c)
		if !ok {
			return nil
		}
		return c.JSON(sessions.NextRiddle(profileID))
	})

	play.Post("/restart", func(c *fiber.Ctx) error {
		profileID, ok := requireProfileID(c)
		if !ok {
			return nil
		}
		return c.JSON(sessions.Restart(profileID))
	})
}

// requireProfileID extracts the profile id header, writing a 400 response
// when it is missing or unusable.
func requireProfileID(c *fiber.Ctx) (string, bool) {
	id := c.Get("X-Profile-ID")
	if id == "" || len(id) > 128 {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "a valid X-Profile-ID header is required",
		})
		return "", false
	}
	return id, true
}
