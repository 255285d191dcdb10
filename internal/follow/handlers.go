package follow

import "github.com/gofiber/fiber/v2"

// RegisterRoutes mounts edge creation and removal under /followers.
func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Post("/", func(c *fiber.Ctx) error {
		var req CreateRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		f, err := svc.Create(c.Context(), req)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(f)
	})

	r.Delete("/:id", func(c *fiber.Ctx) error {
		if err := svc.Delete(c.Context(), c.Params("id")); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"message": "Unfollowed successfully"})
	})
}

// RegisterUserRoutes mounts the relationship listings under /users.
func RegisterUserRoutes(r fiber.Router, svc *Service) {
	r.Get("/:id/followers", func(c *fiber.Ctx) error {
		entries, err := svc.Followers(c.Context(), c.Params("id"))
		if err != nil {
			return err
		}
		if entries == nil {
			entries = []FollowerEntry{}
		}
		return c.JSON(entries)
	})

	r.Get("/:id/following", func(c *fiber.Ctx) error {
		entries, err := svc.Following(c.Context(), c.Params("id"))
		if err != nil {
			return err
		}
		if entries == nil {
			entries = []FollowingEntry{}
		}
		return c.JSON(entries)
	})
}
