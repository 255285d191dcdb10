package comment

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Get("/", func(c *fiber.Ctx) error {
		comments, err := svc.List(c.Context())
		if err != nil {
			return err
		}
		if comments == nil {
			comments = []Comment{}
		}
		return c.JSON(comments)
	})

	r.Post("/", func(c *fiber.Ctx) error {
		var req CreateRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		created, err := svc.Create(c.Context(), req)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		found, err := svc.Get(c.Context(), c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(found)
	})

	r.Put("/:id", func(c *fiber.Ctx) error {
		var patch Patch
		if err := c.BodyParser(&patch); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		updated, err := svc.Update(c.Context(), c.Params("id"), patch)
		if err != nil {
			return err
		}
		return c.JSON(updated)
	})

	r.Delete("/:id", func(c *fiber.Ctx) error {
		if err := svc.Delete(c.Context(), c.Params("id")); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"message": "Comment deleted successfully"})
	})
}

// RegisterPostRoutes mounts the per-post comment listing under /posts.
func RegisterPostRoutes(r fiber.Router, svc *Service) {
	r.Get("/:id/comments", func(c *fiber.Ctx) error {
		comments, err := svc.ListByPost(c.Context(), c.Params("id"))
		if err != nil {
			return err
		}
		if comments == nil {
			comments = []Comment{}
		}
		return c.JSON(comments)
	})
}
