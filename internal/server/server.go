package server

import (
	"backend-picshare/internal/apperr"
	"backend-picshare/internal/comment"
	"backend-picshare/internal/config"
	"backend-picshare/internal/events"
	"backend-picshare/internal/follow"
	"backend-picshare/internal/post"
	"backend-picshare/internal/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	DB     *pgxpool.Pool
	Events *events.Publisher
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New(fiber.Config{ErrorHandler: apperr.ErrorHandler})
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     db,
		Events: events.NewPublisher(redisClient),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	s.App.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Picshare Social Media API",
			"version": "1.0",
			"endpoints": fiber.Map{
				"users":     "/api/users",
				"posts":     "/api/posts",
				"comments":  "/api/comments",
				"followers": "/api/followers",
			},
		})
	})

	userSvc := user.NewService(s.DB, s.Events)
	postSvc := post.NewService(s.DB, s.Events)
	commentSvc := comment.NewService(s.DB, s.Events)
	followSvc := follow.NewService(s.DB, s.Events)

	api := s.App.Group("/api")

	users := api.Group("/users")
	user.RegisterRoutes(users, userSvc)
	follow.RegisterUserRoutes(users, followSvc)

	posts := api.Group("/posts")
	post.RegisterRoutes(posts, postSvc)
	comment.RegisterPostRoutes(posts, commentSvc)

	comment.RegisterRoutes(api.Group("/comments"), commentSvc)
	follow.RegisterRoutes(api.Group("/followers"), followSvc)
}
