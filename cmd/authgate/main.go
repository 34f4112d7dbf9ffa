package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	authgate "github.com/goliatone/go-authgate"
	"github.com/goliatone/go-persistence-bun"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type App struct {
	config *authgate.BaseConfig
	bunDB  *bun.DB
	auth   authgate.Authenticator
	auther *authgate.RouteAuthenticator
	repo   authgate.RepositoryManager
	srv    router.Server[*fiber.App]
}

func main() {
	cfg, err := authgate.LoadConfig()
	if err != nil {
		// a missing or weak signing secret must kill the process, a
		// server that silently signs with a guessable key is worse
		// than one that refuses to start
		log.Fatalf("invalid configuration: %v", err)
	}

	fmt.Println(print.MaybeHighlightJSON(cfg))

	app := &App{config: cfg}

	ctx := context.Background()

	if err := WithPersistence(ctx, app); err != nil {
		log.Fatalf("persistence setup failed: %v", err)
	}

	if err := WithHTTPServer(ctx, app); err != nil {
		log.Fatalf("http server setup failed: %v", err)
	}

	if err := WithHTTPAuth(ctx, app); err != nil {
		log.Fatalf("auth setup failed: %v", err)
	}

	ProtectedRoutes(app)

	app.srv.Serve(cfg.ServerAddr)

	WaitExitSignal()
}

func WithPersistence(ctx context.Context, app *App) error {
	db, err := sql.Open(sqliteshim.ShimName, app.config.DatabaseDSN)
	if err != nil {
		return err
	}

	persistence.RegisterModel((*authgate.User)(nil))

	client, err := persistence.New(app.config.GetPersistence(), db, sqlitedialect.New())
	if err != nil {
		return err
	}

	migrationsFS, err := fs.Sub(authgate.GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return err
	}
	client.RegisterDialectMigrations(
		migrationsFS,
		persistence.WithDialectSourceLabel("data/sql/migrations"),
		persistence.WithValidationTargets("sqlite"),
	)

	if err := client.ValidateDialects(ctx); err != nil {
		return err
	}

	if err := client.Migrate(ctx); err != nil {
		return err
	}

	app.bunDB = client.DB()
	app.repo = authgate.NewRepositoryManager(client.DB())

	return app.repo.Validate()
}

func WithHTTPServer(ctx context.Context, app *App) error {
	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			UnescapePath:  true,
			StrictRouting: false,
		}))
	})

	app.srv = srv
	return nil
}

func WithHTTPAuth(ctx context.Context, app *App) error {
	cfg := app.config

	userProvider := authgate.NewUserProvider(app.repo.Users())

	authenticator := authgate.NewAuthenticator(userProvider, cfg)
	app.auth = authenticator

	httpAuth, err := authgate.NewHTTPAuthenticator(authenticator, cfg)
	if err != nil {
		return err
	}
	app.auther = httpAuth

	authgate.RegisterAuthRoutes(app.srv.Router(),
		func(ac *authgate.AuthController) *authgate.AuthController {
			ac.Repo = app.repo
			ac.Auther = httpAuth
			return ac
		})

	return nil
}

func ProtectedRoutes(app *App) {
	p := app.srv.Router()

	contextKey := app.config.GetContextKey()
	protected := app.auther.RequireSession()

	p.Get("/me", func(c router.Context) error {
		session, err := authgate.GetRouterSession(c, contextKey)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]any{
				"authenticated": false,
			})
		}

		user, err := app.repo.Users().GetByUsername(c.Context(), session.Username)
		if err != nil {
			return c.JSON(http.StatusNotFound, map[string]any{
				"message": "user not found",
			})
		}

		return c.JSON(http.StatusOK, user)
	}, protected)
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
