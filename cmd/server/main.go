// Peliculas is a REST API for a movie catalog with categories, users and
// bearer-token auth.
package main

import (
	"github.com/andrasnagy-data/peliculas/internal/components/category"
	"github.com/andrasnagy-data/peliculas/internal/components/movie"
	"github.com/andrasnagy-data/peliculas/internal/components/user"
	"github.com/andrasnagy-data/peliculas/internal/server"
	"github.com/andrasnagy-data/peliculas/internal/shared/config"
	"github.com/andrasnagy-data/peliculas/internal/shared/database"
	"github.com/andrasnagy-data/peliculas/internal/shared/logging"
	"github.com/andrasnagy-data/peliculas/internal/shared/middleware"
	"github.com/andrasnagy-data/peliculas/internal/shared/storage"
	"github.com/andrasnagy-data/peliculas/internal/shared/token"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		fx.Provide(
			config.NewConfig,
			logging.NewLogger,
			database.NewPgxPool,
			database.NewDBTX,
			token.NewIssuer,
			middleware.NewAuthMiddleware,
			storage.NewImages,
			server.NewServer,
			server.NewHealthSrvc,
			server.NewHealthHandler,

			category.NewRepo,
			category.NewService,
			fx.Annotate(category.NewRouter, fx.ResultTags(`name:"categoryRouter"`)),
			func(r category.Repository) movie.CategoryLookup { return r },

			movie.NewRepo,
			movie.NewService,
			fx.Annotate(movie.NewRouter, fx.ResultTags(`name:"movieRouter"`)),

			user.NewRepo,
			user.NewService,
			fx.Annotate(user.NewRouter, fx.ResultTags(`name:"userRouter"`)),
		),
		fx.Invoke(database.Migrate, (*server.Server).Start),
	).Run()
}
