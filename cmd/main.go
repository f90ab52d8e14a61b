package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	api_middleware "github.com/thesrcielos/TileMapServer/api/middleware"
	v1 "github.com/thesrcielos/TileMapServer/api/v1"
	"github.com/thesrcielos/TileMapServer/internal/apperrors"
	"github.com/thesrcielos/TileMapServer/internal/tileset"
	"github.com/thesrcielos/TileMapServer/internal/user"
	"github.com/thesrcielos/TileMapServer/internal/world"
	"github.com/thesrcielos/TileMapServer/pkg/config"
	"github.com/thesrcielos/TileMapServer/pkg/db"
	"github.com/thesrcielos/TileMapServer/websocket"
	"github.com/thesrcielos/TileMapServer/websocket/router"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("⚠️File .env not found, using system values")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	db.Init(cfg)
	if err := db.DB.AutoMigrate(&user.User{}, &user.EditorStats{}, &world.MapRecord{}); err != nil {
		log.Fatalf("error migrating database: %v", err)
	}

	sprites := tileset.DefaultRegistry()
	if cfg.TilesetsFile != "" {
		sprites, err = tileset.LoadRegistry(cfg.TilesetsFile)
		if err != nil {
			log.Fatalf("error loading tilesets: %v", err)
		}
	}
	log.Printf("Loaded %d tilesets", len(sprites.Keys()))

	v1.UserService = user.NewUserService(user.NewUserRepository(db.DB))

	cache := world.NewMapCacheRepository(db.Rdb, cfg.CacheTTL)
	mapService := world.NewMapService(world.NewMapRepository(db.DB), cache, v1.UserService, world.MapServiceOptions{
		Sprites:    sprites,
		Strict:     cfg.Strict,
		Duplicates: cfg.Duplicates,
	})
	v1.MapService = mapService

	if err := cache.SubscribeMapEvents(context.Background(), mapService.HandleMapEvent); err != nil {
		log.Fatalf("error subscribing to map events: %v", err)
	}

	e := echo.New()
	e.HTTPErrorHandler = apperrors.HTTPErrorHandler(e)

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	api := e.Group("/api/v1")
	v1.RegisterUserRoutes(api.Group("/users"))

	protected := api.Group("/maps")
	protected.Use(api_middleware.SetupJWTMiddleware())
	v1.RegisterMapRoutes(api.Group("/maps"), protected)

	e.GET("/ws", websocket.WebSocketHandler(router.NewRouter(mapService)))

	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
