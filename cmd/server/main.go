package main

import (
	"context"
	"database/sql"
	"log"

	auth "github.com/Harsh3341/edusync-auth"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func main() {
	ctx := context.Background()

	cfg, err := auth.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())
	defer db.Close()

	if _, err := db.NewCreateTable().
		Model((*auth.User)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		log.Fatalf("create users table: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()

	mailer, err := auth.NewSMTPMailer(cfg.SMTP)
	if err != nil {
		log.Fatalf("mailer: %v", err)
	}

	store := auth.NewUsersRepository(db)
	codec := auth.NewTicketCodec([]byte(cfg.ActivationSecret))
	hasher := auth.NewHasher(cfg.BcryptCost)
	issuer := auth.NewSessionIssuer(
		[]byte(cfg.AccessTokenSecret),
		[]byte(cfg.RefreshTokenSecret),
		auth.NewRedisCache(rdb),
		auth.WithSessionTTLs(cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
	)

	accounts := auth.NewAccounts(store, codec, hasher, issuer, mailer)
	controller := auth.NewAuthController(accounts, issuer,
		auth.WithSecureCookies(cfg.CookieSecure),
	)

	app := fiber.New()
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.ClientOrigin}))
	auth.RegisterAuthRoutes(app, controller)

	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
