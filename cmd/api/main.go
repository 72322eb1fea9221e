package main

import (
	"log"

	_ "github.com/joho/godotenv/autoload"

	"github.com/fdg312/fueltrack/internal/config"
	"github.com/fdg312/fueltrack/internal/dbmigrate"
	"github.com/fdg312/fueltrack/internal/httpserver"
)

func main() {
	cfg := config.Load()

	printStartupBanner(cfg)

	if cfg.RunMigrationsOnStartup {
		dbURL, source, _, err := dbmigrate.SelectDatabaseURL(cfg, true)
		if err != nil {
			log.Fatalf("FATAL startup migrations: %v", err)
		}

		log.Printf("startup migrations: command=up using=%s", source)
		if err := dbmigrate.Run("up", dbURL, dbmigrate.DefaultMigrationsDir); err != nil {
			log.Fatalf("FATAL startup migrations failed: %v", err)
		}
		log.Printf("startup migrations: completed")
	}

	server, err := httpserver.New(cfg)
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	defer server.Close()

	log.Fatal(server.Start())
}

// printStartupBanner logs a one-time summary of the resolved configuration.
// No secrets are ever printed — only masked indicators ("set" / "not set").
func printStartupBanner(cfg *config.Config) {
	log.Println("========== FuelTrack API ==========")
	log.Printf("  env              = %s", cfg.Env)
	log.Printf("  port             = %d", cfg.Port)

	log.Println("---- storage ----")
	log.Printf("  database_url     = %s", setOrNot(cfg.DatabaseURL))
	log.Printf("  store_file_path  = %s", nonEmptyOrDash(cfg.StoreFilePath))
	log.Printf("  slot_key         = %s", cfg.SlotKey)
	log.Printf("  migrations_on_startup = %t", cfg.RunMigrationsOnStartup)
	if cfg.RunMigrationsOnStartup && cfg.DatabaseURLDirect == "" {
		log.Printf("  migrations_via   = (will fail — DATABASE_URL_DIRECT not set)")
	}

	log.Println("---- http ----")
	log.Printf("  cors_origins     = %v", cfg.CORSAllowedOrigins)
	log.Printf("  rate_limit_rps   = %d (burst=%d)", cfg.RateLimitRPS, cfg.RateLimitBurst)

	log.Println("---- blob ----")
	log.Printf("  blob_mode        = %s", cfg.BlobMode)
	if cfg.BlobMode != config.BlobModeLocal {
		log.Printf("  s3_endpoint      = %s", nonEmptyOrDash(cfg.S3.Endpoint))
		log.Printf("  s3_bucket        = %s", nonEmptyOrDash(cfg.S3.Bucket))
		log.Printf("  s3_access_key    = %s", setOrNot(cfg.S3.AccessKeyID))
		log.Printf("  s3_secret_key    = %s", setOrNot(cfg.S3.SecretAccessKey))
	}

	log.Println("====================================")
}

func setOrNot(v string) string {
	if v == "" {
		return "not set"
	}
	return "set"
}

func nonEmptyOrDash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}
