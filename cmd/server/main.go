// FILE: cmd/server/main.go
package main

import (
	"flag"
	"fmt"
	"os"

	"blogsearch/internal/app"
	"blogsearch/internal/logger"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	indexURL := flag.String("index", "", "blog index page URL (or BLOG_INDEX_URL)")
	flag.Parse()

	logger.InitLogger(os.Getenv("APP_ENV"))
	defer logger.Sync()

	cfg := app.DefaultConfig()
	cfg.IndexURL = *indexURL
	cfg.ApplyEnv()

	// Allow overriding port via PORT env (useful for platforms)
	if p := os.Getenv("PORT"); p != "" {
		*addr = ":" + p
	}

	srv, err := app.NewServer(cfg)
	if err != nil {
		fmt.Printf("failed to initialize server: %v\n", err)
		os.Exit(1)
	}

	if err := srv.Run(*addr); err != nil {
		fmt.Printf("server exited with error: %v\n", err)
		os.Exit(1)
	}
}
