package main

import (
	"errors"
	"io/fs"
	"log"

	"github.com/joho/godotenv"

	"github.com/iliyamo/room-escape-reservation/internal/app"
	"github.com/iliyamo/room-escape-reservation/internal/config"
)

func main() {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("load .env: %v", err)
	}
	if err := app.Run(config.Load()); err != nil {
		log.Fatal(err)
	}
}
