package main

import (
	"context"
	"log"

	"github.com/Mohitleo09/HVC-PORTAL-sub002/internal/app/bootstrap"
	"github.com/dalemusser/waffle/app"
)

func main() {
	if err := app.Run(context.Background(), bootstrap.Hooks); err != nil {
		log.Fatal(err)
	}
}
