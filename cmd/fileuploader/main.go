package main

import (
	"context"
	"log"
	"os"

	"go.uber.org/zap"

	"file-uploader/internal"
)

func main() {
	ctx := context.Background()

	app, err := internal.NewApp(ctx)
	if err != nil {
		log.Fatalf("init app failed: %v", err)
	}

	app.InitControllers()

	err = app.Run(ctx)
	if err != nil {
		app.Logger().Error("fileuploader stopped with error", zap.Error(err))
	}
	app.Close()
	if err != nil {
		os.Exit(1)
	}
}
