package main

import (
	"context"
	"fmt"
	"os"

	"github.com/AlibekovAA/job-board/backend/internal/common/bootstrap"
	srv "github.com/AlibekovAA/job-board/backend/internal/common/server"
)

func main() {
	app, err := bootstrap.NewAPIApp(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start api: %v\n", err)
		os.Exit(1)
	}

	serverConfig := srv.DefaultServerConfig(app.Config.HTTPPort, app.Config.RequestTimeout)
	server := srv.NewServer(serverConfig, app.Handler)

	err = srv.Run(server, app.Log, "api")
	app.Close()
	if err != nil {
		app.Log.Fatalf("api service stopped: %v", err)
	}
}
