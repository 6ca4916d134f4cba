package main

import (
	"context"

	"github.com/alecthomas/kong"
)

type cli struct {
	Serve    serveCmd    `cmd:"" help:"Serve canvases over HTTP and WebSocket."`
	Simulate simulateCmd `cmd:"" help:"Replay a placement scenario and print the canvas after each step."`
	Scaffold scaffoldCmd `cmd:"" help:"Add a widget definition to a catalog manifest."`
}

func main() {
	ctx := kong.Parse(&cli{},
		kong.Name("gridctl"),
		kong.Description("Grid canvas tooling for go-dashboard-grid."),
		kong.UsageOnError(),
	)
	err := ctx.Run(context.Background())
	ctx.FatalIfErrorf(err)
}
