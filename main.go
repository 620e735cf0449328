package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/rlfisheries/onefish/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := commands.GetRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
