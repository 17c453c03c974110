package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/treeviz/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	c := cli.New(os.Stderr, cli.LogInfo)
	err := c.RootCommand().ExecuteContext(ctx)
	cli.PrintError(os.Stderr, err)
	code := cli.ExitCode(err)
	cancel()
	os.Exit(code)
}
