package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/DjordjeVuckovic/cptool/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cmd := cli.NewCommand(os.Stdin, os.Stdout, os.Stderr)
	code := cli.ExitCode(cmd.Run(ctx, os.Args), os.Stderr)

	stop()
	os.Exit(code)
}
