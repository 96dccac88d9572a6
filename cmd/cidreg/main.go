package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/DeBrosOfficial/cidreg/pkg/cli"
)

// version metadata populated via -ldflags at build time
var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	root := cli.NewRootCommand(cli.DefaultBackends(), cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})
	code := cli.Execute(ctx, root, os.Stderr)

	stop()
	os.Exit(code)
}
