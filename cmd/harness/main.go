package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/angelprotocol/harness/app"
)

func main() {
	app.SetAddressPrefixes()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
