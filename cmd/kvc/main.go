// Command kvc inspects and converts ordered key-value documents.
package main

import (
	"context"
	"os"

	"github.com/amp-labs/kvcollection/cli"
	"github.com/amp-labs/kvcollection/logger"
	"github.com/amp-labs/kvcollection/shutdown"
)

func main() {
	handler := shutdown.New()
	ctx, cancel := handler.Setup(context.Background())

	handler.BeforeShutdown(func() {
		logger.Get(ctx).Info("Interrupted, abandoning the current command")
	})

	err := cli.NewRootCommand().ExecuteContext(ctx)

	cancel()

	if err != nil {
		logger.Get(ctx).Error("kvc failed", "error", err)
		os.Exit(1)
	}
}
