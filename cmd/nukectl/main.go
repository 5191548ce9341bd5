// Command nukectl loads a nuclear explosions dataset and prints filtered
// views, rankings, and pivots, exports them as CSV, publishes them to Kafka,
// or validates the cleaned dataset.
//
// Usage:
//
//	nukectl summary data/nuclear_explosions.xlsx
//	nukectl rank data/nuclear_explosions.xlsx --top 10 --depth above-ground
//	nukectl export data/nuclear_explosions.xlsx --location Nevada -o nevada.csv
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
