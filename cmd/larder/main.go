// Command larder formats recipe ingredient lines against a unit catalog and a
// pantry.
//
//	larder format "2 cans diced tomatoes" "1/2 recipe: pizza dough"
//	larder format -f ingredients.txt --output json
//	larder units
//	larder pantry import --from pantry.yaml --to pantry.db
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "larder: %v\n", err)
		os.Exit(1)
	}
}
