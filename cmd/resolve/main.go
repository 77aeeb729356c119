package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"bibresolver/internal/cli"
	"bibresolver/internal/entity"
)

func main() {
	if err := cli.NewRootCmd(cli.OpenFromEnv).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if errors.Is(err, entity.ErrInvalidArgument) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
