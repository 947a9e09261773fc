package main

import (
	"context"

	"github.com/spf13/cobra"

	"suggestbox/cmd"
)

func main() {
	cobra.CheckErr(cmd.NewCLI().ExecuteContext(context.Background()))
}
