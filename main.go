package main

import (
	"github.com/spf13/cobra"

	"github.com/near/near-cli-go/cmd"
)

func main() {
	cobra.CheckErr(cmd.Execute())
}
