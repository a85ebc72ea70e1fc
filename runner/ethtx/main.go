package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/TopiaNetwork/ethtx/cmd"
)

var mainCmd = &cobra.Command{Use: "ethtx"}

func main() {
	mainCmd.AddCommand(cmd.TxCmd())

	if mainCmd.Execute() != nil {
		os.Exit(1)
	}
}
