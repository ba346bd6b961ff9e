package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// configDefault embedded default configuration, written out when no config file exists
// configDefault 内嵌的默认配置，找不到配置文件时写出
var configDefault string

var rootCmd = &cobra.Command{
	Use:   "fast-note-keeper",
	Short: "Fast Note Keeper",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func Execute(c string) {
	configDefault = c
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
