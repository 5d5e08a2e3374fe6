package cmd

import (
	"vibesync/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "启动VibeSync服务器",
	Long:  `启动VibeSync一起听系统的HTTP服务器，提供房间同步与点歌API`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
