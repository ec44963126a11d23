package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"framewatch/internal/version"
	"framewatch/pkg/log"
)

var (
	logLevel   string
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "framewatch",
	Short: "framewatch is a video frame analysis pipeline",
	Long: `Capture video frames, detect labels, alert on watch-list matches
and serve recently processed frames.
Version: ` + version.VERSION + `/` + version.COMMIT,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.InitLog(logLevel)
	},
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "Log level (debug, info, warn, error, fatal)")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "etc/config.yaml", "Path to config file")

	rootCmd.AddCommand(serveCommand)
	rootCmd.AddCommand(processCommand)
	rootCmd.AddCommand(captureCommand)
	rootCmd.AddCommand(updateDBCommand)
}
