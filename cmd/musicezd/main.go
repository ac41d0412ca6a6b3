package main

import (
	"fmt"
	"os"

	"github.com/fiston-user/musicez-api/internal/cli/admin"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "musicezd",
		Short: "MusicEZ daemon",
		Long:  "MusicEZ daemon for serving AI-powered track recommendations",
	}

	rootCmd.AddCommand(admin.ServeCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
