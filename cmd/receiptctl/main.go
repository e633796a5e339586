package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		stop()
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "receiptctl",
		Short: "Upload receipts to a receipt API from the terminal",
		Long: `receiptctl drives the receipt upload form without a browser.

The file argument plays the file picker, alerts go to stderr and
page navigation is printed to stdout.

Examples:
  receiptctl upload lunch.jpg --label Lunch
  receiptctl price format 1234.5
  receiptctl price value '$1,234.56'`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		uploadCmd(),
		priceCmd(),
		versionCmd(),
	)

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "receiptctl %s (%s)\n", version, commit)
		},
	}
}
