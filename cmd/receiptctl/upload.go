package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"receiptapi/internal/config"
	"receiptapi/internal/uploadclient"
	"receiptapi/internal/uploadform"
)

func uploadCmd() *cobra.Command {
	cfg := config.LoadClient()
	var (
		label  string
		server string
	)

	cmd := &cobra.Command{
		Use:   "upload [file]",
		Short: "Upload a JPEG receipt",
		Long: `Fetch a single-use upload URL and post the receipt image with its label.

Files above 5 MB are refused before anything is sent.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := uploadclient.New(server)
			if err != nil {
				return err
			}

			input := &pathInput{}
			if len(args) == 1 {
				input.path = args[0]
			}
			nav := &routePrinter{w: cmd.OutOrStdout()}
			ctl := uploadform.New(
				uploadform.Elements{
					FileInput:     input,
					LabelInput:    &textValue{v: label},
					FilenameLabel: statusLine{w: cmd.OutOrStdout()},
				},
				client,
				stderrAlerter{w: cmd.ErrOrStderr()},
				nav,
			)

			if input.path != "" {
				ctl.DisplayFileName()
				// The size check cleared the picker and already alerted.
				if input.path == "" {
					return uploadform.ErrFileTooLarge
				}
			}
			return ctl.UploadReceipt(cmd.Context(), cliSubmit{})
		},
	}

	cmd.Flags().StringVarP(&label, "label", "l", "", "Receipt label")
	cmd.Flags().StringVar(&server, "server", cfg.Server, "Receipt API base URL (RECEIPTS_SERVER)")

	return cmd
}

func priceCmd() *cobra.Command {
	cfg := config.LoadClient()
	var locale string

	cmd := &cobra.Command{
		Use:   "price",
		Short: "Convert between price field text and numbers",
	}
	cmd.PersistentFlags().StringVar(&locale, "locale", cfg.Locale, "Locale for currency output (RECEIPTS_LOCALE)")

	run := func(apply func(*uploadform.Controller, uploadform.TextField)) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			tag, err := language.Parse(locale)
			if err != nil {
				return err
			}
			ctl := uploadform.New(uploadform.Elements{}, nil, nil, nil, uploadform.WithLocale(tag))
			field := &textValue{v: args[0]}
			apply(ctl, field)
			fmt.Fprintln(cmd.OutOrStdout(), field.Value())
			return nil
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "format <amount>",
			Short: "Render an amount the way the price field shows it on blur",
			Args:  cobra.ExactArgs(1),
			RunE:  run((*uploadform.Controller).FormatCurrency),
		},
		&cobra.Command{
			Use:   "value <text>",
			Short: "Strip a formatted price back to its number",
			Args:  cobra.ExactArgs(1),
			RunE:  run((*uploadform.Controller).ConvertPriceToValue),
		},
	)

	return cmd
}
