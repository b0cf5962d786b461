package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formkit/pkg/validation"
)

var (
	genLength int
	genPrefix string
)

var generateCmd = &cobra.Command{
	Use:       "generate <token|apikey|password>",
	Short:     "Generate a session token, API key or temporary password",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"token", "apikey", "password"},
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			out string
			err error
		)
		switch strings.ToLower(args[0]) {
		case "token":
			out, err = validation.GenerateSessionToken(genLength)
		case "apikey":
			out, err = validation.GenerateAPIKey(genPrefix, genLength)
		case "password":
			out, err = validation.GenerateTemporaryPassword(genLength)
		default:
			return fmt.Errorf("unknown kind %q", args[0])
		}
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
		return err
	},
}

func init() {
	generateCmd.Flags().IntVar(&genLength, "length", 32, "length in bytes (token, apikey) or characters (password)")
	generateCmd.Flags().StringVar(&genPrefix, "prefix", "fk", "API key prefix")
}
