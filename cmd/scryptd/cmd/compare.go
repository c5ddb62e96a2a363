/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ssargent/scryptd/pkg/client"
	"github.com/ssargent/scryptd/pkg/wire"
)

// errNoMatch makes the command exit non-zero on a mismatch
var errNoMatch = errors.New("data does not match")

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare <record> [data]",
	Short: "Check data against a base64 record",
	Long: `Check whether data matches a base64 encoded record produced by 'scryptd hash'.

Prints "match" or "no match"; a mismatch also exits with status 1.

Examples:
  scryptd compare AnNEEP... --endpoint https://10.0.0.5:8080
  echo -n secret | scryptd compare AnNEEP...`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readData(cmd, args[1:])
		if err != nil {
			return err
		}

		c := newClient(cmd, configFrom(cmd))
		defer c.Close()

		return compareData(cmd.Context(), c, data, args[0], cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)
	addClientFlags(compareCmd)
}

func compareData(ctx context.Context, c *client.Client, data, record string, out io.Writer) error {
	encoded, err := base64.StdEncoding.DecodeString(record)
	if err != nil {
		return wire.ErrInvalidEncoding
	}

	match, err := c.Compare(ctx, data, encoded)
	if err != nil {
		return fmt.Errorf("compare failed: %w", err)
	}
	if !match {
		fmt.Fprintln(out, "no match")
		return errNoMatch
	}
	_, err = fmt.Fprintln(out, "match")
	return err
}
