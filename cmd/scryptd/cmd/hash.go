/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ssargent/scryptd/pkg/client"
	"github.com/ssargent/scryptd/pkg/params"
)

// hashCmd represents the hash command
var hashCmd = &cobra.Command{
	Use:   "hash [data]",
	Short: "Hash data and print the base64 record",
	Long: `Derive an scrypt hash for data and print the encoded record in base64.

The service named by --endpoint (or client.endpoint in the config) does the
work when reachable; otherwise local workers do. Data is read from the
terminal without echo when not given as an argument.

Examples:
  scryptd hash --endpoint https://10.0.0.5:8080
  echo -n secret | scryptd hash --cost 32768 --key-len 64`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readData(cmd, args)
		if err != nil {
			return err
		}

		p := params.Default()
		p.Cost, _ = cmd.Flags().GetInt("cost")
		p.BlockSize, _ = cmd.Flags().GetInt("block-size")
		p.Parallelization, _ = cmd.Flags().GetInt("parallelization")
		p.SaltLen, _ = cmd.Flags().GetInt("salt-len")
		p.KeyLen, _ = cmd.Flags().GetInt("key-len")

		c := newClient(cmd, configFrom(cmd))
		defer c.Close()

		return hashData(cmd.Context(), c, data, p, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(hashCmd)
	addClientFlags(hashCmd)

	def := params.Default()
	hashCmd.Flags().Int("cost", def.Cost, "CPU/memory cost, a power of two")
	hashCmd.Flags().Int("block-size", def.BlockSize, "Block size")
	hashCmd.Flags().Int("parallelization", def.Parallelization, "Parallelization")
	hashCmd.Flags().Int("salt-len", def.SaltLen, "Salt length in bytes")
	hashCmd.Flags().Int("key-len", def.KeyLen, "Derived key length in bytes")
}

func hashData(ctx context.Context, c *client.Client, data string, p params.ScryptParams, out io.Writer) error {
	encoded, err := c.Hash(ctx, data, p)
	if err != nil {
		return fmt.Errorf("hash failed: %w", err)
	}
	_, err = fmt.Fprintln(out, base64.StdEncoding.EncodeToString(encoded))
	return err
}
