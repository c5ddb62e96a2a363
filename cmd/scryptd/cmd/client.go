/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ssargent/scryptd/pkg/client"
	"github.com/ssargent/scryptd/pkg/config"
	"github.com/ssargent/scryptd/pkg/logging"
)

// newClient builds a client from config, with --endpoint and
// --fallback-workers taking precedence
func newClient(cmd *cobra.Command, cfg *config.Config) *client.Client {
	cc := cfg.ClientConfig()
	if cmd.Flags().Changed("endpoint") {
		cc.Endpoint, _ = cmd.Flags().GetString("endpoint")
	}
	if cmd.Flags().Changed("fallback-workers") {
		cc.FallbackWorkers, _ = cmd.Flags().GetInt("fallback-workers")
	}

	logger := logging.New(cmd.ErrOrStderr(), slog.LevelWarn)
	return getContainer().GetClientFactory()(cc, logger)
}

func addClientFlags(cmd *cobra.Command) {
	cmd.Flags().String("endpoint", "", "Service URL, e.g. https://10.0.0.5:8080 (local only when empty)")
	cmd.Flags().Int("fallback-workers", 0, "Local workers when the service is unreachable (0 disables, -1 auto)")
}

// readData returns the argument when given, otherwise prompts on a terminal
// without echo or reads one line from piped input
func readData(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), "Data: ")
		data, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("failed to read data: %w", err)
		}
		return string(data), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read data: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
