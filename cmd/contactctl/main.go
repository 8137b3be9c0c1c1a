// Command contactctl lists, adds and deletes contacts against a running
// contact directory server.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd(os.Stdin).Execute(); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	baseURL    string
	yes        bool
	logLevel   string
}

func newRootCmd(in io.Reader) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "contactctl",
		Short:         "Manage contacts on a contact directory server",
		SilenceUsage: true,
	}
	root.SetIn(in)

	root.PersistentFlags().StringVar(&opts.configPath, "config", defaultConfigPath, "path to TOML config")
	root.PersistentFlags().StringVar(&opts.baseURL, "base-url", "", "server base URL (overrides config)")
	root.PersistentFlags().BoolVarP(&opts.yes, "yes", "y", false, "skip delete confirmation")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "ERROR", "log level written to stderr")

	root.AddCommand(
		newListCmd(opts),
		newAddCmd(opts),
		newDeleteCmd(opts),
	)
	return root
}

func printContactLine(w io.Writer, id, name, email, phone string) {
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", id, name, email, phone)
}
