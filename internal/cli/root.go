package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pybossa/pbs/internal/tui"
	"github.com/pybossa/pbs/pkg/pbs"
)

var rootCmd = &cobra.Command{
	Use:   "pbs",
	Short: "Command line client for PyBossa servers",
	Long: `pbs creates and maintains PyBossa projects and bulk-loads tasks and
helping materials from JSON, CSV, Excel, PO and properties files.

Calls are paced using the server's X-RateLimit headers, so large imports
pause instead of failing when the rate limit is nearly exhausted.

Connection settings are resolved in this order:
  1. --server / --api-key flags
  2. $PBS_SERVER / $PBS_API_KEY (a .env file in the working directory is loaded)
  3. the selected profile of ~/.pybossa.yaml (--credentials, $PBS_PROFILE)
  4. http://localhost:5000

Exit Codes:
  0  - Success (including "Connection Error!" messages)
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration or project file
  11 - Server unreachable
  12 - User denied deletion
  13 - Server returned a failure payload
  14 - Project or task not found
  15 - Project short name already taken
  16 - Data file could not be decoded`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// globalFlagValues holds the persistent flags shared by every command.
type globalFlagValues struct {
	server          string
	apiKey          string
	project         string
	credentials     string
	credentialsFile string
	all             bool
	verbose         bool
}

var globalFlags globalFlagValues

// Execute runs the root command and reports any error on stderr.
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo(os.Stdout)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		reportError(err)
	}
	return err
}

func init() {
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", pbs.ErrUsage, err)
	})

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&globalFlags.server, "server", "",
		"PyBossa server URL (overrides $PBS_SERVER and the credentials profile)")
	flags.StringVar(&globalFlags.apiKey, "api-key", "",
		"PyBossa API key (overrides $PBS_API_KEY and the credentials profile)")
	flags.StringVar(&globalFlags.project, "project", "project.json",
		"Project descriptor file")
	flags.StringVar(&globalFlags.credentials, "credentials", "",
		"Profile to use from the credentials file (default \"default\", or $PBS_PROFILE)")
	flags.StringVar(&globalFlags.credentialsFile, "credentials-file", "",
		"Credentials file (default ~/.pybossa.yaml, or $PBS_CREDENTIALS_FILE)")
	flags.BoolVar(&globalFlags.all, "all", false,
		"Look up the project among all projects, not only the ones you own")
	flags.BoolVarP(&globalFlags.verbose, "verbose", "v", false,
		"Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}

// reportError prints err to stderr.
func reportError(err error) {
	fmt.Fprintln(os.Stderr, tui.Failure(describeError(err), tui.IsInteractive()))
}

// describeError renders server failures as the indented payload the server
// returned and anything else as its error text.
func describeError(err error) string {
	var apiErr *pbs.APIError
	if errors.As(err, &apiErr) {
		return apiErr.FormatPayload()
	}
	return "Error: " + err.Error()
}
