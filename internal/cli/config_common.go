package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pybossa/pbs/internal/config"
	"github.com/pybossa/pbs/internal/files/filesystem"
	"github.com/pybossa/pbs/internal/files/loader"
	"github.com/pybossa/pbs/internal/logging"
	"github.com/pybossa/pbs/internal/pybossa"
	"github.com/pybossa/pbs/internal/ratelimit"
	"github.com/pybossa/pbs/internal/services"
	"github.com/pybossa/pbs/internal/tui"
	"github.com/pybossa/pbs/pkg/pbs"
)

// session bundles the dependencies a command needs once connection
// settings are resolved.
type session struct {
	settings *config.Settings
	logger   pbs.Logger
	fs       filesystem.FileSystemProvider
	client   pbs.Client
	pacer    *ratelimit.Pacer
	verbose  bool
}

// newSession resolves connection settings and wires the API client.
func newSession(cmd *cobra.Command) (*session, error) {
	_ = godotenv.Load()

	verbose := getVerboseFlag(cmd)
	settings, err := config.Resolve(config.Overrides{
		Server:          globalFlags.server,
		APIKey:          globalFlags.apiKey,
		Profile:         globalFlags.credentials,
		CredentialsFile: globalFlags.credentialsFile,
	}, os.Getenv)
	if err != nil {
		return nil, err
	}

	logger := logging.NewConsoleLogger(verbose)
	logger.Verbose("Server: %s (profile %q)", settings.Server, settings.Profile)
	if settings.APIKey == "" {
		logger.Verbose("No API key configured; requests are anonymous")
	}

	fsProvider := filesystem.NewOSFileSystem()
	client := pybossa.NewClient(pybossa.Config{
		Endpoint: settings.Server,
		APIKey:   settings.APIKey,
		Timeout:  pbs.DefaultHTTPTimeout,
		FS:       fsProvider,
	}, logger)

	return &session{
		settings: settings,
		logger:   logger,
		fs:       fsProvider,
		client:   client,
		pacer:    ratelimit.NewPacer(client, logger),
		verbose:  verbose,
	}, nil
}

// descriptor loads the project file named by --project.
func (s *session) descriptor() (*pbs.ProjectDescriptor, error) {
	s.logger.Verbose("Reading project file %s", globalFlags.project)
	return config.LoadDescriptor(s.fs, globalFlags.project)
}

// projectRef resolves the project named in the descriptor.
func (s *session) projectRef() (services.ProjectRef, error) {
	desc, err := s.descriptor()
	if err != nil {
		return services.ProjectRef{}, err
	}
	return services.ProjectRef{ShortName: desc.ShortName, All: globalFlags.all}, nil
}

func (s *session) submitter(progressOut io.Writer) *services.Submitter {
	return services.NewSubmitter(s.client, loader.NewLoader(s.fs), s.pacer, s.logger).
		WithProgress(tui.NewProgress(progressOut, tui.IsInteractive()))
}

func (s *session) projectService(approver pbs.Approver) *services.ProjectService {
	return services.NewProjectService(s.client, s.fs, approver, s.pacer, s.logger)
}

// commandContext returns the command's context, or Background when the
// command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// printResult writes a service result message to the command's stdout.
func printResult(cmd *cobra.Command, msg string) {
	fmt.Fprintln(cmd.OutOrStdout(), tui.Success(msg, tui.IsInteractive()))
}
