package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pybossa/pbs/internal/services"
	"github.com/pybossa/pbs/pkg/pbs"
)

var addHelpingMaterialsCmd = &cobra.Command{
	Use:   "add-helping-materials",
	Short: "Add helping materials to the project from a data file",
	Long: `Create one helping material per record of a JSON, CSV, Excel, PO or
properties file.

A record may name a local file in "file_path"; that file is uploaded with
the helping material and the server's info is merged with the record.

Examples:
  pbs add-helping-materials --helping-materials-file helping.json
  pbs add-helping-materials --helping-materials-file helping.csv --helping-type csv`,
	Args: NoArgs,
	RunE: runAddHelpingMaterials,
}

type addHelpingFlagValues struct {
	file        string
	helpingType string
}

var addHelpingFlags addHelpingFlagValues

func init() {
	rootCmd.AddCommand(addHelpingMaterialsCmd)

	f := addHelpingMaterialsCmd.Flags()
	f.StringVar(&addHelpingFlags.file, "helping-materials-file", "", "Data file with one helping material per record (required)")
	f.StringVar(&addHelpingFlags.helpingType, "helping-type", "", "Data format: json, csv, xlsx, po or properties (default: from extension)")
}

func resetAddHelpingFlags() {
	addHelpingFlags = addHelpingFlagValues{}
}

func runAddHelpingMaterials(cmd *cobra.Command, args []string) error {
	if addHelpingFlags.file == "" {
		return fmt.Errorf("%w: --helping-materials-file is required", pbs.ErrUsage)
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	ref, err := s.projectRef()
	if err != nil {
		return err
	}

	msg, err := s.submitter(cmd.ErrOrStderr()).AddHelpingMaterials(commandContext(cmd), services.AddHelpingMaterialsRequest{
		Project: ref,
		File:    addHelpingFlags.file,
		Type:    addHelpingFlags.helpingType,
	})
	if err != nil {
		return err
	}
	printResult(cmd, msg)
	return nil
}
