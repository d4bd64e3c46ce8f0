package commands

import (
	"github.com/spf13/cobra"

	"github.com/brightpage/docscan/internal/capture"
	"github.com/brightpage/docscan/internal/control"
)

var (
	serveInput string
	serveDemo  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON-RPC operator control surface on stdio",
	Long: `Serve exposes the capture session to an operator client over line-delimited
JSON-RPC 2.0 on stdin/stdout. The client drives the same operations a
scanning UI would: start detection, capture pages, remove pages, finalize to
a PDF, cancel. Logs go to stderr; stdout carries protocol responses only.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveInput, "input", "i", "", "directory of frames, served in filename order")
	serveCmd.Flags().BoolVar(&serveDemo, "demo", false, "serve the synthetic demo scene instead of --input")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	source, err := openSource(serveInput, serveDemo)
	if err != nil {
		return err
	}

	ctrl := capture.NewController(source, cfg.CaptureOptions(), logger)
	defer ctrl.Close()

	logger.Info().Str("version", buildVersion).Msg("control server listening on stdio")
	return control.New(ctrl, buildVersion, logger).Run()
}
