package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	nerrors "github.com/ajitpratap0/gzcsv/pkg/errors"
	"github.com/ajitpratap0/gzcsv/pkg/logger"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	root := newRootCommand()
	err := root.Execute()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "gzcsv",
		Short: "gzcsv - compressed CSV to JSON converter",
		Long: `gzcsv converts compressed, comma-separated catalog files into JSON arrays of
objects, inferring numbers, booleans and nulls from the cell text.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gzcsv v%s\n", version)
			fmt.Fprintf(cmd.OutOrStdout(), "Go version: %s\n", runtime.Version())
			fmt.Fprintf(cmd.OutOrStdout(), "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	root.AddCommand(newConvertCommand())
	root.AddCommand(newHeaderCommand())
	root.AddCommand(newCompressCommand())

	return root
}

// commonFlags are shared by the commands that read input files
type commonFlags struct {
	configFile  string
	compression string
	logLevel    string
	timeout     time.Duration
}

func (f *commonFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.configFile, "config", "", "Path to a YAML configuration file (GZCSV_* environment variables override it)")
	cmd.Flags().StringVar(&f.compression, "compression", "", "Input compression: gzip, zstd, lz4, s2, snappy, none or auto (default from config)")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 30*time.Minute, "Conversion timeout")
}

// exitCode maps an error to the process exit status: the boundary error
// code for typed errors, 1 otherwise.
func exitCode(err error) int {
	var typed *nerrors.Error
	if errors.As(err, &typed) {
		return nerrors.Code(err)
	}
	return 1
}
