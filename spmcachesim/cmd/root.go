// Package cmd provides the command-line interface of spmcachesim.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tebeka/atexit"
)

// envPrefix is prepended to the upper-cased flag names to form the
// environment variables that provide flag defaults.
const envPrefix = "SPMCACHE_"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "spmcachesim",
	Short: "spmcachesim replays memory traces through an SPM-aware cache.",
	Long: `spmcachesim replays memory access traces through a set-associative ` +
		`cache whose replacement policy can move write-intensive lines into a ` +
		`scratchpad memory. Flag defaults can be provided by SPMCACHE_* ` +
		`environment variables or a .env file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return applyEnvDefaults(cmd.Flags(), ".env")
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

// applyEnvDefaults loads the dotenv files and assigns the values of the
// matching SPMCACHE_* variables to the flags that are not set on the command
// line. Missing dotenv files are ignored.
func applyEnvDefaults(flags *pflag.FlagSet, dotenvFiles ...string) error {
	for _, f := range dotenvFiles {
		err := godotenv.Load(f)
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}

	var firstErr error

	flags.VisitAll(func(f *pflag.Flag) {
		if f.Changed || firstErr != nil {
			return
		}

		value, ok := os.LookupEnv(envName(f.Name))
		if !ok {
			return
		}

		err := flags.Set(f.Name, value)
		if err != nil {
			firstErr = fmt.Errorf("%s: %w", envName(f.Name), err)
		}
	})

	return firstErr
}

func envName(flagName string) string {
	return envPrefix + strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
}
