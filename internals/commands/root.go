// Package commands is the library CLI: serve, migrate, seed and account tools.
package commands

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"library_backend/internals/configs"
	database "library_backend/internals/databases"
	"library_backend/internals/helpers/dbtime"
)

var flagNoColor bool

var rootCmd = &cobra.Command{
	Use:   "library",
	Short: "Library catalog and borrowing service",
	Long: `library serves the catalog web pages and the JSON data API, and
manages the schema, demo data and staff accounts.

Configuration comes from the environment (and .env outside production).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		color.NoColor = color.NoColor || flagNoColor
		configs.LoadEnv()
	},
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newSeedCmd(),
		newCreateStaffCmd(),
		newChangePasswordCmd(),
	)
}

// bootstrap loads the configuration and opens the database.
func bootstrap() (*configs.Config, *gorm.DB, error) {
	cfg := configs.Load()
	if err := dbtime.SetLocation(cfg.Timezone); err != nil {
		return nil, nil, err
	}
	return cfg, database.ConnectDB(cfg.DB), nil
}

// ok prints a green success line.
func ok(format string, a ...interface{}) {
	fmt.Println(color.GreenString("✓"), fmt.Sprintf(format, a...))
}

// warn prints a yellow warning line.
func warn(format string, a ...interface{}) {
	fmt.Fprintln(os.Stderr, color.YellowString("!"), fmt.Sprintf(format, a...))
}
