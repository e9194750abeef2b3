package commands

import (
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"library_backend/internals/configs"
	database "library_backend/internals/databases"
	"library_backend/internals/seeds"
)

func newSeedCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo authors, genres, books and accounts",
		Long: `seed loads users.json, authors.json, genres.json and books.json.
The bundled files are used unless --dir (or SEED_DIR) points at a directory
holding replacements. Existing rows are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer database.Close(db)

			if err := database.Migrate(db); err != nil {
				return err
			}

			var fsys fs.FS = seeds.Embedded()
			if dir == "" {
				dir = configs.GetEnv("SEED_DIR")
			}
			if dir != "" {
				fsys = os.DirFS(dir)
			} else {
				warn("using bundled demo data; change the demo passwords before going live")
			}

			if err := seeds.RunAllSeeds(db, fsys); err != nil {
				return err
			}
			ok("seed data loaded")
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Directory with seed JSON files")
	return cmd
}
