package commands

import (
	"github.com/Kirtivanjode/wanderwithkii/jobs"
	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep-images",
	Short: "Delete image rows that nothing references",
	Long: `Deletes image rows no post, food item, adventure or section points to
and that are older than IMAGE_SWEEP_GRACE. The server runs the same sweep on
IMAGE_SWEEP_SCHEDULE.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		db, closeDB, err := openDatabase(cfg, log)
		if err != nil {
			return err
		}
		defer closeDB()

		images, closeCache, err := openImageCache(cfg)
		if err != nil {
			return err
		}
		defer closeCache()

		n, err := jobs.NewImageSweeper(db, images, nil, cfg.ImageSweepGrace, log).SweepOrphans(cmd.Context())
		if err != nil {
			return err
		}
		cmd.Printf("Removed %d orphan images\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}
