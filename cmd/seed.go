package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	repository "task-tracker.com/task-tracker/internal/repositories"
	"task-tracker.com/task-tracker/internal/seed"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load tasks from a YAML file",
	Long:  "Creates the tasks listed in a YAML file. Running servers sharing the change feed pick them up live.",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(seedFile)
		if err != nil {
			return fmt.Errorf("opening seed file: %w", err)
		}
		defer f.Close()

		fields, err := seed.Parse(f)
		if err != nil {
			return err
		}

		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.close()

		if err := rt.ping(cmd.Context()); err != nil {
			return err
		}

		tasks := repository.NewTaskRepository(rt.db, rt.feed, rt.logger)
		n, err := seed.Apply(cmd.Context(), fields, tasks)
		rt.logger.Infow("seeded tasks", "file", seedFile, "created", n)
		return err
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "tasks.yaml", "YAML file with a top-level tasks list")
	rootCmd.AddCommand(seedCmd)
}
