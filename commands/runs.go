package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/zeu5/mdp-dp/store"
)

var limit int

func openStore() (*store.Store, error) {
	addr := redisAddress
	if addr == "" {
		addr = store.DefaultConfig().Address
	}
	return store.New(store.DefaultConfig(), store.WithAddress(addr))
}

// ShowCommand prints a stored run as JSON.
func ShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [run id]",
		Short: "Print a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := openStore()
			if err != nil {
				return err
			}
			defer runs.Close()

			ctx, done := interruptContext()
			defer done()

			run, err := runs.Load(ctx, args[0])
			if err != nil {
				return err
			}
			bs, err := json.MarshalIndent(run, "", "\t")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(bs))
			return nil
		},
	}
	cmd.Flags().StringVar(&redisAddress, "redis", "", "Address of the Redis server")
	return cmd
}

func RunsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List stored runs, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := openStore()
			if err != nil {
				return err
			}
			defer runs.Close()

			ctx, done := interruptContext()
			defer done()

			summaries, err := runs.List(ctx, limit)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, s := range summaries {
				fmt.Fprintf(w, "%s  %-20s  %-17s  %4d  %s\n",
					s.ID, s.Model, s.Algorithm, s.Iterations, s.CreatedAt.Format(time.RFC3339))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&redisAddress, "redis", "", "Address of the Redis server")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to list")
	return cmd
}
