package commands

import (
	"github.com/spf13/cobra"
	"github.com/zeu5/mdp-dp/logging"
	"github.com/zeu5/mdp-dp/server"
	"github.com/zeu5/mdp-dp/store"
)

var port int

func ServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the solvers over HTTP",
		RunE:  serve,
	}
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to listen on")
	cmd.Flags().StringVar(&redisAddress, "redis", "", "Keep solved runs in the Redis server at this address")
	return cmd
}

func serve(cmd *cobra.Command, args []string) error {
	run, err := runConfig(cmd, nil)
	if err != nil {
		return err
	}

	ctx, done := interruptContext()
	defer done()

	opts := []server.Option{
		server.WithDefaults(run),
		server.WithLogger(logging.Get()),
	}
	if redisAddress != "" {
		runs, err := store.New(store.DefaultConfig(), store.WithAddress(redisAddress))
		if err != nil {
			return err
		}
		defer runs.Close()
		opts = append(opts, server.WithStore(runs))
	}
	return server.New(ctx, port, opts...).Run()
}
