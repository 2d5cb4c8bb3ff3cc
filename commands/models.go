package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zeu5/mdp-dp/models"
)

func ModelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the built-in models",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			for _, sc := range models.Catalog() {
				m, err := sc.Build(models.DefaultDiscount)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%-18s %3d states %2d actions  start %-14s %s\n",
					sc.Name, m.NumStates(), m.NumActions(), sc.Start, sc.Description)
			}
			return nil
		},
	}
}
