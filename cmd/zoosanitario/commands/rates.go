package commands

import (
	"github.com/esmeraldas/zoosanitario/internal/domain/entities"
	"github.com/spf13/cobra"
)

func ratesCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Slaughter and inspection rates",
	}

	var page pageFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "List rates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rates, err := c.wire.Rates.Paginate(cmd.Context(), page.page())
			if err != nil {
				return err
			}
			t := newTable(cmd.OutOrStdout(), "ID", "CÓDIGO", "NOMBRE", "ESPECIE", "VALOR", "ACTIVA")
			for _, r := range rates {
				t.row(r.ID.String(), string(r.Code), r.Name, string(r.Species), r.UnitPrice.StringFixed(2), yesNo(r.Active))
			}
			return t.flush()
		},
	}
	page.register(list)

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one rate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := c.wire.Rates.Get(cmd.Context(), entities.ID(args[0]))
			if err != nil {
				return err
			}
			t := newTable(cmd.OutOrStdout(), "CAMPO", "VALOR")
			t.row("id", r.ID.String())
			t.row("código", string(r.Code))
			t.row("nombre", r.Name)
			t.row("descripción", r.Description)
			t.row("especie", string(r.Species))
			t.row("unidad", string(r.Unit))
			t.row("valor unitario", r.UnitPrice.StringFixed(2))
			t.row("activa", yesNo(r.Active))
			t.row("vigente desde", date(r.ValidFrom))
			return t.flush()
		},
	}

	cmd.AddCommand(list, get)
	return cmd
}
