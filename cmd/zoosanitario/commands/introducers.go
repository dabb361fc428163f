package commands

import (
	"github.com/esmeraldas/zoosanitario/internal/domain/entities"
	"github.com/spf13/cobra"
)

func introducersCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "introducers",
		Aliases: []string{"introductores"},
		Short:   "Livestock introducers",
	}

	var page pageFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "List introducers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			introducers, err := c.wire.Introducers.Paginate(cmd.Context(), page.page())
			if err != nil {
				return err
			}
			t := newTable(cmd.OutOrStdout(), "ID", "CÉDULA/RUC", "NOMBRE", "TIPO", "ACTIVO")
			for _, i := range introducers {
				t.row(i.ID.String(), string(i.IDCard), i.DisplayName(), string(i.Kind), yesNo(i.Active))
			}
			return t.flush()
		},
	}
	page.register(list)

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one introducer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := c.wire.Introducers.Get(cmd.Context(), entities.ID(args[0]))
			if err != nil {
				return err
			}
			t := newTable(cmd.OutOrStdout(), "CAMPO", "VALOR")
			t.row("id", i.ID.String())
			t.row("cédula/ruc", string(i.IDCard))
			t.row("nombre", i.DisplayName())
			t.row("tipo", string(i.Kind))
			t.row("teléfono", i.Phone)
			t.row("email", i.Email)
			t.row("dirección", i.Address)
			t.row("activo", yesNo(i.Active))
			t.row("registrado", date(i.RegisteredAt))
			return t.flush()
		},
	}

	cmd.AddCommand(list, get)
	return cmd
}
