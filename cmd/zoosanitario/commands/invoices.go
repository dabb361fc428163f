package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/esmeraldas/zoosanitario/internal/domain/entities"
	"github.com/esmeraldas/zoosanitario/internal/services/invoice"
	"github.com/spf13/cobra"
)

func invoicesCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "invoices",
		Aliases: []string{"facturas"},
		Short:   "Slaughter invoices",
	}

	var (
		page   pageFlags
		status string
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List invoices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			invoices, err := c.wire.Invoices.Paginate(cmd.Context(), page.page())
			if err != nil {
				return err
			}
			t := newTable(cmd.OutOrStdout(), "ID", "NÚMERO", "INTRODUCTOR", "TOTAL", "ESTADO", "EMITIDA")
			for _, inv := range invoices {
				if status != "" && string(inv.Status) != status {
					continue
				}
				t.row(inv.ID.String(), inv.Number, inv.IntroducerID.String(), inv.Total.StringFixed(2), string(inv.Status), date(inv.IssuedAt))
			}
			return t.flush()
		},
	}
	page.register(list)
	list.Flags().StringVar(&status, "status", "", "only invoices in this status (pending, paid, cancelled)")

	var (
		introducer string
		lines      []string
	)
	create := &cobra.Command{
		Use:     "create",
		Short:   "Bill an introducer",
		Example: `  zoosanitario invoices create --introducer 12 --line 3:4 --line 5:1`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseLines(lines)
			if err != nil {
				return err
			}
			inv, err := c.wire.InvoiceService.Create(cmd.Context(), entities.ID(introducer), parsed)
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "factura %s creada por %s", inv.Number, inv.Total.StringFixed(2))
			return nil
		},
	}
	create.Flags().StringVar(&introducer, "introducer", "", "introducer id")
	create.Flags().StringArrayVar(&lines, "line", nil, "rate id and quantity as RATE:QTY (repeatable)")
	_ = create.MarkFlagRequired("introducer")
	_ = create.MarkFlagRequired("line")

	pay := &cobra.Command{
		Use:   "pay <id>",
		Short: "Mark a pending invoice as paid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := c.wire.InvoiceService.MarkPaid(cmd.Context(), entities.ID(args[0]))
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "factura %s pagada", inv.Number)
			return nil
		},
	}

	cmd.AddCommand(list, create, pay)
	return cmd
}

func parseLines(raw []string) ([]invoice.Line, error) {
	out := make([]invoice.Line, 0, len(raw))
	for _, r := range raw {
		rate, qty, ok := strings.Cut(r, ":")
		if !ok || strings.TrimSpace(rate) == "" {
			return nil, fmt.Errorf("invalid line %q: want RATE:QTY", r)
		}
		n, err := strconv.ParseInt(strings.TrimSpace(qty), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid quantity in %q: %w", r, err)
		}
		out = append(out, invoice.Line{RateID: entities.ID(strings.TrimSpace(rate)), Quantity: n})
	}
	return out, nil
}
