package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/esmeraldas/zoosanitario/internal/services/stats"
	"github.com/spf13/cobra"
)

func statsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print invoice, certificate and introducer statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := c.wire.Stats.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "Facturas: %d (facturado %s, cobrado %s, pendiente %s)\n",
				d.Invoices.Total, d.Invoices.Billed.StringFixed(2), d.Invoices.Collected.StringFixed(2), d.Invoices.Pending.StringFixed(2))
			if err := buckets(out, d.Invoices.ByStatus); err != nil {
				return err
			}

			fmt.Fprintf(out, "\nCertificados: %d (%d animales)\n", d.Certificates.Total, d.Certificates.Animals)
			if err := buckets(out, d.Certificates.ByStatus); err != nil {
				return err
			}
			if err := buckets(out, d.Certificates.BySpecies); err != nil {
				return err
			}

			fmt.Fprintf(out, "\nIntroductores: %d\n", d.Introducers.Total)
			rows := append([]stats.Bucket{d.Introducers.Active, d.Introducers.Inactive}, d.Introducers.ByKind...)
			return buckets(out, rows)
		},
	}
}

func buckets(out io.Writer, rows []stats.Bucket) error {
	t := newTable(out, "", "CANTIDAD", "%")
	for _, b := range rows {
		t.row(b.Label, strconv.Itoa(b.Count), b.Percent.StringFixed(2))
	}
	return t.flush()
}
