package commands

import (
	"time"

	"github.com/esmeraldas/zoosanitario/internal/domain/entities"
	"github.com/esmeraldas/zoosanitario/internal/services/certificate"
	"github.com/spf13/cobra"
)

func certificatesCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "certificates",
		Aliases: []string{"certificados"},
		Short:   "Zoosanitary transport certificates",
	}

	var page pageFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "List certificates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			certs, err := c.wire.Certificates.Paginate(cmd.Context(), page.page())
			if err != nil {
				return err
			}
			now := time.Now()
			t := newTable(cmd.OutOrStdout(), "ID", "NÚMERO", "ESPECIE", "ANIMALES", "DESTINO", "ESTADO", "VÁLIDO HASTA")
			for _, ct := range certs {
				t.row(ct.ID.String(), ct.Number, string(ct.Species), itoa(ct.AnimalCount), ct.Destination, string(ct.EffectiveStatus(now)), date(ct.ValidUntil))
			}
			return t.flush()
		},
	}
	page.register(list)

	var (
		req     certificate.IssueRequest
		species string
		plate   string
	)
	issue := &cobra.Command{
		Use:   "issue",
		Short: "Issue a certificate against a paid invoice",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Species = entities.Species(species)
			req.VehiclePlate = entities.VehiclePlate(plate)
			cert, err := c.wire.CertificateService.Issue(cmd.Context(), req)
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "certificado %s emitido, código %s, válido hasta %s", cert.Number, cert.VerificationCode, date(cert.ValidUntil))
			return nil
		},
	}
	issue.Flags().StringVar((*string)(&req.IntroducerID), "introducer", "", "introducer id")
	issue.Flags().StringVar((*string)(&req.InvoiceID), "invoice", "", "paid invoice id")
	issue.Flags().StringVar(&species, "species", string(entities.SpeciesBovine), "species (bovino, porcino, ovino, caprino, aves)")
	issue.Flags().Int64Var(&req.AnimalCount, "animals", 0, "number of animals")
	issue.Flags().StringVar(&req.Origin, "origin", "", "origin farm or parish")
	issue.Flags().StringVar(&req.Destination, "destination", "", "destination")
	issue.Flags().StringVar(&plate, "plate", "", "vehicle plate")
	_ = issue.MarkFlagRequired("introducer")
	_ = issue.MarkFlagRequired("invoice")
	_ = issue.MarkFlagRequired("animals")
	_ = issue.MarkFlagRequired("destination")

	var reason string
	annul := &cobra.Command{
		Use:   "annul <id>",
		Short: "Annul an issued certificate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cert, err := c.wire.CertificateService.Annul(cmd.Context(), entities.ID(args[0]), reason)
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "certificado %s anulado", cert.Number)
			return nil
		},
	}
	annul.Flags().StringVar(&reason, "reason", "", "annulment reason")
	_ = annul.MarkFlagRequired("reason")

	verify := &cobra.Command{
		Use:   "verify <code>",
		Short: "Check a verification code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := c.wire.CertificateService.VerifyRemote(cmd.Context(), entities.VerificationCode(args[0]))
			if err != nil {
				return err
			}
			t := newTable(cmd.OutOrStdout(), "CAMPO", "VALOR")
			t.row("número", v.Certificate.Number)
			t.row("estado", string(v.Status))
			t.row("válido", yesNo(v.Valid))
			t.row("especie", string(v.Certificate.Species))
			t.row("animales", itoa(v.Certificate.AnimalCount))
			t.row("destino", v.Certificate.Destination)
			t.row("placa", string(v.Certificate.VehiclePlate))
			t.row("válido hasta", date(v.Certificate.ValidUntil))
			return t.flush()
		},
	}

	cmd.AddCommand(list, issue, annul, verify)
	return cmd
}
