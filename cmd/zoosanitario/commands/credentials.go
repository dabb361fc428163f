package commands

import (
	"fmt"

	"github.com/esmeraldas/zoosanitario/internal/infrastructure/api"
	"github.com/spf13/cobra"
)

func credentialsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credentials",
		Short: "Oracle service account used by the API",
	}

	var (
		creds api.OracleCredentials
		save  bool
	)
	set := &cobra.Command{
		Use:   "set",
		Short: "Submit the Oracle account to the API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.wire.Client.SubmitCredentials(cmd.Context(), creds); err != nil {
				return err
			}
			if save {
				c.cfg.Oracle.User = creds.User
				c.cfg.Oracle.Password = creds.Password
				if err := c.cfg.Save(c.configPath); err != nil {
					return err
				}
			}
			success(cmd.OutOrStdout(), "credenciales de Oracle configuradas para %s", creds.User)
			return nil
		},
	}
	set.Flags().StringVar(&creds.User, "user", "", "Oracle user")
	set.Flags().StringVar(&creds.Password, "password", "", "Oracle password")
	set.Flags().BoolVar(&save, "save", false, "also store the account in the config file")
	_ = set.MarkFlagRequired("user")
	_ = set.MarkFlagRequired("password")

	status := &cobra.Command{
		Use:   "status",
		Short: "Show whether the API holds Oracle credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.wire.Client.CredentialsStatus(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !st.Configured {
				fmt.Fprintln(out, "sin credenciales de Oracle")
			} else {
				fmt.Fprintf(out, "configuradas para %s\n", st.User)
			}
			if st.Message != "" {
				fmt.Fprintln(out, st.Message)
			}
			return nil
		},
	}

	cmd.AddCommand(set, status)
	return cmd
}
