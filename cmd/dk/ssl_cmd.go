package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/funnyzak/dk/internal/log"
	"github.com/funnyzak/dk/internal/output"
	"github.com/funnyzak/dk/internal/sslcert"
)

func newSSLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ssl",
		Short:   "Inspect certificates and generate self-signed ones",
		GroupID: GroupFiles,
		Long: `Inspect TLS certificates and generate self-signed ones with openssl.

Targets are either a local PEM file or a host; a host without a port
defaults to :443.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return sslcert.Check()
		},
	}

	cmd.AddCommand(newSSLInspectCmd())
	cmd.AddCommand(newSSLExpiryCmd())
	cmd.AddCommand(newSSLFingerprintCmd())
	cmd.AddCommand(newSSLSelfSignedCmd())

	return cmd
}

func newSSLInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file-or-host>",
		Short: "Print the full certificate text",
		Args:  cobra.ExactArgs(1),
		Example: `  dk ssl inspect example.com
  dk ssl inspect example.com:8443
  dk ssl inspect ./server.pem`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			text, err := sslcert.ResolveTarget(args[0]).Inspect(ctx)
			if err != nil {
				return err
			}
			output.FromContext(ctx).Print(text)
			return nil
		},
	}
}

func newSSLExpiryCmd() *cobra.Command {
	var warnDays int

	cmd := &cobra.Command{
		Use:   "expiry <file-or-host>",
		Short: "Print when a certificate expires",
		Args:  cobra.ExactArgs(1),
		Long: `Print when a certificate expires.

With --warn, exits with an error when the certificate expires within
that many days, so the command works in cron jobs and CI checks.`,
		Example: `  dk ssl expiry example.com
  dk ssl expiry example.com --warn 14`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			target := sslcert.ResolveTarget(args[0])
			notAfter, err := target.NotAfter(ctx)
			if err != nil {
				return err
			}

			left := time.Until(notAfter)
			days := int(left.Hours() / 24)
			output.FromContext(ctx).Printf("%s\n", notAfter.Format(time.RFC3339))

			switch {
			case left < 0:
				return fmt.Errorf("certificate expired %d days ago", -days)
			case warnDays > 0 && days < warnDays:
				return fmt.Errorf("certificate expires in %d days (warn threshold %d)", days, warnDays)
			default:
				log.FromContext(ctx).Printf("Expires in %d days\n", days)
				return nil
			}
		},
	}

	cmd.Flags().IntVar(&warnDays, "warn", 0, "Fail when expiring within this many days")
	return cmd
}

func newSSLFingerprintCmd() *cobra.Command {
	var digest string

	cmd := &cobra.Command{
		Use:   "fingerprint <file-or-host>",
		Short: "Print a certificate fingerprint",
		Args:  cobra.ExactArgs(1),
		Example: `  dk ssl fingerprint example.com
  dk ssl fingerprint server.pem --digest sha1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			fp, err := sslcert.ResolveTarget(args[0]).Fingerprint(ctx, digest)
			if err != nil {
				return err
			}
			output.FromContext(ctx).Println(fp)
			return nil
		},
	}

	cmd.Flags().StringVar(&digest, "digest", "sha256", "Digest: sha256, sha1, or md5")
	return cmd
}

func newSSLSelfSignedCmd() *cobra.Command {
	var p sslcert.SelfSignedParams

	cmd := &cobra.Command{
		Use:   "selfsigned <common-name>",
		Short: "Generate a self-signed certificate and key",
		Args:  cobra.ExactArgs(1),
		Example: `  dk ssl selfsigned localhost
  dk ssl selfsigned dev.local --days 90 --key dev.key --cert dev.crt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p.CommonName = args[0]
			ctx := cmd.Context()
			if err := sslcert.SelfSigned(ctx, p); err != nil {
				return err
			}
			keyOut, certOut := p.OutputNames()
			log.FromContext(ctx).Printf("Wrote %s and %s (CN=%s, %d days)\n",
				keyOut, certOut, p.CommonName, p.Days)
			return nil
		},
	}

	cmd.Flags().IntVar(&p.Days, "days", 365, "Validity period in days")
	cmd.Flags().IntVar(&p.KeyBits, "bits", 2048, "RSA key size")
	cmd.Flags().StringVar(&p.KeyOut, "key", "", "Private key output file (default: <common-name>.key)")
	cmd.Flags().StringVar(&p.CertOut, "cert", "", "Certificate output file (default: <common-name>.crt)")
	cmd.Flags().BoolVarP(&p.Force, "force", "f", false, "Overwrite existing output files")
	return cmd
}
