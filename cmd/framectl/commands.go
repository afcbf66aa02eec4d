package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"adframes/internal/config"
	"adframes/internal/csvexport"
	"adframes/internal/domain"
	"adframes/internal/ingest"
	"adframes/internal/ingest/decode"
	"adframes/internal/ingest/mapping"
	"adframes/internal/service"
)

// errCheckFailed signals that the file has problems; the report was printed.
var errCheckFailed = errors.New("file has validation errors")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "framectl",
		Short:         "Offline tools for bulk frame inventory files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newCheckCmd(), newTemplateCmd(), newTokenCmd())
	return root
}

func newCheckCmd() *cobra.Command {
	var encoding, out string
	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Decode, map, group and validate a file without uploading it",
		Long: `check runs the same decoding, header mapping, grouping and validation as an
upload preview. Duplicate detection against stored inventory is skipped.

The error report (Row, Identifier, Field, Value, Error) goes to stdout or --out.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if limit := cfg.Upload.MaxFileSize(); limit > 0 && int64(len(data)) > limit {
				return domain.ErrFileTooLarge
			}
			return runCheck(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, args[0], data, encoding, out)
		},
	}
	cmd.Flags().StringVar(&encoding, "encoding", "", "text encoding to try first")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the error report to this file")
	return cmd
}

func runCheck(ctx context.Context, stdout, stderr io.Writer, cfg *config.Config, name string, data []byte, encoding, out string) error {
	res, err := decode.Resolve(data, name, decode.Candidates(encoding, cfg.Upload.DefaultEncodings))
	if err != nil {
		return err
	}

	p := ingest.NewPipeline(cfg, nil)
	sess := p.Start(domain.UploadSession{ID: uuid.New(), FileName: name}, res)
	fmt.Fprintf(stderr, "%s: %d rows, encoding %s\n", name, len(sess.Rows), sess.Encoding)
	for _, f := range p.Fields {
		if header, ok := sess.Mapping[f.Key]; ok {
			fmt.Fprintf(stderr, "  %-18s <- %s\n", f.Key, header)
		}
	}

	ev, err := p.Evaluate(ctx, &sess)
	if err != nil {
		return err
	}
	fmt.Fprintf(stderr, "%d frames, %d valid, %d errors\n", len(ev.Groups), len(ev.Valid), len(ev.Errors))
	if len(ev.Errors) == 0 {
		return nil
	}

	w := stdout
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		w = f
	}
	if err := csvexport.WriteReport(w, ev.Errors, nil); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return errCheckFailed
}

func newTemplateCmd() *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write the upload template (csv or xlsx)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer func() { _ = f.Close() }()
				w = f
			}
			fields := mapping.CanonicalFields()
			switch format {
			case "csv":
				return csvexport.WriteTemplateCSV(w, fields)
			case "xlsx":
				return csvexport.WriteTemplateXLSX(w, fields)
			default:
				return fmt.Errorf("unknown format %q; use csv or xlsx", format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "csv or xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func newTokenCmd() *cobra.Command {
	var owner, email string
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an owner token signed with the configured secret, for local testing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ownerID, err := uuid.Parse(owner)
			if err != nil {
				return fmt.Errorf("invalid --owner: %w", err)
			}
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			token, err := service.NewAuthService(cfg.JWT).IssueToken(ownerID, email, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "owner UUID")
	cmd.Flags().StringVar(&email, "email", "", "owner email for commit notifications")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}
