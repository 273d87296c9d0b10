package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	verskema "github.com/reoring/verskema"
	"github.com/reoring/verskema/backend"
	"github.com/reoring/verskema/i18n"
	"github.com/reoring/verskema/roundtrip"
)

func newInspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "inspect <key>",
		Short:       "Print the record type and version of a stored archive",
		Annotations: storeAnnotation,
		Args:        cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			key := args[0]
			b, err := backendForKey(a, key)
			if err != nil {
				return err
			}
			hdr, err := roundtrip.Inspect(cmd.Context(), a.store, b, key)
			if err != nil {
				describe(cmd.ErrOrStderr(), a.tr, err)
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", keyStyle.Render("type:"), hdr.TypeName)
			fmt.Fprintf(out, "%s %s\n", keyStyle.Render("version:"), hdr.Version)
			fmt.Fprintf(out, "%s %s\n", keyStyle.Render("format:"), b.Format())
			return nil
		}),
	}
}

// backendForKey picks the backend from the key's extension, falling back to
// the configured one.
func backendForKey(a *app, key string) (verskema.Backend, error) {
	for _, f := range []verskema.Format{verskema.FormatBinary, verskema.FormatText} {
		if strings.HasSuffix(key, backend.Extension(f)) {
			if f == a.backend.Format() {
				return a.backend, nil
			}
			return backend.Select(string(f), a.cfg.BackendOptions())
		}
	}
	return a.backend, nil
}

// describe prints each issue of err with its localized code message.
func describe(w io.Writer, tr i18n.Translator, err error) {
	iss, ok := verskema.AsIssues(err)
	if !ok {
		return
	}
	for _, it := range iss {
		fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("%s: %s (%s)", tr.Message(it.Code, nil), it.Message, it.Path)))
	}
}
