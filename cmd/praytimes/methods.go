package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	"go.ngs.io/praytimes/internal/domain"
)

func runMethods(_ context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("methods", flag.ContinueOnError)
	asJSON := fs.Bool("json", false, "Print JSON with full parameters")
	fs.SetOutput(stdout)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	methods := domain.Methods()
	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(methods)
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tFAJR\tISHA\tMIDNIGHT\tNAME")
	for _, m := range methods {
		fmt.Fprintf(tw, "%s\t%g°\t%s\t%s\t%s\n", m.Code, m.Parameters.Fajr, m.Parameters.Isha, m.Parameters.Midnight, m.Name)
	}
	return tw.Flush()
}
