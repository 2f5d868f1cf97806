package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/wordgame/wordclient/internal/wire"
)

var (
	protocolCmd = &cobra.Command{
		Use:   "protocol [kind...]",
		Short: "Print the wire layout of the protocol messages",
		Run:   startProtocol,
	}
)

func init() {
	Root.AddCommand(protocolCmd)
}

func startProtocol(cmd *cobra.Command, args []string) {
	kinds, err := parseKinds(args)
	if err != nil {
		exitWithError(err.Error())
		return
	}

	if err := writeSchemas(os.Stdout, kinds); err != nil {
		exitWithError(err.Error())
	}
}

// parseKinds returns the kinds named in args, or all of them if there are
// none.
func parseKinds(args []string) ([]wire.Kind, error) {
	if len(args) == 0 {
		return wire.Kinds(), nil
	}

	kinds := make([]wire.Kind, 0, len(args))
	for _, arg := range args {
		kind, err := wire.ParseKind(arg)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

func writeSchemas(w io.Writer, kinds []wire.Kind) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TAG\tKIND\tFIELDS")
	for _, kind := range kinds {
		schema, ok := wire.SchemaOf(kind)
		if !ok {
			return fmt.Errorf("no schema for %s", kind)
		}

		fields := make([]string, 0, len(schema))
		for _, field := range schema {
			fields = append(fields, fmt.Sprintf("%s:%s", field.Name, field.Type))
		}
		fmt.Fprintf(tw, "0x%04x\t%s\t%s\n", uint16(kind), kind, strings.Join(fields, " "))
	}
	return tw.Flush()
}
