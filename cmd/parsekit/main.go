// Command parsekit parses and formats text records against schema files.
//
//	parsekit check schema.yaml
//	parsekit parse schema.yaml "1 2 hello"
//	parsekit format schema.yaml < values.json
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/reoring/parsekit/schema"
	"github.com/reoring/parsekit/schemafile"

	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("parsekit")

func main() {
	var verbosity int

	rootCmd := &cobra.Command{
		Use:   "parsekit",
		Short: "Schema-driven text record parser and formatter",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			commonlog.Configure(verbosity, nil)
		},
	}
	rootCmd.PersistentFlags().IntVarP(&verbosity, "verbose", "v", 0, "log verbosity (0-2)")

	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newFormatCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <schema-file>",
		Short: "Load a schema file and compile it, reporting configuration errors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSchema(args[0])
			if err != nil {
				return err
			}
			if _, err := schema.Compile(nil, s); err != nil {
				return fmt.Errorf("compile: %w", err)
			}
			names := make([]string, 0, len(s.Fields()))
			for _, f := range s.Fields() {
				names = append(names, f.Name)
			}
			log.Infof("schema ok: %d fields", len(names))
			fmt.Printf("ok: fields [%s], separator %q\n", strings.Join(names, " "), s.SeparatorText())
			return nil
		},
	}
}

func newParseCmd() *cobra.Command {
	var partial bool

	cmd := &cobra.Command{
		Use:   "parse <schema-file> [input]",
		Short: "Parse input text against a schema and print the field values as JSON",
		Long: `Parse input text against a schema.

Input comes from the second argument, or from stdin when omitted.
The parsed field-value map is printed as JSON.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSchema(args[0])
			if err != nil {
				return err
			}
			text, err := inputArg(args, 1)
			if err != nil {
				return err
			}

			ctx := context.Background()
			var values map[string]any
			if partial {
				var rest string
				values, rest, err = schema.ParsePartial(ctx, s, text)
				if err == nil && rest != "" {
					log.Infof("unconsumed remainder: %q", rest)
				}
			} else {
				values, err = schema.Parse(ctx, s, text)
			}
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(values)
		},
	}
	cmd.Flags().BoolVarP(&partial, "partial", "p", false, "allow unconsumed trailing input")
	return cmd
}

func newFormatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "format <schema-file> [values-json]",
		Short: "Format a JSON field-value map back into record text",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSchema(args[0])
			if err != nil {
				return err
			}
			raw, err := inputArg(args, 1)
			if err != nil {
				return err
			}

			var values map[string]any
			if err := json.Unmarshal([]byte(raw), &values); err != nil {
				return fmt.Errorf("decode values: %w", err)
			}
			out, err := schema.Format(context.Background(), s, values)
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		},
	}
}

func loadSchema(path string) (*schema.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		return schemafile.FromYAML(data)
	case ".json":
		return schemafile.FromJSON(data)
	default:
		return nil, fmt.Errorf("unsupported schema file extension %q", ext)
	}
}

// inputArg returns args[i] when present, otherwise reads stdin. A single
// trailing newline is trimmed so shell-piped records parse cleanly.
func inputArg(args []string, i int) (string, error) {
	if len(args) > i {
		return args[i], nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimSuffix(string(data), "\n"), nil
}
