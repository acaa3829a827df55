// Package main implements gviz-tools, a small cobra CLI for inspecting
// data sources offline — schema discovery and CSV column sniffing —
// without standing up the HTTP server.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lychee-technology/gviz"
	"github.com/lychee-technology/gviz/factory"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gviz-tools",
		Short: "Inspection tools for gviz data sources",
	}

	rootCmd.AddCommand(schemaCmd())
	rootCmd.AddCommand(csvCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func schemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Schema inspection commands",
	}
	cmd.AddCommand(schemaInspectCmd())
	return cmd
}

func schemaInspectCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the inferred column schema of a CSV file",
		RunE: func(_ *cobra.Command, args []string) error {
			return runSchemaInspect(path)
		},
	}
	cmd.Flags().StringVarP(&path, "path", "p", "", "path to a CSV file")
	cmd.MarkFlagRequired("path")
	return cmd
}

func runSchemaInspect(path string) error {
	provider := factory.NewCSVProvider(path)
	cols, err := provider.Describe(context.Background())
	if err != nil {
		return err
	}
	for _, c := range cols {
		fmt.Printf("%s\t%s\n", c.ID, c.Type)
	}
	return nil
}

func csvCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "csv",
		Short: "CSV inspection commands",
	}
	cmd.AddCommand(csvDescribeCmd())
	return cmd
}

func csvDescribeCmd() *cobra.Command {
	var path string
	var limit int
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print row/column counts and a sample of a CSV file",
		RunE: func(_ *cobra.Command, args []string) error {
			return runCSVDescribe(path, limit)
		},
	}
	cmd.Flags().StringVarP(&path, "path", "p", "", "path to a CSV file")
	cmd.Flags().IntVarP(&limit, "limit", "l", 5, "number of sample rows to print")
	cmd.MarkFlagRequired("path")
	return cmd
}

func runCSVDescribe(path string, limit int) error {
	provider := factory.NewCSVProvider(path)
	t, err := provider.Generate(context.Background(), &gviz.Query{}, gviz.RequestContext{Locale: "en-US"})
	if err != nil {
		return err
	}
	fmt.Printf("columns: %d\nrows: %d\n", t.NumColumns(), t.NumRows())
	for i, row := range t.Rows {
		if i >= limit {
			break
		}
		for _, cell := range row.Cells {
			fmt.Printf("%v\t", cellDebugString(cell))
		}
		fmt.Println()
	}
	return nil
}

func cellDebugString(c gviz.Cell) string {
	if c.Value.IsNull() {
		return "null"
	}
	lit, err := c.Value.QueryLiteral()
	if err != nil {
		return ""
	}
	return lit
}
