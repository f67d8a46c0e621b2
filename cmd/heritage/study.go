package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Describe the reference dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		sum, err := openService().Summary()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if asJSON {
			return printJSON(out, sum)
		}
		fmt.Fprintf(out, "Rows:          %d\n", sum.Rows)
		fmt.Fprintf(out, "Columns:       %d\n", sum.Columns)
		fmt.Fprintf(out, "Target:        %s\n", sum.Target)
		fmt.Fprintf(out, "Key variables: %s\n", strings.Join(sum.KeyVariables, ", "))
		return nil
	},
}

var (
	corrMethod string
	corrTop    int
)

var correlationsCmd = &cobra.Command{
	Use:   "correlations",
	Short: "Rank attributes by their correlation with the sale price",
	RunE: func(cmd *cobra.Command, args []string) error {
		cs, err := openService().Correlations(corrMethod, corrTop)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if asJSON {
			return printJSON(out, cs)
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "VARIABLE\tCOEFFICIENT")
		for _, c := range cs {
			fmt.Fprintf(tw, "%s\t%+.3f\n", c.Variable, c.Coefficient)
		}
		return tw.Flush()
	},
}

var hypothesesCmd = &cobra.Command{
	Use:   "hypotheses",
	Short: "Check the project hypotheses against the data",
	RunE: func(cmd *cobra.Command, args []string) error {
		rs, err := openService().Hypotheses()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if asJSON {
			return printJSON(out, rs)
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "#\tHYPOTHESIS\tFEATURE\tREPORTED\tOBSERVED\tVERDICT")
		for _, r := range rs {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%.2f\t%.2f\t%s\n", r.ID, r.Title, r.Feature, r.Reported, r.Observed, r.Verdict())
		}
		return tw.Flush()
	},
}

var plotOut string

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Render dashboard plots to PNG files",
}

func plotTo(draw func(f *os.File) error) error {
	f, err := os.Create(plotOut)
	if err != nil {
		return err
	}
	if err := draw(f); err != nil {
		f.Close()
		os.Remove(plotOut)
		return err
	}
	return f.Close()
}

var plotScatterCmd = &cobra.Command{
	Use:   "scatter FEATURE",
	Short: "Scatter plot of a feature against the sale price",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := openService()
		return plotTo(func(f *os.File) error { return svc.ScatterPlot(args[0], f) })
	},
}

var plotTargetCmd = &cobra.Command{
	Use:   "target",
	Short: "Histogram of the sale price",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := openService()
		return plotTo(func(f *os.File) error { return svc.TargetPlot(f) })
	},
}

var plotInheritedCmd = &cobra.Command{
	Use:   "inherited",
	Short: "Bar chart of the predicted inherited house prices",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := openService()
		return plotTo(func(f *os.File) error { return svc.InheritedPlot(f) })
	},
}

func init() {
	correlationsCmd.Flags().StringVar(&corrMethod, "method", "pearson", "pearson or spearman")
	correlationsCmd.Flags().IntVar(&corrTop, "top", 10, "Number of variables to show (0 for all)")

	plotCmd.PersistentFlags().StringVarP(&plotOut, "out", "o", "plot.png", "Output file")
	plotCmd.AddCommand(plotScatterCmd)
	plotCmd.AddCommand(plotTargetCmd)
	plotCmd.AddCommand(plotInheritedCmd)
}
