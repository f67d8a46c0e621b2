package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/NatashaRy/house-price-predictor/internal/dashboard"
	"github.com/NatashaRy/house-price-predictor/pkg/features"
	"github.com/NatashaRy/house-price-predictor/pkg/model"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict sale prices",
}

var predictInheritedCmd = &cobra.Command{
	Use:   "inherited",
	Short: "Predict the price of every inherited house",
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := openService().PredictInherited()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if asJSON {
			return printJSON(out, res)
		}
		if len(res.Houses) == 0 {
			return nil
		}
		names := res.Houses[0].Features.Spec().Names()
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "#\t%s\tPredictedSalePrice\n", strings.Join(names, "\t"))
		for i, h := range res.Houses {
			cells := make([]string, 0, len(names))
			for _, v := range h.Features.Values() {
				cells = append(cells, v.String())
			}
			fmt.Fprintf(tw, "%d\t%s\t%.2f\n", i+1, strings.Join(cells, "\t"), h.PredictedSalePrice)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nTotal predicted sale price: $%.2f\n", res.Total)
		return nil
	},
}

var (
	houseSet   []string
	houseScale string
)

var predictHouseCmd = &cobra.Command{
	Use:   "house",
	Short: "Predict the price of one house",
	Long: `Predicts the price of a single house. Features not given with --set take
the median (numbers) or the most common value (categories) of the
reference data.

Example:
  heritage predict house --set GrLivArea=1710 --set KitchenQual=Gd
  heritage predict house --scale five --set OverallQual=4 --set KitchenQual=4`,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := features.ParseAssignments(houseSet)
		if err != nil {
			return err
		}
		h, err := openService().PredictHouse(raw, houseScale)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if asJSON {
			return printJSON(out, h)
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		spec := h.Features.Spec()
		for i, v := range h.Features.Values() {
			fmt.Fprintf(tw, "%s\t%s\n", spec.Name(i), v)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nPredicted sale price: $%.2f\n", h.PredictedSalePrice)
		return nil
	},
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Describe the pipeline and score it on the train and test sets",
	RunE: func(cmd *cobra.Command, args []string) error {
		rep, err := openService().Performance()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if asJSON {
			return printJSON(out, rep)
		}
		fmt.Fprintln(out, rep.Pipeline)
		fmt.Fprintf(out, "Features: %s\n", strings.Join(rep.Features, ", "))
		for _, s := range []struct {
			name string
			r    *model.Report
		}{{dashboard.Train, rep.Train}, {dashboard.Test, rep.Test}} {
			if s.r == nil {
				continue
			}
			fmt.Fprintf(out, "%s: MAE %.2f  MSE %.2f  RMSE %.2f  R2 %.2f\n", s.name, s.r.MAE, s.r.MSE, s.r.RMSE, s.r.R2)
		}
		return nil
	},
}

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the inherited predictions to an XLSX workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := openService().ExportInherited()
		if err != nil {
			return err
		}
		if err := os.WriteFile(exportOut, b, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", exportOut)
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	},
}

func init() {
	predictHouseCmd.Flags().StringArrayVar(&houseSet, "set", nil, "Feature value as name=value (repeatable)")
	predictHouseCmd.Flags().StringVar(&houseScale, "scale", "native", "Quality rating scale: native or five")

	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "inherited_predictions.xlsx", "Output file")

	predictCmd.AddCommand(predictInheritedCmd)
	predictCmd.AddCommand(predictHouseCmd)
}
