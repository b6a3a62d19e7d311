package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"saldo/internal/dataset"
	"saldo/internal/model"
	"saldo/internal/util"
)

func newInspectCmd() *cobra.Command {
	var (
		year     int
		location string
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "打印各类别记录数与指定年份的合计",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := loadData(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("加载数据失败: %w", err)
			}
			return printInspect(cmd, result.Dataset, model.ParseSelection(location), year)
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "年份 (默认: 最新年份)")
	cmd.Flags().StringVar(&location, "location", model.NationalSentinel, "地区：BRASIL 或州代码")
	return cmd
}

func printInspect(cmd *cobra.Command, ds *dataset.Dataset, sel model.Selection, year int) error {
	years := ds.Years()
	if year == 0 && len(years) > 0 {
		year = years[len(years)-1]
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "来源: %s\n快照: %s\n年份: %s\n地区: %s\n\n", ds.Source, ds.ID, yearRange(years), sel)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "类别\t记录数\t%d\t\n", year)
	for _, c := range model.Categories {
		v, err := ds.Total(c, sel, year)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t\n", c.Label(), ds.RecordCount(c), util.FormatBalance(v))
	}
	return w.Flush()
}
