package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"saldo/internal/config"
	"saldo/internal/exporter"
)

func newExportCmd() *cobra.Command {
	var (
		output         string
		municipalities bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "导出按州与全国汇总的工作簿",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := loadData(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("加载数据失败: %w", err)
			}

			if output == "" {
				dataDir, err := config.EnsureDataDir(cfg)
				if err != nil {
					return err
				}
				output = filepath.Join(dataDir, "exports", "saldo-agregado.xlsx")
			}

			f, err := exporter.NewExporter(result.Dataset).Export(exporter.ExportOptions{
				Municipalities: municipalities,
				Progress: func(e exporter.ProgressEvent) {
					fmt.Fprintf(cmd.ErrOrStderr(), "[%3d%%] %s\n", e.Percent, e.Stage)
				},
			})
			if err != nil {
				return err
			}
			defer f.Close()

			if err := f.SaveAs(output); err != nil {
				return fmt.Errorf("保存 %s 失败: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "已导出: %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "输出文件 (默认: 数据目录/exports/saldo-agregado.xlsx)")
	cmd.Flags().BoolVar(&municipalities, "municipalities", false, "附加市镇明细 Sheet")
	return cmd
}
