// saldo 巴西企业净增数看板：读取工作簿，按州与全国汇总，并通过 HTTP 提供查询与图表
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"saldo/internal/config"
)

// 构建时通过 -ldflags 注入
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var (
	cfg     *config.AppConfig
	cfgInfo config.LoadConfigInfo
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "saldo",
		Short:         "Saldo de Empresas - 巴西企业净增数看板",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// .env 可选
			if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
				log.Printf("读取 .env 失败: %v", err)
			}

			var err error
			if path, _ := cmd.Flags().GetString("config"); path != "" {
				cfg, cfgInfo, err = config.LoadFrom(path)
			} else {
				cfg, cfgInfo, err = config.LoadConfigWithInfo()
			}
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if v, _ := cmd.Flags().GetString("workbook"); v != "" {
				cfg.Data.Workbook = v
			}
			if v, _ := cmd.Flags().GetString("geo"); v != "" {
				cfg.Data.GeoJSON = v
			}
			if v, _ := cmd.Flags().GetString("data-dir"); v != "" {
				cfg.Data.DataDir = v
			}
			return nil
		},
	}

	root.PersistentFlags().String("config", "", "配置文件路径 (默认: 可执行文件同目录的 config.toml)")
	root.PersistentFlags().String("workbook", "", "源工作簿：本地路径或 s3://bucket/key")
	root.PersistentFlags().String("geo", "", "州边界 GeoJSON 文件")
	root.PersistentFlags().String("data-dir", "", "数据目录 (覆盖配置文件)")

	root.AddCommand(newServeCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newInspectCmd())
	root.AddCommand(newVersionCmd())

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "打印版本信息",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "saldo %s\n", version)
			fmt.Fprintf(out, "  commit:  %s\n", commit)
			fmt.Fprintf(out, "  built:   %s\n", date)
		},
	}
}
