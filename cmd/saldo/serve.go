package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"saldo/internal/config"
	"saldo/internal/server"
	"saldo/internal/util"
)

func newServeCmd() *cobra.Command {
	var (
		port      int
		devMode   bool
		noBrowser bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "加载数据并启动看板服务",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("==========================================")
			fmt.Println("  Saldo de Empresas - 企业净增数看板")
			fmt.Println("==========================================")

			// config.toml 中显式配置的端口优先
			if port > 0 && !cfgInfo.PortSpecified {
				cfg.Server.Port = port
			}
			if devMode {
				cfg.Server.DevMode = true
			}

			dataDir, err := config.EnsureDataDir(cfg)
			if err != nil {
				log.Printf("创建数据目录失败: %v", err)
			} else {
				fmt.Printf("数据目录: %s\n", dataDir)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			result, err := loadData(ctx, cfg)
			if err != nil {
				return fmt.Errorf("加载数据失败: %w", err)
			}
			fmt.Printf("数据加载完成: %s，%d 条记录，年份 %v\n",
				result.Report.Filename, result.Report.TotalRecords, yearRange(result.Report.Years))

			if !cfgInfo.PortSpecified && port == 0 {
				if p, err := util.FindAvailablePort("", cfg.Server.Port, 20); err == nil {
					cfg.Server.Port = p
				}
			}

			srv := server.NewServer(cfg, result.Dataset, result.Boundaries)
			httpServer := &http.Server{
				Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
				Handler: srv.Handler(),
			}
			url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

			errCh := make(chan error, 1)
			go func() {
				fmt.Printf("服务启动中，监听端口 %d ...\n", cfg.Server.Port)
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			if !cfg.Server.DevMode && !noBrowser {
				fmt.Printf("正在打开浏览器: %s\n", url)
				if err := util.OpenBrowserWithFallback(url); err != nil {
					fmt.Printf("无法自动打开浏览器，请手动访问: %s\n", url)
				}
			} else {
				fmt.Printf("请访问 %s\n", url)
			}

			fmt.Println("\n按 Ctrl+C 停止服务...")

			select {
			case err := <-errCh:
				return fmt.Errorf("服务启动失败: %w", err)
			case <-ctx.Done():
			}

			fmt.Println("\n正在关闭服务...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "服务端口 (config.toml 优先；仅当未显式配置 port 时生效)")
	cmd.Flags().BoolVar(&devMode, "dev", false, "开发模式")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "不自动打开浏览器")
	return cmd
}

func yearRange(years []int) string {
	if len(years) == 0 {
		return "-"
	}
	return fmt.Sprintf("%d-%d", years[0], years[len(years)-1])
}
