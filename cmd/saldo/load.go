package main

import (
	"context"
	"errors"
	"log"
	"os"

	"saldo/internal/config"
	"saldo/internal/importer"
	"saldo/internal/source"
)

// loadData 按配置加载工作簿与边界文件；边界文件不存在时仅告警
func loadData(ctx context.Context, cfg *config.AppConfig) (*importer.Result, error) {
	opts := importer.ImportOptions{
		Workbook: config.ResolvePath(cfg, cfg.Data.Workbook),
		GeoJSON:  config.ResolvePath(cfg, cfg.Data.GeoJSON),
	}
	if opts.GeoJSON != "" {
		if _, err := os.Stat(opts.GeoJSON); errors.Is(err, os.ErrNotExist) {
			log.Printf("未找到边界文件 %s，地图数据不可用", opts.GeoJSON)
			opts.GeoJSON = ""
		}
	}

	coordinator := importer.NewCoordinator(source.NewOpener(cfg.S3()), cfg.SheetSpecs()...)

	var result *importer.Result
	for evt := range coordinator.Import(ctx, opts) {
		switch evt.Type {
		case "done":
			result = evt.Data.(*importer.Result)
		case "error":
			if err, ok := evt.Data.(error); ok {
				return nil, err
			}
			return nil, errors.New(evt.Message)
		default:
			log.Printf("[import] %s", evt.Message)
		}
	}
	if result == nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, errors.New("import finished without result")
	}
	return result, nil
}
