package importer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"
	"saldo/internal/dataset"
	"saldo/internal/geo"
	"saldo/internal/model"
	"saldo/internal/parser"
	"saldo/internal/source"
)

// Coordinator 导入协调器
type Coordinator struct {
	opener     *source.Opener
	specs      map[model.Category]parser.SheetSpec
	recognizer *parser.SheetRecognizer
}

// NewCoordinator 创建导入协调器；specs 未覆盖的类别使用默认 Sheet 配置
func NewCoordinator(opener *source.Opener, specs ...parser.SheetSpec) *Coordinator {
	c := &Coordinator{
		opener:     opener,
		specs:      make(map[model.Category]parser.SheetSpec, len(model.Categories)),
		recognizer: parser.NewSheetRecognizer(),
	}
	for _, cat := range model.Categories {
		c.specs[cat] = parser.DefaultSheetSpec(cat)
	}
	for _, s := range specs {
		c.specs[s.Category] = s
	}
	return c
}

// ImportOptions 导入选项
type ImportOptions struct {
	Workbook string // 本地路径或 s3://bucket/key
	GeoJSON  string // 州边界文件，可为空
}

// ProgressEvent 进度事件
type ProgressEvent struct {
	Type      string      `json:"type"`      // start/info/sheet_start/sheet_done/warning/done/error
	Message   string      `json:"message"`   // 事件消息
	Data      interface{} `json:"data"`      // 附加数据
	Timestamp time.Time   `json:"timestamp"` // 时间戳
}

// Result 导入结果
type Result struct {
	Dataset    *dataset.Dataset
	Boundaries *geo.Boundaries
	Report     *ImportReport
}

// Import 异步执行导入，返回进度通道；成功时 done 事件的 Data 为 *Result
func (c *Coordinator) Import(ctx context.Context, opts ImportOptions) <-chan ProgressEvent {
	progressChan := make(chan ProgressEvent, 100)

	go func() {
		defer close(progressChan)

		emit := func(evt ProgressEvent) {
			evt.Timestamp = time.Now()
			select {
			case progressChan <- evt:
			case <-ctx.Done():
			}
		}

		result, err := c.run(ctx, opts, emit)
		if err != nil {
			emit(ProgressEvent{
				Type:    "error",
				Message: fmt.Sprintf("导入失败: %v", err),
				Data:    err,
			})
			return
		}
		emit(ProgressEvent{
			Type:    "done",
			Message: "导入完成",
			Data:    result,
		})
	}()

	return progressChan
}

// Load 同步执行导入
func (c *Coordinator) Load(ctx context.Context, opts ImportOptions) (*Result, error) {
	return c.run(ctx, opts, func(ProgressEvent) {})
}

func (c *Coordinator) run(ctx context.Context, opts ImportOptions, emit func(ProgressEvent)) (*Result, error) {
	if opts.Workbook == "" {
		return nil, errors.New("workbook path is required")
	}

	startTime := time.Now()
	report := &ImportReport{
		Filename: source.Name(opts.Workbook),
		Sheets:   []SheetResult{},
	}

	emit(ProgressEvent{
		Type:    "start",
		Message: "开始加载工作簿",
		Data: map[string]string{
			"filename": report.Filename,
		},
	})

	// 工作簿与边界文件互不依赖，并发加载
	var (
		file       *excelize.File
		boundaries *geo.Boundaries
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		f, err := c.opener.Open(gctx, opts.Workbook)
		if err != nil {
			return err
		}
		file = f
		return nil
	})
	if opts.GeoJSON != "" {
		g.Go(func() error {
			b, err := geo.LoadFile(opts.GeoJSON)
			if err != nil {
				return err
			}
			boundaries = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if file != nil {
			_ = file.Close()
		}
		return nil, err
	}
	defer file.Close()

	specs := c.resolveSheets(file, emit)

	tables := make(map[model.Category][]model.ParsedRecord, len(model.Categories))
	for _, cat := range model.Categories {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		records, err := c.processSheet(file, specs[cat], report, emit)
		if err != nil {
			return nil, err
		}
		tables[cat] = records
	}

	ds, err := dataset.Build(tables, report.Filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build dataset: %w", err)
	}

	if boundaries != nil {
		report.MissingBoundaries = boundaries.Missing(ds.States())
		if len(report.MissingBoundaries) > 0 {
			emit(ProgressEvent{
				Type:    "warning",
				Message: fmt.Sprintf("%d 个州缺少边界数据", len(report.MissingBoundaries)),
				Data: map[string]interface{}{
					"states": report.MissingBoundaries,
				},
			})
		}
	}

	report.Years = ds.Years()
	report.Duration = time.Since(startTime)

	return &Result{
		Dataset:    ds,
		Boundaries: boundaries,
		Report:     report,
	}, nil
}

// resolveSheets 配置的 Sheet 不存在时，按名称与表头识别替代的 Sheet
func (c *Coordinator) resolveSheets(file *excelize.File, emit func(ProgressEvent)) map[model.Category]parser.SheetSpec {
	sheetList := file.GetSheetList()
	exists := make(map[string]bool, len(sheetList))
	for _, name := range sheetList {
		exists[name] = true
	}

	specs := make(map[model.Category]parser.SheetSpec, len(c.specs))
	var missing []model.Category
	for cat, spec := range c.specs {
		specs[cat] = spec
		if !exists[spec.Sheet] {
			missing = append(missing, cat)
		}
	}
	if len(missing) == 0 {
		return specs
	}

	candidates := make(map[string][]string, len(sheetList))
	for _, name := range sheetList {
		rows, err := file.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			continue
		}
		var headers []string
		if hr := specs[missing[0]].HeaderRow; hr > 0 && hr <= len(rows) {
			headers = rows[hr-1]
		}
		candidates[name] = headers
	}

	recognized := c.recognizer.RecognizeAll(candidates)
	for _, cat := range missing {
		res, ok := recognized[cat]
		if !ok {
			continue
		}
		spec := specs[cat]
		emit(ProgressEvent{
			Type:    "info",
			Message: fmt.Sprintf("未找到 Sheet \"%s\"，识别为: %s (置信度: %.2f)", spec.Sheet, res.SheetName, res.Confidence),
			Data:    res,
		})
		spec.Sheet = res.SheetName
		specs[cat] = spec
	}
	return specs
}

// processSheet 读取并规范化单个类别的 Sheet
func (c *Coordinator) processSheet(file *excelize.File, spec parser.SheetSpec, report *ImportReport, emit func(ProgressEvent)) ([]model.ParsedRecord, error) {
	sheetStartTime := time.Now()

	emit(ProgressEvent{
		Type:    "sheet_start",
		Message: fmt.Sprintf("正在解析 Sheet: %s", spec.Sheet),
		Data: map[string]string{
			"sheet_name": spec.Sheet,
			"category":   string(spec.Category),
		},
	})

	table, err := parser.ReadSheet(file, spec)
	if err == nil {
		var records []model.ParsedRecord
		records, err = parser.Normalize(table)
		if err == nil {
			result := SheetResult{
				SheetName: spec.Sheet,
				Category:  spec.Category,
				Status:    "imported",
				Records:   len(records),
				Duration:  time.Since(sheetStartTime),
			}
			report.add(result)
			emit(ProgressEvent{
				Type:    "sheet_done",
				Message: fmt.Sprintf("Sheet \"%s\" 解析完成: %d 条记录", spec.Sheet, len(records)),
				Data:    result,
			})
			return records, nil
		}
	}

	report.add(SheetResult{
		SheetName: spec.Sheet,
		Category:  spec.Category,
		Status:    "error",
		Errors:    []string{err.Error()},
		Duration:  time.Since(sheetStartTime),
	})
	return nil, err
}
