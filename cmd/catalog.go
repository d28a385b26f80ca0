package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"laboutique_erp_202610/internal/api/dto"
	"laboutique_erp_202610/internal/app"
	"laboutique_erp_202610/internal/model"
	"laboutique_erp_202610/internal/service"
	"laboutique_erp_202610/pkg/logger"
)

var storeFlag = &cli.StringFlag{Name: "store", Aliases: []string{"s"}, Required: true, Usage: "店铺 ID 或标识"}

func resolveStore(c *cli.Context, deps *app.Dependencies) (*model.Store, error) {
	store, err := deps.Repos.Store.Resolve(c.Context, c.String("store"))
	if err != nil {
		return nil, fmt.Errorf("店铺 %q 不存在: %w", c.String("store"), err)
	}
	return store, nil
}

// ==================== seed ====================

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "从 JSON/XLSX 批量导入目录，或生成演示数据",
		Flags: []cli.Flag{
			storeFlag,
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: ".json 或 .xlsx 文件"},
			&cli.IntFlag{Name: "demo", Usage: "生成 N 个演示商品"},
			&cli.Int64Flag{Name: "demo-seed", Value: 1, Usage: "演示数据随机种子"},
			&cli.BoolFlag{Name: "copy", Usage: "PostgreSQL 下用 COPY 批量写入商品"},
		},
		Action: func(c *cli.Context) error {
			if c.String("file") == "" && c.Int("demo") <= 0 {
				return fmt.Errorf("需要 --file 或 --demo")
			}

			deps, err := initDependencies(c.Context, true)
			if err != nil {
				return err
			}
			defer closeDependencies(deps)

			store, err := resolveStore(c, deps)
			if err != nil {
				return err
			}

			var (
				ds      *service.Dataset
				rowErrs []service.SeedRowError
			)
			if path := c.String("file"); path != "" {
				ds, rowErrs, err = loadDataset(path)
				if err != nil {
					return err
				}
			} else {
				ds = service.DemoDataset(c.Int("demo"), c.Int64("demo-seed"))
			}

			report, err := deps.Services.Seed.Seed(c.Context, store.ID, ds, service.SeedOptions{Copy: c.Bool("copy")})
			if err != nil {
				return err
			}
			report.Errors = append(rowErrs, report.Errors...)

			printReport(report)
			return nil
		},
	}
}

func loadDataset(path string) (*service.Dataset, []service.SeedRowError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		ds, err := service.ParseSeedJSON(f)
		return ds, nil, err
	case ".xlsx":
		return service.ParseSeedXLSX(f)
	default:
		return nil, nil, fmt.Errorf("仅支持 .json 或 .xlsx 文件: %s", path)
	}
}

func printReport(r *service.SeedReport) {
	fmt.Printf("分类   新增 %d  更新 %d  跳过 %d\n", r.Categories.Created, r.Categories.Updated, r.Categories.Skipped)
	fmt.Printf("供应商 新增 %d  更新 %d  跳过 %d\n", r.Vendors.Created, r.Vendors.Updated, r.Vendors.Skipped)
	fmt.Printf("商品   新增 %d  更新 %d  跳过 %d\n", r.Products.Created, r.Products.Updated, r.Products.Skipped)
	for _, e := range r.Errors {
		fmt.Println("  " + e.String())
	}
	fmt.Printf("耗时 %s\n", r.Duration)
}

// ==================== export ====================

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "导出店铺目录为 XLSX",
		Flags: []cli.Flag{
			storeFlag,
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "输出文件，默认 <店铺标识>-catalog.xlsx"},
		},
		Action: func(c *cli.Context) error {
			deps, err := initDependencies(c.Context, false)
			if err != nil {
				return err
			}
			defer closeDependencies(deps)

			store, err := resolveStore(c, deps)
			if err != nil {
				return err
			}

			out := c.String("out")
			if out == "" {
				out = store.Slug + "-catalog.xlsx"
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()

			if err := deps.Services.Seed.ExportCatalog(c.Context, store.ID, f); err != nil {
				return err
			}
			logger.Info("目录已导出", zap.String("store", store.Slug), zap.String("file", out))
			return nil
		},
	}
}

// ==================== import ====================

func importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "从 AliExpress 导入单个商品",
		ArgsUsage: "<商品链接或 ID>",
		Flags: []cli.Flag{
			storeFlag,
			&cli.Int64Flag{Name: "category", Usage: "分类 ID"},
			&cli.Int64Flag{Name: "vendor", Usage: "供应商 ID"},
			&cli.Int64Flag{Name: "markup", Usage: "加价万分比，默认取配置"},
			&cli.StringFlag{Name: "status", Value: model.ProductStatusDraft, Usage: "draft / active"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("需要一个商品链接或 ID")
			}

			deps, err := initDependencies(c.Context, false)
			if err != nil {
				return err
			}
			defer closeDependencies(deps)

			store, err := resolveStore(c, deps)
			if err != nil {
				return err
			}

			req := &dto.ImportRequest{URL: c.Args().First(), Status: c.String("status")}
			if c.IsSet("category") {
				id := c.Int64("category")
				req.CategoryID = &id
			}
			if c.IsSet("vendor") {
				id := c.Int64("vendor")
				req.VendorID = &id
			}
			if c.IsSet("markup") {
				bps := c.Int64("markup")
				req.MarkupBps = &bps
			}

			result, err := deps.Services.AliExpress.ImportProduct(c.Context, store.ID, 0, req)
			if err != nil {
				return err
			}
			action := "更新"
			if result.Created {
				action = "新增"
			}
			fmt.Printf("%s商品 #%d %s (任务 #%d)\n", action, result.Product.ID, result.Product.Title, result.Job.ID)
			return nil
		},
	}
}
