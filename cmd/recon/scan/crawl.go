package scan

import (
	"context"
	"fmt"

	"neorecon/internal/config"
	"neorecon/internal/core/factory"
	"neorecon/internal/core/options"
	"neorecon/internal/core/reporter"
	"neorecon/internal/core/runner"

	"github.com/spf13/cobra"
)

// NewCrawlScanCmd 创建 站点爬取 命令
func NewCrawlScanCmd() *cobra.Command {
	opts := options.NewCrawlScanOptions()

	var cmd = &cobra.Command{
		Use:   "crawl",
		Short: "站点页面爬取 (BFS)",
		Long:  `从种子 URL 出发按广度优先爬取同站页面，收集页面标题、外链等信息。不越出种子主机。`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.Validate(); err != nil {
				return err
			}

			// 注入全局输出参数
			opts.Output = globalOutputOptions

			task := opts.ToTask()

			// 命令行参数覆盖配置文件
			cfg := config.GetConfig()
			if opts.MaxPages > 0 {
				cfg.Scan.Crawler.MaxPages = opts.MaxPages
			}

			// 1. 初始化 RunnerManager
			manager := runner.NewRunnerManager()
			// 2. 注册 CrawlScanner
			manager.Register(factory.NewCrawlScanner(cfg))

			// 3. 执行任务
			fmt.Printf("[*] Starting Crawl on %s...\n", task.Target)
			results, err := manager.Execute(context.Background(), task)
			if err != nil {
				return err
			}

			// 4. 输出结果 (使用 ConsoleReporter)
			console := reporter.NewConsoleReporter()
			console.PrintResults(results)

			if opts.Output.OutputJson != "" {
				if err := reporter.SaveJsonResult(opts.Output.OutputJson, results); err != nil {
					return err
				}
			}
			if opts.Output.OutputCsv != "" {
				if err := reporter.SaveCsvResult(opts.Output.OutputCsv, results); err != nil {
					return err
				}
			}

			return nil
		},
	}

	// 绑定 Flags
	flags := cmd.Flags()
	flags.StringVarP(&opts.Target, "target", "t", "", "种子 URL (http/https)")
	flags.IntVar(&opts.MaxPages, "max-pages", 0, "最大爬取页数 (默认取配置文件)")

	cmd.MarkFlagRequired("target")

	return cmd
}
