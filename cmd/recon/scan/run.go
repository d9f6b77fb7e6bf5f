package scan

import (
	"context"
	"fmt"

	"neorecon/internal/config"
	"neorecon/internal/core/options"
	"neorecon/internal/core/pipeline"
	"neorecon/internal/pkg/logger"

	"github.com/spf13/cobra"
)

// NewRunScanCmd 创建 scan run 命令
func NewRunScanCmd() *cobra.Command {
	opts := options.NewScanRunOptions()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "自动化全流程侦察",
		Long: `自动串联各个侦察模块，实现从子域名枚举到站点爬取的全流程侦察。
支持单个域名、逗号分隔列表、文件等多种目标输入。

流程: Target -> Subdomain -> Crawl -> Report`,
		Example: `  neorecon scan run -t example.com
  neorecon scan run -t domains.txt --concurrency 5 --crawl-limit 3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.Validate(); err != nil {
				return err
			}

			cfg := config.GetConfig()

			// 长流水线期间支持配置热重载
			// 放宽策略的变更会被拒绝；日志配置变更即时生效
			watcher, werr := config.WatchConfig("configs/config.yaml", func(oldCfg, newCfg *config.Config) error {
				if err := config.ValidateConfigChange(oldCfg, newCfg); err != nil {
					return err
				}
				if logger.LoggerInstance != nil && newCfg.Log != nil {
					if err := logger.LoggerInstance.UpdateConfig(newCfg.Log); err != nil {
						return err
					}
				}
				logger.LogSystemEvent("config", "reload", "configuration reloaded during pipeline run", logger.InfoLevel, nil)
				return nil
			})
			if werr == nil {
				defer watcher.Stop()
			} else {
				logger.Debugf("config hot-reload disabled: %v", werr)
			}

			fmt.Printf("[*] Starting Auto Pipeline on %s (Concurrency: %d)...\n", opts.Target, opts.Concurrency)

			// 初始化 AutoRunner
			runner := pipeline.NewAutoRunner(opts.Target, opts.Concurrency, opts.CrawlLimit, cfg)

			// 执行
			if err := runner.Run(context.Background()); err != nil {
				return err
			}

			fmt.Println("[*] Pipeline completed.")
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.Target, "target", "t", "", "侦察目标 (域名/列表/文件)")
	flags.IntVarP(&opts.Concurrency, "concurrency", "c", opts.Concurrency, "并发处理的根域数量")
	flags.IntVar(&opts.CrawlLimit, "crawl-limit", opts.CrawlLimit, "每个根域最多爬取的子域数")

	cmd.MarkFlagRequired("target")

	return cmd
}
