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

// NewSubdomainScanCmd 创建 子域名枚举 命令
func NewSubdomainScanCmd() *cobra.Command {
	opts := options.NewSubdomainScanOptions()

	var cmd = &cobra.Command{
		Use:   "subdomain",
		Short: "子域名枚举 (DNS + HTTP 探测)",
		Long:  `基于优先级字典枚举目标的子域名，自动识别泛解析并对存活域名做 HTTPS/HTTP 可达性探测。`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.Validate(); err != nil {
				return err
			}

			// 注入全局输出参数
			opts.Output = globalOutputOptions

			task := opts.ToTask()

			// 命令行参数覆盖配置文件
			cfg := config.GetConfig()
			if opts.WildcardFilter != "" {
				cfg.Scan.Subdomain.WildcardFilter = opts.WildcardFilter
			}

			// 1. 初始化 RunnerManager
			manager := runner.NewRunnerManager()
			// 2. 注册 SubdomainScanner
			manager.Register(factory.NewSubdomainScanner(cfg))

			// 3. 执行任务
			fmt.Printf("[*] Starting Subdomain Scan on %s...\n", task.Target)
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
	flags.StringVarP(&opts.Target, "target", "t", "", "目标域名或 URL (如 example.com / https://www.example.com)")
	flags.StringVar(&opts.WildcardFilter, "wildcard-filter", "", "泛解析过滤模式 (ip-equality/off)")

	cmd.MarkFlagRequired("target")

	return cmd
}
