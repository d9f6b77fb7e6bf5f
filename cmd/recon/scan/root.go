package scan

import (
	"neorecon/internal/core/options"

	"github.com/spf13/cobra"
)

var globalOutputOptions options.OutputOptions

// NewScanCmd 创建 scan 父命令
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "执行侦察任务",
		Long: `执行各类对外侦察任务，如子域名枚举、站点页面爬取。
请使用具体的子命令。`,
	}

	// 定义持久化 Flags (所有子命令都可用)
	pFlags := cmd.PersistentFlags()
	// 注意: Shorthand 必须是单个字符。这里我们只注册长参数。
	pFlags.StringVar(&globalOutputOptions.OutputJson, "outputJson", "", "指定保存json文件路径[以.json结尾] (alias: --oj)")
	pFlags.StringVar(&globalOutputOptions.OutputCsv, "outputCsv", "", "指定保存csv文件路径[以.csv结尾] (alias: --oc)")

	// 注册别名 (Hidden flags) 方便用户使用简短命令
	pFlags.StringVar(&globalOutputOptions.OutputJson, "oj", "", "outputJson 简写")
	pFlags.Lookup("oj").Hidden = true
	pFlags.StringVar(&globalOutputOptions.OutputCsv, "oc", "", "outputCsv 简写")
	pFlags.Lookup("oc").Hidden = true

	// 注册子命令
	cmd.AddCommand(NewSubdomainScanCmd())
	cmd.AddCommand(NewCrawlScanCmd())
	cmd.AddCommand(NewRunScanCmd())

	return cmd
}
