package cmd

import (
	"fmt"
	"os"

	"coldsign-core/pkg/config"
	"coldsign-core/pkg/logger"
	"coldsign-core/pkg/monitor"

	"github.com/spf13/cobra"
)

// rootCmd 代表基础命令，没有子命令时直接调用
var rootCmd = &cobra.Command{
	Use:   "coldsign-cli",
	Short: "冷热钱包离线签名协作工具",
	Long: `一个用 Go 语言编写的冷热钱包协作命令行工具。
热端构建未签名交易并生成请求 URI，冷端签名后由热端对账并广播。
子命令之间通过 JSON 文件传递数据，适合隔离环境的人工交接。`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// 先加载配置再初始化日志
		config.Init()
		logger.Init(config.Global.App.Env)
		monitor.Init()
	},
}

// Execute 将所有子命令添加到根命令并设置标志
func Execute() {
	defer logger.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
