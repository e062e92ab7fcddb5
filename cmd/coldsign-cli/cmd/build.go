package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"coldsign-core/internal/batch"
	"coldsign-core/internal/builder"
	"coldsign-core/internal/coinlogic"
	"coldsign-core/internal/model"
	"coldsign-core/pkg/config"
	"coldsign-core/pkg/envelope"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "构建未签名交易 (热端)",
	Long: `读取收款批次 JSON 文件，校验后构建未签名交易。
输出请求文件和冷端请求 URI，拿去给冷端设备签名。`,
	Run: func(cmd *cobra.Command, args []string) {
		inputFile, _ := cmd.Flags().GetString("input")
		outputFile, _ := cmd.Flags().GetString("output")
		feeStr, _ := cmd.Flags().GetString("fee")
		balanceStr, _ := cmd.Flags().GetString("balance")
		rbf, _ := cmd.Flags().GetBool("rbf")

		// 1. 读取收款批次
		data, err := os.ReadFile(inputFile)
		if err != nil {
			fmt.Printf("读取批次文件失败: %v\n", err)
			os.Exit(1)
		}

		var payments []model.PaymentItem
		if err := json.Unmarshal(data, &payments); err != nil {
			fmt.Printf("解析批次文件失败: %v\n", err)
			os.Exit(1)
		}

		fee, err := decimal.NewFromString(feeStr)
		if err != nil {
			fmt.Printf("手续费格式错误: %v\n", err)
			os.Exit(1)
		}
		balance, err := decimal.NewFromString(balanceStr)
		if err != nil {
			fmt.Printf("余额格式错误: %v\n", err)
			os.Exit(1)
		}

		// 2. 过一遍账本, 顺便算小计给用户确认
		ledger := batch.NewLedger()
		for _, p := range payments {
			if err := ledger.Add(p); err != nil {
				fmt.Printf("批次条目非法 (%s): %v\n", p.Address, err)
				os.Exit(1)
			}
		}

		fmt.Println("\n================ 待签名批次 ================")
		for i, p := range ledger.Items() {
			fmt.Printf("#%d  %s  %s\n", i, p.Address, p.Amount)
		}
		fmt.Printf("SubTotal:   %s\n", ledger.SubTotal())
		fmt.Printf("Fee:        %s\n", fee)
		fmt.Printf("Total:      %s\n", ledger.Total(fee))
		fmt.Println("============================================")

		// 3. 构建未签名请求
		params, err := coinlogic.ParamsForNetwork(config.Global.Protocol.Network)
		if err != nil {
			fmt.Printf("网络配置错误: %v\n", err)
			os.Exit(1)
		}
		coin := coinlogic.NewBTC("btc", params)
		b := builder.New(config.Global.Protocol.Scheme, config.Global.Protocol.Version, coin)

		req, err := b.Build(ledger.Items(), fee, balance, rbf)
		if err != nil {
			fmt.Printf("❌ 构建失败: %v\n", err)
			os.Exit(1)
		}

		// 4. 写出请求文件
		outputData, _ := json.MarshalIndent(req, "", "  ")
		if err := os.WriteFile(outputFile, outputData, 0644); err != nil {
			fmt.Printf("保存请求文件失败: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("\n✅ 构建成功!\n")
		fmt.Printf("Reference Hex: %s\n", req.UnsignedHex)
		fmt.Printf("请求 URI: %s\n", envelope.RequestURI(config.Global.Transport.CounterpartScheme, req.EncodedPayload))
		fmt.Printf("已保存到: %s\n", outputFile)
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringP("input", "i", "batch.json", "收款批次文件路径")
	buildCmd.Flags().StringP("output", "o", "unsigned.json", "未签名请求的输出文件路径")
	buildCmd.Flags().String("fee", "0", "手续费 (十进制字符串)")
	buildCmd.Flags().String("balance", "0", "可用余额 (十进制字符串)")
	buildCmd.Flags().Bool("rbf", false, "启用 Replace-By-Fee")
}
