package cmd

import (
	"fmt"
	"os"

	"coldsign-core/internal/model"
	"coldsign-core/pkg/config"
	"coldsign-core/pkg/envelope"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var uriCmd = &cobra.Command{
	Use:   "uri <address>",
	Short: "生成收款 URI",
	Long:  `按支付 URI 约定生成收款地址的二维码内容, 空字段省略。`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		amountStr, _ := cmd.Flags().GetString("amount")
		label, _ := cmd.Flags().GetString("label")
		message, _ := cmd.Flags().GetString("message")

		amount := decimal.Zero
		if amountStr != "" {
			var err error
			amount, err = decimal.NewFromString(amountStr)
			if err != nil {
				fmt.Printf("金额格式错误: %v\n", err)
				os.Exit(1)
			}
		}

		item := model.PaymentItem{
			Address: args[0],
			Amount:  amount,
			Label:   label,
			Message: message,
		}
		fmt.Println(envelope.PaymentURI(config.Global.Protocol.Scheme, item))
	},
}

func init() {
	rootCmd.AddCommand(uriCmd)
	uriCmd.Flags().String("amount", "", "收款金额 (十进制字符串, 可省略)")
	uriCmd.Flags().String("label", "", "收款标签 (可省略)")
	uriCmd.Flags().String("message", "", "附言 (可省略)")
}
