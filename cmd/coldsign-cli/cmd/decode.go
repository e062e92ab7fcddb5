package cmd

import (
	"fmt"
	"os"

	"coldsign-core/pkg/envelope"

	"github.com/spf13/cobra"
)

var decodeCmd = &cobra.Command{
	Use:   "decode <envelope>",
	Short: "解码响应封包",
	Long:  `解码冷端带回的响应封包 (ACTION/hex), 打印动作和载荷, 用于排查交接问题。`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		resp, err := envelope.DecodeResponse(args[0])
		if err != nil {
			fmt.Printf("❌ 解码失败: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Action:  %s\n", resp.Action)
		if resp.PayloadHex == "" {
			fmt.Println("Payload: (空)")
			return
		}
		fmt.Printf("Payload: %s\n", resp.PayloadHex)
	},
}

func init() {
	rootCmd.AddCommand(decodeCmd)
}
