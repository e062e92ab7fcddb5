package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"coldsign-core/internal/coinlogic"
	"coldsign-core/internal/model"
	"coldsign-core/internal/notes"
	"coldsign-core/internal/reconcile"
	"coldsign-core/pkg/config"
	"coldsign-core/pkg/envelope"
	"coldsign-core/pkg/logger"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "对账已签名交易 (热端)",
	Long: `读取构建时输出的请求文件和冷端带回的响应串 (例如 "TX/<hex>")，
校验签名结果与请求的绑定关系，通过后入队广播并保存批次备注。`,
	Run: func(cmd *cobra.Command, args []string) {
		requestFile, _ := cmd.Flags().GetString("request")
		response, _ := cmd.Flags().GetString("response")
		saveNotes, _ := cmd.Flags().GetBool("save-notes")

		// 1. 读取原请求
		data, err := os.ReadFile(requestFile)
		if err != nil {
			fmt.Printf("读取请求文件失败: %v\n", err)
			os.Exit(1)
		}

		var req model.UnsignedRequest
		if err := json.Unmarshal(data, &req); err != nil {
			fmt.Printf("解析请求文件失败: %v\n", err)
			os.Exit(1)
		}

		// 2. 解码冷端响应
		resp, err := envelope.DecodeResponse(response)
		if err != nil {
			fmt.Printf("❌ 响应解码失败: %v\n", err)
			os.Exit(1)
		}

		// 3. 可选的备注持久化
		var store notes.Store
		if saveNotes {
			rdb := redis.NewClient(&redis.Options{
				Addr:     config.Global.Redis.Addr,
				Password: config.Global.Redis.Password,
				DB:       config.Global.Redis.DB,
			})
			defer rdb.Close()
			store = notes.NewRedisStore(rdb)
		}

		// 4. 对账
		params, err := coinlogic.ParamsForNetwork(config.Global.Protocol.Network)
		if err != nil {
			fmt.Printf("网络配置错误: %v\n", err)
			os.Exit(1)
		}
		coin := coinlogic.NewBTC("btc", params)
		r := reconcile.New(coin, store, logger.Named("reconcile"))

		txID, err := r.Reconcile(context.Background(), resp, &req)
		if err != nil {
			fmt.Printf("❌ 对账失败: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("✅ 对账通过!\n")
		fmt.Printf("TxID: %s\n", txID)
	},
}

func init() {
	rootCmd.AddCommand(reconcileCmd)
	reconcileCmd.Flags().StringP("request", "r", "unsigned.json", "构建时输出的请求文件")
	reconcileCmd.Flags().String("response", "", "冷端带回的响应串 (ACTION/hex)")
	reconcileCmd.Flags().Bool("save-notes", false, "对账通过后把批次备注保存到 Redis")
	reconcileCmd.MarkFlagRequired("response")
}
