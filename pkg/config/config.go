package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Protocol  ProtocolConfig  `mapstructure:"protocol"`
	Transport TransportConfig `mapstructure:"transport"`
	Redis     RedisConfig     `mapstructure:"redis"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ProtocolConfig struct {
	// Scheme 支付 URI 的前缀 (BIP-21 风格), 例如 "bitcoin"
	Scheme string `mapstructure:"scheme"`
	// Version 请求格式版本标记
	Version int `mapstructure:"version"`
	// Network "mainnet" 或 "testnet"
	Network string `mapstructure:"network"`
}

type TransportConfig struct {
	// CounterpartScheme 冷端 App 的深链 scheme (能力探测 + 激活目标)
	CounterpartScheme string `mapstructure:"counterpart_scheme"`
	// ReturnScheme 热端自己的 scheme, 从回传 URI 上剥离
	ReturnScheme string `mapstructure:"return_scheme"`
	// ChunkSize 配对传输每个分片的字节数
	ChunkSize int `mapstructure:"chunk_size"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

var Global Config

func Init() {
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// 环境变量设置
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 设置默认值
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Printf("Warning: Config file not found, using defaults and environment variables")
		} else {
			log.Fatalf("Fatal error config file: %s \n", err)
		}
	}

	if err := viper.Unmarshal(&Global); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
}

func setDefaults() {
	viper.SetDefault("app.env", "development")

	viper.SetDefault("protocol.scheme", "bitcoin")
	viper.SetDefault("protocol.version", 1)
	viper.SetDefault("protocol.network", "mainnet")

	viper.SetDefault("transport.counterpart_scheme", "coldsign")
	viper.SetDefault("transport.return_scheme", "coldwallet")
	viper.SetDefault("transport.chunk_size", 128)

	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)
}
