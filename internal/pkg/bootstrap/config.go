package bootstrap

import (
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Config 汇总了两个服务的全部运行配置。
// 先加载 yaml 文件，再用环境变量覆盖敏感项和部署相关项。
type Config struct {
	App   AppConfig   `yaml:"app"`
	Infra InfraConfig `yaml:"infra"`
}

type AppConfig struct {
	Shipping ShippingConfig `yaml:"shipping"`
	Payment  PaymentConfig  `yaml:"payment"`
}

// ShippingConfig 是运费计算策略的全部可配置项。
type ShippingConfig struct {
	// 仓库（配送起点）坐标，固定为部署常量而非用户输入
	OriginLat float64 `yaml:"origin_lat"`
	OriginLng float64 `yaml:"origin_lng"`

	PricePerKm            float64 `yaml:"price_per_km"`
	MinimumFee            float64 `yaml:"minimum_fee"`
	FreeShippingThreshold float64 `yaml:"free_shipping_threshold"`
	// FreeShippingRule 是可选的 CEL 表达式，覆盖默认的阈值比较，
	// 例如 "cart_total >= 300.0"
	FreeShippingRule string `yaml:"free_shipping_rule"`
	// 路径服务不可用时，按该平均速度推算配送时长 (km/h)
	FallbackSpeedKmh float64 `yaml:"fallback_speed_kmh"`
}

type PaymentConfig struct {
	Gateway  string `yaml:"gateway"`
	Currency string `yaml:"currency"`
}

type InfraConfig struct {
	Jaeger    JaegerConfig    `yaml:"jaeger"`
	Nacos     NacosConfig     `yaml:"nacos"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Redis     RedisConfig     `yaml:"redis"`
	MySQL     MySQLConfig     `yaml:"mysql"`
	ViaCEP    EndpointConfig  `yaml:"viacep"`
	Nominatim EndpointConfig  `yaml:"nominatim"`
	OSRM      EndpointConfig  `yaml:"osrm"`
	PixForte  PixForteConfig  `yaml:"pixforte"`
}

type JaegerConfig struct {
	Endpoint string `yaml:"endpoint"`
}

type NacosConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServerAddrs string `yaml:"server_addrs"`
	Namespace   string `yaml:"namespace"`
	Group       string `yaml:"group"`
}

type KafkaConfig struct {
	Brokers            string `yaml:"brokers"`
	PaymentEventsTopic string `yaml:"payment_events_topic"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type MySQLConfig struct {
	DSN string `yaml:"dsn"`
}

type EndpointConfig struct {
	BaseURL string `yaml:"base_url"`
}

// PixForteConfig 保存 PIX 网关的接入配置。
// 公私钥缺失时适配器构造函数会直接失败，而不是等到第一次请求。
type PixForteConfig struct {
	BaseURL       string `yaml:"base_url"`
	PublicKey     string `yaml:"public_key"`
	SecretKey     string `yaml:"secret_key"`
	WebhookSecret string `yaml:"webhook_secret"`
}

var (
	currentConfig *Config
	configOnce    sync.Once
)

// Init 加载配置文件（路径来自 CONFIG_PATH，默认 config.yaml），
// 文件不存在时使用内置默认值，之后应用环境变量覆盖。
func Init() {
	configOnce.Do(func() {
		cfg := defaultConfig()
		path := getEnv("CONFIG_PATH", "config.yaml")
		if data, err := os.ReadFile(path); err == nil {
			// yaml 解析失败属于部署错误，静默吞掉只会让问题更难定位
			if err := yaml.Unmarshal(data, cfg); err != nil {
				panic("bootstrap: invalid config file " + path + ": " + err.Error())
			}
		}
		applyEnvOverrides(cfg)
		currentConfig = cfg
	})
}

// GetCurrentConfig 返回进程级配置，必须先调用 Init。
func GetCurrentConfig() *Config {
	if currentConfig == nil {
		panic("bootstrap: GetCurrentConfig called before Init")
	}
	return currentConfig
}

// defaultConfig 的数值与巴西部署的默认策略一致:
// 1.85 BRL/km、10 BRL 起步价、满 300 BRL 包邮、30 km/h 兜底速度。
func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Shipping: ShippingConfig{
				OriginLat:             -23.5505,
				OriginLng:             -46.6333,
				PricePerKm:            1.85,
				MinimumFee:            10.0,
				FreeShippingThreshold: 300.0,
				FallbackSpeedKmh:      30.0,
			},
			Payment: PaymentConfig{
				Gateway:  "pixforte",
				Currency: "BRL",
			},
		},
		Infra: InfraConfig{
			Jaeger:    JaegerConfig{Endpoint: "http://localhost:14268/api/traces"},
			Nacos:     NacosConfig{Enabled: false, ServerAddrs: "localhost:8848", Group: "DEFAULT_GROUP"},
			Kafka:     KafkaConfig{Brokers: "localhost:9092", PaymentEventsTopic: "payment-events"},
			Redis:     RedisConfig{Addr: "localhost:6379"},
			MySQL:     MySQLConfig{DSN: "root:root@tcp(localhost:3306)/vitrine?charset=utf8mb4&parseTime=True"},
			ViaCEP:    EndpointConfig{BaseURL: "https://viacep.com.br/ws"},
			Nominatim: EndpointConfig{BaseURL: "https://nominatim.openstreetmap.org"},
			OSRM:      EndpointConfig{BaseURL: "https://router.project-osrm.org"},
			PixForte:  PixForteConfig{BaseURL: "https://api.pixforte.com.br/v1"},
		},
	}
}

// applyEnvOverrides 允许部署环境覆盖端点和密钥，不必改动配置文件。
func applyEnvOverrides(cfg *Config) {
	cfg.Infra.Jaeger.Endpoint = getEnv("JAEGER_ENDPOINT", cfg.Infra.Jaeger.Endpoint)
	cfg.Infra.Nacos.ServerAddrs = getEnv("NACOS_SERVER_ADDRS", cfg.Infra.Nacos.ServerAddrs)
	cfg.Infra.Nacos.Namespace = getEnv("NACOS_NAMESPACE", cfg.Infra.Nacos.Namespace)
	cfg.Infra.Nacos.Group = getEnv("NACOS_GROUP", cfg.Infra.Nacos.Group)
	cfg.Infra.Kafka.Brokers = getEnv("KAFKA_BROKERS", cfg.Infra.Kafka.Brokers)
	cfg.Infra.Redis.Addr = getEnv("REDIS_ADDR", cfg.Infra.Redis.Addr)
	cfg.Infra.MySQL.DSN = getEnv("MYSQL_DSN", cfg.Infra.MySQL.DSN)
	cfg.Infra.ViaCEP.BaseURL = getEnv("VIACEP_BASE_URL", cfg.Infra.ViaCEP.BaseURL)
	cfg.Infra.Nominatim.BaseURL = getEnv("NOMINATIM_BASE_URL", cfg.Infra.Nominatim.BaseURL)
	cfg.Infra.OSRM.BaseURL = getEnv("OSRM_BASE_URL", cfg.Infra.OSRM.BaseURL)
	cfg.Infra.PixForte.BaseURL = getEnv("PIXFORTE_BASE_URL", cfg.Infra.PixForte.BaseURL)
	cfg.Infra.PixForte.PublicKey = getEnv("PIXFORTE_PUBLIC_KEY", cfg.Infra.PixForte.PublicKey)
	cfg.Infra.PixForte.SecretKey = getEnv("PIXFORTE_SECRET_KEY", cfg.Infra.PixForte.SecretKey)
	cfg.Infra.PixForte.WebhookSecret = getEnv("PIXFORTE_WEBHOOK_SECRET", cfg.Infra.PixForte.WebhookSecret)
}

// getEnv 是一个内部辅助函数，从环境变量中读取配置。
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
