package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Port     string `mapstructure:"port"`
		Env      string `mapstructure:"env"`
		LogLevel string `mapstructure:"log_level"`
		BaseURL  string `mapstructure:"base_url"`
	} `mapstructure:"app"`
	DB struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"db"`
	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`
	Kafka struct {
		Brokers []string `mapstructure:"brokers"`
		GroupID string   `mapstructure:"group_id"`
	} `mapstructure:"kafka"`
	Auth struct {
		JWTSecret     string        `mapstructure:"jwt_secret"`
		TokenLifespan time.Duration `mapstructure:"token_lifespan"`
	} `mapstructure:"auth"`
	Studio struct {
		SessionDriver string        `mapstructure:"session_driver"`
		SessionTTL    time.Duration `mapstructure:"session_ttl"`
		IDStrategy    string        `mapstructure:"id_strategy"`
	} `mapstructure:"studio"`
	Cache struct {
		TTL time.Duration `mapstructure:"ttl"`
	} `mapstructure:"cache"`
	Storage struct {
		Driver string `mapstructure:"driver"`
		Folder string `mapstructure:"folder"`
	} `mapstructure:"storage"`
	Cloudinary struct {
		CloudName string `mapstructure:"cloud_name"`
		ApiKey    string `mapstructure:"api_key"`
		ApiSecret string `mapstructure:"api_secret"`
	} `mapstructure:"cloudinary"`
	S3 struct {
		Bucket    string `mapstructure:"bucket"`
		Region    string `mapstructure:"region"`
		Endpoint  string `mapstructure:"endpoint"`
		PathStyle bool   `mapstructure:"path_style"`
	} `mapstructure:"s3"`
	Jaeger struct {
		OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	} `mapstructure:"jaeger"`
}

// LoadConfig reads config.yaml from path (if present), then .env, then the
// process environment. Later sources win.
func LoadConfig(path string) (cfg Config, err error) {
	if path == "" {
		path = "."
	}

	if err := godotenv.Load(path + "/.env"); err != nil {
		log.Println("warning: .env file not found, use default.")
	}

	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		log.Printf("note: config.yaml not found, read .env only. Error: %v", err)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnv(v)

	err = v.Unmarshal(&cfg)
	if err != nil {
		return
	}
	cfg.Kafka.Brokers = splitBrokers(cfg.Kafka.Brokers)
	return
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.base_url", "http://localhost:3000")
	v.SetDefault("kafka.group_id", "portfolio-snapshot-group")
	v.SetDefault("auth.token_lifespan", 24*time.Hour)
	v.SetDefault("studio.session_driver", "redis")
	v.SetDefault("studio.session_ttl", 12*time.Hour)
	v.SetDefault("studio.id_strategy", "uuid")
	v.SetDefault("cache.ttl", 10*time.Minute)
	v.SetDefault("storage.driver", "cloudinary")
	v.SetDefault("storage.folder", "portfolios/snapshots")
	v.SetDefault("s3.region", "us-east-1")
}

func bindEnv(v *viper.Viper) {
	v.BindEnv("app.port", "APP_PORT")
	v.BindEnv("app.env", "APP_ENV")
	v.BindEnv("app.log_level", "LOG_LEVEL")
	v.BindEnv("app.base_url", "APP_BASE_URL")
	v.BindEnv("db.dsn", "DB_DSN")
	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("redis.db", "REDIS_DB")
	v.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	v.BindEnv("kafka.group_id", "KAFKA_GROUP_ID")
	v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	v.BindEnv("auth.token_lifespan", "TOKEN_LIFESPAN")

	v.BindEnv("studio.session_driver", "STUDIO_SESSION_DRIVER")
	v.BindEnv("studio.session_ttl", "STUDIO_SESSION_TTL")
	v.BindEnv("studio.id_strategy", "STUDIO_ID_STRATEGY")
	v.BindEnv("cache.ttl", "CACHE_TTL")

	v.BindEnv("storage.driver", "STORAGE_DRIVER")
	v.BindEnv("storage.folder", "STORAGE_FOLDER")
	v.BindEnv("cloudinary.cloud_name", "CLOUDINARY_CLOUD_NAME")
	v.BindEnv("cloudinary.api_key", "CLOUDINARY_API_KEY")
	v.BindEnv("cloudinary.api_secret", "CLOUDINARY_API_SECRET")
	v.BindEnv("s3.bucket", "S3_BUCKET")
	v.BindEnv("s3.region", "S3_REGION")
	v.BindEnv("s3.endpoint", "S3_ENDPOINT")
	v.BindEnv("s3.path_style", "S3_PATH_STYLE")

	v.BindEnv("jaeger.otlp_endpoint", "OTLP_ENDPOINT")
}

// splitBrokers accepts both a YAML list and a comma separated env value.
func splitBrokers(in []string) []string {
	out := make([]string, 0, len(in))
	for _, b := range in {
		for _, part := range strings.Split(b, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
