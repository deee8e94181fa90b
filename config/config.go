package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Export    ExportConfig
	Narration NarrationConfig
}

type AppConfig struct {
	Port        string
	Environment string
	LogFilePath string
	BodyLimit   int
}

type ExportConfig struct {
	Dir      string
	AssetDir string // 图片与字体的相对路径基准
	CacheTTL time.Duration
	// Scale 为栅格导出的像素倍率（类似截图时的 devicePixelRatio）
	Scale float64
}

type NarrationConfig struct {
	Enabled bool
	Lang    string
}

// IsProd reports whether the service runs in production mode.
func (c *Config) IsProd() bool { return c.App.Environment == "production" }

// Load 读取 .env（若存在）与环境变量。
func Load(files ...string) *Config {
	if err := godotenv.Load(files...); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:        getEnv("BLUEPRINT_PORT", "3000"),
			Environment: getEnv("GO_ENV", "development"),
			LogFilePath: getEnv("LOG_FILE_PATH", ""),
			BodyLimit:   getEnvAsInt("BLUEPRINT_BODY_LIMIT", 1<<20),
		},
		Export: ExportConfig{
			Dir:      getEnv("BLUEPRINT_EXPORT_DIR", "."),
			AssetDir: getEnv("BLUEPRINT_ASSET_DIR", "assets"),
			CacheTTL: getEnvAsDuration("BLUEPRINT_EXPORT_CACHE_TTL", 5*time.Minute),
			Scale:    getEnvAsFloat("BLUEPRINT_EXPORT_SCALE", 1),
		},
		Narration: NarrationConfig{
			Enabled: getEnvAsBool("BLUEPRINT_NARRATION", true),
			Lang:    getEnv("BLUEPRINT_NARRATION_LANG", "fr-FR"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
