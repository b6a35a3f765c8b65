package configuration

import (
	"fmt"
	"os"
	"strconv"

	"douyin-manager/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	App         App         `json:"app"`
	Database    Database    `json:"database"`
	RedisClient RedisClient `json:"redisClient"`
	Douyin      Douyin      `json:"douyin"`
	AI          AI          `json:"ai"`
	Upload      Upload      `json:"upload"`
	Cors        Cors        `json:"cors"`
}

type App struct {
	Port              int    `json:"port"`
	SecretKey         string `json:"secretKey"`
	TokenExpiryMinute int    `json:"tokenExpiryMinute"`
}

type Database struct {
	Psql Db `json:"psql"`
}

type Db struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	SSLMode  string `json:"sslMode"`
}

type RedisClient struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Douyin holds the open-platform application credentials.
type Douyin struct {
	ClientKey    string `json:"clientKey"`
	ClientSecret string `json:"clientSecret"`
	RedirectURI  string `json:"redirectURI"`
	BaseURL      string `json:"baseURL"`
}

// AI holds generation provider keys.
type AI struct {
	OpenAIKey    string `json:"openAIKey"`
	StabilityKey string `json:"stabilityKey"`
}

type Upload struct {
	Dir         string `json:"dir"`
	MaxFileSize int64  `json:"maxFileSize"`
}

type Cors struct {
	AllowOrigins []string `json:"allowOrigins"`
}

var C Config

func init() {
	LoadConfig()
	initApp(&C)
	initDatabase(&C)
	initDouyin(&C)
	initAI(&C)
	initUpload(&C)
}

func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func initApp(C *Config) {
	if v := os.Getenv("SECRET_KEY"); v != "" {
		C.App.SecretKey = v
	}
	// Port resolution order (env overrides config): APP_PORT -> PORT -> config -> default 8000
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	} else if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	}
	if C.App.Port == 0 {
		C.App.Port = 8000
	}
	if C.App.TokenExpiryMinute == 0 {
		C.App.TokenExpiryMinute = 30
	}
	if C.App.SecretKey == "" {
		logger.GetLogger().Warn("App.SecretKey not set; JWT authentication will fail. Provide SECRET_KEY via environment.")
	}
}

func initDatabase(C *Config) {
	if C.Database.Psql.Name == "" {
		C.Database.Psql.Name = os.Getenv("DB_NAME")
	}
	if C.Database.Psql.Host == "" {
		C.Database.Psql.Host = os.Getenv("DB_HOST")
	}
	if C.Database.Psql.User == "" {
		C.Database.Psql.User = os.Getenv("DB_USER")
	}
	if C.Database.Psql.Password == "" {
		C.Database.Psql.Password = os.Getenv("DB_PASSWORD")
	}
	if C.Database.Psql.Port == "" {
		C.Database.Psql.Port = os.Getenv("DB_PORT")
	}
	if C.Database.Psql.Host == "" {
		C.Database.Psql.Host = "localhost"
	}
	if C.Database.Psql.Port == "" {
		C.Database.Psql.Port = "5432"
	}
	if C.Database.Psql.SSLMode == "" {
		C.Database.Psql.SSLMode = "disable"
	}
}

func initDouyin(C *Config) {
	if v := os.Getenv("DOUYIN_CLIENT_KEY"); v != "" {
		C.Douyin.ClientKey = v
	}
	if v := os.Getenv("DOUYIN_CLIENT_SECRET"); v != "" {
		C.Douyin.ClientSecret = v
	}
	if v := os.Getenv("DOUYIN_REDIRECT_URI"); v != "" {
		C.Douyin.RedirectURI = v
	}
	if C.Douyin.BaseURL == "" {
		C.Douyin.BaseURL = "https://open.douyin.com"
	}
}

func initAI(C *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		C.AI.OpenAIKey = v
	}
	if v := os.Getenv("STABILITY_API_KEY"); v != "" {
		C.AI.StabilityKey = v
	}
}

func initUpload(C *Config) {
	if C.Upload.Dir == "" {
		C.Upload.Dir = "uploads"
	}
	if C.Upload.MaxFileSize == 0 {
		C.Upload.MaxFileSize = 100 * 1024 * 1024
	}
}
