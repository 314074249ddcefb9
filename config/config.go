package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// Config 保存应用程序的全部配置
type Config struct {
	DBHost             string
	DBPort             string
	DBUser             string
	DBPassword         string
	DBName             string
	RunMigrations      bool
	JWTSecret          string
	TokenTTL           time.Duration
	LogLevel           string
	ServerPort         string
	EmailEnabled       bool
	SMTPHost           string
	SMTPPort           int
	SMTPUsername       string
	SMTPPassword       string
	FrontendURL        string
	BackendURL         string
	StorageDriver      string
	LocalStoragePath   string
	S3Region           string
	S3Bucket           string
	GCSProjectID       string
	GCSBucketName      string
	GCSCredentialsFile string
	RateLimitPerMinute int
	RateLimitBurst     int
	Debug              bool
}

// AppConfig 是全局配置变量
var AppConfig Config

// Init 从 .env 与环境变量加载配置
func Init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("警告：无法加载 .env 文件: %v", err)
	}

	AppConfig = Load()
	validateConfig()

	if AppConfig.Debug {
		gin.SetMode(gin.DebugMode)
		log.Println("应用程序运行在调试模式")
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Printf("配置加载完成。数据库：%s:%s，存储：%s", AppConfig.DBHost, AppConfig.DBPort, AppConfig.StorageDriver)
}

// Load 只读取环境变量，不做校验
func Load() Config {
	return Config{
		DBHost:             getEnv("DB_HOST", ""),
		DBPort:             getEnv("DB_PORT", "3306"),
		DBUser:             getEnv("DB_USER", ""),
		DBPassword:         getEnv("DB_PASSWORD", ""),
		DBName:             getEnv("DB_NAME", ""),
		RunMigrations:      getEnvAsBool("RUN_MIGRATIONS", true),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		TokenTTL:           getEnvAsDuration("TOKEN_TTL", 24*time.Hour),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		EmailEnabled:       getEnvAsBool("EMAIL_ENABLED", false),
		SMTPHost:           getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:           getEnvAsInt("SMTP_PORT", 465),
		SMTPUsername:       getEnv("SMTP_USERNAME", ""),
		SMTPPassword:       getEnv("SMTP_PASSWORD", ""),
		FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:5173"),
		BackendURL:         getEnv("BACKEND_URL", "http://localhost:8080"),
		StorageDriver:      getEnv("STORAGE_DRIVER", "local"),
		LocalStoragePath:   getEnv("LOCAL_STORAGE_PATH", "./uploads"),
		S3Region:           getEnv("S3_REGION", "us-west-2"),
		S3Bucket:           getEnv("S3_BUCKET", ""),
		GCSProjectID:       getEnv("GCS_PROJECT_ID", ""),
		GCSBucketName:      getEnv("GCS_BUCKET_NAME", ""),
		GCSCredentialsFile: getEnv("GCS_CREDENTIALS_FILE", ""),
		RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 120),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 30),
		Debug:              getEnvAsBool("DEBUG", false),
	}
}

// MySQLDSN 返回 go-sql-driver/mysql 使用的连接串
func (c Config) MySQLDSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName +
		"?charset=utf8mb4&parseTime=True&loc=UTC&multiStatements=true"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultVal int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	valStr := getEnv(key, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	valStr := getEnv(key, "")
	if d, err := time.ParseDuration(valStr); err == nil {
		return d
	}
	return defaultVal
}

func validateConfig() {
	if AppConfig.DBHost == "" || AppConfig.DBUser == "" || AppConfig.DBName == "" {
		log.Fatal("错误：数据库配置不完整")
	}
	if AppConfig.JWTSecret == "" {
		log.Fatal("错误：JWT密钥未设置")
	}
	if AppConfig.EmailEnabled && (AppConfig.SMTPHost == "" || AppConfig.SMTPUsername == "" || AppConfig.SMTPPassword == "") {
		log.Fatal("错误：SMTP配置不完整")
	}
}
