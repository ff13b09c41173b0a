package configuration

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"social-publisher/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	App         App         `json:"app"`
	Database    Database    `json:"database"`
	RedisClient RedisClient `json:"redisClient"`
	Media       Media       `json:"media"`
	Gemini      Gemini      `json:"gemini"`
	Platforms   Platforms   `json:"platforms"`
}

type App struct {
	Port             int    `json:"port"`
	SecretKey        string `json:"secretKey"`
	OperatorUser     string `json:"operatorUser"`
	OperatorPassword string `json:"operatorPassword"`
}

type Database struct {
	Psql  Db `json:"psql"`
	Mssql Db `json:"mssql"`
}

type Db struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
}

type RedisClient struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type Media struct {
	Dir     string `json:"dir"`
	BaseURL string `json:"baseURL"`
}

type Gemini struct {
	APIKey string `json:"apiKey"`
	Model  string `json:"model"`
}

// Retry is the per-platform backoff policy. Zero values fall back to the
// platform defaults applied in initPlatforms.
type Retry struct {
	MaxAttempts         int     `json:"maxAttempts"`
	InitialDelaySeconds int     `json:"initialDelaySeconds"`
	BackoffFactor       float64 `json:"backoffFactor"`
}

func (r Retry) InitialDelay() time.Duration {
	return time.Duration(r.InitialDelaySeconds) * time.Second
}

type Platforms struct {
	Facebook  Facebook  `json:"facebook"`
	Instagram Instagram `json:"instagram"`
	LinkedIn  LinkedIn  `json:"linkedin"`
	WhatsApp  WhatsApp  `json:"whatsapp"`
	TikTok    TikTok    `json:"tiktok"`
}

type Facebook struct {
	PageID      string `json:"pageId"`
	AccessToken string `json:"accessToken"`
	Retry       Retry  `json:"retry"`
}

type Instagram struct {
	AccountID string `json:"accountId"`
	// AccessToken falls back to the Facebook token (same Meta app).
	AccessToken           string `json:"accessToken"`
	ProcessingWaitSeconds int    `json:"processingWaitSeconds"`
	Retry                 Retry  `json:"retry"`
}

type LinkedIn struct {
	AccessToken string `json:"accessToken"`
	Retry       Retry  `json:"retry"`
}

type WhatsApp struct {
	AccountSID string `json:"accountSid"`
	AuthToken  string `json:"authToken"`
	FromNumber string `json:"fromNumber"`
	Retry      Retry  `json:"retry"`
}

type TikTok struct {
	ClientKey    string `json:"clientKey"`
	ClientSecret string `json:"clientSecret"`
	RedirectURI  string `json:"redirectURI"`
	Scopes       string `json:"scopes"`
	Retry        Retry  `json:"retry"`
}

var C Config

func init() {
	LoadConfig()
	initDatabase(&C)
	initApp(&C)
	initPlatforms(&C)
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

	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
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

	// Optional MSSQL config via environment (Azure SQL in production)
	if v := os.Getenv("MSSQL_DB_NAME"); v != "" && C.Database.Mssql.Name == "" {
		C.Database.Mssql.Name = v
	}
	if v := os.Getenv("MSSQL_HOST"); v != "" && C.Database.Mssql.Host == "" {
		C.Database.Mssql.Host = v
	}
	if v := os.Getenv("MSSQL_USER"); v != "" && C.Database.Mssql.User == "" {
		C.Database.Mssql.User = v
	}
	if v := os.Getenv("MSSQL_PASSWORD"); v != "" && C.Database.Mssql.Password == "" {
		C.Database.Mssql.Password = v
	}
	if C.Database.Mssql.Port == "" {
		C.Database.Mssql.Port = os.Getenv("MSSQL_PORT")
	}
	if C.Database.Mssql.Port == "" {
		C.Database.Mssql.Port = "1433"
	}
}

func initApp(C *Config) {
	if v := os.Getenv("SECRET_KEY"); v != "" {
		C.App.SecretKey = v
	}
	if v := os.Getenv("OPERATOR_USER"); v != "" {
		C.App.OperatorUser = v
	}
	if v := os.Getenv("OPERATOR_PASSWORD"); v != "" {
		C.App.OperatorPassword = v
	}
	// Port resolution order (env overrides config): APP_PORT -> PORT -> config -> default 10010
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
		C.App.Port = 10010
	}
	if C.App.SecretKey == "" {
		logger.GetLogger().Warn("App.SecretKey not set; JWT authentication will fail. Provide SECRET_KEY via environment.")
	}
}

// initPlatforms applies env fallbacks (the variable names the original
// deployment used) and the default retry policies.
func initPlatforms(C *Config) {
	p := &C.Platforms

	envDefault(&p.Facebook.PageID, "FACEBOOK_PAGE_ID")
	envDefault(&p.Facebook.AccessToken, "FACEBOOK_ACCESS_TOKEN")
	envDefault(&p.Instagram.AccountID, "INSTAGRAM_ACCOUNT_ID")
	envDefault(&p.Instagram.AccessToken, "INSTAGRAM_ACCESS_TOKEN")
	if p.Instagram.AccessToken == "" {
		p.Instagram.AccessToken = p.Facebook.AccessToken
	}
	envDefault(&p.LinkedIn.AccessToken, "LINKEDIN_ACCESS_TOKEN")
	envDefault(&p.WhatsApp.AccountSID, "TWILIO_ACCOUNT_SID")
	envDefault(&p.WhatsApp.AuthToken, "TWILIO_AUTH_TOKEN")
	envDefault(&p.WhatsApp.FromNumber, "TWILIO_WHATSAPP_FROM")
	envDefault(&p.TikTok.ClientKey, "TIKTOK_CLIENT_KEY")
	envDefault(&p.TikTok.ClientSecret, "TIKTOK_CLIENT_SECRET")
	envDefault(&p.TikTok.RedirectURI, "TIKTOK_REDIRECT_URI")
	if p.TikTok.Scopes == "" {
		p.TikTok.Scopes = "user.info.basic,video.publish,user.info.profile,user.info.stats"
	}

	if p.Instagram.ProcessingWaitSeconds == 0 {
		p.Instagram.ProcessingWaitSeconds = 25
	}

	retryDefault(&p.Facebook.Retry, 3, 2)
	retryDefault(&p.Instagram.Retry, 2, 3)
	retryDefault(&p.LinkedIn.Retry, 3, 2)
	retryDefault(&p.WhatsApp.Retry, 3, 1)
	// TikTok publish is not retried: the upload session is single use.
	retryDefault(&p.TikTok.Retry, 1, 0)

	envDefault(&C.Gemini.APIKey, "GEMINI_API_KEY")
	if C.Gemini.Model == "" {
		C.Gemini.Model = "gemini-flash-latest"
	}
	if C.Media.Dir == "" {
		C.Media.Dir = "media"
	}
}

func envDefault(dst *string, key string) {
	if *dst == "" {
		*dst = os.Getenv(key)
	}
}

func retryDefault(r *Retry, attempts, delaySeconds int) {
	if r.MaxAttempts == 0 {
		r.MaxAttempts = attempts
	}
	if r.InitialDelaySeconds == 0 {
		r.InitialDelaySeconds = delaySeconds
	}
	if r.BackoffFactor == 0 {
		r.BackoffFactor = 2
	}
}
