package core

import (
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	DatabaseConfig struct {
		Engine        string // postgres | sqlite3
		Host          string
		Port          string
		Name          string // DB name, or file path for sqlite3
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	ServerConfig struct {
		Host            string
		DebugHost       string
		ShutdownTimeout time.Duration
	}

	ReportsConfig struct {
		// DashboardGradeWindow is the number of most recent grades averaged on the dashboard (0: all).
		DashboardGradeWindow int
		DefaultPrecision     int
		GradesPrecision      int
	}

	Config struct {
		AppName          string
		Env              string // DEV (local; default), TEST, QA, PROD
		Build            string
		Debug            bool
		TestMode         bool
		WorkDir          string
		FrontendBaseURL  string
		DefaultFromEmail mail.Address
		RollbarToken     string
		SendgridAPIKey   string

		Server   ServerConfig
		Database DatabaseConfig
		Reports  ReportsConfig
	}
)

func (c DatabaseConfig) Address() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// NewConfig loads the configuration from defaults, `config/.env.<env>` and ENV-prefixed environment variables.
func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "Rapor")
	conf.SetDefault("build", "develop")
	conf.SetDefault("frontendBaseURL", "http://localhost:3000")
	conf.SetDefault("defaultFromEmail", "noreply@localhost")
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("sendgridApiKey", "")
	conf.SetDefault("server.host", ":8000")
	conf.SetDefault("server.debugHost", ":4000")
	conf.SetDefault("server.shutdownTimeout", 5*time.Second)
	conf.SetDefault("database.engine", "postgres")
	conf.SetDefault("database.host", "localhost")
	conf.SetDefault("database.port", "5432")
	conf.SetDefault("database.name", "rapor")
	conf.SetDefault("database.user", "rapor")
	conf.SetDefault("database.password", "rapor")
	conf.SetDefault("database.adminUser", "postgres")
	conf.SetDefault("database.adminPassword", "")
	conf.SetDefault("database.disableTLS", true)
	conf.SetDefault("reports.dashboardGradeWindow", 20)
	conf.SetDefault("reports.precision.default", 1)
	conf.SetDefault("reports.precision.grades", 2)

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	workDir := Getwd()
	dotEnvPath := filepath.Join(workDir, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	appName := conf.GetString("appName")
	return &Config{
		AppName:          appName,
		Env:              env,
		Build:            conf.GetString("build"),
		Debug:            conf.GetBool("debug"),
		TestMode:         conf.GetBool("testMode"),
		WorkDir:          workDir,
		FrontendBaseURL:  conf.GetString("frontendBaseURL"),
		DefaultFromEmail: mail.Address{Name: appName, Address: conf.GetString("defaultFromEmail")},
		RollbarToken:     conf.GetString("rollbarToken"),
		SendgridAPIKey:   conf.GetString("sendgridApiKey"),
		Server: ServerConfig{
			Host:            conf.GetString("server.host"),
			DebugHost:       conf.GetString("server.debugHost"),
			ShutdownTimeout: conf.GetDuration("server.shutdownTimeout"),
		},
		Database: DatabaseConfig{
			Engine:        conf.GetString("database.engine"),
			Host:          conf.GetString("database.host"),
			Port:          conf.GetString("database.port"),
			Name:          conf.GetString("database.name"),
			User:          conf.GetString("database.user"),
			Password:      conf.GetString("database.password"),
			AdminUser:     conf.GetString("database.adminUser"),
			AdminPassword: conf.GetString("database.adminPassword"),
			DisableTLS:    conf.GetBool("database.disableTLS"),
		},
		Reports: ReportsConfig{
			DashboardGradeWindow: conf.GetInt("reports.dashboardGradeWindow"),
			DefaultPrecision:     conf.GetInt("reports.precision.default"),
			GradesPrecision:      conf.GetInt("reports.precision.grades"),
		},
	}
}
