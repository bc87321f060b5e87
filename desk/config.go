package main

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Mohammad-Mahdi82/NexusCue/api"
	"github.com/Mohammad-Mahdi82/NexusCue/printer"
	"github.com/Mohammad-Mahdi82/NexusCue/receipt"
	"github.com/spf13/viper"
)

// Config holds all desk settings.
type Config struct {
	APIURL      string        `mapstructure:"API_URL"`
	Env         string        `mapstructure:"ENV"`
	LogFile     string        `mapstructure:"LOG_FILE"`
	DBPath      string        `mapstructure:"DB_PATH"`
	HTTPTimeout time.Duration `mapstructure:"HTTP_TIMEOUT"`

	// Printer.
	USBVendorID  uint16 `mapstructure:"USB_VENDOR_ID"`
	USBProductID uint16 `mapstructure:"USB_PRODUCT_ID"`
	SerialPort   string `mapstructure:"SERIAL_PORT"`
	PrintCommand string `mapstructure:"PRINT_COMMAND"`
	DownloadDir  string `mapstructure:"DOWNLOAD_DIR"`

	Shop receipt.Shop `mapstructure:",squash"`
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// PrintCommandArgs splits PRINT_COMMAND, falling back to the platform file opener.
func (c *Config) PrintCommandArgs() []string {
	if args := strings.Fields(c.PrintCommand); len(args) > 0 {
		return args
	}
	return printer.DefaultPrintCommand()
}

// LoadConfig reads config.yaml from dir (or . and ./config) and the
// environment. A missing file is not an error.
func LoadConfig(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir != "" {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()

	v.SetDefault("API_URL", "http://localhost:8080/api")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_FILE", "nexuscue.log")
	v.SetDefault("DB_PATH", besideExecutable("nexuscue.db"))
	v.SetDefault("HTTP_TIMEOUT", api.DefaultTimeout)
	v.SetDefault("USB_VENDOR_ID", printer.DefaultVendorID)
	v.SetDefault("USB_PRODUCT_ID", printer.DefaultProductID)
	v.SetDefault("SERIAL_PORT", "")
	v.SetDefault("PRINT_COMMAND", "")
	v.SetDefault("DOWNLOAD_DIR", downloadDir())
	v.SetDefault("SHOP_NAME", receipt.DefaultShop.Name)
	v.SetDefault("SHOP_ADDRESS", receipt.DefaultShop.Address)
	v.SetDefault("SHOP_PHONE", receipt.DefaultShop.Phone)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func besideExecutable(name string) string {
	exePath, err := os.Executable()
	if err != nil {
		return name
	}
	return filepath.Join(filepath.Dir(exePath), name)
}

func downloadDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Downloads")
}
