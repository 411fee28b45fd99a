package config

import (
	"time"

	"github.com/spf13/viper"
)

var (
	KeyPagesDirectory = "pages.directory"
	KeyBuildDirectory = "build.directory"
	KeyMediaDirectory = "media.directory"
	KeyLogLevel       = "log.level"
	KeyLocale         = "site.locale"
	KeySiteTitle      = "site.title"
	KeyServeAddress   = "serve.address"
	KeyReadyTimeout   = "editor.ready-timeout"
	KeyVerifyTimeout  = "sync.verify-timeout"
	KeyMaxAttempts    = "sync.max-attempts"
	KeyToolbarMargin  = "canvas.toolbar-margin"
)

// SetDefaults registers the fallback of every key.
func SetDefaults() {
	viper.SetDefault(KeyMediaDirectory, DefaultMediaDirectory())
	viper.SetDefault(KeyLogLevel, DefaultLogLevel())
	viper.SetDefault(KeyLocale, DefaultLocale())
	viper.SetDefault(KeySiteTitle, DefaultSiteTitle())
	viper.SetDefault(KeyServeAddress, DefaultServeAddress())
	viper.SetDefault(KeyReadyTimeout, DefaultReadyTimeout())
	viper.SetDefault(KeyVerifyTimeout, DefaultVerifyTimeout())
	viper.SetDefault(KeyMaxAttempts, DefaultMaxAttempts())
	viper.SetDefault(KeyToolbarMargin, DefaultToolbarMargin())
}

func HasPagesDirectory() bool {
	return viper.IsSet(KeyPagesDirectory)
}

func PagesDirectory() string {
	return viper.GetString(KeyPagesDirectory)
}

func HasBuildDirectory() bool {
	return viper.IsSet(KeyBuildDirectory)
}

func BuildDirectory() string {
	return viper.GetString(KeyBuildDirectory)
}

// MediaDirectory holds images referenced by root-relative paths.
func MediaDirectory() string {
	return viper.GetString(KeyMediaDirectory)
}

func LogLevel() string {
	return viper.GetString(KeyLogLevel)
}

func Locale() string {
	return viper.GetString(KeyLocale)
}

func SiteTitle() string {
	return viper.GetString(KeySiteTitle)
}

func ServeAddress() string {
	return viper.GetString(KeyServeAddress)
}

func ReadyTimeout() time.Duration {
	return positiveDuration(KeyReadyTimeout, DefaultReadyTimeout())
}

func VerifyTimeout() time.Duration {
	return positiveDuration(KeyVerifyTimeout, DefaultVerifyTimeout())
}

func MaxAttempts() int {
	if n := viper.GetInt(KeyMaxAttempts); n > 0 {
		return n
	}

	return DefaultMaxAttempts()
}

func ToolbarMargin() float64 {
	if m := viper.GetFloat64(KeyToolbarMargin); m >= 0 {
		return m
	}

	return DefaultToolbarMargin()
}

func positiveDuration(key string, fallback time.Duration) time.Duration {
	if d := viper.GetDuration(key); d > 0 {
		return d
	}

	return fallback
}

func DefaultMediaDirectory() string {
	return "media"
}

func DefaultLogLevel() string {
	return "info"
}

func DefaultLocale() string {
	return "en_US"
}

func DefaultSiteTitle() string {
	return "Pages"
}

func DefaultServeAddress() string {
	return "localhost:8080"
}

func DefaultReadyTimeout() time.Duration {
	return 10 * time.Second
}

func DefaultVerifyTimeout() time.Duration {
	return 10 * time.Second
}

func DefaultMaxAttempts() int {
	return 3
}

func DefaultToolbarMargin() float64 {
	return 12
}
