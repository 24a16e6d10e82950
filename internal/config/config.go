package config

import (
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/authsmoke-io/authsmoke/internal/browser"
)

var (
	cfg  *Config
	once sync.Once
	mu   sync.RWMutex
)

// Config holds every knob of the harness. All values have working
// defaults pointing at the public demo site; a config file or
// AUTHSMOKE_* environment variables override them.
type Config struct {
	Target  TargetConfig  `mapstructure:"target"`
	Browser BrowserConfig `mapstructure:"browser"`
	Output  OutputConfig  `mapstructure:"output"`
}

type TargetConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	LoginPath string `mapstructure:"login_path"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
}

type BrowserConfig struct {
	Name      string        `mapstructure:"name"`
	DriverDir string        `mapstructure:"driver_dir"`
	Headless  bool          `mapstructure:"headless"`
	SlowMo    time.Duration `mapstructure:"slow_mo"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type OutputConfig struct {
	Screenshots   bool   `mapstructure:"screenshots"`
	ScreenshotDir string `mapstructure:"screenshot_dir"`
}

// LoginURL joins the base URL and login path.
func (c *Config) LoginURL() string {
	return strings.TrimSuffix(c.Target.BaseURL, "/") + c.Target.LoginPath
}

// SessionOptions maps the browser section onto browser.Options.
func (c *Config) SessionOptions() browser.Options {
	return browser.Options{
		DriverDir: c.Browser.DriverDir,
		Browser:   c.Browser.Name,
		Headless:  c.Browser.Headless,
		SlowMo:    c.Browser.SlowMo,
		Timeout:   c.Browser.Timeout,
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("target.base_url", "http://the-internet.herokuapp.com")
	v.SetDefault("target.login_path", "/login")
	v.SetDefault("target.username", "tomsmith")
	v.SetDefault("target.password", "SuperSecretPassword!")
	v.SetDefault("browser.name", "chromium")
	v.SetDefault("browser.driver_dir", browser.DefaultDriverDir())
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.slow_mo", time.Duration(0))
	v.SetDefault("browser.timeout", 30*time.Second)
	v.SetDefault("output.screenshots", true)
	v.SetDefault("output.screenshot_dir", filepath.Join("test-results", "screenshots"))
}

// Load reads configuration from defaults, an optional authsmoke.yaml
// in the working directory, and the environment.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("authsmoke")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	v.SetEnvPrefix("AUTHSMOKE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bare names some CI scripts already export.
	_ = v.BindEnv("target.base_url", "AUTHSMOKE_TARGET_BASE_URL", "BASE_URL")
	_ = v.BindEnv("browser.headless", "AUTHSMOKE_BROWSER_HEADLESS", "HEADLESS")
	_ = v.BindEnv("browser.slow_mo", "AUTHSMOKE_BROWSER_SLOW_MO", "SLOW_MO")

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}

	if file := v.ConfigFileUsed(); file != "" {
		v.OnConfigChange(func(e fsnotify.Event) {
			log.Printf("[config] reloading after change to %s", e.Name)
			var next Config
			if err := v.Unmarshal(&next); err != nil {
				log.Printf("[config] reload failed: %v", err)
				return
			}
			mu.Lock()
			cfg = &next
			mu.Unlock()
		})
		v.WatchConfig()
	}

	return &c, nil
}

// Get returns the process-wide configuration, loading it on first use.
// A load failure falls back to defaults so tests can always run.
func Get() *Config {
	once.Do(func() {
		c, err := Load()
		if err != nil {
			log.Printf("[config] load failed, using defaults: %v", err)
			v := viper.New()
			setDefaults(v)
			c = &Config{}
			_ = v.Unmarshal(c)
		}
		mu.Lock()
		cfg = c
		mu.Unlock()
	})
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}

// Reset clears the cached configuration. Intended for tests.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	cfg = nil
	once = sync.Once{}
}
