package configuration

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/iota-uz/utils/fs"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/organogram/pkg/logging"
)

const (
	DefaultSeniorSheet = "(final data) senior-staff"
	DefaultJuniorSheet = "(final data) junior-staff"

	DefaultMaxReportingDepth = 100
	maxReportingDepthCeiling = 10000
)

var singleton = sync.OnceValue(func() *Configuration {
	c := &Configuration{}
	if err := c.load([]string{".env", ".env.local"}); err != nil {
		c.Unload()
		panic(err)
	}
	return c
})

func LoadEnv(envFiles []string) (int, error) {
	existingFiles := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if fs.FileExists(file) {
			existingFiles = append(existingFiles, file)
		}
	}
	if len(existingFiles) == 0 {
		return 0, nil
	}
	return len(existingFiles), godotenv.Load(existingFiles...)
}

type SheetOptions struct {
	Senior string `env:"ORGANOGRAM_SENIOR_SHEET" envDefault:"(final data) senior-staff"`
	Junior string `env:"ORGANOGRAM_JUNIOR_SHEET" envDefault:"(final data) junior-staff"`
}

type SourceOptions struct {
	// Organisations whose organogram is always regenerated from the triplestore.
	TriplestoreOrgs []string `env:"ORGANOGRAM_TRIPLESTORE_ORGS" envSeparator:"," envDefault:"Ministry of Defence"`
	// Aggregated sub-publishers; their uploads are superseded by the parent's triplestore data.
	ExcludedUploadOrgs []string `env:"ORGANOGRAM_EXCLUDED_UPLOAD_ORGS" envSeparator:","`
}

type Configuration struct {
	Sheets  SheetOptions
	Sources SourceOptions

	MaxReportingDepth int    `env:"ORGANOGRAM_MAX_REPORTING_DEPTH" envDefault:"100"`
	ReferencesFile    string `env:"ORGANOGRAM_REFERENCES_FILE"`
	MetricsFile       string `env:"ORGANOGRAM_METRICS_FILE"`
	LogLevel          string `env:"LOG_LEVEL" envDefault:"info"`
	LogPath           string `env:"LOG_PATH"`

	logFile *os.File
	logger  *logrus.Logger
}

func (c *Configuration) Logger() *logrus.Logger {
	return c.logger
}

func (c *Configuration) LogrusLogLevel() logrus.Level {
	switch c.LogLevel {
	case "silent":
		return logrus.PanicLevel
	case "error":
		return logrus.ErrorLevel
	case "warn":
		return logrus.WarnLevel
	case "info":
		return logrus.InfoLevel
	case "debug":
		return logrus.DebugLevel
	default:
		return logrus.InfoLevel
	}
}

func Use() *Configuration {
	return singleton()
}

// Load reads the given env files and the process environment into a fresh Configuration.
func Load(envFiles []string) (*Configuration, error) {
	c := &Configuration{}
	if err := c.load(envFiles); err != nil {
		c.Unload()
		return nil, err
	}
	return c, nil
}

func (c *Configuration) load(envFiles []string) error {
	n, err := LoadEnv(envFiles)
	if err != nil {
		return err
	}
	if n == 0 {
		wd, _ := os.Getwd()
		log.Println("No .env files found. Tried:")
		for _, file := range envFiles {
			log.Println(filepath.Join(wd, file))
		}
	}
	if err := env.Parse(c); err != nil {
		return err
	}
	if err := c.validate(); err != nil {
		return err
	}

	f, logger, err := logging.FileLogger(c.LogrusLogLevel(), c.LogPath)
	if err != nil {
		return err
	}
	c.logFile = f
	c.logger = logger
	return nil
}

func (c *Configuration) validate() error {
	if c.MaxReportingDepth < 1 || c.MaxReportingDepth > maxReportingDepthCeiling {
		return fmt.Errorf("invalid ORGANOGRAM_MAX_REPORTING_DEPTH=%d (expected 1..%d)", c.MaxReportingDepth, maxReportingDepthCeiling)
	}

	level := strings.ToLower(strings.TrimSpace(c.LogLevel))
	if level == "" {
		level = "info"
	}
	switch level {
	case "silent", "error", "warn", "info", "debug":
	default:
		return fmt.Errorf("invalid LOG_LEVEL=%q (expected silent|error|warn|info|debug)", c.LogLevel)
	}
	c.LogLevel = level

	if strings.TrimSpace(c.Sheets.Senior) == "" {
		c.Sheets.Senior = DefaultSeniorSheet
	}
	if strings.TrimSpace(c.Sheets.Junior) == "" {
		c.Sheets.Junior = DefaultJuniorSheet
	}
	c.Sources.TriplestoreOrgs = trimAll(c.Sources.TriplestoreOrgs)
	c.Sources.ExcludedUploadOrgs = trimAll(c.Sources.ExcludedUploadOrgs)
	return nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Unload releases the log file, if any.
func (c *Configuration) Unload() {
	if c.logFile != nil {
		if err := c.logFile.Close(); err != nil {
			log.Printf("Failed to close log file: %v", err)
		}
	}
}
