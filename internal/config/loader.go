package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var durationType = reflect.TypeOf(time.Duration(0))

// Load builds a Config from the environment, filling tag defaults, and
// rejects it if Validate finds problems.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := loadStruct(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}
	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// loadStruct walks v and assigns every field carrying an env tag.
func loadStruct(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fv := v.Field(i)
		if !fv.CanSet() {
			continue
		}

		if field.Type.Kind() == reflect.Struct && field.Type != reflect.TypeOf(time.Time{}) {
			if err := loadStruct(fv); err != nil {
				return err
			}
			continue
		}

		name := field.Tag.Get("env")
		if name == "" {
			continue
		}
		value, err := lookupEnv(field.Tag)
		if err != nil {
			return err
		}
		if value == "" {
			continue
		}
		if err := setField(fv, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", name, value, err)
		}
	}
	return nil
}

// lookupEnv resolves a field's raw value: env, then envAlt, then default.
// An empty result with no error means the field keeps its zero value.
func lookupEnv(tag reflect.StructTag) (string, error) {
	name := tag.Get("env")
	if v := os.Getenv(name); v != "" {
		return v, nil
	}
	if alt := tag.Get("envAlt"); alt != "" {
		if v := os.Getenv(alt); v != "" {
			return v, nil
		}
	}
	if tag.Get("required") == "true" {
		return "", fmt.Errorf("required environment variable %s is not set", name)
	}
	return tag.Get("default"), nil
}

func setField(field reflect.Value, value string) error {
	switch {
	case field.Type() == durationType:
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}
		field.SetInt(int64(d))

	case field.Kind() == reflect.Int || field.Kind() == reflect.Int64:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer: %w", err)
		}
		field.SetInt(n)

	case field.Kind() == reflect.String:
		field.SetString(value)

	case field.Kind() == reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	case field.Kind() == reflect.Slice && field.Type().Elem().Kind() == reflect.String:
		field.Set(reflect.ValueOf(splitList(value)))

	case field.Kind() == reflect.Slice:
		return fmt.Errorf("unsupported slice type: %s", field.Type().Elem().Kind())

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}
	return nil
}

// splitList reads a comma list, dropping blank entries.
func splitList(value string) []string {
	var out []string
	for _, p := range strings.Split(value, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if out == nil {
		out = []string{}
	}
	return out
}

// problems collects validation messages across every config group.
type problems []string

func (p *problems) add(format string, args ...any) {
	*p = append(*p, fmt.Sprintf(format, args...))
}

// Validate reports every invalid setting at once rather than the first.
func (c *Config) Validate() error {
	var p problems

	c.validateDatabase(&p)
	c.validateServer(&p)
	c.validateImport(&p)

	if c.Session.TTL <= 0 {
		p.add("SESSION_TTL must be positive")
	}
	if c.Geocoding.MapboxToken != "" && c.Geocoding.BaseURL == "" {
		p.add("MAPBOX_BASE_URL is required when MAPBOX_ACCESS_TOKEN is set")
	}
	if c.Rate.Enabled && c.Rate.RequestsPerMinute <= 0 {
		p.add("RATE_LIMIT_REQUESTS_PER_MINUTE must be positive when rate limiting is enabled")
	}
	if c.Security.RequireAPIKey && len(c.Security.APIKeys) == 0 {
		p.add("REQUIRE_API_KEY is true but API_KEYS is empty; configure at least one API key or disable auth")
	}

	c.validateLogging(&p)

	if len(p) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(p, "\n  - "))
	}
	return nil
}

func (c *Config) validateDatabase(p *problems) {
	db := c.Database
	switch strings.ToLower(db.Driver) {
	case DriverPostgres:
		if db.URL == "" {
			p.add("DATABASE_URL is required when DB_DRIVER=postgres")
		}
		if db.MaxConns < db.MinConns {
			p.add("DB_MAX_CONNS (%d) must be >= DB_MIN_CONNS (%d)", db.MaxConns, db.MinConns)
		}
		if db.MaxConns <= 0 {
			p.add("DB_MAX_CONNS must be positive")
		}
	case DriverSQLite:
		if db.SQLitePath == "" {
			p.add("SQLITE_PATH is required when DB_DRIVER=sqlite")
		}
	default:
		p.add("DB_DRIVER (%q) must be one of: postgres, sqlite", db.Driver)
	}
}

func (c *Config) validateServer(p *problems) {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		p.add("SERVER_PORT (%d) must be 1-65535", c.Server.Port)
	}
	if c.Server.ReadTimeout < 0 {
		p.add("SERVER_READ_TIMEOUT must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		p.add("SERVER_SHUTDOWN_TIMEOUT must be positive")
	}
}

func (c *Config) validateImport(p *problems) {
	im := c.Import
	positive := []struct {
		name  string
		value int64
	}{
		{"IMPORT_MAX_FILE_SIZE", im.MaxFileSize},
		{"IMPORT_BATCH_SIZE", int64(im.BatchSize)},
		{"IMPORT_PREVIEW_ROWS", int64(im.PreviewRows)},
	}
	for _, f := range positive {
		if f.value <= 0 {
			p.add("%s must be positive", f.name)
		}
	}
	if len(im.Counties) == 0 {
		p.add("IMPORT_ALLOWED_COUNTIES must list at least one county")
	}
	if im.MaxConcurrent <= 0 {
		p.add("IMPORT_MAX_CONCURRENT must be positive")
	}
	if im.Timeout <= 0 {
		p.add("IMPORT_TIMEOUT must be positive")
	}
}

func (c *Config) validateLogging(p *problems) {
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		p.add("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		p.add("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format)
	}
}

// String is the form written to startup logs. Credentials never appear:
// the database URL is replaced and API keys are reported only as a count.
func (c *Config) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Config{Server: {Host: %q, Port: %d}, ", c.Server.Host, c.Server.Port)
	fmt.Fprintf(&b, "Database: {Driver: %q, URL: [MASKED], SQLitePath: %q}, ",
		c.Database.Driver, c.Database.SQLitePath)
	fmt.Fprintf(&b, "Import: {MaxFileSize: %d, BatchSize: %d, Counties: %q}, ",
		c.Import.MaxFileSize, c.Import.BatchSize, c.Import.Counties)
	fmt.Fprintf(&b, "Session: {TTL: %s}, ", c.Session.TTL)
	fmt.Fprintf(&b, "Geocoding: {Enabled: %v}, ", c.Geocoding.MapboxToken != "")
	fmt.Fprintf(&b, "Security: {RequireAPIKey: %v, APIKeys: %d [MASKED]}, ",
		c.Security.RequireAPIKey, len(c.Security.APIKeys))
	fmt.Fprintf(&b, "Logging: {Level: %q, Format: %q}}", c.Logging.Level, c.Logging.Format)
	return b.String()
}
