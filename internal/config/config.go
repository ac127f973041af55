package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Question-count bounds by convention; Load clamps into this range.
const (
	MinQuestions = 3
	MaxQuestions = 10
)

// Config holds all riskprofiler configuration.
type Config struct {
	Port string `yaml:"port"`

	Survey     SurveyConfig     `yaml:"survey"`
	Generator  GeneratorConfig  `yaml:"generator"`
	Classifier ClassifierConfig `yaml:"classifier"`
}

// SurveyConfig configures the questionnaire lifecycle.
type SurveyConfig struct {
	TotalQuestions  int  `yaml:"total_questions"`
	ContextAnalysis bool `yaml:"context_analysis"`
	// StreamDelayMS is the inter-character delay for streamed question text.
	StreamDelayMS int `yaml:"stream_delay_ms"`
}

// GeneratorConfig configures the Gemini text generator.
type GeneratorConfig struct {
	ModelName string `yaml:"model_name"`
	APIKey    string `yaml:"api_key"`
	// UseMock forces the mock generator even when an API key is set.
	UseMock bool `yaml:"use_mock"`

	QuestionTemperature float32 `yaml:"question_temperature"`
	QuestionMaxTokens   int32   `yaml:"question_max_tokens"`
	AdviceTemperature   float32 `yaml:"advice_temperature"`
	AdviceMaxTokens     int32   `yaml:"advice_max_tokens"`
}

// ClassifierConfig configures the external sentiment classifier endpoint.
// An empty URL leaves the classifier unconfigured; analysis then degrades
// to zero scores.
type ClassifierConfig struct {
	URL            string `yaml:"url"`
	SecondaryURL   string `yaml:"secondary_url"`
	Token          string `yaml:"token"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Default returns the built-in configuration, matching the conventional
// questionnaire settings.
func Default() *Config {
	return &Config{
		Port: "8080",
		Survey: SurveyConfig{
			TotalQuestions:  4,
			ContextAnalysis: true,
			StreamDelayMS:   30,
		},
		Generator: GeneratorConfig{
			ModelName:           "gemini-2.0-flash",
			QuestionTemperature: 0.8,
			QuestionMaxTokens:   150,
			AdviceTemperature:   0.7,
			AdviceMaxTokens:     1024,
		},
		Classifier: ClassifierConfig{
			TimeoutSeconds: 10,
		},
	}
}

// Load builds the config from defaults, an optional YAML file, and env
// overrides, in that precedence order.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	cfg.clamp()

	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	c.Port = getEnv("RISKPROFILER_PORT", c.Port)

	c.Survey.TotalQuestions = getIntEnv("RISKPROFILER_TOTAL_QUESTIONS", c.Survey.TotalQuestions)
	c.Survey.ContextAnalysis = getBoolEnv("RISKPROFILER_CONTEXT_ANALYSIS", c.Survey.ContextAnalysis)
	c.Survey.StreamDelayMS = getIntEnv("RISKPROFILER_STREAM_DELAY_MS", c.Survey.StreamDelayMS)

	c.Generator.ModelName = getEnv("RISKPROFILER_MODEL_NAME", c.Generator.ModelName)
	c.Generator.APIKey = getEnv("GOOGLE_API_KEY", c.Generator.APIKey)
	c.Generator.UseMock = getBoolEnv("RISKPROFILER_USE_MOCK_LLM", c.Generator.UseMock)

	c.Classifier.URL = getEnv("RISKPROFILER_CLASSIFIER_URL", c.Classifier.URL)
	c.Classifier.SecondaryURL = getEnv("RISKPROFILER_SECONDARY_CLASSIFIER_URL", c.Classifier.SecondaryURL)
	c.Classifier.Token = getEnv("RISKPROFILER_CLASSIFIER_TOKEN", c.Classifier.Token)
}

func (c *Config) clamp() {
	if c.Survey.TotalQuestions < MinQuestions {
		c.Survey.TotalQuestions = MinQuestions
	}
	if c.Survey.TotalQuestions > MaxQuestions {
		c.Survey.TotalQuestions = MaxQuestions
	}
	if c.Survey.StreamDelayMS < 0 {
		c.Survey.StreamDelayMS = 0
	}
	if c.Classifier.TimeoutSeconds <= 0 {
		c.Classifier.TimeoutSeconds = 10
	}
}

// StreamDelay returns the inter-character streaming delay as a duration.
func (c *Config) StreamDelay() time.Duration {
	return time.Duration(c.Survey.StreamDelayMS) * time.Millisecond
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v == "1" || v == "true" || v == "TRUE"
}

func getIntEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
