package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Database      DatabaseConfig      `yaml:"database"`
	RabbitMQ      RabbitMQConfig      `yaml:"rabbitmq"`
	Scrape        ScrapeConfig        `yaml:"scrape"`
	Pipeline      PipelineConfig      `yaml:"pipeline"`
	Orchestration OrchestrationConfig `yaml:"orchestration"`
	Schedule      ScheduleConfig      `yaml:"schedule"`
	LogLevel      string              `yaml:"log_level"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

type RabbitMQConfig struct {
	URL        string `yaml:"url"`
	Exchange   string `yaml:"exchange"`
	RoutingKey string `yaml:"routing_key"`
	QueueName  string `yaml:"queue_name"`
}

// ScrapeConfig covers one adapter invocation: page fetching, bounded retry,
// and the randomized politeness pacing between candidates and pages.
type ScrapeConfig struct {
	PageSize       int           `yaml:"page_size"`
	MaxPages       int           `yaml:"max_pages"`
	HTTPTimeout    time.Duration `yaml:"http_timeout"`
	MaxRetries     int           `yaml:"max_retries"`
	RetryDelay     time.Duration `yaml:"retry_delay"`
	CandidateDelay time.Duration `yaml:"candidate_delay"`
	PageDelay      time.Duration `yaml:"page_delay"`
}

type PipelineConfig struct {
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
}

type OrchestrationConfig struct {
	DelayBetweenTasks  time.Duration `yaml:"delay_between_tasks"`
	MaxRetries         int           `yaml:"max_retries"`
	RetryDelay         time.Duration `yaml:"retry_delay"`
	MaxConcurrentTasks int           `yaml:"max_concurrent_tasks"`
	ProcessImmediately bool          `yaml:"process_immediately"`
	TimeoutPerTask     time.Duration `yaml:"timeout_per_task"`
}

// ScheduleConfig drives the serve command: a recurring orchestration run
// over a fixed task set.
type ScheduleConfig struct {
	Spec        string   `yaml:"spec"` // cron spec, e.g. "@every 6h"
	SearchTerms []string `yaml:"search_terms"`
	Sites       []string `yaml:"sites"`
	MaxPostings int      `yaml:"max_postings"`
}

func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.RabbitMQ.Exchange == "" {
		c.RabbitMQ.Exchange = "jobradar"
	}
	if c.RabbitMQ.RoutingKey == "" {
		c.RabbitMQ.RoutingKey = "jobs"
	}
	if c.RabbitMQ.QueueName == "" {
		c.RabbitMQ.QueueName = "job_events"
	}
	if c.Scrape.PageSize == 0 {
		c.Scrape.PageSize = 10
	}
	if c.Scrape.MaxPages == 0 {
		c.Scrape.MaxPages = 10
	}
	if c.Scrape.HTTPTimeout == 0 {
		c.Scrape.HTTPTimeout = 30 * time.Second
	}
	if c.Scrape.MaxRetries == 0 {
		c.Scrape.MaxRetries = 3
	}
	if c.Scrape.RetryDelay == 0 {
		c.Scrape.RetryDelay = 1 * time.Second
	}
	if c.Scrape.CandidateDelay == 0 {
		c.Scrape.CandidateDelay = 1 * time.Second
	}
	if c.Scrape.PageDelay == 0 {
		c.Scrape.PageDelay = 2 * time.Second
	}
	if c.Pipeline.SimilarityThreshold == 0 {
		c.Pipeline.SimilarityThreshold = 0.7
	}
	if c.Orchestration.DelayBetweenTasks == 0 {
		c.Orchestration.DelayBetweenTasks = 10 * time.Second
	}
	if c.Orchestration.MaxRetries == 0 {
		c.Orchestration.MaxRetries = 3
	}
	if c.Orchestration.RetryDelay == 0 {
		c.Orchestration.RetryDelay = 60 * time.Second
	}
	if c.Orchestration.MaxConcurrentTasks == 0 {
		c.Orchestration.MaxConcurrentTasks = 2
	}
	if c.Orchestration.TimeoutPerTask == 0 {
		c.Orchestration.TimeoutPerTask = 10 * time.Minute
	}
	if c.Schedule.Spec == "" {
		c.Schedule.Spec = "@every 6h"
	}
	if len(c.Schedule.SearchTerms) == 0 {
		c.Schedule.SearchTerms = []string{"python developer"}
	}
	if len(c.Schedule.Sites) == 0 {
		c.Schedule.Sites = []string{"linkedin", "indeed"}
	}
	if c.Schedule.MaxPostings == 0 {
		c.Schedule.MaxPostings = 20
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}
