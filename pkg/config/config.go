package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config 분석 CLI 설정 구조체
type Config struct {
	LLM LLMConfig `yaml:"llm"`
	DB  DBConfig  `yaml:"db"`
	Log LogConfig `yaml:"log"`
}

// LLMConfig LLM 관련 설정
type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

// DBConfig 데이터베이스 관련 설정
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// DSN lib/pq 접속 문자열 생성
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.Name)
}

// LogConfig 로그 관련 설정
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// LoadConfig 지정한 경로에서 설정 로드
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
