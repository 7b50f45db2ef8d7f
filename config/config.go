package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is built once at startup and handed to every component constructor.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Paths   PathsConfig   `yaml:"paths"`
	OpenAI  OpenAIConfig  `yaml:"openai"`
	Cohere  CohereConfig  `yaml:"cohere"`
	Script  ScriptConfig  `yaml:"script"`
	Speech  SpeechConfig  `yaml:"speech"`
	Pexels  PexelsConfig  `yaml:"pexels"`
	Music   MusicConfig   `yaml:"music"`
	S3      S3Config      `yaml:"s3"`
	Render  RenderConfig  `yaml:"render"`
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type PathsConfig struct {
	Temp string `yaml:"temp"`
}

type OpenAIConfig struct {
	APIKey             string `yaml:"api_key"`
	BaseURL            string `yaml:"base_url"`
	ChatModel          string `yaml:"chat_model"`
	TranscriptionModel string `yaml:"transcription_model"`
}

type CohereConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// ScriptConfig selects the chat provider: "openai" or "cohere".
type ScriptConfig struct {
	Provider string `yaml:"provider"`
}

type SpeechConfig struct {
	Key              string `yaml:"key"`
	Region           string `yaml:"region"`
	Endpoint         string `yaml:"endpoint"`
	DefaultVoice     string `yaml:"default_voice"`
	DocumentaryVoice string `yaml:"documentary_voice"`
	OutputFormat     string `yaml:"output_format"`
}

type PexelsConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

// MusicConfig maps genres to royalty-free tracks. Values are http(s) or s3:// URLs.
type MusicConfig struct {
	Tracks map[string]string `yaml:"tracks"`
}

// S3Config is only needed when a music track lives in a bucket.
type S3Config struct {
	Region       string `yaml:"region"`
	Profile      string `yaml:"profile"`
	UsePathStyle bool   `yaml:"use_path_style"`
}

type RenderConfig struct {
	Threads           int  `yaml:"threads"`
	KeepIntermediates bool `yaml:"keep_intermediates"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultMusicTracks is the royalty-free track table used when none is configured.
var DefaultMusicTracks = map[string]string{
	"upbeat":      "https://incompetech.com/music/royalty-free/mp3-royaltyfree/Carefree.mp3",
	"calm":        "https://incompetech.com/music/royalty-free/mp3-royaltyfree/Lobby%20Time.mp3",
	"cinematic":   "https://incompetech.com/music/royalty-free/mp3-royaltyfree/Impact%20Moderato.mp3",
	"documentary": "https://incompetech.com/music/royalty-free/mp3-royaltyfree/Touching%20Moments%20Two%20-%20Higher.mp3",
	"educational": "https://incompetech.com/music/royalty-free/mp3-royaltyfree/Inspired.mp3",
}

// Load reads the optional YAML file at path, applies environment overrides
// and fills defaults. A missing file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.Server.Port, "PORT")
	setString(&c.Paths.Temp, "TEMP_DIR")
	setString(&c.OpenAI.APIKey, "OPENAI_API_KEY")
	setString(&c.OpenAI.BaseURL, "OPENAI_BASE_URL")
	setString(&c.Cohere.APIKey, "COHERE_API_KEY")
	setString(&c.Script.Provider, "SCRIPT_PROVIDER")
	setString(&c.Speech.Key, "AZURE_SPEECH_KEY")
	setString(&c.Speech.Region, "AZURE_SPEECH_REGION")
	setString(&c.Speech.Endpoint, "AZURE_SPEECH_ENDPOINT")
	setString(&c.Pexels.APIKey, "PEXELS_API_KEY")
	setString(&c.S3.Region, "S3_REGION")
	setString(&c.S3.Profile, "S3_PROFILE")
	setString(&c.Logging.Level, "LOG_LEVEL")

	if v := strings.TrimSpace(os.Getenv("S3_USE_PATH_STYLE")); v != "" {
		c.S3.UsePathStyle = strings.EqualFold(v, "true")
	}
	if v := strings.TrimSpace(os.Getenv("KEEP_INTERMEDIATES")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Render.KeepIntermediates = b
		}
	}
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

// Validate rejects contradictory settings and fills defaults for the rest.
// External credentials are optional: each component degrades without its key.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Script.Provider) {
	case "":
		c.Script.Provider = "openai"
	case "openai", "cohere":
		c.Script.Provider = strings.ToLower(c.Script.Provider)
	default:
		return fmt.Errorf("script.provider must be openai or cohere, got %q", c.Script.Provider)
	}

	if c.Render.Threads < 0 {
		return fmt.Errorf("render.threads must not be negative")
	}

	if c.Server.Port == "" {
		c.Server.Port = "8000"
	}
	c.Server.Port = strings.TrimPrefix(c.Server.Port, ":")
	if c.Paths.Temp == "" {
		c.Paths.Temp = TempDir
	}
	if c.OpenAI.BaseURL == "" {
		c.OpenAI.BaseURL = "https://api.openai.com/v1"
	}
	c.OpenAI.BaseURL = strings.TrimRight(c.OpenAI.BaseURL, "/")
	if c.OpenAI.ChatModel == "" {
		c.OpenAI.ChatModel = "gpt-4o-mini"
	}
	if c.OpenAI.TranscriptionModel == "" {
		c.OpenAI.TranscriptionModel = "whisper-1"
	}
	if c.Cohere.Model == "" {
		c.Cohere.Model = "command-r"
	}
	if c.Speech.Region == "" {
		c.Speech.Region = "eastus"
	}
	if c.Speech.Endpoint == "" {
		c.Speech.Endpoint = fmt.Sprintf("https://%s.tts.speech.microsoft.com/cognitiveservices/v1", c.Speech.Region)
	}
	if c.Speech.DefaultVoice == "" {
		c.Speech.DefaultVoice = "en-US-JennyNeural"
	}
	if c.Speech.DocumentaryVoice == "" {
		c.Speech.DocumentaryVoice = "en-US-GuyNeural"
	}
	if c.Speech.OutputFormat == "" {
		c.Speech.OutputFormat = "audio-24khz-48kbitrate-mono-mp3"
	}
	if c.Pexels.BaseURL == "" {
		c.Pexels.BaseURL = "https://api.pexels.com"
	}
	c.Pexels.BaseURL = strings.TrimRight(c.Pexels.BaseURL, "/")
	if len(c.Music.Tracks) == 0 {
		c.Music.Tracks = make(map[string]string, len(DefaultMusicTracks))
		for genre, url := range DefaultMusicTracks {
			c.Music.Tracks[genre] = url
		}
	}
	if _, ok := c.Music.Tracks[DefaultGenre]; !ok {
		return fmt.Errorf("music.tracks must include the %q genre", DefaultGenre)
	}
	if c.Render.Threads == 0 {
		c.Render.Threads = RenderThreads
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	return nil
}
