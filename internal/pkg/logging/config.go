package logging

import (
	"fmt"
	"strings"
)

// Поддерживаемые форматы вывода sink-а.
const (
	FormatJSON    = "json"
	FormatText    = "text"
	FormatConsole = "console"
)

// Поддерживаемые уровни логирования.
const (
	LevelDebug  = "debug"
	LevelInfo   = "info"
	LevelWarn   = "warn"
	LevelError  = "error"
	LevelSilent = "silent"
)

// SinkKind - тип sink-а (тег варианта SinkConfig).
type SinkKind string

// Поддерживаемые типы sink-ов.
const (
	SinkFile     SinkKind = "file"
	SinkTerminal SinkKind = "terminal"
	SinkRemote   SinkKind = "remote"
)

// Потоки terminal sink-а.
const (
	StreamStderr = "stderr"
	StreamStdout = "stdout"
)

// Значения по умолчанию для Config и SinkConfig.
// Единый источник истины - используется в di.ProvideLoggingConfig.
const (
	DefaultLevel      = LevelInfo
	DefaultFormat     = FormatText
	DefaultStream     = StreamStderr
	DefaultMaxSize    = 100 // MB
	DefaultMaxBackups = 3
	DefaultMaxAge     = 7 // days
	DefaultCompress   = true
	DefaultRemoteApp  = "handlekit"
)

// Config - неизменяемое описание logging handle:
// упорядоченный набор sink-ов и минимальный уровень.
//
// Порядок Sinks задаёт порядок fan-out, но не влияет на корректность:
// каждая принятая запись уходит во все sink-и.
type Config struct {
	// Sinks - описания sink-ов. Пустой набор допустим:
	// handle строится с discard sink-ом.
	Sinks []SinkConfig

	// Level - минимальный уровень: "debug", "info", "warn", "error", "silent".
	// По умолчанию: "info". Записи уровня error проходят при любом значении.
	Level string
}

// SinkConfig описывает один sink. Kind определяет, какие поля значимы.
type SinkConfig struct {
	// Kind - тип sink-а: file, terminal, remote.
	Kind SinkKind

	// Format - формат записи: "text", "json" или "console" (только terminal).
	// По умолчанию: "text".
	Format string

	// Path - путь к файлу логов (Kind=file).
	Path string

	// MaxSize - размер файла в MB перед ротацией (Kind=file).
	MaxSize int

	// MaxBackups - количество backup файлов, 0 - хранить все (Kind=file).
	MaxBackups int

	// MaxAge - возраст backup файлов в днях, 0 - без ограничения (Kind=file).
	MaxAge int

	// Compress - сжимать ли backup файлы в gzip (Kind=file).
	Compress bool

	// Encoding - кодировка файла: "" или "utf-8" (без перекодирования),
	// "cp1251", "cp866", "koi8-r" (Kind=file).
	Encoding string

	// Stream - "stderr" или "stdout" (Kind=terminal). По умолчанию: "stderr".
	Stream string

	// NoColor - отключает ANSI-цвета в формате console (Kind=terminal).
	NoColor bool

	// URL - push endpoint Loki, например "http://loki:3100/loki/api/v1/push" (Kind=remote).
	URL string

	// Labels - метки потока Loki (Kind=remote).
	// Пустой набор заменяется на {app="handlekit"}.
	Labels map[string]string
}

// DefaultConfig возвращает Config с одним terminal sink-ом и уровнем info.
func DefaultConfig() Config {
	return Config{
		Sinks: []SinkConfig{TerminalSink(DefaultFormat)},
		Level: DefaultLevel,
	}
}

// TerminalSink возвращает описание terminal sink-а в stderr.
func TerminalSink(format string) SinkConfig {
	return SinkConfig{Kind: SinkTerminal, Format: format, Stream: DefaultStream}
}

// FileSink возвращает описание file sink-а с параметрами ротации по умолчанию.
func FileSink(path string) SinkConfig {
	return SinkConfig{
		Kind:       SinkFile,
		Format:     DefaultFormat,
		Path:       path,
		MaxSize:    DefaultMaxSize,
		MaxBackups: DefaultMaxBackups,
		MaxAge:     DefaultMaxAge,
		Compress:   DefaultCompress,
	}
}

// RemoteSink возвращает описание remote sink-а для Loki.
func RemoteSink(url string, labels map[string]string) SinkConfig {
	return SinkConfig{Kind: SinkRemote, Format: FormatJSON, URL: url, Labels: labels}
}

// Clone возвращает глубокую копию Config. Используется при передаче
// конфигурации во вложенные замыкания без алиасинга исходного значения.
func (c Config) Clone() Config {
	out := Config{Level: c.Level}
	if c.Sinks != nil {
		out.Sinks = make([]SinkConfig, len(c.Sinks))
		for i, s := range c.Sinks {
			out.Sinks[i] = s.clone()
		}
	}
	return out
}

func (s SinkConfig) clone() SinkConfig {
	if s.Labels != nil {
		labels := make(map[string]string, len(s.Labels))
		for k, v := range s.Labels {
			labels[k] = v
		}
		s.Labels = labels
	}
	return s
}

// Validate проверяет описание sink-а без открытия ресурсов.
func (s SinkConfig) Validate() error {
	switch s.Kind {
	case SinkFile:
		if s.Path == "" {
			return fmt.Errorf("file sink: path is required")
		}
		if _, err := lookupEncoding(s.Encoding); err != nil {
			return fmt.Errorf("file sink: %w", err)
		}
	case SinkTerminal:
		switch s.Stream {
		case "", StreamStderr, StreamStdout:
		default:
			return fmt.Errorf("terminal sink: unknown stream %q", s.Stream)
		}
	case SinkRemote:
		if s.URL == "" {
			return fmt.Errorf("remote sink: url is required")
		}
	default:
		return fmt.Errorf("unknown sink kind %q", s.Kind)
	}

	switch strings.ToLower(s.Format) {
	case "", FormatText, FormatJSON:
	case FormatConsole:
		if s.Kind != SinkTerminal {
			return fmt.Errorf("%s sink: format %q is only supported by terminal sinks", s.Kind, s.Format)
		}
	default:
		return fmt.Errorf("%s sink: unknown format %q", s.Kind, s.Format)
	}
	return nil
}
