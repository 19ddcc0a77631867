package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/grafana/loki-client-go/loki"
	"github.com/prometheus/common/model"
	"github.com/rs/zerolog"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Kargones/handlekit/internal/constants"
	"github.com/Kargones/handlekit/internal/pkg/scope"
)

// openSink строит slog.Handler для одного описания sink-а.
// Возвращаемый Releaser закрывает ресурсы sink-а (файл, клиент Loki).
func openSink(s SinkConfig) (slog.Handler, scope.Releaser, error) {
	if err := s.Validate(); err != nil {
		return nil, nil, err
	}

	switch s.Kind {
	case SinkFile:
		return openFileSink(s)
	case SinkTerminal:
		return openTerminalSink(s)
	case SinkRemote:
		return openRemoteSink(s)
	}
	return nil, nil, fmt.Errorf("unknown sink kind %q", s.Kind)
}

// openFileSink создаёт sink с ротацией на основе lumberjack.
// Автоматически создаёт директорию для файла логов.
// Файл открывается сразу, чтобы ошибка доступа проявилась при построении handle.
func openFileSink(s SinkConfig) (slog.Handler, scope.Releaser, error) {
	dir := filepath.Dir(s.Path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermStandard); err != nil {
			return nil, nil, fmt.Errorf("create log directory %q: %w", dir, err)
		}
	}

	f, err := os.OpenFile(s.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, constants.FilePermLog)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	_ = f.Close() //nolint:errcheck // probe only, lumberjack reopens the file

	lj := newRotator(s)

	enc, err := lookupEncoding(s.Encoding)
	if err != nil {
		return nil, nil, err
	}
	if enc == nil {
		return newFormatHandler(s.Format, lj), lj.Close, nil
	}

	// Записи slog всегда целые строки, поэтому transform.Writer не держит хвостов
	// между вызовами; Close нужен только для завершения трансформера.
	tw := transform.NewWriter(lj, encoding.ReplaceUnsupported(enc.NewEncoder()))
	release := func() error {
		twErr := tw.Close()
		ljErr := lj.Close()
		if twErr != nil {
			return twErr
		}
		return ljErr
	}
	return newFormatHandler(s.Format, tw), release, nil
}

// lookupEncoding возвращает charmap для имени кодировки.
// Для пустого имени и utf-8 возвращает nil (без перекодирования).
func lookupEncoding(name string) (*charmap.Charmap, error) {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "cp1251", "windows-1251":
		return charmap.Windows1251, nil
	case "cp866", "ibm866":
		return charmap.CodePage866, nil
	case "koi8-r", "koi8r":
		return charmap.KOI8R, nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
}

// openTerminalSink создаёт sink для stderr/stdout.
// Формат console рендерится через zerolog.ConsoleWriter: slog пишет JSON,
// ConsoleWriter превращает его в человекочитаемую цветную строку.
func openTerminalSink(s SinkConfig) (slog.Handler, scope.Releaser, error) {
	var out io.Writer = os.Stderr
	if s.Stream == StreamStdout {
		out = os.Stdout
	}

	if strings.EqualFold(s.Format, FormatConsole) {
		cw := zerolog.ConsoleWriter{Out: out, NoColor: s.NoColor, TimeFormat: time.RFC3339}
		return slog.NewJSONHandler(cw, &slog.HandlerOptions{
			Level:       SeverityDebug,
			ReplaceAttr: zerologKeys,
		}), scope.Noop, nil
	}
	return newFormatHandler(s.Format, out), scope.Noop, nil
}

// zerologKeys переименовывает ключи slog в ключи, которые ожидает ConsoleWriter.
func zerologKeys(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return a
	}
	switch a.Key {
	case slog.MessageKey:
		a.Key = zerolog.MessageFieldName
	case slog.LevelKey:
		a.Key = zerolog.LevelFieldName
		if lvl, ok := a.Value.Any().(slog.Level); ok {
			a.Value = slog.StringValue(zerologLevel(lvl))
		}
	case slog.TimeKey:
		a.Key = zerolog.TimestampFieldName
	}
	return a
}

func zerologLevel(l slog.Level) string {
	switch {
	case l >= SeverityError:
		return zerolog.LevelErrorValue
	case l >= SeverityWarn:
		return zerolog.LevelWarnValue
	case l >= SeverityInfo:
		return zerolog.LevelInfoValue
	default:
		return zerolog.LevelDebugValue
	}
}

// openRemoteSink создаёт sink, отправляющий записи в Loki.
// Клиент Loki буферизует записи и отправляет их пачками;
// Releaser останавливает клиент и дожидается отправки буфера.
func openRemoteSink(s SinkConfig) (slog.Handler, scope.Releaser, error) {
	lokiCfg, err := loki.NewDefaultConfig(s.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("prepare loki config: %w", err)
	}
	client, err := loki.New(lokiCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("create loki client: %w", err)
	}

	labels := model.LabelSet{}
	for k, v := range s.Labels {
		labels[model.LabelName(k)] = model.LabelValue(v)
	}
	if len(labels) == 0 {
		labels["app"] = DefaultRemoteApp
	}

	w := &lokiWriter{client: client, labels: labels}
	release := func() error {
		client.Stop()
		return nil
	}
	return newFormatHandler(s.Format, w), release, nil
}

// lokiWriter адаптирует клиент Loki к io.Writer: одна запись slog - одна строка потока.
type lokiWriter struct {
	client *loki.Client
	labels model.LabelSet
}

func (l *lokiWriter) Write(p []byte) (int, error) {
	entry := strings.TrimSpace(string(p))
	if entry == "" {
		return len(p), nil
	}
	err := l.client.Handle(l.labels, time.Now(), entry)
	return len(p), err
}

// newFormatHandler создаёт text или json handler поверх writer.
// Handler принимает все уровни: фильтрация выполняется в fanout.
func newFormatHandler(format string, w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{Level: SeverityDebug}
	if strings.EqualFold(format, FormatJSON) {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// newRotator описывает ротацию file sink-а. MaxBackups=0 и MaxAge=0 у lumberjack
// означают "хранить все" и "без ограничения возраста" и передаются как есть;
// значения по умолчанию подставляет FileSink или di.ProvideLoggingConfig.
// MaxSize=0 lumberjack трактует как 100 MB, здесь он заменяется DefaultMaxSize.
func newRotator(s SinkConfig) *lumberjack.Logger {
	maxSize := s.MaxSize
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &lumberjack.Logger{
		Filename:   s.Path,
		MaxSize:    maxSize, // MB
		MaxBackups: s.MaxBackups,
		MaxAge:     s.MaxAge, // days
		Compress:   s.Compress,
	}
}

