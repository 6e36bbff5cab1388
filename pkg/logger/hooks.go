package logger

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

// lineFormatter renders "[time] [LEVEL] [prefix]: message key=value"
type lineFormatter struct {
	colors bool
}

func (f *lineFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	level, ok := entry.Data[tagField].(LogLevel)
	if !ok {
		level = levelFromLogrus(entry.Level)
	}
	prefix, _ := entry.Data[prefixKey].(string)

	var b bytes.Buffer
	b.WriteString("[")
	b.WriteString(entry.Time.Format("2006-01-02 15:04:05"))
	b.WriteString("] [")
	if f.colors {
		b.WriteString(level.Color())
		b.WriteString(level.String())
		b.WriteString(colorReset)
	} else {
		b.WriteString(level.String())
	}
	b.WriteString("] [")
	b.WriteString(prefix)
	b.WriteString("]: ")
	b.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		if k == tagField || k == prefixKey {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, entry.Data[k])
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

func levelFromLogrus(l logrus.Level) LogLevel {
	switch l {
	case logrus.PanicLevel, logrus.FatalLevel:
		return LevelCritical
	case logrus.ErrorLevel:
		return LevelError
	case logrus.WarnLevel:
		return LevelWarn
	case logrus.DebugLevel, logrus.TraceLevel:
		return LevelDebug
	default:
		return LevelInfo
	}
}

// writerHook copies entries of the given levels to a writer without colors
type writerHook struct {
	mu        sync.Mutex
	out       io.Writer
	levels    []logrus.Level
	formatter logrus.Formatter
}

func newWriterHook(out io.Writer, levels []logrus.Level) *writerHook {
	return &writerHook{out: out, levels: levels, formatter: &lineFormatter{}}
}

func (h *writerHook) Levels() []logrus.Level {
	return h.levels
}

func (h *writerHook) Fire(entry *logrus.Entry) error {
	line, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err = h.out.Write(line)
	return err
}

// webhookHook forwards entries to Discord webhooks as embeds.
// Errors go to the error webhook, everything else to the logs webhook.
type webhookHook struct {
	errorURL string
	logsURL  string
	client   *http.Client
}

func newWebhookHook(errorURL, logsURL string) *webhookHook {
	return &webhookHook{
		errorURL: errorURL,
		logsURL:  logsURL,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

func (h *webhookHook) Levels() []logrus.Level {
	return []logrus.Level{logrus.ErrorLevel, logrus.WarnLevel, logrus.InfoLevel}
}

func (h *webhookHook) Fire(entry *logrus.Entry) error {
	level, ok := entry.Data[tagField].(LogLevel)
	if !ok {
		level = levelFromLogrus(entry.Level)
	}
	url := h.logsURL
	if level <= LevelError {
		url = h.errorURL
	}
	if url == "" {
		return nil
	}
	prefix, _ := entry.Data[prefixKey].(string)
	go h.send(url, level, entry.Message, prefix)
	return nil
}

func (h *webhookHook) send(url string, level LogLevel, message, prefix string) {
	embed := map[string]interface{}{
		"title":       fmt.Sprintf("[%s] %s", level.String(), prefix),
		"description": fmt.Sprintf("```%s```", strings.ReplaceAll(message, "```", "'''")),
		"color":       level.DiscordColor(),
		"timestamp":   time.Now().Format(time.RFC3339),
		"footer": map[string]string{
			"text": "💫 Developed by PancyStudio | NoAdsHere Go",
		},
	}

	jsonData, err := json.Marshal(map[string]interface{}{
		"embeds": []interface{}{embed},
	})
	if err != nil {
		return
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return
	}
	defer resp.Body.Close()
}
