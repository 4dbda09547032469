package xconf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/xixiU/monilog-sub001/pkg/observability/xoutcome"
)

// Format 配置文件格式。
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Load 读取配置文件并返回校验后的 Settings。
// 格式由扩展名决定（.yaml/.yml 或 .json）。
func Load(path string, opts ...Option) (xoutcome.Settings, error) {
	if path == "" {
		return xoutcome.Settings{}, ErrEmptyPath
	}
	format, err := DetectFormat(path)
	if err != nil {
		return xoutcome.Settings{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return xoutcome.Settings{}, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	return Parse(data, format, opts...)
}

// Parse 解析配置数据。
//
// 文件中未出现的字段保留 xoutcome.DefaultSettings() 的值；
// 随后应用 MONILOG_APP、MONILOG_ENV 覆盖，最后做结构校验与编译校验。
// 空数据得到默认配置。
func Parse(data []byte, format Format, opts ...Option) (xoutcome.Settings, error) {
	o := applyOptions(opts)
	k := koanf.New(o.Delim)
	if len(data) > 0 {
		if err := loadData(k, data, format); err != nil {
			return xoutcome.Settings{}, err
		}
	} else if !isValidFormat(format) {
		return xoutcome.Settings{}, ErrUnsupportedFormat
	}

	s := xoutcome.DefaultSettings()
	if err := k.UnmarshalWithConf(o.Prefix, &s, koanf.UnmarshalConf{Tag: o.Tag}); err != nil {
		return xoutcome.Settings{}, fmt.Errorf("%w: %w", ErrUnmarshalFailed, err)
	}
	applyEnv(&s, o.LookupEnv)

	if err := Validate(s); err != nil {
		return xoutcome.Settings{}, err
	}
	return s, nil
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validate 校验 Settings：先按 validate 标签做结构校验，再编译路径与规则。
func Validate(s xoutcome.Settings) error {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func applyEnv(s *xoutcome.Settings, lookup func(string) (string, bool)) {
	if lookup == nil {
		return
	}
	if v, ok := lookup(EnvApp); ok && strings.TrimSpace(v) != "" {
		s.App = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvEnv); ok && strings.TrimSpace(v) != "" {
		s.Env = strings.TrimSpace(v)
	}
}

// DetectFormat 根据文件扩展名检测配置格式。
func DetectFormat(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown extension %q", ErrUnsupportedFormat, ext)
	}
}

func isValidFormat(format Format) bool {
	return format == FormatYAML || format == FormatJSON
}

func loadData(k *koanf.Koanf, data []byte, format Format) error {
	var parser koanf.Parser
	switch format {
	case FormatYAML:
		parser = yaml.Parser()
	case FormatJSON:
		parser = json.Parser()
	default:
		return ErrUnsupportedFormat
	}
	if err := k.Load(rawbytes.Provider(data), parser); err != nil {
		return fmt.Errorf("%w: %w", ErrParseFailed, err)
	}
	return nil
}

// IsInvalid 报告 err 是否为配置校验失败（而非读取或解析失败）。
func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalidConfig)
}
