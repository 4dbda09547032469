package xoutcome

import (
	"errors"
	"fmt"
	"math"

	"github.com/xixiU/monilog-sub001/pkg/observability/xclassify"
)

// 默认配置值。
const (
	DefaultMetricPrefix  = "monilog."
	DefaultMaxTextLength = 2048
)

// Settings 是引擎的只读配置面。
//
// Apply 时整体编译并原子替换，运行中的调用看到的要么是旧配置要么是新配置。
type Settings struct {
	// App、Env 作为 app、env 标签。
	App string `koanf:"app" json:"app"`
	Env string `koanf:"env" json:"env"`

	// Strategy 默认分类策略，为空表示未显式配置（允许 IfSuccess 自动退化）。
	Strategy string `koanf:"strategy" json:"strategy"`

	Paths   PathSettings   `koanf:"paths" json:"paths"`
	Metrics MetricSettings `koanf:"metrics" json:"metrics"`
	Log     LogSettings    `koanf:"log" json:"log"`

	// Sites 调用点规则，按顺序匹配，第一条命中的生效。
	Sites []SiteRule `koanf:"sites" json:"sites"`
}

// PathSettings 全局提取路径列表，为空时使用内置默认列表。
type PathSettings struct {
	Success string `koanf:"success" json:"success"`
	Code    string `koanf:"code" json:"code"`
	Message string `koanf:"message" json:"message"`
}

// MetricSettings 指标输出配置。
type MetricSettings struct {
	Disabled bool   `koanf:"disabled" json:"disabled"`
	Prefix   string `koanf:"prefix" json:"prefix"`
}

// LogSettings 结构化日志配置，过滤与采样只作用于日志，不影响指标。
type LogSettings struct {
	Disabled bool `koanf:"disabled" json:"disabled"`
	// MaxTextLength 入参/出参序列化后的最大字符数，0 表示不截断。
	MaxTextLength int `koanf:"max_text_length" json:"max_text_length" validate:"gte=0"`
	// SuccessSampleRate 成功调用日志的采样率，[0,1]。失败调用总是输出。
	SuccessSampleRate float64        `koanf:"success_sample_rate" json:"success_sample_rate" validate:"gte=0,lte=1"`
	Include           FilterSettings `koanf:"include" json:"include"`
	Exclude           FilterSettings `koanf:"exclude" json:"exclude"`
}

// FilterSettings 日志过滤列表。
type FilterSettings struct {
	Kinds    []string `koanf:"kinds" json:"kinds"`
	Services []string `koanf:"services" json:"services"`
	Actions  []string `koanf:"actions" json:"actions"`
}

// DefaultSettings 返回默认配置。
func DefaultSettings() Settings {
	return Settings{
		Metrics: MetricSettings{Prefix: DefaultMetricPrefix},
		Log: LogSettings{
			MaxTextLength:     DefaultMaxTextLength,
			SuccessSampleRate: 1,
		},
	}
}

// Validate 编译检查全部配置，返回所有问题的合并错误。
func (s Settings) Validate() error {
	_, err := compile(s)
	return err
}

// compiled 是 Settings 编译后的不可变快照。
type compiled struct {
	settings Settings
	gen      uint64
	global   *Site
	sites    []compiledRule
	filter   logFilter
	tagger   TagBuilder
	sampleAt float64
}

func compile(s Settings) (*compiled, error) {
	var errs []error

	policy, err := xclassify.ParsePolicy(s.Strategy)
	if err != nil {
		errs = append(errs, fmt.Errorf("strategy: %w", err))
	}
	rules, err := xclassify.ParseRules(xclassify.DefaultRules(), s.Paths.Success, s.Paths.Code, s.Paths.Message)
	if err != nil {
		errs = append(errs, fmt.Errorf("paths: %w", err))
	}

	rate := s.Log.SuccessSampleRate
	if math.IsNaN(rate) || rate < 0 || rate > 1 {
		errs = append(errs, fmt.Errorf("log.success_sample_rate %v not in [0,1]", rate))
	}
	filter, err := newLogFilter(s.Log.Include, s.Log.Exclude)
	if err != nil {
		errs = append(errs, err)
	}

	c := &compiled{
		settings: s,
		global:   &Site{Policy: policy, Rules: rules},
		filter:   filter,
		tagger:   TagBuilder{App: s.App, Env: s.Env},
		sampleAt: rate,
	}
	for i, r := range s.Sites {
		cr, err := r.compile(c.global)
		if err != nil {
			errs = append(errs, fmt.Errorf("sites[%d]: %w", i, err))
			continue
		}
		c.sites = append(c.sites, cr)
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSettings, errors.Join(errs...))
	}
	return c, nil
}

// metricName 返回 前缀+入口类型。
func (c *compiled) metricName(kind EntryKind) string {
	prefix := c.settings.Metrics.Prefix
	if prefix == "" {
		prefix = DefaultMetricPrefix
	}
	return prefix + kind.String()
}

// resolve 在规则列表中查找第一条命中的规则，未命中返回全局 Site。
func (c *compiled) resolve(k siteKey) *Site {
	for _, r := range c.sites {
		if r.matches(k) {
			return r.site
		}
	}
	return c.global
}
