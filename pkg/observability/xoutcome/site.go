package xoutcome

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/xixiU/monilog-sub001/pkg/observability/xclassify"
	"github.com/xixiU/monilog-sub001/pkg/observability/xpath"
)

// SiteRule 按调用点覆盖分类策略、提取路径并声明动态标签。
//
// 匹配字段为空表示通配。未填写的路径列表与策略继承全局配置。
type SiteRule struct {
	Kind        string `koanf:"kind" json:"kind"`
	ServiceType string `koanf:"service_type" json:"service_type"`
	Service     string `koanf:"service" json:"service"`
	Action      string `koanf:"action" json:"action"`

	Strategy     string `koanf:"strategy" json:"strategy"`
	SuccessPaths string `koanf:"success_paths" json:"success_paths"`
	CodePaths    string `koanf:"code_paths" json:"code_paths"`
	MessagePaths string `koanf:"message_paths" json:"message_paths"`

	// Tags 动态标签：标签 key 到表达式列表，
	// 对 {"args": 入参, "result": 出参} 求值。
	Tags map[string]string `koanf:"tags" json:"tags"`
}

// DynamicTag 是编译后的动态标签。
type DynamicTag struct {
	Key  string
	Expr xpath.ExpressionSet
}

// Site 是某个调用点解析后的分类配置。创建后只读。
type Site struct {
	Policy xclassify.Policy
	Rules  xclassify.Rules
	// Tags 按 key 排序，保证标签顺序稳定。
	Tags []DynamicTag
}

type siteKey struct {
	kind        EntryKind
	serviceType string
	service     string
	action      string
}

func (k siteKey) String() string {
	return k.kind.String() + "\x00" + k.serviceType + "\x00" + k.service + "\x00" + k.action
}

type compiledRule struct {
	kind        EntryKind
	anyKind     bool
	serviceType string
	service     string
	action      string
	site        *Site
}

func (r compiledRule) matches(k siteKey) bool {
	return (r.anyKind || r.kind == k.kind) &&
		(r.serviceType == "" || r.serviceType == k.serviceType) &&
		(r.service == "" || r.service == k.service) &&
		(r.action == "" || r.action == k.action)
}

func (r SiteRule) compile(global *Site) (compiledRule, error) {
	cr := compiledRule{
		anyKind:     strings.TrimSpace(r.Kind) == "",
		serviceType: strings.TrimSpace(r.ServiceType),
		service:     strings.TrimSpace(r.Service),
		action:      strings.TrimSpace(r.Action),
	}
	if !cr.anyKind {
		kind, err := ParseEntryKind(r.Kind)
		if err != nil {
			return cr, fmt.Errorf("%w: %w", ErrInvalidSiteRule, err)
		}
		cr.kind = kind
	}

	site := &Site{Policy: global.Policy}
	if strings.TrimSpace(r.Strategy) != "" {
		p, err := xclassify.ParsePolicy(r.Strategy)
		if err != nil {
			return cr, fmt.Errorf("%w: %w", ErrInvalidSiteRule, err)
		}
		site.Policy = p
	}
	rules, err := xclassify.ParseRules(global.Rules, r.SuccessPaths, r.CodePaths, r.MessagePaths)
	if err != nil {
		return cr, fmt.Errorf("%w: %w", ErrInvalidSiteRule, err)
	}
	site.Rules = rules

	for _, key := range slices.Sorted(maps.Keys(r.Tags)) {
		if strings.TrimSpace(key) == "" {
			return cr, fmt.Errorf("%w: blank tag key", ErrInvalidSiteRule)
		}
		expr, err := xpath.ParseExpressionSet(r.Tags[key])
		if err != nil {
			return cr, fmt.Errorf("%w: tag %q: %w", ErrInvalidSiteRule, key, err)
		}
		site.Tags = append(site.Tags, DynamicTag{Key: key, Expr: expr})
	}
	cr.site = site
	return cr, nil
}

// dynamicTags 对动态标签求值，得不到值的标签使用 Placeholder。
func (s *Site) dynamicTags(eval xpath.Evaluator, o *CallOutcome) []string {
	if s == nil || len(s.Tags) == 0 {
		return nil
	}
	root := map[string]any{"args": o.Input(), "result": o.Output()}
	out := make([]string, 0, 2*len(s.Tags))
	for _, t := range s.Tags {
		value := Placeholder
		if v, ok := t.Expr.EvaluateWith(eval, root, xpath.TargetString); ok {
			value = v.String()
		}
		out = append(out, t.Key, value)
	}
	return out
}
