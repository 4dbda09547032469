package xoutcome

import (
	"strings"
)

// logFilter 决定调用记录是否写结构化日志。
//
// 每个维度（入口类型、服务名、动作名）独立判断：
// 命中排除列表即拒绝；包含列表非空时必须命中。排除优先。
type logFilter struct {
	include, exclude filterSet
}

type filterSet struct {
	kinds    map[EntryKind]struct{}
	services map[string]struct{}
	actions  map[string]struct{}
}

func newLogFilter(include, exclude FilterSettings) (logFilter, error) {
	in, err := newFilterSet(include)
	if err != nil {
		return logFilter{}, err
	}
	ex, err := newFilterSet(exclude)
	if err != nil {
		return logFilter{}, err
	}
	return logFilter{include: in, exclude: ex}, nil
}

func newFilterSet(s FilterSettings) (filterSet, error) {
	var fs filterSet
	for _, name := range s.Kinds {
		k, err := ParseEntryKind(name)
		if err != nil {
			return fs, err
		}
		if fs.kinds == nil {
			fs.kinds = make(map[EntryKind]struct{})
		}
		fs.kinds[k] = struct{}{}
	}
	fs.services = toSet(s.Services)
	fs.actions = toSet(s.Actions)
	return fs, nil
}

func toSet(names []string) map[string]struct{} {
	var m map[string]struct{}
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if m == nil {
			m = make(map[string]struct{})
		}
		m[n] = struct{}{}
	}
	return m
}

func (f logFilter) allows(o *CallOutcome) bool {
	return allowed(f.include.kinds, f.exclude.kinds, o.Kind()) &&
		allowed(f.include.services, f.exclude.services, o.Service()) &&
		allowed(f.include.actions, f.exclude.actions, o.Action())
}

func allowed[K comparable](include, exclude map[K]struct{}, v K) bool {
	if _, ok := exclude[v]; ok {
		return false
	}
	if len(include) == 0 {
		return true
	}
	_, ok := include[v]
	return ok
}
