package xpath

import "errors"

// 路径与表达式解析错误。求值阶段不会返回错误，只会返回"无值"。
var (
	// ErrEmptyPath 表示路径为空字符串。
	ErrEmptyPath = errors.New("xpath: empty path")

	// ErrMissingRoot 表示路径未以根标记 $ 开头。
	ErrMissingRoot = errors.New("xpath: path must start with $")

	// ErrEmptyTraversal 表示路径只有根标记，没有任何访问段。
	ErrEmptyTraversal = errors.New("xpath: path has no traversal after $")

	// ErrSyntax 表示路径语法错误。
	ErrSyntax = errors.New("xpath: syntax error")

	// ErrInvalidCacheSize 表示访问器缓存容量无效。
	ErrInvalidCacheSize = errors.New("xpath: accessor cache size must be greater than 0")
)
