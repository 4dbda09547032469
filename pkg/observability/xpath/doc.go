// Package xpath 提供从任意调用结果中提取值的精简路径表达式。
//
// # 路径
//
// 路径以根标记 $ 开头，支持字段、下标、带引号 key 和零参数访问器调用：
//
//	$.success
//	$.data.items[0].code
//	$['x-request-id']
//	$.isSuccess()
//	$.resp.getCode()
//
// 格式错误在 [ParsePath] 阶段立即失败；求值阶段从不 panic、从不返回错误，
// 任何失败都表现为"无值"（ok == false）。合法的 nil 字段值同样折叠为无值。
//
// 访问器段 name() 先尝试调用：实现 [NamedAccessor] 的值走 Invoke，
// 否则按名称反射查找零参数方法（name、Name、去掉 get/is 前缀的形式）；
// 找不到访问器时退化为同名字段访问。同一条路径因此既能用于普通数据对象，
// 也能用于只暴露 getter 的对象（如 protobuf 消息的 GetCode）。
// 普通字段段同样先问 [NamedAccessor]，Invoke 未找到时才查 map key 或结构体字段。
//
// # 表达式集合
//
// [ExpressionSet] 是逗号分隔的候选列表，每项可带期望值子句：
//
//	$.success,$.code==0,$.status=ok
//
// 按顺序求值，第一个有值的候选胜出。目标类型为布尔且带期望值时，
// 结果是"路径值的字符串形式与期望值忽略大小写比较"的结果。
//
// # 缓存
//
// 反射解析结果（类型+名称 → 字段/方法下标）缓存在显式传入的 [AccessorCache] 中，
// 包内不持有全局可变状态。
package xpath
