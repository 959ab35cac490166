package errors

import "errors"

// ErrNoRowsAffected 条件更新/删除未命中任何记录
// 调用方据此区分"记录不存在或不属于当前用户"与数据库故障
var ErrNoRowsAffected = errors.New("未命中任何记录")
