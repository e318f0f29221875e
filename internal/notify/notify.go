package notify

// Level 提示级别
type Level string

// 提示级别常量
const (
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Notifier 瞬态用户提示接口：操作边界捕获的错误通过它呈现给用户，
// 而不是作为错误值向调用方传播
type Notifier interface {
	Notify(level Level, message string)
}

// Func 函数式 Notifier 适配器
type Func func(level Level, message string)

// Notify 实现 Notifier
func (f Func) Notify(level Level, message string) {
	if f != nil {
		f(level, message)
	}
}

// Nop 返回丢弃所有提示的 Notifier
func Nop() Notifier {
	return Func(func(Level, string) {})
}
